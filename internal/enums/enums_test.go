package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEnumValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"simple lowercase", "varsity", "varsity"},
		{"uppercase", "VARSITY", "varsity"},
		{"middle school phrase", "Middle School", "middle_school"},
		{"middle school hyphenated", "middle-school", "middle_school"},
		{"middle school underscored", "MIDDLE_SCHOOL", "middle_school"},
		{"high school", "High School", "high_school"},
		{"chromebook one word", "chromebook", "chrome_book"},
		{"chrome book two words", "Chrome Book", "chrome_book"},
		{"collapsed internal runs", "prefer   not-to__say", "prefer_not_to_say"},
		{"junior varsity", "Junior Varsity", "junior_varsity"},
		{"jv shorthand", "JV", "junior_varsity"},
		{"non binary", "Non-Binary", "non_binary"},
		{"unmapped phrase gets underscores", "two or more", "two_or_more"},
		{"unknown value passes through", "Space Cadet", "space_cadet"},
		{"surrounding whitespace", "  laptop  ", "laptop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEnumValue(tt.input))
		})
	}
}

func TestNormalizeGrade(t *testing.T) {
	assert.Equal(t, "9", NormalizeGrade(" 9 "))
	assert.Equal(t, "college", NormalizeGrade("College"))
	assert.Equal(t, "", NormalizeGrade(""))
	// No special-case rewriting for grades.
	assert.Equal(t, "middle school", NormalizeGrade("Middle School"))
}

func TestDeriveDivisionFromGrade(t *testing.T) {
	for _, g := range []string{"6", "7", "8"} {
		div, ok := DeriveDivisionFromGrade(g, false)
		assert.True(t, ok, "grade %s", g)
		assert.Equal(t, DivisionMiddleSchool, div, "grade %s", g)
	}

	for _, g := range []string{"9", "10", "11", "12"} {
		div, ok := DeriveDivisionFromGrade(g, false)
		assert.True(t, ok, "grade %s", g)
		assert.Equal(t, DivisionHighSchool, div, "grade %s", g)
	}

	div, ok := DeriveDivisionFromGrade("college", false)
	assert.True(t, ok)
	assert.Equal(t, DivisionCollege, div)

	// Adults land in college regardless of the grade value.
	div, ok = DeriveDivisionFromGrade("7", true)
	assert.True(t, ok)
	assert.Equal(t, DivisionCollege, div)

	div, ok = DeriveDivisionFromGrade("", true)
	assert.True(t, ok)
	assert.Equal(t, DivisionCollege, div)

	for _, g := range []string{"13", "5", "0", "-1", "", "abc", "8.5"} {
		div, ok := DeriveDivisionFromGrade(g, false)
		assert.False(t, ok, "grade %q", g)
		assert.Equal(t, "", div, "grade %q", g)
	}
}

func TestMembershipPredicates(t *testing.T) {
	assert.True(t, IsValidDivision("middle_school"))
	assert.False(t, IsValidDivision("middle school"))
	assert.True(t, IsValidDeviceType("chrome_book"))
	assert.False(t, IsValidDeviceType("chromebook"))
	assert.True(t, IsValidGrade("12"))
	assert.False(t, IsValidGrade("13"))
	assert.True(t, IsValidTrack("junior_varsity"))
	assert.False(t, IsValidGender(""))
}

func TestNormalizeThenValidate(t *testing.T) {
	// Form input must normalize into the canonical set, never a new token.
	for raw, valid := range map[string]bool{
		"Middle School": true,
		"Chromebook":    false, // device token, not a division
		"High-School":   true,
		"College":       true,
		"Kindergarten":  false,
	} {
		assert.Equal(t, valid, IsValidDivision(NormalizeEnumValue(raw)), "input %q", raw)
	}
}
