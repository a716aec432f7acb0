// Package enums defines the canonical string tokens used across competitor
// profiles and provides normalization from free-text form input.
package enums

import (
	"slices"
	"strconv"
	"strings"
)

// Division tokens.
const (
	DivisionMiddleSchool = "middle_school"
	DivisionHighSchool   = "high_school"
	DivisionCollege      = "college"
)

// Divisions contains all valid division values.
var Divisions = []string{DivisionMiddleSchool, DivisionHighSchool, DivisionCollege}

// Genders contains all valid gender values.
var Genders = []string{"male", "female", "non_binary", "prefer_not_to_say", "other"}

// Tracks contains all valid competition track values.
var Tracks = []string{"varsity", "junior_varsity", "club", "exhibition"}

// Races contains all valid race values.
var Races = []string{
	"american_indian_or_alaska_native",
	"asian",
	"black_or_african_american",
	"native_hawaiian_or_pacific_islander",
	"white",
	"two_or_more",
	"prefer_not_to_say",
	"other",
}

// Ethnicities contains all valid ethnicity values.
var Ethnicities = []string{"hispanic_or_latino", "not_hispanic_or_latino", "prefer_not_to_say"}

// DeviceTypes contains all valid device type values.
var DeviceTypes = []string{"chrome_book", "laptop", "desktop", "tablet", "other"}

// Grades contains all valid grade values.
var Grades = []string{"6", "7", "8", "9", "10", "11", "12", "college"}

// specialCases rewrites multi-word phrases whose canonical token is not the
// plain underscore form of the input.
var specialCases = map[string]string{
	"middle school":     DivisionMiddleSchool,
	"high school":       DivisionHighSchool,
	"chromebook":        "chrome_book",
	"chrome book":       "chrome_book",
	"junior varsity":    "junior_varsity",
	"jv":                "junior_varsity",
	"non binary":        "non_binary",
	"nonbinary":         "non_binary",
	"prefer not to say": "prefer_not_to_say",
	"two or more":       "two_or_more",
}

// NormalizeEnumValue maps free-text input to a canonical token: lowercase,
// trim, collapse runs of whitespace/hyphens/underscores to single spaces,
// apply special-case rewrites, then replace spaces with underscores.
// Empty input yields an empty string.
func NormalizeEnumValue(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	lastSep := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '-' || r == '_' {
			if !lastSep {
				b.WriteByte(' ')
				lastSep = true
			}
			continue
		}
		b.WriteRune(r)
		lastSep = false
	}
	s = strings.TrimSpace(b.String())

	if canonical, ok := specialCases[s]; ok {
		return canonical
	}

	return strings.ReplaceAll(s, " ", "_")
}

// NormalizeGrade trims and lowercases a grade string. No further mapping is
// applied; grade tokens are compared as-is against Grades.
func NormalizeGrade(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// DeriveDivisionFromGrade maps a grade to its competition division.
// Adult competitors are always placed in the college division. Grades 6-8 map
// to middle school, 9-12 to high school, and the literal "college" to college.
// Any other value returns ok=false; callers must not guess a default.
func DeriveDivisionFromGrade(grade string, isAdult bool) (string, bool) {
	if isAdult {
		return DivisionCollege, true
	}

	g := NormalizeGrade(grade)
	if g == "" {
		return "", false
	}
	if g == "college" {
		return DivisionCollege, true
	}

	n, err := strconv.Atoi(g)
	if err != nil {
		return "", false
	}
	switch {
	case n >= 6 && n <= 8:
		return DivisionMiddleSchool, true
	case n >= 9 && n <= 12:
		return DivisionHighSchool, true
	default:
		return "", false
	}
}

// IsValidDivision reports whether v is a canonical division token.
func IsValidDivision(v string) bool { return slices.Contains(Divisions, v) }

// IsValidGender reports whether v is a canonical gender token.
func IsValidGender(v string) bool { return slices.Contains(Genders, v) }

// IsValidTrack reports whether v is a canonical track token.
func IsValidTrack(v string) bool { return slices.Contains(Tracks, v) }

// IsValidRace reports whether v is a canonical race token.
func IsValidRace(v string) bool { return slices.Contains(Races, v) }

// IsValidEthnicity reports whether v is a canonical ethnicity token.
func IsValidEthnicity(v string) bool { return slices.Contains(Ethnicities, v) }

// IsValidDeviceType reports whether v is a canonical device type token.
func IsValidDeviceType(v string) bool { return slices.Contains(DeviceTypes, v) }

// IsValidGrade reports whether v is a canonical grade token.
func IsValidGrade(v string) bool { return slices.Contains(Grades, v) }
