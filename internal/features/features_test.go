package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_StrictTrueOnly(t *testing.T) {
	f := New("true", "TRUE", "1", "")

	assert.True(t, f.Enabled(Messaging))
	assert.False(t, f.Enabled(ParentPortal), "TRUE is not true")
	assert.False(t, f.Enabled(LiveScoreboard), "1 is not true")
	assert.False(t, f.Enabled(SeasonSignup))
}

func TestEnabled_UnknownFlag(t *testing.T) {
	f := New("true", "true", "true", "true")

	assert.False(t, f.Enabled("unknownFlag"))
	assert.False(t, f.Enabled(""))
}

func TestEnabled_NilReceiver(t *testing.T) {
	var f *Flags
	assert.False(t, f.Enabled(Messaging))
}

func TestAll(t *testing.T) {
	f := New("true", "", "", "true")

	all := f.All()
	assert.Len(t, all, 4)
	assert.True(t, all[Messaging])
	assert.False(t, all[ParentPortal])
	assert.True(t, all[SeasonSignup])

	// Mutating the copy must not affect the flags.
	all[ParentPortal] = true
	assert.False(t, f.Enabled(ParentPortal))
}
