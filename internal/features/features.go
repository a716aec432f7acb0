// Package features exposes the build-time feature toggles.
// Flags are resolved once at startup and never change for the process
// lifetime, so lookups are lock-free reads.
package features

// Flag names.
const (
	Messaging      = "messaging"
	ParentPortal   = "parent_portal"
	LiveScoreboard = "live_scoreboard"
	SeasonSignup   = "season_signup"
)

// Flags holds the resolved feature toggles. Immutable after construction.
type Flags struct {
	values map[string]bool
}

// New builds Flags from raw environment values. A flag is on only when its
// variable is exactly the string "true"; "1", "TRUE" and friends stay off.
func New(messaging, parentPortal, liveScoreboard, seasonSignup string) *Flags {
	return &Flags{
		values: map[string]bool{
			Messaging:      messaging == "true",
			ParentPortal:   parentPortal == "true",
			LiveScoreboard: liveScoreboard == "true",
			SeasonSignup:   seasonSignup == "true",
		},
	}
}

// Enabled returns the flag's value, or false for unrecognized names.
// It never fails.
func (f *Flags) Enabled(name string) bool {
	if f == nil {
		return false
	}
	return f.values[name]
}

// All returns a copy of every known flag and its state, for diagnostics.
func (f *Flags) All() map[string]bool {
	out := make(map[string]bool, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}
