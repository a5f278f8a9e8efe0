// Package instance groups the parts of the emulation that vary between
// concurrently-running Console values but are not the Console itself,
// so that running two emulations side by side (e.g. in a regression
// harness) never makes them share mutable package-level state.
package instance

import (
	"github.com/kaedeo/dscore/hardware/preferences"
	"github.com/kaedeo/dscore/random"
)

// Instance holds per-emulator ambient state.
type Instance struct {
	Prefs  *preferences.Preferences
	Random *random.Random
}

// NewInstance is the preferred method of construction. seed is typically
// a host-supplied entropy value (e.g. time.Now().UnixNano()); tests pass
// a fixed seed and then call Normalise.
func NewInstance(seed int64) *Instance {
	return &Instance{
		Prefs:  preferences.NewPreferences(),
		Random: random.NewRandom(seed),
	}
}

// Normalise puts the instance into a known, deterministic default state.
// Used by regression tests so that the initial state is identical on
// every run.
func (ins *Instance) Normalise() {
	ins.Random.ZeroSeed = true
	ins.Prefs.SetDefaults()
	ins.Prefs.DeterministicRNG = true
}
