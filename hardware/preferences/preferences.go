// Package preferences holds the in-memory knobs that change emulation
// behaviour but are not themselves emulated state -- whether the JIT is
// enabled, whether HLE BIOS replaces real BIOS images, and whether RNG
// is deterministic. This package is never persisted to disk: GUI
// configuration persistence is an out-of-scope collaborator, so
// dscore's preferences live only as long as the process that sets them.
package preferences

// Preferences is a plain value bag. All fields have safe zero values.
type Preferences struct {
	// JITEnabled records whether the JIT is switched on. Nothing in
	// this module reads it: there is no translator, so every block runs
	// through the interpreter whatever its value.
	JITEnabled bool

	// HLEBios replaces the real BIOS SWI dispatch with the table in
	// hardware/bios for calls it implements.
	HLEBios bool

	// DeterministicRNG forces random.Random.ZeroSeed, used by
	// regression tests that need two runs to match bit for bit.
	DeterministicRNG bool

	// AudioSampleRate is the audio output rate in stereo S16 frames per
	// second (32768 by default); RunFrame sizes each frame's buffer
	// from it.
	AudioSampleRate int
}

// NewPreferences returns Preferences with sensible defaults: HLE BIOS
// on (preferring HLE unless real BIOS images are supplied), JIT on,
// non-deterministic RNG.
func NewPreferences() *Preferences {
	p := &Preferences{}
	p.SetDefaults()
	return p
}

// SetDefaults resets every field to its default value.
func (p *Preferences) SetDefaults() {
	p.JITEnabled = true
	p.HLEBios = true
	p.DeterministicRNG = false
	p.AudioSampleRate = 32768
}
