// Package random supplies the emulator's source of "undefined" values --
// uninitialised RAM, floating bus reads, and any other place the real
// hardware's behaviour is implementation-defined. Centralising it means
// a single instance can be put into a deterministic mode for tests
// without every caller needing its own seed management.
package random

import "math/rand"

// Random wraps a *rand.Rand with a deterministic override used by
// regression tests.
type Random struct {
	src *rand.Rand

	// ZeroSeed forces every random value to zero. Used by tests and by
	// Instance.Normalise() so that two runs of the same ROM produce
	// identical output.
	ZeroSeed bool
}

// NewRandom creates a Random seeded from seed.
func NewRandom(seed int64) *Random {
	return &Random{src: rand.New(rand.NewSource(seed))}
}

// NewRandomFromTick seeds the generator from a scheduler tick value, so
// that two instances created at different points in a run diverge.
func NewRandomFromTick(tick uint64) *Random {
	return NewRandom(int64(tick))
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *Random) Intn(n int) int {
	if r.ZeroSeed || n <= 0 {
		return 0
	}
	return r.src.Intn(n)
}

// Uint8 returns a pseudo-random byte, used for uninitialised memory
// fills and floating-bus reads.
func (r *Random) Uint8() uint8 {
	if r.ZeroSeed {
		return 0
	}
	return uint8(r.src.Intn(256))
}

// Uint32 returns a pseudo-random 32-bit word.
func (r *Random) Uint32() uint32 {
	if r.ZeroSeed {
		return 0
	}
	return r.src.Uint32()
}

// Fill writes pseudo-random bytes into buf, used to seed main RAM and
// VRAM at power-on the way real hardware's uninitialised SRAM would
// show whatever pattern it powered up in.
func (r *Random) Fill(buf []byte) {
	if r.ZeroSeed {
		for i := range buf {
			buf[i] = 0
		}
		return
	}
	for i := range buf {
		buf[i] = byte(r.src.Intn(256))
	}
}
