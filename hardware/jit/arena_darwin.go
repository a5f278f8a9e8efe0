//go:build darwin

package jit

import "golang.org/x/sys/unix"

// darwinPlatform never holds a static RW+X mapping -- Apple's hardened
// runtime forbids it -- so each slice is its own MAP_JIT mmap, toggled
// writable/executable around each write-then-execute cycle by the
// caller via pthread_jit_write_protect_np (outside this package's
// scope; this only owns the mapping lifetime).
type darwinPlatform struct{}

func newPlatform() platform { return darwinPlatform{} }

func (darwinPlatform) mapArena() ([]byte, error) { return nil, nil }
func (darwinPlatform) unmapArena(mem []byte)      {}

func (darwinPlatform) allocSlice() ([]byte, error) {
	return unix.Mmap(-1, 0, sliceSize,
		unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC,
		unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_JIT)
}

func (darwinPlatform) freeSlice(mem []byte) {
	if mem != nil {
		unix.Munmap(mem)
	}
}
