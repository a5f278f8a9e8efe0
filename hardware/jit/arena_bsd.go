//go:build netbsd || openbsd

package jit

import "golang.org/x/sys/unix"

// bsdPlatform maps the whole arena once, read/write only. PROT_MPROTECT
// is not requested and nothing in this package makes the mapping
// executable; allocSlice and freeSlice are no-ops.
type bsdPlatform struct{}

func newPlatform() platform { return bsdPlatform{} }

func (bsdPlatform) mapArena() ([]byte, error) {
	return unix.Mmap(-1, 0, ArenaSize,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
}

func (bsdPlatform) unmapArena(mem []byte) {
	if mem != nil {
		unix.Munmap(mem)
	}
}

func (bsdPlatform) allocSlice() ([]byte, error) { return nil, nil }
func (bsdPlatform) freeSlice(mem []byte)        {}
