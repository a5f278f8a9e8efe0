//go:build linux

package jit

import "golang.org/x/sys/unix"

// linuxPlatform maps the whole arena as one static RW+X region and
// carves it into slices by bit-scan -- the policy the spec reserves for
// "non-hardened x86-64"-class targets that still permit RW+X pages.
type linuxPlatform struct{}

func newPlatform() platform { return linuxPlatform{} }

func (linuxPlatform) mapArena() ([]byte, error) {
	return unix.Mmap(-1, 0, ArenaSize,
		unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC,
		unix.MAP_PRIVATE|unix.MAP_ANON)
}

func (linuxPlatform) unmapArena(mem []byte) { unix.Munmap(mem) }

func (linuxPlatform) allocSlice() ([]byte, error) { return nil, nil }
func (linuxPlatform) freeSlice(mem []byte)        {}
