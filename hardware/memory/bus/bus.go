// Package bus defines the memory bus interfaces, mirroring the
// teacher's own hardware/memory/bus package. memory.CPUView implements
// BlockCopier. No type in this module implements CPUBus or
// DebuggerBus: their methods return errors, and the MemoryMap and
// CPUView accessors do not.
package bus

// CPUBus is an error-returning byte/halfword/word access interface.
// MemoryMap (whose accessors take a memorymap.Cpu) and CPUView (whose
// accessors return no error) do not implement it.
type CPUBus interface {
	Read8(addr uint32) (uint8, error)
	Read16(addr uint32) (uint16, error)
	Read32(addr uint32) (uint32, error)
	Write8(addr uint32, v uint8) error
	Write16(addr uint32, v uint16) error
	Write32(addr uint32, v uint32) error
}

// BlockCopier is DMA's bulk block-copy path, implemented by
// memory.CPUView (MemoryMap.CopyBlock takes an extra memorymap.Cpu
// argument and does not satisfy it).
type BlockCopier interface {
	// CopyBlock copies n units of the given width (1, 2 or 4 bytes)
	// from src to dst, honouring each address's own read/write
	// semantics (so DMA through MMIO still triggers side effects).
	CopyBlock(dst, src uint32, width, n uint32) error
}

// DebuggerBus is a side-effect-free inspection interface. No type in
// this module implements it.
type DebuggerBus interface {
	Peek8(addr uint32) (uint8, error)
	Poke8(addr uint32, v uint8) error
}

// FastPage is one entry of the JIT fast-memory page table described in
// either a direct (Base, Mask) pair usable for host
// pointer arithmetic, or the zero value (Base == nil) forcing the slow
// MMIO path.
type FastPage struct {
	Base []byte
	Mask uint32
}

// Valid reports whether the page permits direct access.
func (p FastPage) Valid() bool { return p.Base != nil }
