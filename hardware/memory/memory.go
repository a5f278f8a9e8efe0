// Package memory implements the address decode and backing storage
// main RAM, shared/private/new WRAM, VRAM
// banks, BIOS, and an MMIO dispatch window, exposed through per-CPU
// Read/Write methods, CPUView, and the JIT fast-page table.
package memory

import (
	"github.com/kaedeo/dscore/errors"
	"github.com/kaedeo/dscore/hardware/memory/bus"
	"github.com/kaedeo/dscore/hardware/memory/memorymap"
	"github.com/kaedeo/dscore/hardware/memory/vram"
	"github.com/kaedeo/dscore/hardware/memory/wram"
	"github.com/kaedeo/dscore/logger"
)

// MMIOHandler services a single register's worth of MMIO window.
// Components (DMA, timers, IPC, interrupt controllers, cartridge
// engine) register one per address they own; unregistered addresses in
// the 0x0400_0000 window fall through to UnmappedAccess handling.
type MMIOHandler interface {
	ReadMMIO(addr uint32, width int) (uint32, bool)
	WriteMMIO(addr uint32, width int, v uint32) bool
}

// Console is a set of console-model flags. IsDSi is the only one
// defined, and nothing in this package reads it.
type Console int

const (
	IsDSi Console = 1 << iota
)

// MemoryMap is the single owner of every backing buffer. Both CPU
// interpreters hold a *MemoryMap and never allocate or mutate RAM
// outside of it, matching the documented ownership rule.
type MemoryMap struct {
	mainRAM   []byte // 4MiB (NDS) or 16MiB (DSi)
	mainMask  uint32 // mirrors into the 8MiB window

	arm9BIOS []byte // 4KiB, or 64KiB for DSi
	arm7BIOS []byte // 16KiB, or 64KiB for DSi
	arm7WRAM []byte // 64KiB, ARM7-private

	shared  *wram.Shared
	newWRAM *wram.NewWRAM // nil on plain NDS

	vramBanks map[string]*vram.Bank

	// mmio is kept per-CPU: the two cores have independent peripheral
	// instances (separate DMA/timer controllers, separate interrupt
	// controllers) that happen to sit at the same IO offset in each
	// core's own address space.
	mmio [2]map[uint32]MMIOHandler

	dsi bool

	fastArm9 map[uint32]bus.FastPage
	fastArm7 map[uint32]bus.FastPage
}

// New returns a MemoryMap sized for plain NDS (4MiB main RAM, no
// new-WRAM) if dsi is false, or DSi sizing (16MiB main RAM, 256KiB
// new-WRAM, 64KiB BIOS images) if true.
func New(dsi bool) *MemoryMap {
	m := &MemoryMap{
		shared:    wram.NewShared(),
		vramBanks: vram.NewBanks(),
		mmio:      [2]map[uint32]MMIOHandler{make(map[uint32]MMIOHandler), make(map[uint32]MMIOHandler)},
		dsi:       dsi,
		fastArm9:  make(map[uint32]bus.FastPage),
		fastArm7:  make(map[uint32]bus.FastPage),
	}

	if dsi {
		m.mainRAM = make([]byte, 16*1024*1024)
		m.arm9BIOS = make([]byte, 64*1024)
		m.arm7BIOS = make([]byte, 64*1024)
		m.newWRAM = wram.NewNewWRAM()
	} else {
		m.mainRAM = make([]byte, 4*1024*1024)
		m.arm9BIOS = make([]byte, 4*1024)
		m.arm7BIOS = make([]byte, 16*1024)
	}
	m.mainMask = 8*1024*1024 - 1
	m.arm7WRAM = make([]byte, 64*1024)

	return m
}

// LoadBIOS copies data verbatim into the given CPU's BIOS region, per
// Longer-than-expected data is truncated; shorter is
// zero-padded (the rest of the BIOS image stays whatever New()
// allocated it as, i.e. zero).
func (m *MemoryMap) LoadBIOS(cpu memorymap.Cpu, data []byte) {
	var dst []byte
	if cpu == memorymap.Arm9 {
		dst = m.arm9BIOS
	} else {
		dst = m.arm7BIOS
	}
	n := copy(dst, data)
	_ = n
}

// RegisterMMIO attaches handler to every address in [base, base+span)
// of cpu's own IO window.
func (m *MemoryMap) RegisterMMIO(cpu memorymap.Cpu, base, span uint32, handler MMIOHandler) {
	for a := base; a < base+span; a++ {
		m.mmio[cpu][a] = handler
	}
}

// VRAMBank returns the named bank (A-I), or nil if name is not one of
// them.
func (m *MemoryMap) VRAMBank(name string) *vram.Bank { return m.vramBanks[name] }

// SharedWRAM returns the shared-WRAM controller.
func (m *MemoryMap) SharedWRAM() *wram.Shared { return m.shared }

// NewWRAM returns the DSi new-WRAM controller, or nil on plain NDS.
func (m *MemoryMap) NewWRAM() *wram.NewWRAM { return m.newWRAM }

// SetFastPage installs (or clears, with the zero value) a JIT fast-page
// table entry for the given CPU and high-12-bit page index, per
// the fast-path contract. The caller is responsible for
// calling this from the owning thread only, and for doing so whenever
// a remap could invalidate a previously-published pointer (e.g. WRAMCNT
// changes, VRAMCNT changes).
func (m *MemoryMap) SetFastPage(cpu memorymap.Cpu, page uint32, p bus.FastPage) {
	if cpu == memorymap.Arm9 {
		if p.Valid() {
			m.fastArm9[page] = p
		} else {
			delete(m.fastArm9, page)
		}
		return
	}
	if p.Valid() {
		m.fastArm7[page] = p
	} else {
		delete(m.fastArm7, page)
	}
}

// FastPage looks up the fast-memory page table entry for addr on the
// given CPU. Returns the zero value (Valid() == false) if the JIT must
// fall back to the slow MMIO-aware path.
func (m *MemoryMap) FastPage(cpu memorymap.Cpu, addr uint32) bus.FastPage {
	page := addr >> 12
	if cpu == memorymap.Arm9 {
		return m.fastArm9[page]
	}
	return m.fastArm7[page]
}

// --- CPU-facing read/write, per-core ---

// Read8 reads one byte as seen by cpu.
func (m *MemoryMap) Read8(cpu memorymap.Cpu, addr uint32) uint8 {
	region, off := memorymap.Decode(cpu, addr)
	switch region {
	case memorymap.MainRAM:
		return m.mainRAM[off&(uint32(len(m.mainRAM))-1)]
	case memorymap.Arm9BIOS:
		return readAt(m.arm9BIOS, off)
	case memorymap.Arm7BIOS:
		return readAt(m.arm7BIOS, off)
	case memorymap.SharedWRAM:
		return m.readWRAM(cpu, off)
	case memorymap.VRAM:
		return m.readVRAM(off)
	case memorymap.IO:
		v, ok := m.readMMIO(cpu, off, 1)
		if !ok {
			logger.Log("memory", "unmapped IO read at %#08x", addr)
			return 0
		}
		return uint8(v)
	default:
		logger.Log("memory", "unmapped read at %#08x", addr)
		return 0
	}
}

func (m *MemoryMap) readWRAM(cpu memorymap.Cpu, off uint32) uint8 {
	if cpu == memorymap.Arm7 && m.isArm7Private(off) {
		return m.arm7WRAM[off%uint32(len(m.arm7WRAM))]
	}
	if cpu == memorymap.Arm9 {
		return m.shared.ReadArm9(off)
	}
	return m.shared.ReadArm7(off)
}

// isArm7Private distinguishes the ARM7-private 64KiB WRAM (mapped at
// 0x03800000 and up) from the shared 32KiB block (0x03000000-
// 0x037FFFFF) -- both live under the same high nibble.
func (m *MemoryMap) isArm7Private(off uint32) bool {
	return off&0x00FFFFFF >= 0x00800000
}

func (m *MemoryMap) readVRAM(off uint32) uint8 {
	// simplistic bank selection: high byte of the masked offset picks a
	// bank letter in A..I order. Exact GPU-visible windowing is out of
	// scope.
	banks := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	idx := int(off / (128 * 1024))
	if idx >= len(banks) {
		return 0
	}
	b := m.vramBanks[banks[idx]]
	if b == nil {
		return 0
	}
	return b.Read8(off % uint32(b.Len()))
}

func (m *MemoryMap) readMMIO(cpu memorymap.Cpu, off uint32, width int) (uint32, bool) {
	h, ok := m.mmio[cpu][off]
	if !ok {
		return 0, false
	}
	return h.ReadMMIO(off, width)
}

func readAt(buf []byte, off uint32) uint8 {
	if len(buf) == 0 {
		return 0
	}
	return buf[off%uint32(len(buf))]
}

// Read16 and Read32 compose byte reads little-endian, matching real
// hardware's bus width. Unaligned word reads rotate per ARM rules
// that rotation is applied by the CPU interpreter
// itself (it is a property of the load instruction, not of memory), so
// this layer always returns the naturally-aligned value.
func (m *MemoryMap) Read16(cpu memorymap.Cpu, addr uint32) uint16 {
	addr &^= 1
	lo := m.Read8(cpu, addr)
	hi := m.Read8(cpu, addr+1)
	return uint16(lo) | uint16(hi)<<8
}

func (m *MemoryMap) Read32(cpu memorymap.Cpu, addr uint32) uint32 {
	addr &^= 3
	a := uint32(m.Read16(cpu, addr))
	b := uint32(m.Read16(cpu, addr+2))
	return a | b<<16
}

// Write8 writes one byte as seen by cpu. Writes to read-only regions
// (BIOS) are silently discarded.
func (m *MemoryMap) Write8(cpu memorymap.Cpu, addr uint32, v uint8) {
	region, off := memorymap.Decode(cpu, addr)
	switch region {
	case memorymap.MainRAM:
		m.mainRAM[off&(uint32(len(m.mainRAM))-1)] = v
	case memorymap.Arm9BIOS, memorymap.Arm7BIOS:
		// read-only: discard
	case memorymap.SharedWRAM:
		m.writeWRAM(cpu, off, v)
	case memorymap.VRAM:
		m.writeVRAM(off, v)
	case memorymap.IO:
		if !m.writeMMIO(cpu, off, 1, uint32(v)) {
			logger.Log("memory", "unmapped IO write at %#08x", addr)
		}
	default:
		logger.Log("memory", "unmapped write at %#08x", addr)
	}
}

func (m *MemoryMap) writeWRAM(cpu memorymap.Cpu, off uint32, v uint8) {
	if cpu == memorymap.Arm7 && m.isArm7Private(off) {
		m.arm7WRAM[off%uint32(len(m.arm7WRAM))] = v
		return
	}
	if cpu == memorymap.Arm9 {
		m.shared.WriteArm9(off, v)
		return
	}
	m.shared.WriteArm7(off, v)
}

func (m *MemoryMap) writeVRAM(off uint32, v uint8) {
	banks := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	idx := int(off / (128 * 1024))
	if idx >= len(banks) {
		return
	}
	b := m.vramBanks[banks[idx]]
	if b == nil {
		return
	}
	b.Write8(off%uint32(b.Len()), v)
}

func (m *MemoryMap) writeMMIO(cpu memorymap.Cpu, off uint32, width int, v uint32) bool {
	h, ok := m.mmio[cpu][off]
	if !ok {
		return false
	}
	return h.WriteMMIO(off, width, v)
}

func (m *MemoryMap) Write16(cpu memorymap.Cpu, addr uint32, v uint16) {
	addr &^= 1
	m.Write8(cpu, addr, uint8(v))
	m.Write8(cpu, addr+1, uint8(v>>8))
}

func (m *MemoryMap) Write32(cpu memorymap.Cpu, addr uint32, v uint32) {
	addr &^= 3
	m.Write16(cpu, addr, uint16(v))
	m.Write16(cpu, addr+2, uint16(v>>16))
}

// CopyBlock is DMA's bulk copy as seen by cpu (CPUView.CopyBlock wraps
// it as a bus.BlockCopier): copies n units of
// width bytes (1, 2 or 4) from src to dst, honouring each address's
// normal read/write semantics including MMIO side effects.
func (m *MemoryMap) CopyBlock(cpu memorymap.Cpu, dst, src uint32, width uint32, n uint32) error {
	for i := uint32(0); i < n; i++ {
		switch width {
		case 1:
			m.Write8(cpu, dst, m.Read8(cpu, src))
		case 2:
			m.Write16(cpu, dst, m.Read16(cpu, src))
		case 4:
			m.Write32(cpu, dst, m.Read32(cpu, src))
		default:
			return errors.New(errors.InvalidTransferWidth, width)
		}
		dst += width
		src += width
	}
	return nil
}

// MainRAMSlice exposes the backing main-RAM buffer directly, for
// savestate serialization and for JIT fast-page installation.
func (m *MemoryMap) MainRAMSlice() []byte { return m.mainRAM }

// CPUView binds a MemoryMap to one CPU's address-space view, giving it
// the no-argument Read8/Write8-style signature hardware/cpu.Bus and
// DMA/IPC/timer MMIO callers expect, without every caller re-threading
// a memorymap.Cpu value through every access.
type CPUView struct {
	mm  *MemoryMap
	cpu memorymap.Cpu
}

// NewCPUView returns a CPUView for cpu's perspective of mm.
func NewCPUView(mm *MemoryMap, cpu memorymap.Cpu) *CPUView {
	return &CPUView{mm: mm, cpu: cpu}
}

func (v *CPUView) Read8(addr uint32) uint8   { return v.mm.Read8(v.cpu, addr) }
func (v *CPUView) Read16(addr uint32) uint16 { return v.mm.Read16(v.cpu, addr) }
func (v *CPUView) Read32(addr uint32) uint32 { return v.mm.Read32(v.cpu, addr) }

func (v *CPUView) Write8(addr uint32, val uint8)   { v.mm.Write8(v.cpu, addr, val) }
func (v *CPUView) Write16(addr uint32, val uint16) { v.mm.Write16(v.cpu, addr, val) }
func (v *CPUView) Write32(addr uint32, val uint32) { v.mm.Write32(v.cpu, addr, val) }

// CopyBlock performs a DMA-style bulk transfer scoped to this CPU's
// view, honouring every address's normal read/write semantics.
func (v *CPUView) CopyBlock(dst, src, width, n uint32) error {
	return v.mm.CopyBlock(v.cpu, dst, src, width, n)
}
