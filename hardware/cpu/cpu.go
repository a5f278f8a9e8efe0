// Package cpu implements the ARM interpreter shared by both of the
// handheld's cores: the ARM7TDMI and the ARM946E-S are
// both ARM architecture cores differing mainly in Thumb/DSP extensions
// and the presence of CP15/TCMs, so one Core type serves both, switched
// by a Capability value, so two independent instances can run side by
// side without duplicating the instruction decoder.
package cpu

import (
	"github.com/kaedeo/dscore/hardware/cpu/registers"
	"github.com/kaedeo/dscore/hardware/interrupt"
)

// Bus is the memory interface a Core executes against. hardware.Console
// binds one per CPU, scoped to that CPU's view of the shared
// MemoryMap (see hardware/memory).
type Bus interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, v uint8)
	Write16(addr uint32, v uint16)
	Write32(addr uint32, v uint32)
}

// Capability distinguishes the two core types.
type Capability struct {
	Name string

	// HasCP15 is true only for the ARM946E-S (ARM9).
	HasCP15 bool

	// HasV5E is true for instructions introduced after ARMv4T that the
	// ARM946E-S supports and the ARM7TDMI does not (CLZ, BLX, count
	// leading zeros forms of the multiply-accumulate family).
	HasV5E bool

	// TicksPerCycle is how many scheduler Ticks (hardware/scheduler)
	// one executed cycle consumes for this core -- 1 for the ARM7, 2
	// for the ARM9 (the ARM9 runs at 2x rate).
	TicksPerCycle uint64
}

var Arm7TDMI = Capability{Name: "ARM7TDMI", TicksPerCycle: 1}
var Arm946ES = Capability{Name: "ARM946E-S", HasCP15: true, HasV5E: true, TicksPerCycle: 2}

// CP15 holds the ARM9's system-control coprocessor state named in
// control word, DTCM/ITCM sizing. Region caches (the third
// documented item) are an implementation detail of the fast-memory
// page table (hardware/memory) rather than state CP15 itself owns, so
// they live there instead of being duplicated here.
type CP15 struct {
	Control  uint32
	DTCMBase uint32
	DTCMSize uint32
	ITCMSize uint32
}

// IntrWaitState is the HLE IntrWait/VBlankIntrWait "discard flags"
// state machine variable that needs a savestate
// home on CpuState since the source keeps it across SWI invocations.
type IntrWaitState struct {
	Active      bool
	DiscardOld  bool
	WantedFlags uint32
}

// Core is one CPU's complete execution state: registers, the two
// memory/interrupt collaborators it needs every step, and the
// capability flags that select ARM9-only behaviour.
type Core struct {
	Regs *registers.File
	Cap  Capability

	bus Bus
	irq *interrupt.Controller

	CP15 CP15

	// Prefetch has two slots, for the instruction at the current PC and
	// the next. flushPipeline zeroes both on reset, entry and every
	// branch; nothing fills them, since stepArm and stepThumb fetch each
	// instruction from the bus directly.
	Prefetch    [2]uint32
	prefetchLen [2]int // 2 for Thumb, 4 for ARM, per slot

	// LocalCycles is CpuState's local cycle counter, expressed in this
	// core's own cycles (the scheduler converts via Cap.TicksPerCycle).
	LocalCycles uint64

	// Interrupted is true for the duration of exception entry, so
	// helper code can skip checks that only make sense for normal
	// instruction flow.
	Interrupted bool

	IntrWait IntrWaitState

	// swiHandler is injected by hardware/bios; nil means "fall through
	// to the real BIOS image at the SWI vector" rather than HLE.
	swiHandler func(c *Core, imm uint8) int
}

// NewCore constructs a Core bound to bus and irq, with the register
// file reset to the documented ARM power-on state (SVC mode, IRQ/FIQ
// disabled, PC at 0).
func NewCore(cap Capability, bus Bus, irq *interrupt.Controller) *Core {
	c := &Core{
		Regs: registers.NewFile(),
		Cap:  cap,
		bus:  bus,
		irq:  irq,
	}
	c.Reset()
	return c
}

// SetSWIHandler installs the HLE BIOS dispatch function (hardware/bios).
func (c *Core) SetSWIHandler(fn func(c *Core, imm uint8) int) { c.swiHandler = fn }

// Bus returns the memory interface this core executes against, for the
// HLE BIOS handler's memory-moving SWIs (CpuSet, LZ77UnCompWram, ...).
func (c *Core) Bus() Bus { return c.bus }

// Reset puts the core into the documented power-on state and flushes
// the prefetch pipeline.
func (c *Core) Reset() {
	c.Regs.SetCPSR(uint32(registers.Supervisor) | registers.FlagI | registers.FlagF)
	for i := 0; i < 15; i++ {
		c.Regs.SetR(i, 0)
	}
	c.Regs.SetPC(0)
	c.LocalCycles = 0
	c.Interrupted = false
	c.IntrWait = IntrWaitState{}
	c.flushPipeline()
}

func (c *Core) flushPipeline() {
	c.Prefetch[0] = 0
	c.Prefetch[1] = 0
}

// SetEntry points the core directly at addr and flushes the prefetch
// pipeline, for a direct-boot loader that skips the BIOS reset vector
// and jumps straight into a loaded binary's own entry point.
func (c *Core) SetEntry(addr uint32) {
	c.Regs.SetPC(addr)
	c.flushPipeline()
}

// Halted reports whether the CPU is parked waiting for an interrupt.
func (c *Core) Halted() bool { return c.irq.Halted() != interrupt.Running }

// Step executes exactly one instruction (or, if halted, advances the
// local clock by one cycle without executing anything) and returns the
// number of cycles it consumed. Interrupt dispatch is checked first:
// a pending, enabled, IME-set interrupt always preempts the next
// instruction.
func (c *Core) Step() int {
	if c.irq.Poll() {
		c.dispatchIRQ()
		return 3
	}

	if c.Halted() {
		c.LocalCycles++
		return 1
	}

	c.Interrupted = false

	var cycles int
	if c.Regs.Thumb() {
		cycles = c.stepThumb()
	} else {
		cycles = c.stepArm()
	}
	c.LocalCycles += uint64(cycles)
	return cycles
}

// dispatchIRQ pushes PC+CPSR into the IRQ mode's banked registers and
// vectors to the IRQ entry point ("on poll success,
// the CPU interpreter pushes current PC+CPSR ... and vectors to the IRQ
// entry; no further work here [in the interrupt controller]").
func (c *Core) dispatchIRQ() {
	c.Interrupted = true
	returnAddr := c.Regs.PC()
	if !c.Regs.Thumb() {
		returnAddr -= 4
	}
	savedCPSR := c.Regs.CPSR()

	c.Regs.SwitchMode(registers.IRQ)
	c.Regs.SetSPSR(savedCPSR)
	c.Regs.SetR(14, returnAddr+4)
	c.Regs.SetFlag(registers.FlagT, false)
	c.Regs.SetFlag(registers.FlagI, true)
	c.Regs.SetPC(irqVector(c.Cap))
	c.flushPipeline()
}

// irqVector returns the IRQ exception vector: the ARM9 uses the
// high-vector alias at 0xFFFF0018 once CP15 remaps vectors there at
// boot (the common NDS configuration); the ARM7 always uses the low
// vector.
func irqVector(cap Capability) uint32 {
	if cap.HasCP15 {
		return 0xFFFF0018
	}
	return 0x00000018
}

// SoftwareInterrupt handles an SWI instruction's immediate field,
// either via the injected HLE handler or (if none is installed) by
// raising the real Supervisor-mode exception.
func (c *Core) SoftwareInterrupt(imm uint8) {
	if c.swiHandler != nil {
		cycles := c.swiHandler(c, imm)
		c.LocalCycles += uint64(cycles)
		return
	}

	returnAddr := c.Regs.PC()
	savedCPSR := c.Regs.CPSR()
	c.Regs.SwitchMode(registers.Supervisor)
	c.Regs.SetSPSR(savedCPSR)
	c.Regs.SetR(14, returnAddr)
	c.Regs.SetFlag(registers.FlagT, false)
	c.Regs.SetFlag(registers.FlagI, true)
	c.Regs.SetPC(0x00000008)
	c.flushPipeline()
}

// Undefined raises the Undefined-instruction exception (
// "undefined instructions raise the Undefined exception; execution
// continues via the UND handler vector").
func (c *Core) Undefined() {
	returnAddr := c.Regs.PC()
	savedCPSR := c.Regs.CPSR()
	c.Regs.SwitchMode(registers.Undefined)
	c.Regs.SetSPSR(savedCPSR)
	c.Regs.SetR(14, returnAddr)
	c.Regs.SetFlag(registers.FlagT, false)
	c.Regs.SetFlag(registers.FlagI, true)
	c.Regs.SetPC(0x00000004)
	c.flushPipeline()
}

// Halt transitions into WaitIRQ, the HLE Halt SWI's target state.
func (c *Core) Halt() { c.irq.Halt(interrupt.WaitIRQ) }

// IntrWaitHalt transitions into WaitIEIF, the IntrWait/VBlankIntrWait
// target state.
func (c *Core) IntrWaitHalt() { c.irq.Halt(interrupt.WaitIEIF) }
