// Package registers implements the ARM register file described in
// the ARM register file: 16 general registers with banked copies per processor
// mode, CPSR, and five banked SPSRs, kept as a dedicated package for
// register storage separate from instruction decode/execute.
package registers

// Mode is one of the ARM processor modes. The numeric values match the
// CPSR mode field encoding so Mode(cpsr&0x1F) is a valid conversion.
type Mode uint32

const (
	User       Mode = 0x10
	FIQ        Mode = 0x11
	IRQ        Mode = 0x12
	Supervisor Mode = 0x13
	Abort      Mode = 0x17
	Undefined  Mode = 0x1B
	System     Mode = 0x1F
)

// CPSR bit positions.
const (
	FlagN uint32 = 1 << 31
	FlagZ uint32 = 1 << 30
	FlagC uint32 = 1 << 29
	FlagV uint32 = 1 << 28
	FlagQ uint32 = 1 << 27
	FlagI uint32 = 1 << 7
	FlagF uint32 = 1 << 6
	FlagT uint32 = 1 << 5
)

// File is the complete register state for one CPU: 16 general-purpose
// registers as currently visible, the banked copies for every mode that
// has them, and CPSR/SPSR.
type File struct {
	// r holds r0..r15 as currently visible (the active mode's banked
	// view, already swapped in).
	r [16]uint32

	cpsr uint32

	// banked copies of r8-r12 (FIQ has its own; every other mode shares
	// commonBank), r13-r14 (every privileged mode) and SPSR (every
	// privileged mode except System/User).
	fiqBank    [5]uint32 // r8-r12, FIQ-only
	commonBank [5]uint32 // r8-r12, shared by every mode but FIQ
	userBank  [2]uint32 // r13-r14 for User/System
	fiqSP     [2]uint32 // r13-r14 for FIQ
	irqSP     [2]uint32
	svcSP     [2]uint32
	abtSP     [2]uint32
	undSP     [2]uint32
	spsrFIQ   uint32
	spsrIRQ   uint32
	spsrSVC   uint32
	spsrABT   uint32
	spsrUND   uint32
}

// NewFile returns a File in User mode with CPSR == User, all registers
// zero.
func NewFile() *File {
	f := &File{}
	f.cpsr = uint32(User)
	return f
}

// R reads general register n (0-15).
func (f *File) R(n int) uint32 { return f.r[n] }

// SetR writes general register n (0-15). Writing r15 is legal at this
// layer (branch handling/pipeline flush is the interpreter's job).
func (f *File) SetR(n int, v uint32) { f.r[n] = v }

// PC returns r15.
func (f *File) PC() uint32 { return f.r[15] }

// SetPC writes r15.
func (f *File) SetPC(v uint32) { f.r[15] = v }

// CPSR returns the current program status register.
func (f *File) CPSR() uint32 { return f.cpsr }

// SetCPSR overwrites CPSR wholesale (used by MSR and by exception
// entry/return); banked-register swap-in is handled by SetMode, which
// callers must invoke if the mode field changed.
func (f *File) SetCPSR(v uint32) { f.cpsr = v }

// Mode returns the current processor mode.
func (f *File) Mode() Mode { return Mode(f.cpsr & 0x1F) }

// Flag reports whether the given CPSR flag bit is set.
func (f *File) Flag(bit uint32) bool { return f.cpsr&bit != 0 }

// SetFlag sets or clears the given CPSR flag bit.
func (f *File) SetFlag(bit uint32, v bool) {
	if v {
		f.cpsr |= bit
	} else {
		f.cpsr &^= bit
	}
}

// Thumb reports whether the T bit is set (Thumb execution state).
func (f *File) Thumb() bool { return f.Flag(FlagT) }

// SwitchMode banks out the registers for the outgoing mode and banks in
// the registers for newMode, then updates CPSR's mode field. This is
// the Go-idiomatic replacement for the union-of-pointers tricks real
// interpreters use to alias banked registers.
func (f *File) SwitchMode(newMode Mode) {
	old := f.Mode()
	if old == newMode {
		return
	}

	f.bankOut(old)
	f.cpsr = (f.cpsr &^ 0x1F) | uint32(newMode)
	f.bankIn(newMode)
}

func (f *File) bankOut(mode Mode) {
	if mode == FIQ {
		copy(f.fiqBank[:], f.r[8:13])
	} else {
		copy(f.commonBank[:], f.r[8:13])
	}

	switch mode {
	case FIQ:
		f.fiqSP[0], f.fiqSP[1] = f.r[13], f.r[14]
	case IRQ:
		f.irqSP[0], f.irqSP[1] = f.r[13], f.r[14]
	case Supervisor:
		f.svcSP[0], f.svcSP[1] = f.r[13], f.r[14]
	case Abort:
		f.abtSP[0], f.abtSP[1] = f.r[13], f.r[14]
	case Undefined:
		f.undSP[0], f.undSP[1] = f.r[13], f.r[14]
	default: // User, System
		f.userBank[0], f.userBank[1] = f.r[13], f.r[14]
	}
}

func (f *File) bankIn(mode Mode) {
	if mode == FIQ {
		copy(f.r[8:13], f.fiqBank[:])
	} else {
		copy(f.r[8:13], f.commonBank[:])
	}

	switch mode {
	case FIQ:
		f.r[13], f.r[14] = f.fiqSP[0], f.fiqSP[1]
	case IRQ:
		f.r[13], f.r[14] = f.irqSP[0], f.irqSP[1]
	case Supervisor:
		f.r[13], f.r[14] = f.svcSP[0], f.svcSP[1]
	case Abort:
		f.r[13], f.r[14] = f.abtSP[0], f.abtSP[1]
	case Undefined:
		f.r[13], f.r[14] = f.undSP[0], f.undSP[1]
	default:
		f.r[13], f.r[14] = f.userBank[0], f.userBank[1]
	}
}

// SPSR returns the saved program status register for the current mode.
// Reading it in User or System mode (which have no SPSR) returns 0.
func (f *File) SPSR() uint32 {
	switch f.Mode() {
	case FIQ:
		return f.spsrFIQ
	case IRQ:
		return f.spsrIRQ
	case Supervisor:
		return f.spsrSVC
	case Abort:
		return f.spsrABT
	case Undefined:
		return f.spsrUND
	default:
		return 0
	}
}

// SetSPSR writes the saved program status register for the current
// mode. A no-op in User/System mode.
func (f *File) SetSPSR(v uint32) {
	switch f.Mode() {
	case FIQ:
		f.spsrFIQ = v
	case IRQ:
		f.spsrIRQ = v
	case Supervisor:
		f.spsrSVC = v
	case Abort:
		f.spsrABT = v
	case Undefined:
		f.spsrUND = v
	}
}
