// Package clocks defines the constant values that establish the
// relationship between the scheduler's Tick unit and the two CPU
// clocks.
//
// The exact tick convention is settled here: a Tick is one ARM7
// cycle, and the ARM9 interpreter advances its local cycle counter
// by two Ticks per ARM9 cycle it executes (ARM9 runs at twice the ARM7
// clock). This mirrors the convention melonDS itself uses internally
// (ARM9 timestamps are kept in "2x" units relative to ARM7).
package clocks

const (
	// Arm7Hz is the ARM7TDMI clock rate in Hz on NDS/DSi hardware.
	Arm7Hz = 33513982

	// Arm9Hz is the ARM946E-S clock rate; exactly double the ARM7 rate.
	Arm9Hz = Arm7Hz * 2

	// Arm9TicksPerCycle is how many scheduler Ticks one ARM9 cycle
	// consumes, given Tick == one ARM7 cycle.
	Arm9TicksPerCycle = 2

	// Arm7TicksPerCycle is how many scheduler Ticks one ARM7 cycle
	// consumes.
	Arm7TicksPerCycle = 1

	// TicksPerSecond is the scheduler's tick rate (equal to Arm7Hz given
	// the convention above).
	TicksPerSecond = Arm7Hz

	// FrameTicks is the nominal number of Ticks per emulated video
	// frame, derived from the 59.8260 Hz NDS refresh rate.
	FrameTicks = uint64(TicksPerSecond * 10000 / 598260)
)
