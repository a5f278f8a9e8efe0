// Package bios implements the HLE BIOS SWI dispatch table installed on
// each core via cpu.Core.SetSWIHandler: the handful of memory-moving,
// arithmetic, and wait SWIs games actually rely on, modeled directly
// against the ARM register conventions (r0-r3 as arguments, r0 as
// return) rather than against any particular BIOS image's machine code.
package bios

import "github.com/kaedeo/dscore/hardware/cpu"

// SWI immediate values this table recognises. Unlisted immediates are a
// no-op returning zero cycles -- the same as an unimplemented BIOS call
// silently falling through on real hardware's unused vector slots.
const (
	swiDivide         = 0x06
	swiSqrt           = 0x08
	swiGetCRC16       = 0x09
	swiHalt           = 0x02
	swiIntrWait       = 0x04
	swiVBlankIntrWait = 0x05
	swiCpuSet         = 0x0B
	swiCpuFastSet     = 0x0C
	swiBitUnPack      = 0x10
	swiLZ77UnComp     = 0x11
	swiHuffUnComp     = 0x13
	swiRLUnComp       = 0x14
	swiDiff8Unfilt    = 0x16
	swiDiff16Unfilt   = 0x18
	swiWaitByLoop     = 0x03
	swiSoundBias      = 0x19
)

// Handler is the function installed via cpu.Core.SetSWIHandler.
func Handler(c *cpu.Core, imm uint8) int {
	switch imm {
	case swiHalt:
		c.Halt()
		return 0
	case swiIntrWait:
		return intrWait(c, false)
	case swiVBlankIntrWait:
		return intrWait(c, true)
	case swiWaitByLoop:
		return waitByLoop(c)
	case swiDivide:
		return divide(c)
	case swiSqrt:
		return sqrt(c)
	case swiGetCRC16:
		return getCRC16(c)
	case swiCpuSet:
		return cpuSet(c)
	case swiCpuFastSet:
		return cpuFastSet(c)
	case swiBitUnPack:
		return bitUnPack(c)
	case swiLZ77UnComp:
		return lz77UnComp(c)
	case swiHuffUnComp:
		return huffUnComp(c)
	case swiRLUnComp:
		return rlUnComp(c)
	case swiDiff8Unfilt:
		return diffUnfilt(c, 1)
	case swiDiff16Unfilt:
		return diffUnfilt(c, 2)
	case swiSoundBias:
		return 0 // ARM7-only audio ramp; no audio mixer to bias here
	default:
		return 0
	}
}
