package bios

import "github.com/kaedeo/dscore/hardware/cpu"

// intrWait implements IntrWait (discardOld=r0, wantedFlags=r1) and
// VBlankIntrWait (equivalent to IntrWait(1, VBlank)): both record their
// arguments on cpu.Core.IntrWait and halt the core in WaitIEIF, so it
// wakes on any enabled pending interrupt. WantedFlags and DiscardOld
// are recorded but not consulted, and only Core.Reset clears
// IntrWait.Active.
func intrWait(c *cpu.Core, vblank bool) int {
	discardOld := c.Regs.R(0) != 0
	wanted := c.Regs.R(1)
	if vblank {
		discardOld = true
		wanted = 1 // VBlank is IE/IF bit 0
	}

	c.IntrWait.Active = true
	c.IntrWait.DiscardOld = discardOld
	c.IntrWait.WantedFlags = wanted
	c.IntrWaitHalt()
	return 0
}

// waitByLoop implements SWI WaitByLoop: a plain busy-wait of r0
// iterations with no hardware effect, used by a handful of titles as a
// fixed-cycle delay instead of a timer.
func waitByLoop(c *cpu.Core) int {
	n := c.Regs.R(0)
	return int(n) * 4
}
