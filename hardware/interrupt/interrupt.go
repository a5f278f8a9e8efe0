// Package interrupt implements the per-CPU interrupt controller from
// IME/IE/IF masks, halt-until-IRQ wake, and the DSi ARM7
// extended IE2/IF2 source word.
package interrupt

// HaltState is CpuState.halted.
type HaltState int

const (
	Running HaltState = iota
	WaitIRQ
	WaitIEIF
)

// Controller is one CPU's interrupt controller. The ARM9 controller
// never uses the *2 fields; the DSi ARM7 controller uses them for its
// extended source set (Wifi, NDMA and other DSi-only sources beyond bit
// 31 of the classic IE/IF word).
type Controller struct {
	ime bool
	ie  uint32
	if_ uint32

	ie2  uint32
	if2  uint32
	ext  bool // true for the DSi ARM7 extended controller

	halted HaltState

	// wake is called (if non-nil) whenever Raise transitions Running to
	// no-longer-halted, so the owning CpuState can clear its halted
	// field and the CPU interpreter can resume dispatch on its next
	// step. Kept as a callback rather than a direct CpuState reference
	// to avoid an import cycle between interrupt and cpu.
	wake func()
}

// New returns a Controller for the classic (non-extended) IE/IF word.
func New() *Controller {
	return &Controller{}
}

// NewExtended returns a Controller that also tracks the DSi ARM7 IE2/IF2
// pair.
func NewExtended() *Controller {
	return &Controller{ext: true}
}

// OnWake registers the callback invoked when a Raise() wakes a halted
// CPU.
func (c *Controller) OnWake(fn func()) { c.wake = fn }

// SetIME sets the master interrupt enable bit (IME register).
func (c *Controller) SetIME(v bool) { c.ime = v }

// IME returns the master interrupt enable bit.
func (c *Controller) IME() bool { return c.ime }

// SetIE sets the IE register (which sources are enabled).
func (c *Controller) SetIE(mask uint32) { c.ie = mask }

// IE returns the IE register.
func (c *Controller) IE() uint32 { return c.ie }

// IF returns the IF register (pending sources).
func (c *Controller) IF() uint32 { return c.if_ }

// SetIE2/IF2 are valid only on an extended controller; they are no-ops
// otherwise.
func (c *Controller) SetIE2(mask uint32) {
	if c.ext {
		c.ie2 = mask
	}
}
func (c *Controller) IE2() uint32 { return c.ie2 }
func (c *Controller) IF2() uint32 { return c.if2 }

// Raise sets bit in IF (or IF2, for ext >= 32 sources expressed as
// bit+32) and wakes the CPU if it is halted on that source or halted
// unconditionally.
func (c *Controller) Raise(bit uint) {
	var newlyPending bool
	if c.ext && bit >= 32 {
		b := uint32(1) << (bit - 32)
		if c.if2&b == 0 {
			newlyPending = true
		}
		c.if2 |= b
	} else {
		b := uint32(1) << bit
		if c.if_&b == 0 {
			newlyPending = true
		}
		c.if_ |= b
	}
	if !newlyPending {
		return
	}

	switch c.halted {
	case WaitIRQ:
		c.halted = Running
		if c.wake != nil {
			c.wake()
		}
	case WaitIEIF:
		if c.ie&c.if_ != 0 || (c.ext && c.ie2&c.if2 != 0) {
			c.halted = Running
			if c.wake != nil {
				c.wake()
			}
		}
	}
}

// Acknowledge clears the bits the program writes to IF (write-1-to-clear
// semantics, as on real hardware).
func (c *Controller) Acknowledge(mask uint32) { c.if_ &^= mask }

// AcknowledgeExt clears bits in IF2.
func (c *Controller) AcknowledgeExt(mask uint32) {
	if c.ext {
		c.if2 &^= mask
	}
}

// Poll reports whether the CPU should take an IRQ exception right now:
// IME set and at least one enabled source pending.
func (c *Controller) Poll() bool {
	if !c.ime {
		return false
	}
	if c.ie&c.if_ != 0 {
		return true
	}
	if c.ext && c.ie2&c.if2 != 0 {
		return true
	}
	return false
}

// Halt transitions the controller (and by extension its CPU) into the
// given wait state. Halting while a wake condition already holds is a
// no-op: the CPU observes itself as still Running.
func (c *Controller) Halt(state HaltState) {
	switch state {
	case WaitIRQ:
		if c.ie&c.if_ != 0 || (c.ext && c.ie2&c.if2 != 0) {
			return
		}
	case WaitIEIF:
		if c.ie&c.if_ != 0 || (c.ext && c.ie2&c.if2 != 0) {
			return
		}
	}
	c.halted = state
}

// Halted returns the CPU's current halt state.
func (c *Controller) Halted() HaltState { return c.halted }

// Resume forces the controller back to Running, used when the CPU
// interpreter handles wake itself (e.g. via the callback) and needs to
// clear the state explicitly.
func (c *Controller) Resume() { c.halted = Running }
