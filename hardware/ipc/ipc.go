// Package ipc implements the inter-processor communication link
// between the two CPUs: the IPCSYNC nibble-exchange register and the
// two 16-deep IPCFIFOCNT-controlled word queues, one per direction.
package ipc

import "github.com/kaedeo/dscore/hardware/interrupt"

// Side identifies which CPU a queue/register belongs to.
type Side int

const (
	Arm9 Side = iota
	Arm7
)

func other(s Side) Side { return 1 - s }

const fifoDepth = 16

// Link owns both directions of the IPC: the one queue each side fills
// by sending and the other drains by receiving, plus per-side
// IPCSYNC/IPCFIFOCNT state.
type Link struct {
	irq [2]*interrupt.Controller

	syncBit        uint
	sendEmptyBit   uint
	recvNonEmptyBit uint

	queue [2][]uint32 // queue[s] holds words sent by side s, drained by other(s)

	lastWord [2]uint32 // last word fifo_recv returned, for empty-read repeats
	errorBit [2]bool

	fifoEnabled           [2]bool
	sendEmptyIRQEnable    [2]bool
	recvNonEmptyIRQEnable [2]bool

	syncOut       [2]uint8
	syncIRQEnable [2]bool
}

// NewLink returns a Link wired to each side's interrupt controller.
// syncBit/sendEmptyBit/recvNonEmptyBit are the IRQ source bits this
// Link raises on each side's own controller (the same three bit
// positions apply symmetrically to both sides, since each CPU has its
// own independent IE/IF register).
func NewLink(irqArm9, irqArm7 *interrupt.Controller, syncBit, sendEmptyBit, recvNonEmptyBit uint) *Link {
	return &Link{
		irq:             [2]*interrupt.Controller{irqArm9, irqArm7},
		syncBit:         syncBit,
		sendEmptyBit:    sendEmptyBit,
		recvNonEmptyBit: recvNonEmptyBit,
	}
}

// SetFIFOEnable toggles whether side's FIFO hardware is active at all;
// a disabled FIFO behaves as permanently empty for sends.
func (l *Link) SetFIFOEnable(side Side, v bool) { l.fifoEnabled[side] = v }

// SetSendEmptyIRQEnable toggles side's send-FIFO-empty IRQ source.
func (l *Link) SetSendEmptyIRQEnable(side Side, v bool) { l.sendEmptyIRQEnable[side] = v }

// SetRecvNonEmptyIRQEnable toggles side's receive-FIFO-not-empty IRQ
// source.
func (l *Link) SetRecvNonEmptyIRQEnable(side Side, v bool) { l.recvNonEmptyIRQEnable[side] = v }

// SetSyncIRQEnable toggles side's IPCSYNC remote-write IRQ source.
func (l *Link) SetSyncIRQEnable(side Side, v bool) { l.syncIRQEnable[side] = v }

// SyncWrite performs sync_write: latches side's outgoing 4-bit nibble
// and, if requestIRQ is set and the remote side has its sync IRQ
// enabled, raises the remote's IPCSYNC IRQ.
func (l *Link) SyncWrite(side Side, nibble uint8, requestIRQ bool) {
	l.syncOut[side] = nibble & 0xF
	remote := other(side)
	if requestIRQ && l.syncIRQEnable[remote] {
		l.irq[remote].Raise(l.syncBit)
	}
}

// SyncOut returns side's currently latched outgoing nibble.
func (l *Link) SyncOut(side Side) uint8 { return l.syncOut[side] }

// SyncIn returns the nibble the remote side last wrote -- side's view
// of "remote send nibble in".
func (l *Link) SyncIn(side Side) uint8 { return l.syncOut[other(side)] }

// Send performs fifo_send: if side's own FIFO is disabled or full, sets
// side's error bit and discards the word; otherwise enqueues it, and
// if the remote's receive-not-empty IRQ is enabled and the queue was
// previously empty, raises the remote's IRQ.
func (l *Link) Send(side Side, word uint32) {
	if !l.fifoEnabled[side] {
		l.errorBit[side] = true
		return
	}
	q := l.queue[side]
	if len(q) >= fifoDepth {
		l.errorBit[side] = true
		return
	}
	wasEmpty := len(q) == 0
	l.queue[side] = append(q, word)

	remote := other(side)
	if wasEmpty && l.recvNonEmptyIRQEnable[remote] {
		l.irq[remote].Raise(l.recvNonEmptyBit)
	}
}

// Recv performs fifo_recv: side reads from the queue the other side
// fills. If that queue is empty, sets side's error bit and returns the
// last word side successfully read; otherwise dequeues, and if the
// queue becomes empty and the sender's own send-empty IRQ is enabled,
// raises the sender's IRQ.
func (l *Link) Recv(side Side) uint32 {
	sender := other(side)
	q := l.queue[sender]
	if len(q) == 0 {
		l.errorBit[side] = true
		return l.lastWord[side]
	}

	word := q[0]
	l.queue[sender] = q[1:]
	l.lastWord[side] = word

	if len(l.queue[sender]) == 0 && l.sendEmptyIRQEnable[sender] {
		l.irq[sender].Raise(l.sendEmptyBit)
	}
	return word
}

// Clear performs fifo_clear(side): drops every entry side has sent
// (the queue the other side drains from).
func (l *Link) Clear(side Side) {
	l.queue[side] = l.queue[side][:0]
}

// ClearError clears side's error bit (the IPCFIFOCNT error-clear
// control bit).
func (l *Link) ClearError(side Side) { l.errorBit[side] = false }

// Error reports side's error bit.
func (l *Link) Error(side Side) bool { return l.errorBit[side] }

// SendQueueEmpty reports whether side's own outgoing queue is empty.
func (l *Link) SendQueueEmpty(side Side) bool { return len(l.queue[side]) == 0 }

// SendQueueFull reports whether side's own outgoing queue is at
// capacity.
func (l *Link) SendQueueFull(side Side) bool { return len(l.queue[side]) >= fifoDepth }

// RecvQueueEmpty reports whether side's incoming queue (the other
// side's outgoing queue) is empty.
func (l *Link) RecvQueueEmpty(side Side) bool { return len(l.queue[other(side)]) == 0 }
