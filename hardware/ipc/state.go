package ipc

import "github.com/kaedeo/dscore/savestate"

// Section adapts a Link to savestate.Section.
type Section struct{ l *Link }

// NewSection wraps l as a savestate.Section tagged "IPC".
func NewSection(l *Link) Section { return Section{l: l} }

func (s Section) Tag() string { return "IPC" }

func (s Section) SaveState(w *savestate.Writer) error {
	l := s.l
	for side := 0; side < 2; side++ {
		w.WriteU32(uint32(len(l.queue[side])))
		for _, word := range l.queue[side] {
			w.WriteU32(word)
		}
		w.WriteU32(l.lastWord[side])
		w.WriteBool(l.errorBit[side])
		w.WriteBool(l.fifoEnabled[side])
		w.WriteBool(l.sendEmptyIRQEnable[side])
		w.WriteBool(l.recvNonEmptyIRQEnable[side])
		w.WriteU8(l.syncOut[side])
		w.WriteBool(l.syncIRQEnable[side])
	}
	return nil
}

func (s Section) LoadState(r *savestate.Reader) error {
	l := s.l
	for side := 0; side < 2; side++ {
		n := int(r.ReadU32())
		l.queue[side] = make([]uint32, 0, n)
		for i := 0; i < n; i++ {
			l.queue[side] = append(l.queue[side], r.ReadU32())
		}
		l.lastWord[side] = r.ReadU32()
		l.errorBit[side] = r.ReadBool()
		l.fifoEnabled[side] = r.ReadBool()
		l.sendEmptyIRQEnable[side] = r.ReadBool()
		l.recvNonEmptyIRQEnable[side] = r.ReadBool()
		l.syncOut[side] = r.ReadU8()
		l.syncIRQEnable[side] = r.ReadBool()
	}
	return r.Err()
}
