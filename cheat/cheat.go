// Package cheat implements the MLAR Action-Replay-style cheat list
// container: a header-tagged file of named, independently
// enable/disable-able codes, each a sequence of 32-bit opcode/value
// pairs applied against the memory map.
package cheat

import (
	"bytes"
	"encoding/binary"

	"github.com/kaedeo/dscore/errors"
)

var magicList = [4]byte{'M', 'L', 'A', 'R'}
var magicCode = [4]byte{'M', 'L', 'C', 'D'}

// Code is one cheat entry: a name, its raw opcode/value word stream,
// and whether it is currently applied.
type Code struct {
	Name    string
	Words   []uint32
	Enabled bool
}

// List is a parsed MLAR container.
type List struct {
	VersionMajor uint16
	VersionMinor uint16
	Codes        []Code
}

// New returns an empty list.
func New() *List { return &List{VersionMajor: 1, VersionMinor: 0} }

// Parse decodes an MLAR byte stream into a List.
func Parse(data []byte) (*List, error) {
	if len(data) < 16 || !bytes.Equal(data[0:4], magicList[:]) {
		got := ""
		if len(data) >= 4 {
			got = string(data[0:4])
		}
		return nil, errors.New(errors.CheatListMagicMismatch, got)
	}

	l := &List{
		VersionMajor: binary.LittleEndian.Uint16(data[4:6]),
		VersionMinor: binary.LittleEndian.Uint16(data[6:8]),
	}
	length := binary.LittleEndian.Uint32(data[8:12])
	count := binary.LittleEndian.Uint32(data[12:16])
	if int(length) > len(data) {
		return nil, errors.New(errors.CheatListTruncated, length, len(data))
	}

	off := 16
	for i := uint32(0); i < count; i++ {
		if off+16 > len(data) || !bytes.Equal(data[off:off+4], magicCode[:]) {
			return nil, errors.New(errors.CheatListTruncated, off+16, len(data))
		}
		nameLen := binary.LittleEndian.Uint32(data[off+4 : off+8])
		codeLen := binary.LittleEndian.Uint32(data[off+8 : off+12])
		enable := binary.LittleEndian.Uint32(data[off+12:off+16]) != 0
		off += 16

		if off+int(nameLen) > len(data) {
			return nil, errors.New(errors.CheatListTruncated, off+int(nameLen), len(data))
		}
		name := string(data[off : off+int(nameLen)])
		off += int(nameLen)

		wordBytes := int(codeLen) * 4
		if off+wordBytes > len(data) {
			return nil, errors.New(errors.CheatListTruncated, off+wordBytes, len(data))
		}
		words := make([]uint32, codeLen)
		for w := range words {
			words[w] = binary.LittleEndian.Uint32(data[off+w*4 : off+w*4+4])
		}
		off += wordBytes

		l.Codes = append(l.Codes, Code{Name: name, Words: words, Enabled: enable})
	}

	return l, nil
}

// Serialize encodes the list back into MLAR form.
func (l *List) Serialize() []byte {
	var body bytes.Buffer
	for _, c := range l.Codes {
		var hdr [16]byte
		copy(hdr[0:4], magicCode[:])
		binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(c.Name)))
		binary.LittleEndian.PutUint32(hdr[8:12], uint32(len(c.Words)))
		if c.Enabled {
			binary.LittleEndian.PutUint32(hdr[12:16], 1)
		}
		body.Write(hdr[:])
		body.WriteString(c.Name)
		for _, w := range c.Words {
			var wb [4]byte
			binary.LittleEndian.PutUint32(wb[:], w)
			body.Write(wb[:])
		}
	}

	var out bytes.Buffer
	var hdr [16]byte
	copy(hdr[0:4], magicList[:])
	binary.LittleEndian.PutUint16(hdr[4:6], l.VersionMajor)
	binary.LittleEndian.PutUint16(hdr[6:8], l.VersionMinor)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(16+body.Len()))
	binary.LittleEndian.PutUint32(hdr[12:16], uint32(len(l.Codes)))
	out.Write(hdr[:])
	out.Write(body.Bytes())
	return out.Bytes()
}

// Bus is the write-only memory interface Apply patches through.
type Bus interface {
	Write8(addr uint32, v uint8)
	Write16(addr uint32, v uint16)
	Write32(addr uint32, v uint32)
}

// Apply runs every enabled code's write opcodes against bus. Only the
// plain-write opcode family is implemented (8/16/32-bit write at an
// absolute address); conditional and pointer-chasing opcodes from the
// full Action Replay instruction set are out of scope.
func (l *List) Apply(bus Bus) {
	for _, c := range l.Codes {
		if !c.Enabled {
			continue
		}
		applyCode(bus, c.Words)
	}
}

func applyCode(bus Bus, words []uint32) {
	for i := 0; i+1 < len(words); i += 2 {
		op := words[i]
		val := words[i+1]
		addr := op & 0x0FFFFFFF

		switch op >> 28 {
		case 0x0:
			bus.Write32(addr, val)
		case 0x1:
			bus.Write16(addr, uint16(val))
		case 0x2:
			bus.Write8(addr, uint8(val))
		}
	}
}
