// Package savestate implements the section-tagged savestate stream:
// magic "MELN", a version word, a sequence of named, length-prefixed
// sections, a zero-tag terminator, and a trailing CRC32 over everything
// that came before it. Each hardware component that wants to be
// persisted implements Section and registers itself with a Writer/Reader
// pair built by the top-level console assembly; the scheduler's own
// pending events are not serialized directly -- on load every component
// re-arms whatever it had pending by consulting the restored component
// state and the scheduler's Schedule, the same way a fresh reset would.
package savestate

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/kaedeo/dscore/errors"
)

var magic = [4]byte{'M', 'E', 'L', 'N'}

// Version is bumped whenever a section's wire layout changes
// incompatibly. Load rejects any other version outright rather than
// attempting a best-effort upgrade.
const Version = 1

// Section is implemented by anything that can save and restore its own
// state. Tag must be stable across versions; it is how Load matches
// stream sections back to the components that own them.
type Section interface {
	Tag() string
	SaveState(w *Writer) error
	LoadState(r *Reader) error
}

// Writer accumulates one section's payload bytes.
type Writer struct {
	buf bytes.Buffer
}

func (w *Writer) WriteU8(v uint8)   { w.buf.WriteByte(v) }
func (w *Writer) WriteU16(v uint16) { var b [2]byte; binary.LittleEndian.PutUint16(b[:], v); w.buf.Write(b[:]) }
func (w *Writer) WriteU32(v uint32) { var b [4]byte; binary.LittleEndian.PutUint32(b[:], v); w.buf.Write(b[:]) }
func (w *Writer) WriteU64(v uint64) { var b [8]byte; binary.LittleEndian.PutUint64(b[:], v); w.buf.Write(b[:]) }
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}
func (w *Writer) WriteBytes(b []byte) {
	w.WriteU32(uint32(len(b)))
	w.buf.Write(b)
}

// Reader replays one section's payload bytes in the order they were
// written.
type Reader struct {
	buf *bytes.Reader
	err error
}

func (r *Reader) ReadU8() uint8 {
	if r.err != nil {
		return 0
	}
	b, err := r.buf.ReadByte()
	if err != nil {
		r.err = err
		return 0
	}
	return b
}

func (r *Reader) ReadU16() uint16 {
	var b [2]byte
	r.readFull(b[:])
	return binary.LittleEndian.Uint16(b[:])
}

func (r *Reader) ReadU32() uint32 {
	var b [4]byte
	r.readFull(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

func (r *Reader) ReadU64() uint64 {
	var b [8]byte
	r.readFull(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

func (r *Reader) ReadBool() bool { return r.ReadU8() != 0 }

func (r *Reader) ReadBytes() []byte {
	n := r.ReadU32()
	b := make([]byte, n)
	r.readFull(b)
	return b
}

func (r *Reader) readFull(b []byte) {
	if r.err != nil {
		return
	}
	_, r.err = io.ReadFull(r.buf, b)
}

// Err returns the first read error encountered, if any. Callers need not
// check it after every Read call: a failed read leaves the Reader
// returning zero values for the rest of the section.
func (r *Reader) Err() error { return r.err }

// Save writes every section in sections, in order, to a complete
// savestate stream.
func Save(sections []Section) ([]byte, error) {
	var out bytes.Buffer
	out.Write(magic[:])
	var verBuf [4]byte
	binary.LittleEndian.PutUint32(verBuf[:], Version)
	out.Write(verBuf[:])

	for _, s := range sections {
		w := &Writer{}
		if err := s.SaveState(w); err != nil {
			return nil, err
		}
		writeSectionHeader(&out, s.Tag(), uint32(w.buf.Len()))
		out.Write(w.buf.Bytes())
	}
	// zero-tag terminator: an empty tag, zero length.
	writeSectionHeader(&out, "", 0)

	sum := crc32.ChecksumIEEE(out.Bytes())
	var sumBuf [4]byte
	binary.LittleEndian.PutUint32(sumBuf[:], sum)
	out.Write(sumBuf[:])

	return out.Bytes(), nil
}

func writeSectionHeader(out *bytes.Buffer, tag string, length uint32) {
	var tagLen [4]byte
	binary.LittleEndian.PutUint32(tagLen[:], uint32(len(tag)))
	out.Write(tagLen[:])
	out.WriteString(tag)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], length)
	out.Write(lenBuf[:])
}

// Load parses data and dispatches each section to whichever entry in
// sections has a matching Tag. Sections present in the stream but not in
// the sections slice are skipped; sections in sections but absent from
// the stream are simply never called, leaving that component's prior
// (typically just-reset) state untouched.
func Load(data []byte, sections []Section) error {
	if len(data) < 8 || !bytes.Equal(data[0:4], magic[:]) {
		got := ""
		if len(data) >= 4 {
			got = string(data[0:4])
		}
		return errors.New(errors.SavestateMagicMismatch, got)
	}

	version := binary.LittleEndian.Uint32(data[4:8])
	if version != Version {
		return errors.New(errors.SavestateUnsupportedVersion, "header", version)
	}

	if len(data) < 12 {
		return errors.New(errors.SavestateTruncated, 12, len(data))
	}
	body := data[:len(data)-4]
	wantSum := binary.LittleEndian.Uint32(data[len(data)-4:])
	gotSum := crc32.ChecksumIEEE(body)
	if gotSum != wantSum {
		return errors.New(errors.SavestateChecksumMismatch, wantSum, gotSum)
	}

	byTag := make(map[string]Section, len(sections))
	for _, s := range sections {
		byTag[s.Tag()] = s
	}

	off := 8
	for {
		if off+4 > len(body) {
			return errors.New(errors.SavestateTruncated, off+4, len(body))
		}
		tagLen := int(binary.LittleEndian.Uint32(body[off : off+4]))
		off += 4
		if off+tagLen > len(body) {
			return errors.New(errors.SavestateTruncated, off+tagLen, len(body))
		}
		tag := string(body[off : off+tagLen])
		off += tagLen

		if off+4 > len(body) {
			return errors.New(errors.SavestateTruncated, off+4, len(body))
		}
		secLen := int(binary.LittleEndian.Uint32(body[off : off+4]))
		off += 4

		if tag == "" && secLen == 0 {
			break
		}
		if off+secLen > len(body) {
			return errors.New(errors.SavestateTruncated, off+secLen, len(body))
		}
		payload := body[off : off+secLen]
		off += secLen

		if target, ok := byTag[tag]; ok {
			r := &Reader{buf: bytes.NewReader(payload)}
			if err := target.LoadState(r); err != nil {
				return err
			}
			if r.Err() != nil {
				return errors.New(errors.SavestateSectionMismatch, tag, r.Err().Error())
			}
		}
	}

	return nil
}
