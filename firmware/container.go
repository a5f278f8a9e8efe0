// Package firmware implements the NDS/DSi firmware container: the
// fixed-offset header, the two redundant user-settings blocks selected
// by update counter and checksum validity, and a generated fallback
// image for when the user supplies none.
package firmware

import (
	"encoding/binary"

	"github.com/kaedeo/dscore/errors"
)

const (
	// DefaultLength is the size of a generated NDS firmware image.
	DefaultLength = 0x20000

	headerIdentifierOffset   = 0x04
	userSettingsOffsetOffset = 0x20
	userDataSize             = 0x100
	userDataChecksumLength   = 0x70
)

// generatedIdentifier marks a firmware image built by GenerateDefault
// rather than supplied by the user, mirroring the upstream convention of
// tagging synthesized firmware with a distinct 4-byte identifier.
var generatedIdentifier = [4]byte{'M', 'E', 'L', 'N'}

// Container is a loaded or generated firmware image plus the derived
// offsets used to reach its two user-settings blocks.
type Container struct {
	Buf       []byte
	Generated bool
}

// Load wraps an existing firmware image. The image must be 0x20000 or
// 0x40000 bytes (NDS / DSi sizes); anything else is rejected.
func Load(buf []byte) (*Container, error) {
	if len(buf) != 0x20000 && len(buf) != 0x40000 {
		return nil, errors.New(errors.FirmwareMissing, "unexpected firmware image size")
	}
	return &Container{Buf: append([]byte(nil), buf...)}, nil
}

// GenerateDefault builds a minimal non-bootable firmware image: a header
// with a plausible user-settings offset and one valid, default-filled
// user-settings block. Games using direct-boot mode never execute
// firmware code, so no boot code is synthesized.
func GenerateDefault() *Container {
	buf := make([]byte, DefaultLength)
	copy(buf[headerIdentifierOffset:headerIdentifierOffset+4], generatedIdentifier[:])

	// Place the user-settings pair near the end of the image, the same
	// region real firmware keeps them in.
	userSettingsOffset := uint16((len(buf) - 0x400) >> 3)
	binary.LittleEndian.PutUint16(buf[userSettingsOffsetOffset:userSettingsOffsetOffset+2], userSettingsOffset)

	c := &Container{Buf: buf, Generated: true}
	ud := defaultUserData()
	ud.UpdateChecksum()
	c.writeUserData(0, ud)
	return c
}

// userDataOffset returns the byte offset of the first of the two
// redundant user-settings blocks.
func (c *Container) userDataOffset() int {
	raw := binary.LittleEndian.Uint16(c.Buf[userSettingsOffsetOffset : userSettingsOffsetOffset+2])
	return int(raw) << 3
}

func (c *Container) userDataBlock(i int) []byte {
	off := c.userDataOffset() + i*userDataSize
	return c.Buf[off : off+userDataSize]
}

func (c *Container) writeUserData(i int, ud UserData) {
	copy(c.userDataBlock(i), ud.Marshal())
}

// EffectiveUserData returns whichever of the two user-settings blocks
// the firmware itself would use: the one with a valid checksum, or
// whichever has the higher update counter if both validate.
func (c *Container) EffectiveUserData() UserData {
	a := ParseUserData(c.userDataBlock(0))
	b := ParseUserData(c.userDataBlock(1))

	aOK := a.ChecksumValid()
	bOK := b.ChecksumValid()

	switch {
	case aOK && !bOK:
		return a
	case bOK && !aOK:
		return b
	case aOK && bOK:
		if b.UpdateCounter > a.UpdateCounter {
			return b
		}
		return a
	default:
		return a
	}
}

// SetUserData writes ud to the first user-settings block and a copy
// with UpdateCounter incremented to the second, each with a freshly
// computed checksum, so both validate and the second is effective.
func (c *Container) SetUserData(ud UserData) {
	ud.UpdateChecksum()
	c.writeUserData(0, ud)
	ud.UpdateCounter++
	ud.UpdateChecksum()
	c.writeUserData(1, ud)
}
