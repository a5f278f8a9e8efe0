// Package cartridge implements the command-driven cart bus: the
// plaintext/KEY1/KEY2 phases a cartridge passes through after reset,
// chip-ID and secure-area reads, and the save-chip command channel
// (hardware/saveram) multiplexed onto the same SPI-style interface.
package cartridge

import (
	"encoding/binary"

	"github.com/kaedeo/dscore/errors"
	"github.com/kaedeo/dscore/hardware/saveram"
	"github.com/kaedeo/dscore/logger"
)

// Phase identifies which encryption regime the cart bus is currently
// speaking.
type Phase int

const (
	PhaseRaw Phase = iota
	PhaseKey1
	PhaseKey2
)

// Engine is one cartridge's complete command-bus state.
type Engine struct {
	rom      []byte
	gamecode uint32
	loaded   bool

	phase  Phase
	k1     *key1
	k2     *key2
	handshakeLevel int

	// biosKeyBuffer is retained so a savestate load can re-derive k1
	// deterministically instead of serializing the Blowfish subkey
	// tables themselves.
	biosKeyBuffer []byte

	Save *saveram.Manager
}

// New returns an unloaded Engine; LoadROM must be called before
// Execute will do anything but return CartridgeNotLoaded.
func New() *Engine {
	return &Engine{Save: saveram.New(saveram.Unknown)}
}

// LoadROM installs rom as the cartridge image and resets the command
// bus to its post-reset plaintext phase. biosKeyBuffer is the ARM7
// BIOS's KEY1 key table (bytes 0x30..0x1078 of the real image; any
// same-sized buffer works for an HLE BIOS that doesn't carry one).
func (e *Engine) LoadROM(rom []byte, biosKeyBuffer []byte) error {
	if len(rom) < 0x170 {
		return errors.New(errors.CartridgeHeaderTooShort, len(rom))
	}
	e.rom = rom
	e.gamecode = binary.LittleEndian.Uint32(rom[0x0C:0x10])
	e.loaded = true
	e.phase = PhaseRaw
	e.handshakeLevel = 1
	e.biosKeyBuffer = biosKeyBuffer
	e.k1 = newKey1(biosKeyBuffer, e.gamecode, e.handshakeLevel)
	e.k2 = nil
	return nil
}

// ChipID derives the command-0x90 chip identifier from ROM size, the
// documented convention being a 0xC2 maker code in the low byte and
// (size/1MiB - 1) in the second byte.
func (e *Engine) ChipID() uint32 {
	sizeMiB := uint32(len(e.rom)) / (1024 * 1024)
	if sizeMiB == 0 {
		sizeMiB = 1
	}
	return 0x00 | (sizeMiB-1)<<8 | 0xC2
}

// Execute decodes and runs one 8-byte command, returning declared
// words of response data. Unknown commands return all-0xFFFFFFFF words
// for the declared length and do not raise an error: the real cart bus
// completes the transfer normally either way.
func (e *Engine) Execute(cmd [8]byte, declaredWords uint32) ([]uint32, error) {
	if !e.loaded {
		return nil, errors.New(errors.CartridgeNotLoaded)
	}

	plain := e.decodeCommand(cmd)

	switch {
	case plain[0] == 0x90 || plain[0] == 0xB8:
		return fillWord(declaredWords, e.ChipID()), nil
	case plain[0] == 0xB7:
		addr := uint32(plain[1])<<16 | uint32(plain[2])<<8 | uint32(plain[3])
		return e.secureAreaRead(addr, declaredWords), nil
	case plain[0] == 0x3C: // KEY1 handshake entry
		e.phase = PhaseKey1
		return fillWord(declaredWords, 0xFFFFFFFF), nil
	case plain[0] == 0x00: // plaintext header read
		return e.headerRead(declaredWords), nil
	default:
		logger.Log("cartridge", "unknown cart command %#02x", plain[0])
		return fillWord(declaredWords, 0xFFFFFFFF), nil
	}
}

// decodeCommand strips whichever encryption phase is active and
// returns the plaintext 8-byte command.
func (e *Engine) decodeCommand(cmd [8]byte) [8]byte {
	switch e.phase {
	case PhaseKey1:
		buf := append([]byte(nil), cmd[:]...)
		e.k1.Decrypt(buf)
		var out [8]byte
		copy(out[:], buf)
		return out
	default:
		return cmd
	}
}

func (e *Engine) headerRead(declaredWords uint32) []uint32 {
	out := make([]uint32, declaredWords)
	for i := range out {
		off := i * 4
		if off+4 <= len(e.rom) {
			out[i] = binary.LittleEndian.Uint32(e.rom[off : off+4])
		} else {
			out[i] = 0xFFFFFFFF
		}
	}
	return out
}

func (e *Engine) secureAreaRead(addr uint32, declaredWords uint32) []uint32 {
	out := make([]uint32, declaredWords)
	for i := range out {
		off := int(addr) + i*4
		var v uint32
		if off+4 <= len(e.rom) {
			v = binary.LittleEndian.Uint32(e.rom[off : off+4])
		} else {
			v = 0xFFFFFFFF
		}
		if off >= 0x4000 && off < 0x4800 && e.phase != PhaseRaw {
			v = e.decryptSecureWord(v)
		}
		out[i] = v
	}
	return out
}

// decryptSecureWord decrypts one word of the first 2KiB of the secure
// area if it is still in its shipped, KEY1-encrypted form.
func (e *Engine) decryptSecureWord(v uint32) uint32 {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], v)
	e.k1.Decrypt(buf)
	return binary.LittleEndian.Uint32(buf[0:4])
}

// EnterKey2 transitions the bus to normal KEY2-streamed operation,
// called once the KEY1 handshake completes.
func (e *Engine) EnterKey2(seed uint64) {
	e.phase = PhaseKey2
	e.k2 = newKey2(e.ChipID(), seed)
}

func fillWord(n uint32, v uint32) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = v
	}
	return out
}
