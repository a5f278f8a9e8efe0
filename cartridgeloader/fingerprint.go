package cartridgeloader

import "github.com/kaedeo/dscore/hardware/saveram"

// mini-fingerprints exist only to give the cartridge loader enough of a
// guess to bring the save chip up in a plausible state; the loader has no
// access to a full game database. Command-bus fingerprinting (detecting
// the chip kind for real from the address width of the first command
// issued by the game) lives in the saveram package itself and will
// correct any wrong guess made here.

// fingerprintSaveKind makes a first guess at the save chip kind from ROM
// size alone. This is deliberately crude: real titles vary widely, and
// the guess only matters until the game issues its first save-chip
// command, at which point saveram.Manager's own address-width detection
// takes over.
func fingerprintSaveKind(h Header) saveram.ChipKind {
	switch {
	case h.RomSize <= 4*1024*1024:
		return saveram.EEPROM8K
	case h.RomSize <= 16*1024*1024:
		return saveram.Flash256K
	case h.RomSize <= 64*1024*1024:
		return saveram.Flash512K
	default:
		return saveram.Flash1M
	}
}
