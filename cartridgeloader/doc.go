// Package cartridgeloader resolves a path or an in-memory byte slice into
// ROM data ready for the cartridge engine: it opens the source, hashes the
// result, parses the 512-byte NDS/DSi header, and fingerprints the image
// for a save-chip guess. Full command-bus emulation (KEY1/KEY2, chip-ID,
// secure-area reads) lives in the cartridge package; this package only
// decides what that engine should be loaded with.
package cartridgeloader
