package errors

var messages = map[Errno]string{
	BiosMissing:        "bios missing: %s",
	FirmwareMissing:    "firmware missing: %s",
	RomInvalid:         "rom invalid: %s",
	RomUnsupportedSize: "rom unsupported size (%d bytes)",

	SavestateMagicMismatch:      "savestate magic mismatch: got %q",
	SavestateUnsupportedVersion: "savestate section %q: unsupported version %d",
	SavestateTruncated:          "savestate truncated: wanted %d bytes, got %d",
	SavestateSectionMismatch:    "savestate section mismatch: wanted %q, got %q",
	SavestateChecksumMismatch:   "savestate checksum mismatch: wanted %#x, got %#x",

	JitAllocFailed:    "jit code arena allocation failed: %s",
	JitArenaExhausted: "jit code arena exhausted (%d slices in use)",

	SaveRamIoFailed:    "save-ram flush failed: %s",
	SaveRamSizeUnknown: "save-ram size could not be inferred",

	CartridgeNotLoaded:      "cartridge not loaded",
	CartridgeCommandUnknown: "unknown cartridge command %#02x",
	CartridgeHeaderTooShort: "rom header too short (%d bytes)",

	CheatListMagicMismatch: "cheat list magic mismatch: got %q",
	CheatListTruncated:     "cheat list truncated: wanted %d bytes, got %d",

	UnmappedAccess:        "unmapped access at %#08x",
	InvalidTransferWidth:  "invalid transfer width %d",

	InitFailure:    "initialisation failed: %s",
	RomLoadFailure: "rom load failed: %s",
}
