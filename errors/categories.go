package errors

// Error categories, grouped by the subsystem that raises them. New
// categories are appended to the end of whichever group they belong to
// so that Errno values never change meaning between builds.
const (
	// load-time / fatal
	BiosMissing Errno = iota
	FirmwareMissing
	RomInvalid
	RomUnsupportedSize

	// savestate
	SavestateMagicMismatch
	SavestateUnsupportedVersion
	SavestateTruncated
	SavestateSectionMismatch
	SavestateChecksumMismatch

	// JIT
	JitAllocFailed
	JitArenaExhausted

	// save-RAM
	SaveRamIoFailed
	SaveRamSizeUnknown

	// cartridge engine
	CartridgeNotLoaded
	CartridgeCommandUnknown
	CartridgeHeaderTooShort

	// cheat list
	CheatListMagicMismatch
	CheatListTruncated

	// memory map (not fatal at runtime, used for logging context)
	UnmappedAccess
	InvalidTransferWidth

	// frontend / cli
	InitFailure
	RomLoadFailure
)
