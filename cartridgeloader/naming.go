package cartridgeloader

import (
	"path/filepath"
	"slices"
	"strings"
)

// decideOnName uses the fields already set on ld to pick the name code
// outside this package should use to refer to the cartridge.
func decideOnName(ld Loader) string {
	if ld.embedded {
		return ld.Filename
	}
	if len(strings.TrimSpace(ld.Filename)) == 0 {
		return ""
	}
	return NameFromFilename(ld.Filename)
}

// NameFromFilename converts a filename to a shortened display form,
// stripping a recognised ROM extension.
func NameFromFilename(filename string) string {
	name := filepath.Base(filename)
	ext := strings.ToUpper(filepath.Ext(filename))
	if slices.Contains(FileExtensions[:], ext) {
		name = strings.TrimSuffix(name, filepath.Ext(filename))
	}
	return name
}
