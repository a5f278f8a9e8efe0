package cartridgeloader

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaedeo/dscore/errors"
	"github.com/kaedeo/dscore/logger"
)

// Loader abstracts the ways ROM data can reach the emulator: a path on
// disk or an in-memory byte slice (for embedded/test ROMs).
type Loader struct {
	io.ReadSeeker

	// Name is the display name for the cartridge represented by this
	// Loader.
	Name string

	// Filename is the path of the ROM being loaded. For embedded data
	// this holds whatever name was given to NewLoaderFromData.
	Filename string

	// HashSHA1 and HashMD5 are computed once Open succeeds.
	HashSHA1 string
	HashMD5  string

	// Data is the raw ROM bytes. Empty until Open is called unless the
	// Loader was created with NewLoaderFromData.
	//
	// The pointer-to-a-slice indirection lets a Loader passed by value
	// still observe data loaded by a later Open call.
	Data *[]byte

	data *bytes.Buffer

	embedded bool
}

// NewLoaderFromFilename is the preferred constructor when loading a ROM
// from a path on disk. The path is not opened until Open is called.
func NewLoaderFromFilename(filename string) (Loader, error) {
	if strings.TrimSpace(filename) == "" {
		return Loader{}, errors.New(errors.RomInvalid, "empty filename")
	}

	abs, err := filepath.Abs(filename)
	if err != nil {
		return Loader{}, errors.New(errors.RomInvalid, err.Error())
	}

	ld := Loader{Filename: abs}
	data := make([]byte, 0)
	ld.Data = &data
	ld.Name = decideOnName(ld)
	return ld, nil
}

// NewLoaderFromData is the preferred constructor when loading a ROM
// already resident in memory (embedded test ROMs, a frontend that has
// already read the file itself).
func NewLoaderFromData(name string, data []byte) (Loader, error) {
	if len(data) == 0 {
		return Loader{}, errors.New(errors.RomInvalid, "embedded data is empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Loader{}, errors.New(errors.RomInvalid, "no name given for embedded data")
	}

	ld := Loader{
		Filename: name,
		Data:     &data,
		data:     bytes.NewBuffer(data),
		embedded: true,
		HashSHA1: fmt.Sprintf("%x", sha1.Sum(data)),
		HashMD5:  fmt.Sprintf("%x", md5.Sum(data)),
	}
	ld.Name = decideOnName(ld)
	return ld, nil
}

// Read implements io.Reader.
func (ld Loader) Read(p []byte) (int, error) {
	if ld.data == nil {
		return 0, io.EOF
	}
	return ld.data.Read(p)
}

// Seek implements io.Seeker in name only: it never moves the read
// position and always returns offset 0 with a nil error.
func (ld Loader) Seek(offset int64, whence int) (int64, error) {
	if ld.data == nil {
		return 0, nil
	}
	return 0, nil
}

// Open reads the ROM into Data, verifying any hash that was already set
// and computing one otherwise.
func (ld *Loader) Open() error {
	if ld.embedded {
		return nil
	}

	if ld.Data != nil && len(*ld.Data) > 0 {
		return nil
	}

	f, err := os.Open(ld.Filename)
	if err != nil {
		return errors.New(errors.RomInvalid, err.Error())
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return errors.New(errors.RomInvalid, err.Error())
	}
	*ld.Data = raw
	ld.data = bytes.NewBuffer(raw)

	hash := fmt.Sprintf("%x", sha1.Sum(raw))
	if ld.HashSHA1 != "" && ld.HashSHA1 != hash {
		return errors.New(errors.RomInvalid, "unexpected SHA1 hash")
	}
	ld.HashSHA1 = hash
	ld.HashMD5 = fmt.Sprintf("%x", md5.Sum(raw))

	logger.Log("cartridgeloader", "opened %s (%d bytes)", ld.Filename, len(raw))
	return nil
}

// Close releases any resources held open by Loader. Present data stays
// resident; Close only matters for future streaming loaders.
func (ld Loader) Close() error { return nil }
