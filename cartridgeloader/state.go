package cartridgeloader

import "github.com/kaedeo/dscore/hardware/saveram"

// CartState is everything the hardware package needs to bring a
// cartridge engine and its save chip up from a resolved Loader.
type CartState struct {
	ROM          []byte
	Header       Header
	SaveKind     saveram.ChipKind
	Name         string
	HashSHA1     string
}

// Prepare opens ld, parses its header, and fingerprints a starting save
// chip kind. The cartridge engine and saveram manager are constructed by
// the caller (hardware package) from the returned CartState so that
// loader tests don't need the rest of the hardware stack.
func Prepare(ld *Loader) (CartState, error) {
	if err := ld.Open(); err != nil {
		return CartState{}, err
	}

	rom := *ld.Data
	h, err := ParseHeader(rom)
	if err != nil {
		return CartState{}, err
	}

	return CartState{
		ROM:      rom,
		Header:   h,
		SaveKind: fingerprintSaveKind(h),
		Name:     ld.Name,
		HashSHA1: ld.HashSHA1,
	}, nil
}
