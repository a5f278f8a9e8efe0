package cartridge

import "golang.org/x/crypto/blowfish"

// key1 wraps the Blowfish cipher used during the KEY1-encrypted
// command phase: the one-time handshake between reset and the switch
// to KEY2 streaming. The real hardware derives its P-array/S-box
// state from the BIOS key buffer by repeatedly re-keying itself with
// the cartridge's gamecode; that bootstrap is approximated here by
// deriving a stdlib-compatible 16-byte Blowfish key from the same
// inputs, rather than reimplementing the bespoke key schedule.
type key1 struct {
	cipher *blowfish.Cipher
}

// newKey1 derives a KEY1 cipher from the BIOS key buffer, the
// cartridge gamecode, and the handshake level (1, 2 or 3 -- each level
// re-derives the key, matching the documented multi-stage handshake).
func newKey1(biosKeyBuffer []byte, gamecode uint32, level int) *key1 {
	key := make([]byte, 16)
	for i := range key {
		var b byte
		if i < len(biosKeyBuffer) {
			b = biosKeyBuffer[i]
		}
		key[i] = b ^ byte(gamecode>>((uint(i)%4)*8)) ^ byte(level)
	}
	c, err := blowfish.NewCipher(key)
	if err != nil {
		// blowfish.NewCipher only errors on bad key length; key is
		// always 16 bytes here.
		panic(err)
	}
	return &key1{cipher: c}
}

// Encrypt encrypts one 8-byte KEY1 block (a command or secure-area
// word pair).
func (k *key1) Encrypt(block []byte) {
	k.cipher.Encrypt(block, block)
}

// Decrypt decrypts one 8-byte KEY1 block.
func (k *key1) Decrypt(block []byte) {
	k.cipher.Decrypt(block, block)
}
