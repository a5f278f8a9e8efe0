package firmware

import "encoding/binary"

// Byte offsets within one 256-byte user-settings block. Everything past
// the checksum field (0x74) is left as reserved padding; nothing in this
// emulator reads it.
const (
	offVersion        = 0x00
	offFavoriteColor  = 0x02
	offBirthdayMonth  = 0x03
	offBirthdayDay    = 0x04
	offNickname       = 0x06
	nicknameLen       = 10
	offNameLength     = 0x1A
	offSettings       = 0x64
	offYear           = 0x66
	offRTCOffset      = 0x68
	offUpdateCounter  = 0x70
	offChecksum       = 0x72
	checksumedLength  = 0x70
)

// UserData is the subset of one firmware user-settings block the
// emulator surfaces to games: the nickname shown in the system-settings
// API, birthday, favourite colour and settings words, and the bookkeeping fields
// (update counter, checksum) used to pick the effective block.
type UserData struct {
	Version       uint16
	FavoriteColor uint8
	BirthdayMonth uint8
	BirthdayDay   uint8
	Nickname      string
	Settings      uint16
	Year          uint8
	RTCOffset     uint32
	UpdateCounter uint16
	Checksum      uint16
}

// defaultUserData returns a plausible freshly-configured profile, the
// same role melonDS's generated firmware gives its single user block.
func defaultUserData() UserData {
	return UserData{
		Version:       1,
		FavoriteColor: 0,
		BirthdayMonth: 1,
		BirthdayDay:   1,
		Nickname:      "dscore",
		Settings:      0,
		Year:          0,
	}
}

// ParseUserData decodes one 256-byte block. block must be at least 256
// bytes; shorter input is a programmer error in this package's callers.
func ParseUserData(block []byte) UserData {
	u16 := binary.LittleEndian.Uint16
	u32 := binary.LittleEndian.Uint32

	nameLen := int(u16(block[offNameLength : offNameLength+2]))
	if nameLen > nicknameLen {
		nameLen = nicknameLen
	}
	var nameRunes []rune
	for i := 0; i < nameLen; i++ {
		c := u16(block[offNickname+i*2 : offNickname+i*2+2])
		if c == 0 {
			break
		}
		nameRunes = append(nameRunes, rune(c))
	}

	return UserData{
		Version:       u16(block[offVersion : offVersion+2]),
		FavoriteColor: block[offFavoriteColor],
		BirthdayMonth: block[offBirthdayMonth],
		BirthdayDay:   block[offBirthdayDay],
		Nickname:      string(nameRunes),
		Settings:      u16(block[offSettings : offSettings+2]),
		Year:          block[offYear],
		RTCOffset:     u32(block[offRTCOffset : offRTCOffset+4]),
		UpdateCounter: u16(block[offUpdateCounter : offUpdateCounter+2]),
		Checksum:      u16(block[offChecksum : offChecksum+2]),
	}
}

// Marshal encodes ud back into a 256-byte block.
func (ud UserData) Marshal() []byte {
	block := make([]byte, userDataSize)
	u16 := binary.LittleEndian.PutUint16
	u32 := binary.LittleEndian.PutUint32

	u16(block[offVersion:offVersion+2], ud.Version)
	block[offFavoriteColor] = ud.FavoriteColor
	block[offBirthdayMonth] = ud.BirthdayMonth
	block[offBirthdayDay] = ud.BirthdayDay

	name := []rune(ud.Nickname)
	if len(name) > nicknameLen {
		name = name[:nicknameLen]
	}
	for i, c := range name {
		u16(block[offNickname+i*2:offNickname+i*2+2], uint16(c))
	}
	u16(block[offNameLength:offNameLength+2], uint16(len(name)))

	u16(block[offSettings:offSettings+2], ud.Settings)
	block[offYear] = ud.Year
	u32(block[offRTCOffset:offRTCOffset+4], ud.RTCOffset)
	u16(block[offUpdateCounter:offUpdateCounter+2], ud.UpdateCounter)
	u16(block[offChecksum:offChecksum+2], ud.Checksum)
	return block
}

// UpdateChecksum recomputes Checksum over the covered prefix of the
// block. Must be called after any field change and before Marshal is
// trusted by ChecksumValid.
func (ud *UserData) UpdateChecksum() {
	block := ud.Marshal()
	ud.Checksum = CRC16(block[:checksumedLength], 0xFFFF)
}

// ChecksumValid reports whether ud's stored Checksum matches its data.
func (ud UserData) ChecksumValid() bool {
	block := ud.Marshal()
	return ud.Checksum == CRC16(block[:checksumedLength], 0xFFFF)
}
