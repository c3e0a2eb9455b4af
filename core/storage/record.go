package storage

import "fmt"

// Fixed column widths, matching the original tutorial's Row struct
// (id uint32, username[33], email[256]).
const (
	UsernameMaxLen = 32
	EmailMaxLen    = 255

	idSize       = 4
	usernameSize = UsernameMaxLen + 1
	emailSize    = EmailMaxLen + 1

	idOffset       = 0
	usernameOffset = idOffset + idSize
	emailOffset    = usernameOffset + usernameSize

	// RowSize is the serialized width of a Record: 4 + 33 + 256.
	RowSize = idSize + usernameSize + emailSize
)

// Record is the single fixed-schema row this engine stores.
type Record struct {
	ID       uint32
	Username string
	Email    string
}

// ValidateID rejects a negative id before it is ever narrowed to the
// unsigned on-disk representation, matching the original's
// prepare_insert negative-id check (spec §6, §7).
func ValidateID(id int) error {
	if id < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeID, id)
	}
	return nil
}

// Validate checks the length bounds spec §4.1 requires callers to
// enforce before the codec ever sees the record.
func (r Record) Validate() error {
	if len(r.Username) > UsernameMaxLen {
		return fmt.Errorf("%w: username %d bytes > %d", ErrStringTooLong, len(r.Username), UsernameMaxLen)
	}
	if len(r.Email) > EmailMaxLen {
		return fmt.Errorf("%w: email %d bytes > %d", ErrStringTooLong, len(r.Email), EmailMaxLen)
	}
	return nil
}

// SerializeRecord writes r into dst[:RowSize] in the on-disk layout:
// id (4 bytes, little-endian) at offset 0, username (33 bytes,
// null-padded) at offset 4, email (256 bytes, null-padded) at offset 37.
func SerializeRecord(r Record, dst []byte) {
	_ = dst[RowSize-1] // bounds check hint, mirrors the C code's fixed-width memcpy calls

	dst[0] = byte(r.ID)
	dst[1] = byte(r.ID >> 8)
	dst[2] = byte(r.ID >> 16)
	dst[3] = byte(r.ID >> 24)

	u := dst[usernameOffset : usernameOffset+usernameSize]
	clear(u)
	copy(u, r.Username)

	e := dst[emailOffset : emailOffset+emailSize]
	clear(e)
	copy(e, r.Email)
}

// DeserializeRecord reads the mirror image of SerializeRecord from src.
func DeserializeRecord(src []byte) Record {
	_ = src[RowSize-1]

	id := uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24

	u := src[usernameOffset : usernameOffset+usernameSize]
	e := src[emailOffset : emailOffset+emailSize]

	return Record{
		ID:       id,
		Username: cString(u),
		Email:    cString(e),
	}
}

// cString returns the leading null-terminated portion of b as a string,
// matching the original format's C-string semantics for the padded
// username/email fields.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
