package storage

import "errors"

// Sentinel errors, grounded on the teacher's btree_core error-definitions
// block (ErrKeyNotFound, ErrPageNotFound, ErrChecksumMismatch, ...):
// every fatal or rejectable condition gets a named error instead of a
// bare fmt.Errorf, so callers can errors.Is against it.
var (
	ErrDuplicateKey            = errors.New("duplicate key")
	ErrStringTooLong           = errors.New("string is too long")
	ErrNegativeID              = errors.New("id must be a positive number")
	ErrTableFull               = errors.New("table full")
	ErrCorruptFile             = errors.New("database file is not a whole number of pages, corrupt file")
	ErrChecksumMismatch        = errors.New("page checksum mismatch, data corruption suspected")
	ErrPageOutOfRange          = errors.New("page number out of range")
	ErrPageNotLoaded           = errors.New("page not loaded, cannot flush")
	ErrParentSplitNotSupported = errors.New("splitting a non-root leaf's parent is not implemented")
)
