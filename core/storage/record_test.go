package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecord_Validate(t *testing.T) {
	ok := Record{ID: 1, Username: "alice", Email: "alice@example.com"}
	require.NoError(t, ok.Validate())

	tooLongUsername := Record{ID: 1, Username: strings.Repeat("a", UsernameMaxLen+1), Email: "x@x.com"}
	err := tooLongUsername.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrStringTooLong))

	tooLongEmail := Record{ID: 1, Username: "bob", Email: strings.Repeat("b", EmailMaxLen+1)}
	err = tooLongEmail.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrStringTooLong))
}

func TestSerializeDeserializeRecord_RoundTrip(t *testing.T) {
	r := Record{ID: 42, Username: "alice", Email: "alice@example.com"}

	buf := make([]byte, RowSize)
	SerializeRecord(r, buf)

	got := DeserializeRecord(buf)
	require.Equal(t, r, got)
}

func TestSerializeRecord_RoundTripsMaxLengthFields(t *testing.T) {
	r := Record{ID: 7, Username: strings.Repeat("u", UsernameMaxLen), Email: strings.Repeat("e", EmailMaxLen)}

	buf := make([]byte, RowSize)
	SerializeRecord(r, buf)

	got := DeserializeRecord(buf)
	require.Equal(t, r.Username, got.Username)
	require.Equal(t, r.Email, got.Email)
}

func TestRowSize_MatchesFixedLayout(t *testing.T) {
	require.Equal(t, 4+33+256, RowSize)
}
