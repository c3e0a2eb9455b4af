package engine

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sushant-115/rowdb/core/storage"
)

func setupEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	eng, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	return eng, path
}

func TestEngine_OpenFreshFileHasLeafRoot(t *testing.T) {
	eng, _ := setupEngine(t)
	defer eng.Close()

	dump, err := eng.Meta()
	require.NoError(t, err)
	require.Equal(t, uint32(0), dump.NumCells)
}

func TestEngine_InsertThenSelect(t *testing.T) {
	eng, _ := setupEngine(t)
	defer eng.Close()

	require.NoError(t, eng.ExecuteInsert(storage.Record{ID: 1, Username: "alice", Email: "alice@example.com"}))
	require.NoError(t, eng.ExecuteInsert(storage.Record{ID: 2, Username: "bob", Email: "bob@example.com"}))

	var got []storage.Record
	err := eng.ExecuteSelect(func(r storage.Record) error {
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, uint32(1), got[0].ID)
	require.Equal(t, uint32(2), got[1].ID)
}

func TestEngine_InsertRejectsDuplicateKey(t *testing.T) {
	eng, _ := setupEngine(t)
	defer eng.Close()

	require.NoError(t, eng.ExecuteInsert(storage.Record{ID: 1, Username: "alice", Email: "alice@example.com"}))
	err := eng.ExecuteInsert(storage.Record{ID: 1, Username: "alice2", Email: "a2@example.com"})
	require.True(t, errors.Is(err, storage.ErrDuplicateKey))
}

func TestEngine_InsertRejectsOversizedStrings(t *testing.T) {
	eng, _ := setupEngine(t)
	defer eng.Close()

	longUsername := make([]byte, storage.UsernameMaxLen+1)
	for i := range longUsername {
		longUsername[i] = 'a'
	}

	err := eng.ExecuteInsert(storage.Record{ID: 1, Username: string(longUsername), Email: "a@example.com"})
	require.True(t, errors.Is(err, storage.ErrStringTooLong))
}

func TestEngine_PersistsAcrossReopen(t *testing.T) {
	eng, path := setupEngine(t)
	require.NoError(t, eng.ExecuteInsert(storage.Record{ID: 7, Username: "carol", Email: "carol@example.com"}))
	require.NoError(t, eng.Close())

	eng2, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer eng2.Close()

	var got []storage.Record
	err = eng2.ExecuteSelect(func(r storage.Record) error {
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "carol", got[0].Username)
}

func TestConstantsDump_MatchesFixedLayout(t *testing.T) {
	c := ConstantsDump()
	require.Equal(t, storage.RowSize, c.RowSize)
	require.Equal(t, 13, c.LeafNodeMaxCells)
}
