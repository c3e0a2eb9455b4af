package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sushant-115/rowdb/core/storage"
)

func TestParseStatement_Select(t *testing.T) {
	stmt, perr := ParseStatement("select")
	require.Equal(t, ParseOK, perr)
	require.Equal(t, StatementSelect, stmt.Type)
}

func TestParseStatement_Insert(t *testing.T) {
	stmt, perr := ParseStatement("insert 1 alice alice@example.com")
	require.Equal(t, ParseOK, perr)
	require.Equal(t, StatementInsert, stmt.Type)
	require.Equal(t, uint32(1), stmt.RowToInsert.ID)
	require.Equal(t, "alice", stmt.RowToInsert.Username)
	require.Equal(t, "alice@example.com", stmt.RowToInsert.Email)
}

func TestParseStatement_UnrecognizedKeyword(t *testing.T) {
	_, perr := ParseStatement("delete 1")
	require.Equal(t, ParseUnrecognizedStatement, perr)
}

func TestParseStatement_InsertSyntaxErrorWrongFieldCount(t *testing.T) {
	_, perr := ParseStatement("insert 1 alice")
	require.Equal(t, ParseSyntaxError, perr)
}

func TestParseStatement_InsertSyntaxErrorNonNumericID(t *testing.T) {
	_, perr := ParseStatement("insert abc alice alice@example.com")
	require.Equal(t, ParseSyntaxError, perr)
}

func TestParseStatement_InsertNegativeID(t *testing.T) {
	_, perr := ParseStatement("insert -1 alice alice@example.com")
	require.Equal(t, ParseNegativeID, perr)
}

func TestParseStatement_InsertStringTooLong(t *testing.T) {
	longUsername := strings.Repeat("a", storage.UsernameMaxLen+1)
	_, perr := ParseStatement("insert 1 " + longUsername + " alice@example.com")
	require.Equal(t, ParseStringTooLong, perr)
}
