package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestTableSpecValidate(t *testing.T) {
	require.NoError(t, TableSpec{Name: "audit_events"}.Validate())
	require.Error(t, TableSpec{Name: ""}.Validate())
	require.Error(t, TableSpec{Name: "Has-Caps"}.Validate())
	require.Error(t, TableSpec{Name: "t!weird"}.Validate())
}

func TestPutGetDelete(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.EnsureTable(TableSpec{Name: "repositories"}))

	require.NoError(t, db.Put("repositories", "api", []byte("https://example.com/api.git")))

	got, err := db.Get("repositories", "api")
	require.NoError(t, err)
	require.Equal(t, []byte("https://example.com/api.git"), got)

	require.NoError(t, db.Delete("repositories", "api"))
	_, err = db.Get("repositories", "api")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUnknownTableRejected(t *testing.T) {
	db := openTestDB(t)

	require.ErrorIs(t, db.Put("nope", "k", nil), ErrUnknownTable)
	_, err := db.Get("nope", "k")
	require.ErrorIs(t, err, ErrUnknownTable)
}

func TestListIsScopedToTable(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.EnsureTable(TableSpec{Name: "alpha"}))
	require.NoError(t, db.EnsureTable(TableSpec{Name: "alpha_ext"}))

	require.NoError(t, db.Put("alpha", "one", []byte("1")))
	require.NoError(t, db.Put("alpha", "two", []byte("2")))
	require.NoError(t, db.Put("alpha_ext", "three", []byte("3")))

	entries, err := db.List("alpha")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, []byte("1"), entries["one"])
	require.Equal(t, []byte("2"), entries["two"])
}

func TestEnsureTableIsIdempotentAndSorted(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.EnsureTable(TableSpec{Name: "zz", Description: "last"}))
	require.NoError(t, db.EnsureTable(TableSpec{Name: "aa", Description: "first"}))
	require.NoError(t, db.EnsureTable(TableSpec{Name: "zz", Description: "updated"}))

	specs := db.Tables()
	require.Len(t, specs, 2)
	require.Equal(t, "aa", specs[0].Name)
	require.Equal(t, "zz", specs[1].Name)
	require.Equal(t, "updated", specs[1].Description)
}
