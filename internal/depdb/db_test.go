package depdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func touch(t *testing.T, path string, when time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, when, when))
}

func TestDB_MissingFileYieldsEmptyReferenceTable(t *testing.T) {
	dir := t.TempDir()
	db, err := New(filepath.Join(dir, "depdb.json"))
	require.NoError(t, err)
	require.Empty(t, db.ref)
}

func TestDB_CorruptFileYieldsEmptyReferenceTable(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "depdb.json")
	writeFile(t, dbPath, `not json at all`)

	db, err := New(dbPath)
	require.NoError(t, err)
	require.Empty(t, db.ref)
}

func TestDB_MalformedEntryYieldsEmptyReferenceTable(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "depdb.json")
	writeFile(t, dbPath, `[{"fpath": "", "ts": 5}]`)

	db, err := New(dbPath)
	require.NoError(t, err)
	require.Empty(t, db.ref)
}

func TestDB_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	header := filepath.Join(dir, "h.h")
	writeFile(t, header, "// header")

	dbPath := filepath.Join(dir, "depdb.json")
	db, err := New(dbPath)
	require.NoError(t, err)

	depFile := filepath.Join(dir, "s.d")
	writeFile(t, depFile, "s.o: s.c "+header+"\n")

	require.NoError(t, db.UpdateDepends(depFile))
	require.NoError(t, db.Save())

	reloaded, err := New(dbPath)
	require.NoError(t, err)
	require.Equal(t, db.observed, reloaded.ref)
}

func TestDB_SaveIsNoopWhenUnchanged(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "depdb.json")
	db, err := New(dbPath)
	require.NoError(t, err)

	header := filepath.Join(dir, "h.h")
	writeFile(t, header, "x")
	depFile := filepath.Join(dir, "s.d")
	writeFile(t, depFile, "s.o: "+header+"\n")
	require.NoError(t, db.UpdateDepends(depFile))
	require.NoError(t, db.Save())

	first, err := os.Stat(dbPath)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, db.Save())

	second, err := os.Stat(dbPath)
	require.NoError(t, err)
	require.Equal(t, first.ModTime(), second.ModTime())
}

func TestDB_AreDependsOutdated_NewHeaderIsOutdated(t *testing.T) {
	dir := t.TempDir()
	header := filepath.Join(dir, "h.h")
	writeFile(t, header, "x")
	depFile := filepath.Join(dir, "s.d")
	writeFile(t, depFile, "s.o: "+header+"\n")

	db, err := New(filepath.Join(dir, "depdb.json"))
	require.NoError(t, err)

	outdated, err := db.AreDependsOutdated(depFile)
	require.NoError(t, err)
	require.True(t, outdated, "a header absent from the reference table must be outdated")
}

func TestDB_AreDependsOutdated_UnchangedHeaderIsNotOutdated(t *testing.T) {
	dir := t.TempDir()
	header := filepath.Join(dir, "h.h")
	writeFile(t, header, "x")
	touch(t, header, time.Unix(1_700_000_000, 0))

	depFile := filepath.Join(dir, "s.d")
	writeFile(t, depFile, "s.o: "+header+"\n")

	dbPath := filepath.Join(dir, "depdb.json")
	first, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.UpdateDepends(depFile))
	require.NoError(t, first.Save())

	second, err := New(dbPath)
	require.NoError(t, err)
	outdated, err := second.AreDependsOutdated(depFile)
	require.NoError(t, err)
	require.False(t, outdated)
}

func TestDB_AreDependsOutdated_RestoredMtimeStillOutdated(t *testing.T) {
	// Exact equality, not less-than: a header moved backwards in time
	// must still be treated as changed.
	dir := t.TempDir()
	header := filepath.Join(dir, "h.h")
	writeFile(t, header, "x")
	touch(t, header, time.Unix(1_700_000_100, 0))

	depFile := filepath.Join(dir, "s.d")
	writeFile(t, depFile, "s.o: "+header+"\n")

	dbPath := filepath.Join(dir, "depdb.json")
	first, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.UpdateDepends(depFile))
	require.NoError(t, first.Save())

	touch(t, header, time.Unix(1_700_000_000, 0))

	second, err := New(dbPath)
	require.NoError(t, err)
	outdated, err := second.AreDependsOutdated(depFile)
	require.NoError(t, err)
	require.True(t, outdated)
}

func TestDB_MissingDepFileIsNotOutdatedByItself(t *testing.T) {
	dir := t.TempDir()
	db, err := New(filepath.Join(dir, "depdb.json"))
	require.NoError(t, err)

	outdated, err := db.AreDependsOutdated(filepath.Join(dir, "does-not-exist.d"))
	require.NoError(t, err)
	require.False(t, outdated)
}
