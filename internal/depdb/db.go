// Package depdb implements the header-dependency database: a persisted
// cache of header mtimes that lets the build engine decide whether a
// source file must be recompiled because a header it transitively
// includes has changed.
package depdb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.trai.ch/zerr"

	"github.com/kilnbuild/kiln/internal/core/domain"
)

// DefaultHeaderExtensions is the extension set consulted when the caller
// does not supply one.
var DefaultHeaderExtensions = []string{".h", ".hh", ".hpp"}

// entry is the on-disk shape of one dependency-database record.
type entry struct {
	Path string `json:"fpath"`
	Tick int64  `json:"ts"`
}

// DB holds the reference table R (loaded once, read-only for the
// duration of a build) and the observed table O (populated during the
// build, guarded by mu). See spec §3 and §4.A for the invariants this
// type enforces.
type DB struct {
	path string
	exts map[string]struct{}

	ref map[string]int64

	mu       sync.Mutex
	observed map[string]int64
}

// New loads db_path if it exists and returns a DB whose reference table
// reflects its contents. Any parse failure, malformed entry, or
// duplicate key causes the reference table to be initialized empty
// instead of partially populated — a corrupt database must never produce
// a false "up to date" answer.
func New(path string, headerExts ...string) (*DB, error) {
	if len(headerExts) == 0 {
		headerExts = DefaultHeaderExtensions
	}
	exts := make(map[string]struct{}, len(headerExts))
	for _, e := range headerExts {
		exts[e] = struct{}{}
	}

	db := &DB{
		path:     path,
		exts:     exts,
		ref:      map[string]int64{},
		observed: map[string]int64{},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return db, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDepFileRead.Error()), "path", path)
	}

	ref, ok := parseSnapshot(raw)
	if !ok {
		// Corrupt file: leave db.ref empty, never fatal.
		return db, nil
	}
	db.ref = ref
	return db, nil
}

// parseSnapshot attempts to decode raw as the pretty-printed JSON array
// documented in spec §6. It returns ok == false on any structural
// problem: malformed JSON, an empty fpath, or ts == 0, or a duplicate
// key.
func parseSnapshot(raw []byte) (map[string]int64, bool) {
	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}

	ref := make(map[string]int64, len(entries))
	for _, e := range entries {
		if e.Path == "" || e.Tick == 0 {
			return nil, false
		}
		if _, dup := ref[e.Path]; dup {
			return nil, false
		}
		ref[e.Path] = e.Tick
	}
	return ref, true
}

// UpdateDepends parses the dependency file at depFilePath and, for every
// header token it discovers, inserts the header's current on-disk mtime
// into the observed table if it is not already present. Re-insertion of
// an already-present key is a no-op: the first observation during a
// build wins. Safe for concurrent callers producing disjoint header sets.
func (db *DB) UpdateDepends(depFilePath string) error {
	headers, err := db.discoverHeaders(depFilePath)
	if err != nil {
		return err
	}
	db.observeAll(headers)
	return nil
}

// AreDependsOutdated performs the same insert-if-absent step as
// UpdateDepends, then reports whether any discovered header is either
// absent from the reference table or present with a mtime different from
// the one just observed. Mtime comparison is exact equality, not
// less-than: a header restored to an earlier timestamp still counts as
// changed.
func (db *DB) AreDependsOutdated(depFilePath string) (bool, error) {
	headers, err := db.discoverHeaders(depFilePath)
	if err != nil {
		return false, err
	}

	changed := db.observeAll(headers)

	db.mu.Lock()
	defer db.mu.Unlock()
	for _, h := range headers {
		refTick, ok := db.ref[h]
		if !ok {
			return true, nil
		}
		if refTick != db.observed[h] {
			return true, nil
		}
	}
	return changed, nil
}

// discoverHeaders parses depFilePath and returns the header tokens it
// names. A missing dependency file is not an error: it is treated as "no
// headers known yet", leaving the caller's own source/object timestamp
// comparison to drive recompilation.
func (db *DB) discoverHeaders(depFilePath string) ([]string, error) {
	raw, err := os.ReadFile(depFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDepFileRead.Error()), "path", depFilePath)
	}
	tokens := tokenize(raw)

	headers := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := db.exts[filepath.Ext(t)]; ok {
			headers = append(headers, t)
		}
	}
	return headers, nil
}

// observeAll inserts the current on-disk mtime of each header into the
// observed table if absent, and reports whether any header is missing
// from disk entirely (treated as a change, since a recorded header that
// vanished means the build context shifted).
func (db *DB) observeAll(headers []string) bool {
	anyMissing := false

	db.mu.Lock()
	defer db.mu.Unlock()
	for _, h := range headers {
		if _, seen := db.observed[h]; seen {
			continue
		}
		tick, err := mtimeTick(h)
		if err != nil {
			anyMissing = true
			continue
		}
		db.observed[h] = tick
	}
	return anyMissing
}

// Save serializes the observed table as the stable array documented in
// spec §6 and writes it to db_path, skipping the write entirely if the
// freshly-marshaled bytes are identical to what is already on disk.
func (db *DB) Save() error {
	db.mu.Lock()
	entries := make([]entry, 0, len(db.observed))
	for path, tick := range db.observed {
		entries = append(entries, entry{Path: path, Tick: tick})
	}
	db.mu.Unlock()

	sortEntries(entries)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrDepDBMarshal.Error())
	}
	data = append(data, '\n')

	if existing, err := os.ReadFile(db.path); err == nil {
		if string(existing) == string(data) {
			return nil
		}
	}

	if dir := filepath.Dir(db.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create dependency database directory"), "path", dir)
		}
	}

	if err := os.WriteFile(db.path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDepDBSave.Error()), "path", db.path)
	}
	return nil
}

// sortEntries gives the snapshot a deterministic on-disk ordering so
// repeated saves of the same logical content produce byte-identical
// output, which Save relies on for its write-if-different check.
func sortEntries(entries []entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
}

func mtimeTick(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.ModTime().UnixNano(), nil
}
