// Package demodb is the local embedded database behind demo mode: a
// versioned, indexed, transactional key-object store on top of pebble.
//
// Records are JSON objects keyed by their "id" field, grouped into named
// stores with non-unique secondary indexes (see schema.go). The engine
// emulates the query shapes of a relational backend — joins, ordering,
// pagination, cascading deletes — using only primary-key and index lookups;
// there is no query language.
//
// All writes go through Update, which scopes them to one pebble indexed
// batch: multi-step operations (migrations, cascades, clears) commit
// entirely or not at all. Reads outside Update see only committed state.
package demodb

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/boardmate/boardmate/internal/apperror"
)

// DB is an open store area. Safe for concurrent use; pebble serializes
// batch commits internally, so the engine adds no locking of its own.
type DB struct {
	pb     *pebble.DB
	logger *slog.Logger
}

// Open opens (or creates) the store area at path and brings its schema up
// to CurrentVersion. A backend that cannot be opened at all surfaces as
// ErrStorageUnavailable; a failed migration surfaces as ErrMigration and
// leaves the area at its prior version with nothing partially applied.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pb, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, apperror.StorageUnavailable(err)
	}

	db := &DB{pb: pb, logger: logger}
	if err := db.migrate(); err != nil {
		pb.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the underlying store. The public lifecycle has no Closed
// state — this exists for tests and process shutdown.
func (db *DB) Close() error {
	return db.pb.Close()
}

// Get returns the record JSON for id, or nil when the record is absent.
// Absence is not an error.
func (db *DB) Get(store, id string) ([]byte, error) {
	if _, ok := storeDef(store); !ok {
		return nil, fmt.Errorf("demodb: unknown store %q", store)
	}
	value, closer, err := db.pb.Get(recordKey(store, id))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("demodb: getting %s/%s: %w", store, id, err)
	}
	defer closer.Close()
	rec := make([]byte, len(value))
	copy(rec, value)
	return rec, nil
}

// List returns every record of the store, in primary-key order. Callers
// needing display order sort by createdAt themselves.
func (db *DB) List(store string) ([][]byte, error) {
	if _, ok := storeDef(store); !ok {
		return nil, fmt.Errorf("demodb: unknown store %q", store)
	}
	lower, upper := recordBounds(store)
	iter := db.pb.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	defer iter.Close()

	var recs [][]byte
	for valid := iter.First(); valid; valid = iter.Next() {
		rec := make([]byte, len(iter.Value()))
		copy(rec, iter.Value())
		recs = append(recs, rec)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("demodb: listing %s: %w", store, err)
	}
	return recs, nil
}

// ListIndex returns every record whose indexed field equals value, walking
// the index cursor rather than the store.
func (db *DB) ListIndex(store, index, value string) ([][]byte, error) {
	def, ok := storeDef(store)
	if !ok {
		return nil, fmt.Errorf("demodb: unknown store %q", store)
	}
	if !hasIndex(def, index) {
		return nil, fmt.Errorf("demodb: unknown index %q on store %q", index, store)
	}

	lower := indexValuePrefix(store, index, value)
	iter := db.pb.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upperBound(lower)})
	defer iter.Close()

	var recs [][]byte
	for valid := iter.First(); valid; valid = iter.Next() {
		id := string(iter.Key()[len(lower):])
		rec, err := db.Get(store, id)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			recs = append(recs, rec)
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("demodb: scanning index %s/%s: %w", store, index, err)
	}
	return recs, nil
}

// Version reads the stored schema version; a fresh area reports 0.
func (db *DB) Version() (int, error) {
	value, closer, err := db.pb.Get(metaKey(metaSchemaVersion))
	if err == pebble.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("demodb: reading schema version: %w", err)
	}
	defer closer.Close()
	v, err := strconv.Atoi(string(value))
	if err != nil {
		return 0, fmt.Errorf("demodb: corrupt schema version %q: %w", value, err)
	}
	return v, nil
}

// Update runs fn inside one write transaction. The batch is indexed, so
// writes made by fn are visible to its own subsequent reads. If fn returns
// an error nothing is committed.
func (db *DB) Update(fn func(tx *Tx) error) error {
	batch := db.pb.NewIndexedBatch()
	defer batch.Close()

	if err := fn(&Tx{batch: batch}); err != nil {
		return err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("demodb: committing batch: %w", err)
	}
	return nil
}

func hasIndex(def StoreDef, name string) bool {
	for _, idx := range def.Indexes {
		if idx.Name == name {
			return true
		}
	}
	return false
}

// Opener coalesces lazy opening of one process-wide DB. The lifecycle is
// Unopened -> Opening -> Open: every caller of Open during the first
// in-flight open blocks on the same attempt, and the outcome (handle or
// error) is cached for the process lifetime.
type Opener struct {
	path   string
	logger *slog.Logger

	once sync.Once
	db   *DB
	err  error
}

func NewOpener(path string, logger *slog.Logger) *Opener {
	return &Opener{path: path, logger: logger}
}

// Open returns the shared handle, opening the store area exactly once no
// matter how many goroutines race here.
func (o *Opener) Open() (*DB, error) {
	o.once.Do(func() {
		o.db, o.err = Open(o.path, o.logger)
	})
	return o.db, o.err
}
