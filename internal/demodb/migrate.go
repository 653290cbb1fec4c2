package demodb

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/boardmate/boardmate/internal/apperror"
	"github.com/boardmate/boardmate/internal/normalize"
)

// migration is one forward-only step, applied when the stored version is
// strictly below its target version. Steps rewrite every existing record of
// their store to canonical shape in place, preserving the primary key.
type migration struct {
	version int
	name    string
	run     func(tx *Tx) error
}

// migrate brings the store area from its recorded version up to
// CurrentVersion. All applicable steps plus the version bump share one
// transaction: a step that fails (a record it cannot canonicalize) aborts
// the whole upgrade and the area stays at its prior version.
//
// A fresh area (version 0) has nothing to rewrite; the steps walk empty
// stores and the version jumps straight to CurrentVersion. The v1
// structural step is implicit — stores in this engine exist by virtue of
// their key prefix.
func (db *DB) migrate() error {
	current, err := db.Version()
	if err != nil {
		return apperror.MigrationFailed(CurrentVersion, err)
	}
	if current >= CurrentVersion {
		return nil
	}

	norm := normalize.New()
	steps := []migration{
		{
			version: 2,
			name:    "users: backfill nickname and image defaults",
			run: rewriteStore(StoreUsers, func(raw map[string]any) (any, error) {
				return norm.User(raw), nil
			}),
		},
		{
			version: 3,
			name:    "posts: canonicalize shape and coordinate",
			run: rewriteStore(StorePosts, func(raw map[string]any) (any, error) {
				return norm.Post(raw), nil
			}),
		},
		{
			version: 4,
			name:    "comments: canonicalize shape, build by-createdAt entries",
			run: rewriteStore(StoreComments, func(raw map[string]any) (any, error) {
				return norm.Comment(raw), nil
			}),
		},
	}

	err = db.Update(func(tx *Tx) error {
		for _, step := range steps {
			if current >= step.version {
				continue // already applied to this area; a step never runs twice
			}
			if err := step.run(tx); err != nil {
				return apperror.MigrationFailed(step.version, err)
			}
			db.logger.Info("migration step applied",
				slog.Int("version", step.version),
				slog.String("step", step.name),
			)
		}
		return tx.setVersion(CurrentVersion)
	})
	if err != nil {
		return err
	}

	db.logger.Info("schema migrated",
		slog.Int("from", current),
		slog.Int("to", CurrentVersion),
	)
	return nil
}

// rewriteStore walks every record of the store within the transaction and
// replaces it with its canonical form. The record's primary key must
// survive canonicalization unchanged.
func rewriteStore(store string, canon func(raw map[string]any) (any, error)) func(tx *Tx) error {
	return func(tx *Tx) error {
		ids, recs, err := tx.records(store)
		if err != nil {
			return err
		}
		for i, rec := range recs {
			var raw map[string]any
			if err := json.Unmarshal(rec, &raw); err != nil {
				return fmt.Errorf("record %s/%s is not a JSON object: %w", store, ids[i], err)
			}
			next, err := canon(raw)
			if err != nil {
				return fmt.Errorf("record %s/%s: %w", store, ids[i], err)
			}
			out, err := json.Marshal(next)
			if err != nil {
				return fmt.Errorf("record %s/%s: encoding canonical form: %w", store, ids[i], err)
			}
			var check struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(out, &check); err != nil || check.ID != ids[i] {
				return fmt.Errorf("record %s/%s: canonicalization changed primary key to %q", store, ids[i], check.ID)
			}
			if err := tx.Put(store, out); err != nil {
				return err
			}
		}
		return nil
	}
}
