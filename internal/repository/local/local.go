// Package local implements the repository interfaces over the embedded
// demo database. Records are normalized once at the write boundary; reads
// decode stored canonical JSON and never re-interpret field names.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/boardmate/boardmate/internal/demodb"
	"github.com/boardmate/boardmate/internal/model"
	"github.com/boardmate/boardmate/internal/normalize"
	"github.com/boardmate/boardmate/internal/session"
)

// Repositories bundles the demo-mode implementations sharing one database
// handle and one session slot.
type Repositories struct {
	Users    *UserRepo
	Posts    *PostRepo
	Comments *CommentRepo

	db       *demodb.DB
	sessions *session.Store
}

func New(db *demodb.DB, sessions *session.Store, logger *slog.Logger) *Repositories {
	if logger == nil {
		logger = slog.Default()
	}
	norm := normalize.New()

	users := &UserRepo{db: db, norm: norm, logger: logger}
	posts := &PostRepo{db: db, norm: norm, sessions: sessions, logger: logger}
	posts.Lookup = posts.scanUserLookup
	comments := &CommentRepo{db: db, norm: norm, logger: logger}

	return &Repositories{
		Users:    users,
		Posts:    posts,
		Comments: comments,
		db:       db,
		sessions: sessions,
	}
}

// ResetAll clears the three stores in one transaction and empties the
// session slot — the demo "factory reset". The database stays open and
// usable afterwards.
func (r *Repositories) ResetAll(ctx context.Context) error {
	err := r.db.Update(func(tx *demodb.Tx) error {
		return tx.Clear(demodb.Stores()...)
	})
	if err != nil {
		return fmt.Errorf("local: resetting stores: %w", err)
	}
	if err := r.sessions.Clear(); err != nil {
		return fmt.Errorf("local: resetting session: %w", err)
	}
	return nil
}

func decode[T any](rec []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(rec, &v); err != nil {
		return nil, fmt.Errorf("local: decoding stored record: %w", err)
	}
	return &v, nil
}

func decodeAll[T any](recs [][]byte) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := decode[T](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// mergePatch lays patch over the stored record, shallow: patched keys
// replace stored values whole, untouched keys survive.
func mergePatch(prev []byte, patch map[string]any) (map[string]any, error) {
	var merged map[string]any
	if err := json.Unmarshal(prev, &merged); err != nil {
		return nil, fmt.Errorf("local: decoding stored record: %w", err)
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged, nil
}

// nextTimestamp produces an updatedAt strictly greater than prev even when
// two updates land within the same millisecond.
func nextTimestamp(prev string, now time.Time) string {
	next := model.FormatTimestamp(now)
	if next > prev {
		return next
	}
	if t, err := model.ParseTimestamp(prev); err == nil {
		return model.FormatTimestamp(t.Add(time.Millisecond))
	}
	return next
}
