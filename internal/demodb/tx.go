package demodb

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cockroachdb/pebble"
)

// Tx is one write transaction over the store area. Every mutation keeps the
// secondary indexes in step with the records: Put refreshes the entries for
// its record, Delete removes them, Clear drops store and indexes together.
type Tx struct {
	batch *pebble.Batch
}

// Put stores rec (a JSON object with a non-empty "id") as a full-record
// replace, rewriting the record's index entries. Last write wins at record
// granularity.
func (tx *Tx) Put(store string, rec []byte) error {
	def, ok := storeDef(store)
	if !ok {
		return fmt.Errorf("demodb: unknown store %q", store)
	}

	var fields map[string]any
	if err := json.Unmarshal(rec, &fields); err != nil {
		return fmt.Errorf("demodb: record for %s is not a JSON object: %w", store, err)
	}
	id, _ := fields["id"].(string)
	if id == "" {
		return fmt.Errorf("demodb: record for %s has no id", store)
	}

	// Drop index entries pointing at the record's previous version.
	if err := tx.dropIndexEntries(def, id); err != nil {
		return err
	}

	if err := tx.batch.Set(recordKey(store, id), rec, nil); err != nil {
		return fmt.Errorf("demodb: putting %s/%s: %w", store, id, err)
	}
	for _, idx := range def.Indexes {
		value, ok := indexableValue(fields[idx.Field])
		if !ok {
			continue // records missing the indexed field are not indexed
		}
		if err := tx.batch.Set(indexKey(store, idx.Name, value, id), nil, nil); err != nil {
			return fmt.Errorf("demodb: indexing %s/%s on %s: %w", store, id, idx.Name, err)
		}
	}
	return nil
}

// Delete removes the record and its index entries. Deleting an absent
// record is a no-op.
func (tx *Tx) Delete(store, id string) error {
	def, ok := storeDef(store)
	if !ok {
		return fmt.Errorf("demodb: unknown store %q", store)
	}
	if err := tx.dropIndexEntries(def, id); err != nil {
		return err
	}
	if err := tx.batch.Delete(recordKey(store, id), nil); err != nil {
		return fmt.Errorf("demodb: deleting %s/%s: %w", store, id, err)
	}
	return nil
}

// DeleteIndexed deletes every record whose indexed field equals value,
// walking the index cursor. This is the cascade primitive: deleting a
// post's comments is DeleteIndexed(comments, by-postId, postID) inside the
// same transaction that deletes the post.
func (tx *Tx) DeleteIndexed(store, index, value string) error {
	def, ok := storeDef(store)
	if !ok {
		return fmt.Errorf("demodb: unknown store %q", store)
	}
	if !hasIndex(def, index) {
		return fmt.Errorf("demodb: unknown index %q on store %q", index, store)
	}

	lower := indexValuePrefix(store, index, value)
	iter := tx.batch.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upperBound(lower)})
	var ids []string
	for valid := iter.First(); valid; valid = iter.Next() {
		ids = append(ids, string(iter.Key()[len(lower):]))
	}
	if err := iter.Error(); err != nil {
		iter.Close()
		return fmt.Errorf("demodb: scanning index %s/%s: %w", store, index, err)
	}
	iter.Close()

	for _, id := range ids {
		if err := tx.Delete(store, id); err != nil {
			return err
		}
	}
	return nil
}

// Clear empties the given stores (records and index entries). The store
// area itself survives: the database stays open and usable, and the schema
// version is untouched.
func (tx *Tx) Clear(stores ...string) error {
	for _, store := range stores {
		if _, ok := storeDef(store); !ok {
			return fmt.Errorf("demodb: unknown store %q", store)
		}
		lower, upper := recordBounds(store)
		if err := tx.batch.DeleteRange(lower, upper, nil); err != nil {
			return fmt.Errorf("demodb: clearing %s: %w", store, err)
		}
		lower, upper = indexBounds(store)
		if err := tx.batch.DeleteRange(lower, upper, nil); err != nil {
			return fmt.Errorf("demodb: clearing %s indexes: %w", store, err)
		}
	}
	return nil
}

// Get reads a record through the transaction, seeing the transaction's own
// uncommitted writes. Returns nil when absent.
func (tx *Tx) Get(store, id string) ([]byte, error) {
	if _, ok := storeDef(store); !ok {
		return nil, fmt.Errorf("demodb: unknown store %q", store)
	}
	value, closer, err := tx.batch.Get(recordKey(store, id))
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

// records returns (id, json) for every record of the store as seen by the
// transaction. Used by migrations to rewrite a store in place.
func (tx *Tx) records(store string) (ids []string, recs [][]byte, err error) {
	lower, upper := recordBounds(store)
	iter := tx.batch.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	defer iter.Close()

	for valid := iter.First(); valid; valid = iter.Next() {
		ids = append(ids, string(iter.Key()[len(lower):]))
		rec := make([]byte, len(iter.Value()))
		copy(rec, iter.Value())
		recs = append(recs, rec)
	}
	if err := iter.Error(); err != nil {
		return nil, nil, fmt.Errorf("demodb: walking %s: %w", store, err)
	}
	return ids, recs, nil
}

func (tx *Tx) setVersion(v int) error {
	if err := tx.batch.Set(metaKey(metaSchemaVersion), []byte(strconv.Itoa(v)), nil); err != nil {
		return fmt.Errorf("demodb: writing schema version: %w", err)
	}
	return nil
}

// dropIndexEntries removes the index keys contributed by the currently
// stored version of the record, if any.
func (tx *Tx) dropIndexEntries(def StoreDef, id string) error {
	prev, err := tx.Get(def.Name, id)
	if err != nil {
		return err
	}
	if prev == nil {
		return nil
	}
	var fields map[string]any
	if err := json.Unmarshal(prev, &fields); err != nil {
		// An unreadable stored record contributes no resolvable index keys.
		return nil
	}
	for _, idx := range def.Indexes {
		value, ok := indexableValue(fields[idx.Field])
		if !ok {
			continue
		}
		if err := tx.batch.Delete(indexKey(def.Name, idx.Name, value, id), nil); err != nil {
			return fmt.Errorf("demodb: unindexing %s/%s on %s: %w", def.Name, id, idx.Name, err)
		}
	}
	return nil
}

// indexableValue renders a field value into its index-key form. Absent and
// null fields are not indexed, matching object-store index semantics.
func indexableValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
