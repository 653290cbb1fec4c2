package demodb

// Key layout. Everything lives in one pebble keyspace, namespaced by a
// one-byte prefix and 0x00 separators:
//
//	record   'o' 00 <store> 00 <id>                        -> record JSON
//	index    'i' 00 <store> 00 <index> 00 <value> 00 <id>  -> (empty)
//	meta     'm' 00 <name>                                 -> value
//
// Index keys carry no payload; the record id is the key suffix. Because keys
// are byte-ordered, an index range scan under a fixed value enumerates
// matching ids, and a scan over the whole index enumerates records in index
// order (which is why timestamps must be stored in their zero-padded form).

const (
	kindRecord = 'o'
	kindIndex  = 'i'
	kindMeta   = 'm'

	sep = 0x00
)

const metaSchemaVersion = "schema_version"

func recordKey(store, id string) []byte {
	k := make([]byte, 0, 2+len(store)+1+len(id))
	k = append(k, kindRecord, sep)
	k = append(k, store...)
	k = append(k, sep)
	k = append(k, id...)
	return k
}

// recordBounds returns the half-open key range covering every record of the
// store. The upper bound bumps the trailing separator by one.
func recordBounds(store string) (lower, upper []byte) {
	lower = make([]byte, 0, 2+len(store)+1)
	lower = append(lower, kindRecord, sep)
	lower = append(lower, store...)
	lower = append(lower, sep)
	return lower, upperBound(lower)
}

func indexKey(store, index, value, id string) []byte {
	k := indexValuePrefix(store, index, value)
	k = append(k, id...)
	return k
}

// indexValuePrefix covers every entry of one index under one value; the
// record id is whatever follows it in a matching key.
func indexValuePrefix(store, index, value string) []byte {
	k := make([]byte, 0, 2+len(store)+1+len(index)+1+len(value)+1)
	k = append(k, kindIndex, sep)
	k = append(k, store...)
	k = append(k, sep)
	k = append(k, index...)
	k = append(k, sep)
	k = append(k, value...)
	k = append(k, sep)
	return k
}

// indexBounds covers every entry of every index of the store.
func indexBounds(store string) (lower, upper []byte) {
	lower = make([]byte, 0, 2+len(store)+1)
	lower = append(lower, kindIndex, sep)
	lower = append(lower, store...)
	lower = append(lower, sep)
	return lower, upperBound(lower)
}

func metaKey(name string) []byte {
	k := make([]byte, 0, 2+len(name))
	k = append(k, kindMeta, sep)
	k = append(k, name...)
	return k
}

// upperBound returns the smallest key greater than every key with the given
// prefix, assuming the prefix ends in a separator byte.
func upperBound(prefix []byte) []byte {
	up := make([]byte, len(prefix))
	copy(up, prefix)
	up[len(up)-1]++
	return up
}
