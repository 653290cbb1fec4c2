package demodb

// CurrentVersion is the schema version this build writes. Version history:
//
//	v1  users/posts/comments stores
//	v2  users default backfill (nickname, image_url)
//	v3  posts canonicalization (coordinate, authorId/createdAt dual names)
//	v4  comments canonicalization + by-createdAt comment index
//
// Migrations are strictly forward; there is no downgrade path.
const CurrentVersion = 4

// Store names. These, the primary key field ("id") and the index definitions
// below are the persisted layout contract: changing any of them breaks
// migration compatibility with existing store areas.
const (
	StoreUsers    = "users"
	StorePosts    = "posts"
	StoreComments = "comments"
)

// IndexDef is a non-unique secondary index over one record field.
type IndexDef struct {
	Name  string
	Field string
}

// StoreDef names a store and its secondary indexes. The primary key is
// always the record's "id" field.
type StoreDef struct {
	Name    string
	Indexes []IndexDef
}

var schema = []StoreDef{
	{
		Name: StoreUsers,
		Indexes: []IndexDef{
			{Name: "by-nickname", Field: "nickname"},
		},
	},
	{
		Name: StorePosts,
		Indexes: []IndexDef{
			{Name: "by-authorId", Field: "authorId"},
			{Name: "by-createdAt", Field: "createdAt"},
		},
	},
	{
		Name: StoreComments,
		Indexes: []IndexDef{
			{Name: "by-postId", Field: "postId"},
			{Name: "by-authorId", Field: "authorId"},
			{Name: "by-createdAt", Field: "createdAt"},
		},
	},
}

// Stores lists every store name in schema order.
func Stores() []string {
	names := make([]string, 0, len(schema))
	for _, def := range schema {
		names = append(names, def.Name)
	}
	return names
}

func storeDef(name string) (StoreDef, bool) {
	for _, def := range schema {
		if def.Name == name {
			return def, true
		}
	}
	return StoreDef{}, false
}
