package model

// Coordinate is a map position. Malformed or absent coordinates normalize to
// {0, 0}; after normalization both fields are always numeric.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Post is a board posting. Two field-naming conventions coexist historically
// (authorId/createdAt vs user_id/created_at); the canonical fields and their
// legacy aliases are stored together with identical values so either name
// keeps resolving. The normalizer keeps them in sync — canonical wins when
// the two disagree.
//
// CreatedAt is the sole sort key for post listings (descending, lexical
// comparison of the sortable timestamp form).
type Post struct {
	ID         string     `json:"id"`
	AuthorID   string     `json:"authorId"`
	Title      string     `json:"title"`
	Address    string     `json:"address"`
	Content    string     `json:"content"`
	ImageURL   *string    `json:"image_url"`
	IsRecruit  bool       `json:"is_recruit"`
	Coordinate Coordinate `json:"coordinate"`
	CreatedAt  string     `json:"createdAt"`
	UpdatedAt  string     `json:"updatedAt"`

	// Legacy aliases, always equal to AuthorID and CreatedAt.
	AuthorIDLegacy  string `json:"user_id"`
	CreatedAtLegacy string `json:"created_at"`
}

// PostWithAuthor is a Post with the author fragment attached at read time
// (the join-simulation).
type PostWithAuthor struct {
	Post
	Users AuthorView `json:"users"`
}

// HomePage is one page of the board's home feed plus the total count the
// UI needs to compute the page range.
type HomePage struct {
	Posts       []PostWithAuthor `json:"posts"`
	PostsLength int              `json:"postsLength"`
}
