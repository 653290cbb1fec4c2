package model

// Session is the persisted guest session. It lives in its own single-key
// slot, separate from the main database, and is consulted by repository
// operations to default a post's author.
//
// IssuedAt is epoch milliseconds.
type Session struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
	IssuedAt int64  `json:"issuedAt"`
}
