package model

// Comment belongs to a post. Writer and ImageURL are snapshots of the
// author's nickname and avatar taken at comment time; they are not kept in
// sync with later profile changes.
//
// Like Post, a comment stores canonical fields (postId/authorId/createdAt)
// and legacy aliases (post_id/user_id/created_at) with identical values.
type Comment struct {
	ID        string  `json:"id"`
	PostID    string  `json:"postId"`
	AuthorID  string  `json:"authorId"`
	Content   string  `json:"content"`
	Writer    string  `json:"writer"`
	ImageURL  *string `json:"image_url"`
	CreatedAt string  `json:"createdAt"`

	// Legacy aliases, always equal to the canonical fields above.
	PostIDLegacy    string `json:"post_id"`
	AuthorIDLegacy  string `json:"user_id"`
	CreatedAtLegacy string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}
