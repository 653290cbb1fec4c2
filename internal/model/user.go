// Package model defines the data structures used throughout the application.
package model

// FallbackAvatar is the placeholder profile image assigned whenever a user
// record has no image of its own. It is an inline SVG data URL, so it renders
// without any storage backend. A user record never keeps image_url unset:
// absence at creation is always backfilled with this value.
const FallbackAvatar = `data:image/svg+xml;charset=utf-8,` +
	`%3Csvg xmlns='http://www.w3.org/2000/svg' width='120' height='120'%3E` +
	`%3Crect width='120' height='120' fill='%23e9eef5'/%3E` +
	`%3Ccircle cx='60' cy='50' r='22' fill='%23c8d3e0'/%3E` +
	`%3Cpath d='M20 110c8-22 28-34 40-34s32 12 40 34' fill='%23c8d3e0'/%3E` +
	`%3C/svg%3E`

// DefaultNickname is used when a user is created with an empty nickname.
const DefaultNickname = "게스트"

// User is a board member. Demo mode has no real accounts; users are created
// by guest login and identified by a generated id.
//
// Favorite is free text ("Chess, Go"). Loose inputs (arrays, null) are coerced
// to a trimmed string by the normalizer before a record is ever stored.
type User struct {
	ID        string  `json:"id"`
	Nickname  string  `json:"nickname"`
	ImageURL  *string `json:"image_url"`
	Favorite  string  `json:"favorite"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// AuthorView is the denormalized author fragment attached to posts at read
// time, mirroring the relational backend's `users(image_url, nickname)` join
// selection. Both fields are null when the author cannot be resolved.
type AuthorView struct {
	ImageURL *string `json:"image_url"`
	Nickname *string `json:"nickname"`
}
