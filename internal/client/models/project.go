package models

// Project is a summary of a project the user has joined.
//
// Color is assigned client-side for display purposes when the list is
// fetched; it is not persisted and changes between fetches.
type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	MemberCount int    `json:"memberCount"`
	Color       string `json:"-"`
}
