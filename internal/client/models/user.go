package models

// User is the profile record of the signed-in account.
//
// Gender, Phone and DateOfBirth may legitimately be empty on fresh accounts;
// they are plain strings because the backend returns "" rather than omitting
// the fields.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth"`
	Avatar      string `json:"avatar"`
}

// EmptyUser returns the logged-out profile shape. Session state is reset to
// this value on logout, never to a nil pointer.
func EmptyUser() User {
	return User{}
}

// IsEmpty reports whether u is the logged-out default shape.
func (u User) IsEmpty() bool {
	return u == User{}
}
