package models

// User is an account in the sharing service. Email is unique across all
// users; identity is asserted by the X-Sharer-User-Id header, not verified.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserCreate carries the fields accepted on signup.
type UserCreate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserPatch is a null-safe partial update: nil fields keep their current value.
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
