package domain

import "time"

// User is a row of the credential store. Secret holds whatever the configured
// secret hasher produced and is never serialised.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Secret    string    `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// PublicUser is the view of a user that leaves the authority.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Public strips everything but the id and username.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}
