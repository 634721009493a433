package core

import "time"

// User represents a persisted user account.
//
// Password holds the argon2id hash, or the empty string for accounts
// created through social login. It is never serialized.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicUser is the projection returned by the user read path.
// The password hash has no field here on purpose.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the client-facing projection of the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// TokenClaims is the identity a verified session token carries.
type TokenClaims struct {
	UserID string
	Email  string
}
