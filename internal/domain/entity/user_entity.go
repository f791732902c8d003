package entity

import "time"

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash; the plaintext is never persisted or logged.
// RefreshToken is the single currently-honored refresh token for this user:
// it is overwritten on every login/register/refresh and cleared on logout,
// which is the server-side revocation mechanism.
type User struct {
	ID           int64
	Email        string
	Password     string
	Name         string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicView is the user shape returned to clients (no hash, no token).
type PublicView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Public() PublicView {
	return PublicView{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}
