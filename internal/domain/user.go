package domain

import "time"

type User struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Image     string    `db:"image"`
	Role      Role      `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

// Session builds the session view of the user for the given token id.
func (u *User) Session(tokenID string) Session {
	return Session{
		UserID:  u.ID,
		TokenID: tokenID,
		Name:    u.Name,
		Email:   u.Email,
		Image:   u.Image,
		Role:    u.Role,
	}
}
