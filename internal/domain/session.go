package domain

// Role - роль пользователя в сессии
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleNone  Role = ""
)

// ParseRole maps an arbitrary role string from a token or the users table.
// Anything that is not admin or user is treated as no role.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleUser:
		return RoleUser
	default:
		return RoleNone
	}
}

// Session is the identity attached to an authenticated request.
type Session struct {
	UserID  int64  `json:"user_id"`
	TokenID string `json:"-"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Image   string `json:"image"`
	Role    Role   `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
