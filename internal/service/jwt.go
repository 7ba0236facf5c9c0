package service

import (
	"errors"
	"os"
	"time"

	"quiz_webapp/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

var jwtSecret []byte

// Claims carried by a session token.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Image  string `json:"image,omitempty"`
	jwt.RegisteredClaims
}

func InitJWT() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
}

// TokenTTL is how long an issued token stays valid.
func TokenTTL() time.Duration {
	return tokenTTL
}

func GenerateJWT(u *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Role:   string(u.Role),
		Name:   u.Name,
		Email:  u.Email,
		Image:  u.Image,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT validates tokenString and returns the session it describes.
func ParseJWT(tokenString string) (domain.Session, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return domain.Session{}, errors.New("invalid token")
	}

	if claims.UserID == 0 {
		return domain.Session{}, errors.New("user_id not found")
	}

	return domain.Session{
		UserID:  claims.UserID,
		TokenID: claims.ID,
		Name:    claims.Name,
		Email:   claims.Email,
		Image:   claims.Image,
		Role:    domain.ParseRole(claims.Role),
	}, nil
}
