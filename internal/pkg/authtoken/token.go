package authtoken

import (
	"errors"
	"fmt"
	"time"

	"p2p-chat-be/internal/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "p2p-chat"

// Claims mirrors the profile handed out at login so clients can render
// themselves without a second round trip.
type Claims struct {
	UserID      int64  `json:"id"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 access tokens.
type Service struct {
	secretKey []byte
	expire    time.Duration
	now       func() time.Time
}

func NewService(secretKey string, expire time.Duration) *Service {
	return &Service{
		secretKey: []byte(secretKey),
		expire:    expire,
		now:       time.Now,
	}
}

func (s *Service) Generate(userID int64, email, phoneNumber, name string) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:      userID,
		Email:       email,
		PhoneNumber: phoneNumber,
		Name:        name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expire)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Verify returns the claims of a valid token. Any failure is reported as
// apperror.ErrTokenExpired or apperror.ErrUnauthorized.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperror.ErrUnauthorized
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.ErrUnauthorized
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.ErrTokenExpired.Wrap(err)
		}
		return nil, apperror.ErrUnauthorized.Wrap(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, apperror.ErrUnauthorized
	}
	return claims, nil
}

func (s *Service) Expire() time.Duration {
	return s.expire
}
