package api

import (
	"strings"
	"time"

	"github.com/STTM-NSU/trading-app/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	_mockTokenIssuer = "trading-app/local"
	_mockTokenTTL    = 12 * time.Hour
)

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Login does not reach the backend yet: the token is minted locally and
// the session is flagged as mocked.
// TODO: call the backend auth endpoint once it exists and drop the local signing key.
func (c *Client) Login(email, password string) (model.AuthSession, error) {
	creds := model.Credentials{
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := c.validate.Struct(creds); err != nil {
		return model.AuthSession{}, newError("email and password are required")
	}

	userID := strings.ToLower(creds.Email)
	now := time.Now()
	claims := sessionClaims{
		Email: creds.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    _mockTokenIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(_mockTokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.tokenKey)
	if err != nil {
		return model.AuthSession{}, newError("login: can't sign session token: %s", err)
	}

	return model.AuthSession{
		UserID:      userID,
		Email:       creds.Email,
		AccessToken: token,
		Mocked:      true,
	}, nil
}
