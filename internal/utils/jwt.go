// Package utils provides helper functions for token creation, password
// hashing and input validation.
package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/hospital-management/internal/model"
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are self-contained: identity and role travel inside the
// claims, so verification needs no session store. The flip side is that a
// token stays valid until its exp even if the password changes afterwards.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the verified content of an access token.
type Claims struct {
	UserID    uint64
	Email     string
	Role      model.Role
	ExpiresAt time.Time
}

// ErrInvalidToken is returned by ParseAccessToken for any token that fails
// verification: bad signature, wrong algorithm, malformed structure, expiry,
// or a role outside the closed enumeration.
var ErrInvalidToken = errors.New("invalid access token")

// NewAccessToken builds and signs an HS256 JWT for a user. The claims are
// sub (decimal user id), email, role, exp and iat. ttlMin controls the
// token lifetime in minutes.
func NewAccessToken(secret string, userID uint64, email string, role model.Role, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(userID, 10),
		"email": email,
		"role":  string(role),
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature, algorithm and expiry, then extracts
// the typed claims. Every failure collapses into ErrInvalidToken; callers
// have no reason to distinguish a forged token from an expired one.
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	var c Claims

	sub, ok := mc["sub"].(string)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	c.UserID, err = strconv.ParseUint(sub, 10, 64)
	if err != nil || c.UserID == 0 {
		return Claims{}, ErrInvalidToken
	}

	if email, ok := mc["email"].(string); ok {
		c.Email = email
	}

	roleStr, ok := mc["role"].(string)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	role, ok := model.ParseRole(roleStr)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	c.Role = role

	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time.UTC()
	}
	return c, nil
}
