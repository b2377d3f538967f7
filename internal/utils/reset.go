package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// NewResetToken returns a URL-safe random token for password resets. 32
// bytes of entropy (256 bits) encoded without padding, 43 characters. If the
// random source fails, an error is returned and no token is produced.
func NewResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
