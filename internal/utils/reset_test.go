package utils

import (
	"regexp"
	"testing"
)

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

func TestNewResetToken(t *testing.T) {
	tok, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	// 32 bytes in unpadded base64url is 43 characters.
	if len(tok) != 43 {
		t.Errorf("len = %d, want 43", len(tok))
	}
	if !urlSafe.MatchString(tok) {
		t.Errorf("token %q contains non URL-safe characters", tok)
	}
}

func TestNewResetTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := NewResetToken()
		if err != nil {
			t.Fatalf("NewResetToken: %v", err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token after %d draws", i)
		}
		seen[tok] = true
	}
}
