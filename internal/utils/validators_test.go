package utils

import "testing"

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last+tag@example.org", "user_1%x@sub.domain.io"}
	invalid := []string{"", "plain", "@no-local.com", "no-at.com", "a@b", "a b@c.co"}
	for _, s := range valid {
		if !ValidEmail(s) {
			t.Errorf("ValidEmail(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if ValidEmail(s) {
			t.Errorf("ValidEmail(%q) = true, want false", s)
		}
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"123456789", "+12125551234", "989121234567"}
	invalid := []string{"", "12345678", "phone", "+++123456789"}
	for _, s := range valid {
		if !ValidPhone(s) {
			t.Errorf("ValidPhone(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if ValidPhone(s) {
			t.Errorf("ValidPhone(%q) = true, want false", s)
		}
	}
}

func TestValidName(t *testing.T) {
	valid := []string{"Jo", "Mary Jane", "O'Brien", "Smith-Jones"}
	invalid := []string{"", "X", "name1", "a@b"}
	for _, s := range valid {
		if !ValidName(s) {
			t.Errorf("ValidName(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if ValidName(s) {
			t.Errorf("ValidName(%q) = true, want false", s)
		}
	}
}

func TestValidDate(t *testing.T) {
	if !ValidDate("1990-05-17") {
		t.Error("ValidDate(1990-05-17) = false")
	}
	for _, s := range []string{"", "17-05-1990", "1990-13-01", "1990-02-30", "yesterday"} {
		if ValidDate(s) {
			t.Errorf("ValidDate(%q) = true, want false", s)
		}
	}
}

func TestValidBloodGroup(t *testing.T) {
	for _, s := range []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"} {
		if !ValidBloodGroup(s) {
			t.Errorf("ValidBloodGroup(%q) = false", s)
		}
	}
	for _, s := range []string{"", "C+", "a+", "AB"} {
		if ValidBloodGroup(s) {
			t.Errorf("ValidBloodGroup(%q) = true, want false", s)
		}
	}
}

func TestCheckPasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Abcd3f$h", true},
		{"short1$", false},         // under 8 chars
		{"alllower3$xx", false},    // no uppercase
		{"ALLUPPER3$XX", false},    // no lowercase
		{"NoNumbers$here", false},  // no digit
		{"NoSpecials3here", false}, // no special character
		{"", false},
	}
	for _, c := range cases {
		ok, msg := CheckPasswordStrength(c.password)
		if ok != c.ok {
			t.Errorf("CheckPasswordStrength(%q) = %v (%s), want %v", c.password, ok, msg, c.ok)
		}
		if !ok && msg == "" {
			t.Errorf("CheckPasswordStrength(%q) rejected with empty message", c.password)
		}
	}
}
