package auth

import (
	"errors"
	"testing"
	"time"
)

func testManager(secret string) *Manager {
	return &Manager{
		Secret:     []byte(secret),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Issuer:     "aws-partner-tracker",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := testManager("test-secret")

	token, err := m.NewAccessToken("admin")
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Role != "admin" {
		t.Fatalf("role = %q, want admin", claims.Role)
	}
	if claims.Issuer != "aws-partner-tracker" {
		t.Fatalf("issuer = %q", claims.Issuer)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := testManager("secret-a").NewAccessToken("admin")
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := testManager("secret-b").Parse(token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := testManager("test-secret")
	m.AccessTTL = -time.Minute

	token, err := m.NewAccessToken("admin")
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected parse failure for expired token")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hash, "hunter2hunter2"); err != nil {
		t.Fatalf("ComparePassword: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch")
	}
	if _, err := HashPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}
