package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/avsingh/catalogarr/internal/apperrors"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	email, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("Failed to verify token: %v", err)
	}
	if email != "user@example.com" {
		t.Errorf("Expected email 'user@example.com', got '%s'", email)
	}
}

func TestTokenExpired(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	_, err = manager.Verify(token)
	if !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	for _, garbage := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := manager.Verify(garbage); !errors.Is(err, apperrors.ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken for %q, got %v", garbage, err)
		}
	}
}
