package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/isira-aw/Metropolitan-NEW-EMS/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2025",
		AccessTokenTTL: 15 * time.Minute,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", "kasun", "employee")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("expected UserID=user-1, got %s", claims.UserID)
	}
	if claims.Username != "kasun" {
		t.Errorf("expected Username=kasun, got %s", claims.Username)
	}
	if claims.Role != "employee" {
		t.Errorf("expected Role=employee, got %s", claims.Role)
	}
	if claims.Issuer != "metropolitan-ems" {
		t.Errorf("expected default issuer, got %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("jti must not be empty")
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager()
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateAccessToken("user-1", "kasun", "employee")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	m.now = time.Now
	_, err = m.ParseToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	token, _ := m.GenerateAccessToken("user-1", "kasun", "admin")

	other := NewManager(&config.AuthConfig{JWTSecret: "another-secret-key-0123456789", AccessTokenTTL: time.Minute})
	_, err := other.ParseToken(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	m := newTestManager()
	token, _ := m.GenerateAccessToken("user-1", "kasun", "admin")

	other := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2025",
		AccessTokenTTL: time.Minute,
		Issuer:         "someone-else",
	})
	_, err := other.ParseToken(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := newTestManager()
	if _, err := m.ParseToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}
