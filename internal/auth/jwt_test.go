package auth_test

import (
	"testing"
	"time"

	"github.com/ftsilveira/dailydiet/internal/auth"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := auth.NewManager("test-secret", 15*time.Minute)

	token, err := m.GenerateAccessToken("auth0|abc123")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.Subject != "auth0|abc123" {
		t.Fatalf("got subject %q, want %q", claims.Subject, "auth0|abc123")
	}

	if claims.TokenType != "access" {
		t.Fatalf("got token type %q, want access", claims.TokenType)
	}

	if claims.JTI == "" {
		t.Fatalf("expected a jti claim")
	}
}

func TestWrongSecretIsRejected(t *testing.T) {
	m := auth.NewManager("secret-a", 15*time.Minute)
	other := auth.NewManager("secret-b", 15*time.Minute)

	token, err := m.GenerateAccessToken("subject-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := other.VerifyAccessToken(token); err == nil {
		t.Fatalf("token signed with a different secret must not verify")
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	m := auth.NewManager("test-secret", -time.Minute)

	token, err := m.GenerateAccessToken("subject-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.VerifyAccessToken(token); err == nil {
		t.Fatalf("expired token must not verify")
	}
}

func TestGarbageTokenIsRejected(t *testing.T) {
	m := auth.NewManager("test-secret", 15*time.Minute)

	if _, err := m.VerifyAccessToken("not-a-jwt"); err == nil {
		t.Fatalf("garbage must not verify")
	}
}
