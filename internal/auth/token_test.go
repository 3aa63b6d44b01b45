package auth

import (
	"testing"

	"github.com/spec-kit/smartdesk/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	tokenStr, expiresAt, err := tm.GenerateToken("user-1", domain.UserRoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if expiresAt.IsZero() {
		t.Fatal("expiry not set")
	}

	claims, err := tm.ParseToken(tokenStr)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("uid = %q, want user-1", claims.UserID)
	}
	if claims.Role != domain.UserRoleAdmin {
		t.Fatalf("role = %q, want admin", claims.Role)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 30)
	verifier := NewTokenManager("secret-b", 30)

	tokenStr, _, err := issuer.GenerateToken("user-1", domain.UserRoleUser)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ParseToken(tokenStr); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	if _, err := tm.ParseToken("not-a-jwt"); err == nil {
		t.Fatal("malformed token must be rejected")
	}
}
