package auth

import (
	"testing"
	"time"

	"github.com/SAP-F-2025/attendance-service/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    "user-1",
		Email: "ada@example.edu",
		Role:  models.RoleStudent,
	}
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	tm := NewTokenManager("test-signing-key", "attendance-service", time.Hour)

	token, exp, err := tm.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if !exp.After(time.Now()) {
		t.Errorf("expiry should be in the future, got %v", exp)
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "ada@example.edu" || claims.Role != models.RoleStudent {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestTokenManager_RejectsWrongKey(t *testing.T) {
	tm := NewTokenManager("key-a", "attendance-service", time.Hour)
	other := NewTokenManager("key-b", "attendance-service", time.Hour)

	token, _, err := tm.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Parse(token); err == nil {
		t.Error("expected parse failure with wrong signing key")
	}
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("key", "attendance-service", -time.Minute)

	token, _, err := tm.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := tm.Parse(token); err == nil {
		t.Error("expected parse failure for expired token")
	}
}

func TestTokenManager_RejectsIssuerMismatch(t *testing.T) {
	tm := NewTokenManager("key", "service-a", time.Hour)
	other := NewTokenManager("key", "service-b", time.Hour)

	token, _, err := tm.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Parse(token); err == nil {
		t.Error("expected parse failure for issuer mismatch")
	}
}
