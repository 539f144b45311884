package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/roomvana/designhub/internal/auth"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	m := auth.NewManager("test-secret-key", time.Hour)

	raw, err := m.GenerateToken("user-1", "sam@example.com", "Sam Doe")

	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	claims, err := m.VerifyToken(raw)

	if err != nil {
		t.Fatalf("VerifyToken returned error: %v", err)
	}

	if claims.UserID != "user-1" || claims.Email != "sam@example.com" || claims.Name != "Sam Doe" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if claims.ExpiresAt == nil {
		t.Fatalf("expected expiry to be set for non-zero TTL")
	}
}

func TestVerifyToken_NoExpiryWhenTTLZero(t *testing.T) {
	m := auth.NewManager("test-secret-key", 0)

	raw, err := m.GenerateToken("user-1", "sam@example.com", "Sam Doe")

	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	claims, err := m.VerifyToken(raw)

	if err != nil {
		t.Fatalf("VerifyToken returned error: %v", err)
	}

	if claims.ExpiresAt != nil {
		t.Fatalf("expected no expiry for zero TTL, got %v", claims.ExpiresAt)
	}
}

func TestVerifyToken_Tampered(t *testing.T) {
	m := auth.NewManager("test-secret-key", time.Hour)

	raw, err := m.GenerateToken("user-1", "sam@example.com", "Sam Doe")

	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	// flip a character in the signature segment
	parts := strings.Split(raw, ".")
	sig := parts[2]

	flipped := "A"
	if strings.HasPrefix(sig, "A") {
		flipped = "B"
	}
	parts[2] = flipped + sig[1:]

	_, err = m.VerifyToken(strings.Join(parts, "."))

	if err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	issuer := auth.NewManager("secret-a", time.Hour)
	verifier := auth.NewManager("secret-b", time.Hour)

	raw, err := issuer.GenerateToken("user-1", "sam@example.com", "Sam Doe")

	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	_, err = verifier.VerifyToken(raw)

	if err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestVerifyToken_Malformed(t *testing.T) {
	m := auth.NewManager("test-secret-key", time.Hour)

	_, err := m.VerifyToken("not-a-jwt")

	if err == nil {
		t.Fatalf("expected malformed token to be rejected")
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	m := auth.NewManager("test-secret-key", time.Nanosecond)

	raw, err := m.GenerateToken("user-1", "sam@example.com", "Sam Doe")

	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	// exp is truncated to whole seconds, so wait out a full second
	time.Sleep(1100 * time.Millisecond)

	_, err = m.VerifyToken(raw)

	if err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}
