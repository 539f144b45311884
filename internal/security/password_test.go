package security_test

import (
	"testing"

	"github.com/roomvana/designhub/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("password123")

	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if hash == "password123" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if err := security.CheckPassword(hash, "password123"); err != nil {
		t.Fatalf("CheckPassword rejected the right password: %v", err)
	}

	if err := security.CheckPassword(hash, "wrong-password"); err == nil {
		t.Fatalf("CheckPassword accepted the wrong password")
	}
}
