package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" || hash == "" {
		t.Error("expected opaque digest")
	}
	if !VerifyPassword("secret1", hash) {
		t.Error("expected matching password to verify")
	}
	if VerifyPassword("wrong", hash) {
		t.Error("expected wrong password to fail")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Error("expected distinct digests for the same plaintext")
	}
}

func TestVerifyPasswordGarbageHash(t *testing.T) {
	if VerifyPassword("secret1", "not-a-bcrypt-digest") {
		t.Error("malformed digest must never verify")
	}
}
