package auth

import (
	"testing"
	"time"
)

func TestPasscodeHashRoundtrip(t *testing.T) {
	hash, err := HashPasscode("1234")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := CheckPasscode(hash, "1234"); err != nil {
		t.Fatalf("expected passcode to verify: %v", err)
	}
	if err := CheckPasscode(hash, "4321"); err == nil {
		t.Fatal("expected wrong passcode to fail")
	}
}

func TestTokenRoundtrip(t *testing.T) {
	token, err := GenerateToken("secret", time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != TokenSubject {
		t.Fatalf("expected subject %q, got %q", TokenSubject, claims.Subject)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret", time.Minute)
	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	token, _ := GenerateToken("secret", -time.Minute)
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}
