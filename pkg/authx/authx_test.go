package authx_test

import (
	"testing"
	"time"

	"github.com/dmichel1/vigil/pkg/authx"
)

func TestTokenService_RoundTrip(t *testing.T) {
	tokens := authx.NewTokenService("test-secret", time.Hour, "vigil")

	token, err := tokens.Generate("user1", []string{"actions:execute"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Subject != "user1" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if len(claims.Scopes) != 1 || claims.Scopes[0] != "actions:execute" {
		t.Fatalf("unexpected scopes %v", claims.Scopes)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	tokens := authx.NewTokenService("secret-a", time.Hour, "vigil")
	other := authx.NewTokenService("secret-b", time.Hour, "vigil")

	token, err := tokens.Generate("user1", nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := other.Validate(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestTokenService_Expired(t *testing.T) {
	tokens := authx.NewTokenService("test-secret", -time.Minute, "vigil")

	token, err := tokens.Generate("user1", nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := tokens.Validate(token); err == nil {
		t.Fatal("expected validation to fail for an expired token")
	}
}

func TestTokenService_Garbage(t *testing.T) {
	tokens := authx.NewTokenService("test-secret", time.Hour, "vigil")
	if _, err := tokens.Validate("not.a.token"); err == nil {
		t.Fatal("expected validation to fail for garbage input")
	}
}
