package session

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

func signedIdentityToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	builder := jwt.NewBuilder().
		Issuer("https://accounts.google.com").
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour))
	for name, value := range claims {
		builder = builder.Claim(name, value)
	}
	tok, err := builder.Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte("test-secret")))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(signed)
}

func TestDecodeIdentity(t *testing.T) {
	token := signedIdentityToken(t, map[string]any{
		"email":          "jane@example.com",
		"name":           "Jane Doe",
		"picture":        "https://example.com/p.png",
		"email_verified": true,
	})

	claims, err := DecodeIdentity(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.Email != "jane@example.com" || claims.Name != "Jane Doe" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if !claims.EmailVerified {
		t.Fatal("expected email_verified to carry through")
	}
}

func TestDecodeIdentityDoesNotVerifySignature(t *testing.T) {
	// tokens signed with an arbitrary key decode fine; the signature is
	// never checked here
	token := signedIdentityToken(t, map[string]any{"email": "a@b.c"})
	if _, err := DecodeIdentity(token); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestDecodeIdentityNameFallback(t *testing.T) {
	token := signedIdentityToken(t, map[string]any{
		"email":      "jane@example.com",
		"given_name": "Jane",
	})
	claims, err := DecodeIdentity(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.Name != "Jane" {
		t.Fatalf("expected given_name fallback, got %q", claims.Name)
	}

	token = signedIdentityToken(t, map[string]any{"email": "jane@example.com"})
	claims, err = DecodeIdentity(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.Name != "User" {
		t.Fatalf("expected default name, got %q", claims.Name)
	}
}

func TestDecodeIdentityMalformed(t *testing.T) {
	if _, err := DecodeIdentity("not-a-jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestDecodeIdentityMissingEmail(t *testing.T) {
	token := signedIdentityToken(t, map[string]any{"name": "No Email"})
	if _, err := DecodeIdentity(token); err == nil {
		t.Fatal("expected error when email claim is absent")
	}
}
