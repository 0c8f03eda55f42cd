package jwt

import (
	"strings"
	"testing"
	"time"
)

func TestToken_New(t *testing.T) {
	payload := Claims{ExpirationTime: time.Now().Unix()}
	New(AlgHS256, payload)
}

func TestToken_Sign(t *testing.T) {
	payload := Claims{ExpirationTime: time.Now().Unix()}
	token := New(AlgHS256, payload)
	tokenString, err := token.Sign("secret")
	if err != nil {
		t.Error(err)
	}

	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		t.Error("JWT does not have 3 parts")
	}
}

func TestVerify_Expired(t *testing.T) {
	payload := Claims{ExpirationTime: time.Now().Unix() - 100, TokenType: TokenTypeAccess}
	token := New(AlgHS256, payload)
	tokenString, err := token.Sign("secret")
	if err != nil {
		t.Error(err)
	}

	newClaims := Claims{}

	verifiedToken, err := Verify(tokenString, TokenTypeAccess, "secret", AlgHS256, newClaims)
	if err == nil && verifiedToken != nil {
		t.Error(err)
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	payload := Claims{
		Subject:        "someUserID",
		ExpirationTime: time.Now().Add(time.Hour).Unix(),
		TokenType:      TokenTypeAccess,
	}
	token := New(AlgHS256, payload)
	tokenString, err := token.Sign("secret")
	if err != nil {
		t.Error(err)
	}

	verifiedToken, err := Verify(tokenString, TokenTypeAccess, "secret", AlgHS256, Claims{})
	if err != nil {
		t.Error(err)
	}

	if verifiedToken.Payload.Subject != "someUserID" {
		t.Errorf("got %q, want %q", verifiedToken.Payload.Subject, "someUserID")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	payload := Claims{
		Subject:        "someUserID",
		ExpirationTime: time.Now().Add(time.Hour).Unix(),
		TokenType:      TokenTypeAccess,
	}
	token := New(AlgHS256, payload)
	tokenString, err := token.Sign("secret")
	if err != nil {
		t.Error(err)
	}

	_, err = Verify(tokenString, TokenTypeAccess, "other", AlgHS256, Claims{})
	if err == nil {
		t.Error("expected verification to fail with wrong secret")
	}
}
