package security

import (
	"errors"
	"testing"
	"time"

	"prephub/internal/common"
)

func initTestJWT(t *testing.T, refreshTTL time.Duration) {
	t.Helper()
	InitJWT([]byte("test-access-secret"), []byte("test-refresh-secret"), time.Minute, refreshTTL)
}

func TestGenerateTokenPairRoundTrip(t *testing.T) {
	initTestJWT(t, time.Minute)

	pair, err := GenerateTokenPair("user_1", "alice@example.com", "admin")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens to be set, got %+v", pair)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}

	claims, err := VerifyRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyRefreshToken: %v", err)
	}
	if id, _ := GetUserIDFromClaims(claims); id != "user_1" {
		t.Errorf("user_id claim = %q, want user_1", id)
	}
	if email, _ := GetEmailFromClaims(claims); email != "alice@example.com" {
		t.Errorf("email claim = %q, want alice@example.com", email)
	}
	if role, _ := GetUserRoleFromClaims(claims); role != "admin" {
		t.Errorf("role claim = %q, want admin", role)
	}
}

func TestTokenPairsAreUnique(t *testing.T) {
	initTestJWT(t, time.Minute)

	first, err := GenerateTokenPair("user_1", "alice@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	second, err := GenerateTokenPair("user_1", "alice@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if first.RefreshToken == second.RefreshToken {
		t.Fatal("two refresh tokens for the same user must not collide")
	}
}

func TestVerifyRefreshTokenRejectsAccessToken(t *testing.T) {
	initTestJWT(t, time.Minute)

	pair, err := GenerateTokenPair("user_1", "alice@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	// Signed with the access secret, so verification fails before the type
	// claim is even inspected.
	if _, err := VerifyRefreshToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRefreshTokenWrongType(t *testing.T) {
	// Same secret for both classes forces the type claim to do the work.
	InitJWT([]byte("shared-secret"), []byte("shared-secret"), time.Minute, time.Minute)

	pair, err := GenerateTokenPair("user_1", "alice@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if _, err := VerifyRefreshToken(pair.AccessToken); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("expected ErrWrongTokenType, got %v", err)
	}
}

func TestVerifyRefreshTokenExpired(t *testing.T) {
	initTestJWT(t, -time.Minute)

	pair, err := GenerateTokenPair("user_1", "alice@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	_, err = VerifyRefreshToken(pair.RefreshToken)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expired token should map to unauthorized, got %v", err)
	}
}

func TestVerifyRefreshTokenTampered(t *testing.T) {
	initTestJWT(t, time.Minute)

	pair, err := GenerateTokenPair("user_1", "alice@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	tampered := pair.RefreshToken[:len(pair.RefreshToken)-2] + "xx"
	if _, err := VerifyRefreshToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRefreshTokenGarbage(t *testing.T) {
	initTestJWT(t, time.Minute)

	if _, err := VerifyRefreshToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
