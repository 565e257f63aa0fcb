package services

import (
	"os"
	"testing"

	"notedeck/utils"
)

func init() {
	os.Setenv("GO_ENV", "test")
	utils.InitJWT()
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	userID, err := ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("got user %q, want user-1", userID)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken("user-2")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	userID, err := ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if userID != "user-2" {
		t.Errorf("got user %q, want user-2", userID)
	}
}

func TestRefreshTokenRejectedAsAccessToken(t *testing.T) {
	token, err := GenerateRefreshToken("user-3")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	if _, err := ValidateAccessToken(token); err == nil {
		t.Error("refresh token accepted as access token")
	}
}

func TestAccessTokenRejectedAsRefreshToken(t *testing.T) {
	token, err := GenerateJWT("user-4")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ValidateRefreshToken(token); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestPendingTokenRoundTrip(t *testing.T) {
	token, err := GenerateTwoFactorPendingToken("user-5")
	if err != nil {
		t.Fatalf("GenerateTwoFactorPendingToken: %v", err)
	}

	userID, err := ValidateTwoFactorPendingToken(token)
	if err != nil {
		t.Fatalf("ValidateTwoFactorPendingToken: %v", err)
	}
	if userID != "user-5" {
		t.Errorf("got user %q, want user-5", userID)
	}

	if _, err := ValidateAccessToken(token); err == nil {
		t.Error("pending token accepted as access token")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := GenerateJWT("user-6")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ValidateAccessToken(tampered); err == nil {
		t.Error("tampered token accepted")
	}
}
