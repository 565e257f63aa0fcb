package services

import (
	"errors"

	"github.com/pquerna/otp/totp"
)

// GenerateTOTPSecret creates a new TOTP secret and provisioning URL for the
// authenticator app.
func GenerateTOTPSecret(accountName string) (secret string, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "notedeck",
		AccountName: accountName,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// ValidateTOTPCode checks a 6-digit code against the stored secret.
func ValidateTOTPCode(code string, secret string) error {
	if secret == "" {
		return errors.New("two-factor authentication is not configured")
	}
	if !totp.Validate(code, secret) {
		return errors.New("invalid verification code")
	}
	return nil
}
