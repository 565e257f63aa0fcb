package model

import "time"

type User struct {
	UserID           string    `bson:"user_id" json:"user_id"`
	GoogleSubject    string    `bson:"google_subject" json:"-"` // stable Google account id
	Email            string    `bson:"email" json:"email"`
	DisplayName      string    `bson:"display_name" json:"display_name"`
	PictureURL       string    `bson:"picture_url,omitempty" json:"picture_url,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	LastLoginAt      time.Time `bson:"last_login_at" json:"last_login_at"`
	TwoFactorSecret  string    `bson:"two_factor_secret,omitempty" json:"-"`
	TwoFactorEnabled bool      `bson:"two_factor_enabled" json:"two_factor_enabled"`
	RecoveryCodes    []string  `bson:"recovery_codes,omitempty" json:"-"` // argon2 hashes
}
