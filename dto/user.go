package dto

import (
	"time"

	"notedeck/model"
)

type UserResponse struct {
	UserID           string    `json:"user_id"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"display_name"`
	PictureURL       string    `json:"picture_url,omitempty"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
}

func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		UserID:           user.UserID,
		Email:            user.Email,
		DisplayName:      user.DisplayName,
		PictureURL:       user.PictureURL,
		TwoFactorEnabled: user.TwoFactorEnabled,
		CreatedAt:        user.CreatedAt,
	}
}
