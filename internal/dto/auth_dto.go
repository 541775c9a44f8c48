package dto

import (
	"encoding/json"
	"time"

	"ledgerlite/internal/entity"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken      string `json:"access_token,omitempty"`
	ExpiresIn        int64  `json:"expires_in,omitempty"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	RefreshExpiresIn int64  `json:"refresh_expires_in,omitempty"`

	// Set when the server needs a one-time code before letting the login
	// through; the client moves from its password screen to the code screen.
	OTPRequired bool `json:"otp_required,omitempty"`
}

type ResendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	// Defaults to login_recovery when absent.
	Purpose string `json:"purpose" validate:"omitempty,oneof=login_recovery email_verification password_reset"`
}

type VerifyOTPRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Code    string `json:"code" validate:"required"`
	Purpose string `json:"purpose" validate:"omitempty,oneof=login_recovery email_verification password_reset"`
}

type UserSummary struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

type VerifyOTPResponse struct {
	Success bool        `json:"success"`
	User    UserSummary `json:"user"`
	Message string      `json:"message"`
}

type PasswordForgotRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type SecurityLogResponse struct {
	ID        string         `json:"id"`
	UserID    *string        `json:"user_id,omitempty"`
	IPAddress *string        `json:"ip_address,omitempty"`
	Action    string         `json:"action"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func SecurityLogResponseFromEntity(log *entity.SecurityLog) SecurityLogResponse {
	var userID *string
	if log.UserID != nil {
		value := log.UserID.String()
		userID = &value
	}
	var metadata map[string]any
	if len(log.Metadata) > 0 {
		_ = json.Unmarshal(log.Metadata, &metadata)
	}
	return SecurityLogResponse{
		ID:        log.ID.String(),
		UserID:    userID,
		IPAddress: log.IPAddress,
		Action:    string(log.Action),
		Metadata:  metadata,
		CreatedAt: log.CreatedAt,
	}
}

func UserSummaryFromEntity(user *entity.User) UserSummary {
	return UserSummary{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
		Image: user.Image,
	}
}
