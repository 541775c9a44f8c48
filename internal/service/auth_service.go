package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ledgerlite/internal/dto"
	"ledgerlite/internal/entity"
	"ledgerlite/internal/repository"
	"ledgerlite/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

type AuthService struct {
	users        repository.UserRepository
	sessions     repository.SessionRepository
	codes        repository.OneTimeCodeStore
	securityLogs repository.SecurityLogRepository

	emailSender  EmailSender
	passwordHash PasswordHasher
	accessTokens AccessTokenIssuer
	clock        Clock
	config       AuthConfig
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	codes repository.OneTimeCodeStore,
	securityLogs repository.SecurityLogRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	accessTokens AccessTokenIssuer,
	clock Clock,
	config AuthConfig,
) *AuthService {
	return &AuthService{
		users:        users,
		sessions:     sessions,
		codes:        codes,
		securityLogs: securityLogs,
		emailSender:  emailSender,
		passwordHash: passwordHash,
		accessTokens: accessTokens,
		clock:        clock,
		config:       config,
	}
}

// RequestCode issues a one-time code for (email, purpose) and dispatches it
// out of band. The code value never travels back to the caller. ErrRateLimited
// means a code already went out inside the cooldown window and no new record
// was created.
func (s *AuthService) RequestCode(ctx context.Context, email string, purpose entity.CodePurpose) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}
	email = utils.NormalizeEmail(email)
	policy := s.config.policyFor(purpose)

	if policy.RequireUser {
		user, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
	}

	value, err := utils.GenerateNumericCode(s.config.codeLength())
	if err != nil {
		return err
	}

	now := s.now()
	code := &entity.OneTimeCode{
		ID:        uuid.New(),
		Email:     email,
		Code:      value,
		Purpose:   purpose,
		ExpiresAt: now.Add(policy.CodeTTL),
		CreatedAt: now,
	}
	created, err := s.codes.CreateIfNoRecent(ctx, code, policy.Cooldown)
	if err != nil {
		return err
	}
	if !created {
		return ErrRateLimited
	}

	if s.emailSender != nil {
		if err := s.emailSender.SendCode(ctx, email, value, purpose); err != nil {
			return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
		}
	}

	_ = s.logSecurity(ctx, nil, nil, entity.CodeSent, map[string]any{"email": email, "purpose": purpose})
	return nil
}

// VerifyCode checks the submitted code against the newest active record and
// consumes it. Every failure collapses into ErrInvalidCode so a caller cannot
// tell a wrong code from an expired or missing one.
func (s *AuthService) VerifyCode(ctx context.Context, email string, code string, purpose entity.CodePurpose) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(code) == "" {
		return ErrInvalidInput
	}
	email = utils.NormalizeEmail(email)

	record, err := s.codes.FindLatestActive(ctx, email, purpose)
	if err != nil {
		return err
	}
	if record == nil {
		return s.failCode(ctx, email, purpose)
	}
	if record.Expired(s.now()) {
		return s.failCode(ctx, email, purpose)
	}
	if !utils.CodesEqual(code, record.Code) {
		return s.failCode(ctx, email, purpose)
	}

	// The conditional consume decides the winner when two verifications race;
	// the loser falls through to the same generic failure.
	consumed, err := s.codes.Consume(ctx, record)
	if err != nil {
		return err
	}
	if !consumed {
		return s.failCode(ctx, email, purpose)
	}

	// A valid code proves control of the mailbox.
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user != nil && user.EmailVerifiedAt == nil {
		if err := s.users.VerifyEmail(ctx, user.ID); err != nil {
			return err
		}
	}

	var userID *uuid.UUID
	if user != nil {
		userID = &user.ID
	}
	_ = s.logSecurity(ctx, userID, nil, entity.CodeVerified, map[string]any{"purpose": purpose})
	return nil
}

// ResolveSessionSubject returns the identity fields an authenticated session
// is built from. Call only after VerifyCode succeeded for the same email.
func (s *AuthService) ResolveSessionSubject(ctx context.Context, email string) (*dto.UserSummary, error) {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	summary := dto.UserSummaryFromEntity(user)
	return &summary, nil
}

func (s *AuthService) Register(ctx context.Context, input dto.RegisterRequest) error {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" || strings.TrimSpace(input.Name) == "" {
		return ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user != nil {
		if user.EmailVerifiedAt != nil {
			return ErrEmailAlreadyRegistered
		}
		return s.RequestCode(ctx, email, entity.PurposeEmailVerification)
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return err
	}

	newUser := &entity.User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: &hash,
		Role:         entity.UserRoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, newUser); err != nil {
		return err
	}

	return s.RequestCode(ctx, email, entity.PurposeEmailVerification)
}

func (s *AuthService) Login(ctx context.Context, input dto.LoginRequest, ipAddress *string, userAgent *string) (*dto.LoginResponse, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		_ = s.logSecurity(ctx, nil, ipAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	if !s.passwordHash.Verify(*user.PasswordHash, input.Password) {
		_ = s.logSecurity(ctx, &user.ID, ipAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	if user.EmailVerifiedAt == nil {
		// Correct password but unverified mailbox: send a code and tell the
		// client to switch to its code screen. A cooldown refusal is fine, the
		// previously sent code is still live.
		if err := s.RequestCode(ctx, email, entity.PurposeEmailVerification); err != nil && !errors.Is(err, ErrRateLimited) {
			return nil, err
		}
		return &dto.LoginResponse{OTPRequired: true}, nil
	}

	result, err := s.createSessionAndTokens(ctx, user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	_ = s.logSecurity(ctx, &user.ID, ipAddress, entity.LoginSuccess, nil)
	return result, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrInvalidInput
	}

	session, err := s.sessions.FindByTokenHash(ctx, utils.HashSessionToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	newRefreshToken, newRefreshHash, newRefreshExpiry, err := s.buildRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.sessions.RotateToken(ctx, session.ID, newRefreshHash, newRefreshExpiry); err != nil {
		return nil, err
	}

	accessToken, expiresIn, err := s.accessTokens.IssueAccessToken(*user, session.ID.String())
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:      accessToken,
		ExpiresIn:        int64(expiresIn.Seconds()),
		RefreshToken:     newRefreshToken,
		RefreshExpiresIn: int64(newRefreshExpiry.Sub(s.now()).Seconds()),
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID, userID *uuid.UUID, ipAddress *string) error {
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return err
	}
	_ = s.logSecurity(ctx, userID, ipAddress, entity.Logout, nil)
	return nil
}

func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID, ipAddress *string) error {
	if err := s.sessions.RevokeAllByUser(ctx, userID); err != nil {
		return err
	}
	_ = s.logSecurity(ctx, &userID, ipAddress, entity.Logout, map[string]any{"scope": "all_sessions"})
	return nil
}

// ResetPassword consumes a password_reset code and replaces the password.
// All existing sessions are revoked.
func (s *AuthService) ResetPassword(ctx context.Context, input dto.PasswordResetRequest) error {
	if strings.TrimSpace(input.NewPassword) == "" {
		return ErrInvalidInput
	}

	if err := s.VerifyCode(ctx, input.Email, input.Code, entity.PurposePasswordReset); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(input.Email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	hash, err := s.passwordHash.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = &hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	_ = s.sessions.RevokeAllByUser(ctx, user.ID)
	_ = s.logSecurity(ctx, &user.ID, nil, entity.PasswordReset, nil)
	return nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

// RecentSecurityLogs returns the newest audit entries, admin surface only.
func (s *AuthService) RecentSecurityLogs(ctx context.Context, limit int) ([]entity.SecurityLog, error) {
	if s.securityLogs == nil {
		return nil, nil
	}
	return s.securityLogs.ListRecent(ctx, limit)
}

func (s *AuthService) createSessionAndTokens(
	ctx context.Context,
	user *entity.User,
	ipAddress *string,
	userAgent *string,
) (*dto.LoginResponse, error) {
	refreshToken, refreshHash, refreshExpiry, err := s.buildRefreshToken()
	if err != nil {
		return nil, err
	}

	session := &entity.Session{
		UserID:    user.ID,
		TokenHash: refreshHash,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiresAt: refreshExpiry,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	accessToken, expiresIn, err := s.accessTokens.IssueAccessToken(*user, session.ID.String())
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:      accessToken,
		ExpiresIn:        int64(expiresIn.Seconds()),
		RefreshToken:     refreshToken,
		RefreshExpiresIn: int64(refreshExpiry.Sub(s.now()).Seconds()),
	}, nil
}

func (s *AuthService) buildRefreshToken() (string, string, time.Time, error) {
	rawToken, digest, err := utils.NewSessionToken(48)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return rawToken, digest, s.now().Add(s.refreshTokenTTL()), nil
}

func (s *AuthService) failCode(ctx context.Context, email string, purpose entity.CodePurpose) error {
	_ = s.logSecurity(ctx, nil, nil, entity.CodeFailed, map[string]any{"email": email, "purpose": purpose})
	return ErrInvalidCode
}

func (s *AuthService) logSecurity(
	ctx context.Context,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.SecurityAction,
	metadata map[string]any,
) error {
	if s.securityLogs == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}

	log := &entity.SecurityLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	return s.securityLogs.Log(ctx, log)
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AuthService) refreshTokenTTL() time.Duration {
	if s.config.RefreshTokenTTL > 0 {
		return s.config.RefreshTokenTTL
	}
	return 30 * 24 * time.Hour
}
