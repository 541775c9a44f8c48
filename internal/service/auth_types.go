package service

import (
	"context"
	"time"

	"ledgerlite/internal/entity"

	"golang.org/x/crypto/bcrypt"
)

// PurposePolicy carries the per-purpose knobs: whether issuance needs an
// existing user, how long the code lives and how long a sender must wait
// between requests. Unset fields fall back to the AuthConfig defaults.
type PurposePolicy struct {
	RequireUser bool
	CodeTTL     time.Duration
	Cooldown    time.Duration
}

type AuthConfig struct {
	CodeLength      int
	CodeTTL         time.Duration
	ResendCooldown  time.Duration
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	Purposes map[entity.CodePurpose]PurposePolicy
}

func (c AuthConfig) policyFor(purpose entity.CodePurpose) PurposePolicy {
	policy, ok := c.Purposes[purpose]
	if !ok {
		policy = PurposePolicy{RequireUser: true}
	}
	if policy.CodeTTL == 0 {
		policy.CodeTTL = c.CodeTTL
	}
	if policy.CodeTTL == 0 {
		policy.CodeTTL = 10 * time.Minute
	}
	if policy.Cooldown == 0 {
		policy.Cooldown = c.ResendCooldown
	}
	if policy.Cooldown == 0 {
		policy.Cooldown = 30 * time.Second
	}
	return policy
}

func (c AuthConfig) codeLength() int {
	if c.CodeLength == 0 {
		return 6
	}
	return c.CodeLength
}

type EmailSender interface {
	SendCode(ctx context.Context, email string, code string, purpose entity.CodePurpose) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type AccessTokenIssuer interface {
	IssueAccessToken(user entity.User, sessionID string) (string, time.Duration, error)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
