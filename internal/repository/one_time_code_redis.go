package repository

import (
	"context"
	"encoding/json"
	"time"

	"ledgerlite/internal/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	codeKeyPrefix     = "otp:"
	cooldownKeyPrefix = "otp_cooldown:"
)

// consumeScript deletes the stored code only when its id matches, so two
// concurrent verifications cannot both consume it.
var consumeScript = redis.NewScript(`
local value = redis.call('GET', KEYS[1])
if not value then return 0 end
local stored = cjson.decode(value)
if stored.id ~= ARGV[1] then return 0 end
redis.call('DEL', KEYS[1])
return 1
`)

type redisCodeStore struct {
	client *redis.Client
}

// NewRedisCodeStore is the key-value backend of OneTimeCodeStore. The key TTL
// stands in for expires_at, and a SET NX cooldown lock stands in for the
// conditional insert. Consumption deletes the key, so FindLatestActive after a
// consume sees nothing, same as the relational backend with used_at set.
func NewRedisCodeStore(client *redis.Client) OneTimeCodeStore {
	return &redisCodeStore{client: client}
}

type storedCode struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func codeKey(email string, purpose entity.CodePurpose) string {
	return codeKeyPrefix + string(purpose) + ":" + email
}

func cooldownKey(email string, purpose entity.CodePurpose) string {
	return cooldownKeyPrefix + string(purpose) + ":" + email
}

func (s *redisCodeStore) CreateIfNoRecent(
	ctx context.Context,
	code *entity.OneTimeCode,
	cooldown time.Duration,
) (bool, error) {
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}

	locked, err := s.client.SetNX(ctx, cooldownKey(code.Email, code.Purpose), "1", cooldown).Result()
	if err != nil {
		return false, err
	}
	if !locked {
		return false, nil
	}

	payload, err := json.Marshal(storedCode{
		ID:        code.ID.String(),
		Email:     code.Email,
		Code:      code.Code,
		Purpose:   string(code.Purpose),
		ExpiresAt: code.ExpiresAt,
		CreatedAt: code.CreatedAt,
	})
	if err != nil {
		s.client.Del(ctx, cooldownKey(code.Email, code.Purpose))
		return false, err
	}

	ttl := time.Until(code.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, codeKey(code.Email, code.Purpose), payload, ttl).Err(); err != nil {
		// Release the cooldown lock, otherwise the caller is refused retries
		// while no code exists to verify.
		s.client.Del(ctx, cooldownKey(code.Email, code.Purpose))
		return false, err
	}
	return true, nil
}

func (s *redisCodeStore) FindLatestActive(
	ctx context.Context,
	email string,
	purpose entity.CodePurpose,
) (*entity.OneTimeCode, error) {
	value, err := s.client.Get(ctx, codeKey(email, purpose)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stored storedCode
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(stored.ID)
	if err != nil {
		return nil, err
	}
	return &entity.OneTimeCode{
		ID:        id,
		Email:     stored.Email,
		Code:      stored.Code,
		Purpose:   entity.CodePurpose(stored.Purpose),
		ExpiresAt: stored.ExpiresAt,
		CreatedAt: stored.CreatedAt,
	}, nil
}

func (s *redisCodeStore) Consume(ctx context.Context, code *entity.OneTimeCode) (bool, error) {
	key := codeKey(code.Email, code.Purpose)
	consumed, err := consumeScript.Run(ctx, s.client, []string{key}, code.ID.String()).Int()
	if err != nil {
		return false, err
	}
	return consumed == 1, nil
}
