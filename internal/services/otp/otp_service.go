package otp

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// CodeLength is the number of digits in a login code.
const CodeLength = 6

var (
	ErrCodeExpired = errors.New("otp code expired or never issued")
	ErrCodeInvalid = errors.New("otp code does not match")
)

// Store issues and verifies one-time login codes for a phone number.
type Store interface {
	Issue(ctx context.Context, phone string) (string, error)
	Verify(ctx context.Context, phone, code string) error
}

// RedisStore keeps bcrypt hashes of issued codes in Redis with a TTL.
// Codes are single use: a successful verify consumes the key.
type RedisStore struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{RDB: rdb, TTL: ttl}
}

func key(phone string) string {
	return "otp:" + phone
}

func generateCode() string {
	n := rand.Intn(1000000)
	return fmt.Sprintf("%06d", n)
}

func (s *RedisStore) Issue(ctx context.Context, phone string) (string, error) {
	code := generateCode()

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	if err := s.RDB.Set(ctx, key(phone), string(hash), s.TTL).Err(); err != nil {
		return "", err
	}
	return code, nil
}

func (s *RedisStore) Verify(ctx context.Context, phone, code string) error {
	hash, err := s.RDB.Get(ctx, key(phone)).Result()
	if err == redis.Nil {
		return ErrCodeExpired
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		return ErrCodeInvalid
	}

	s.RDB.Del(ctx, key(phone))
	return nil
}
