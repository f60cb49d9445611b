package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "karigar:otp:"
	codeTTL   = 5 * time.Minute
)

var (
	ErrCodeMismatch = errors.New("incorrect or expired verification code")
)

// Store issues and verifies the signup verification codes. This is the
// mock OTP step: codes are logged instead of sent over SMS, but the
// gating contract is real — signup requires a verified code, and a
// code is consumed by its first successful verification.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Request generates a 6-digit code for the email and stores it with a
// 5 minute TTL, replacing any earlier code. The code is returned so
// the mock flow can surface it to the caller.
func (s *Store) Request(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	if err := s.client.Set(ctx, s.key(email), code, codeTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store code: %w", err)
	}

	log.Printf("otp: code for %s is %s (mock delivery)", email, code)
	return code, nil
}

// Verify checks the code and deletes it on success, so a second verify
// with the same code fails.
func (s *Store) Verify(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, s.key(email)).Result()
	if err == redis.Nil {
		return ErrCodeMismatch
	}
	if err != nil {
		return fmt.Errorf("failed to read code: %w", err)
	}

	if stored != code {
		return ErrCodeMismatch
	}

	if err := s.client.Del(ctx, s.key(email)).Err(); err != nil {
		return fmt.Errorf("failed to consume code: %w", err)
	}
	return nil
}

func (s *Store) key(email string) string {
	return keyPrefix + email
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
