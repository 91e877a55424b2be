package codes

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// Kinds de código de un solo uso guardados en Redis con TTL.
const (
	KindVerifyEmail = "verify"
	KindTwoFactor   = "2fa"
)

const (
	VerifyEmailTTL = 15 * time.Minute
	TwoFactorTTL   = 10 * time.Minute
)

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func key(kind, email string) string {
	return fmt.Sprintf("code:%s:%s", kind, strings.ToLower(strings.TrimSpace(email)))
}

// Generate produce un código numérico de 6 dígitos.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *Store) Set(ctx context.Context, kind, email, code string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key(kind, email), code, ttl).Err()
}

// Check valida y consume el código: un código correcto solo sirve una vez.
func (s *Store) Check(ctx context.Context, kind, email, code string) (bool, error) {
	k := key(kind, email)

	stored, err := s.rdb.Get(ctx, k).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stored != code {
		return false, nil
	}

	_ = s.rdb.Del(ctx, k).Err()
	return true, nil
}
