package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jdvries/liftlog/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "liftlog-session||"
	tokensSetKey     = "liftlog-sessions"
)

var ErrWrongCredentials = errors.New("wrong credentials")

type Admin struct {
	Username     string
	PasswordHash string
}

type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	admin       *Admin
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewService(admin *Admin, ttl time.Duration, redisClient *redis.Client) *Service {
	return &Service{
		redisClient:    redisClient,
		ttl:            ttl,
		admin:          admin,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// Login checks the credentials and, when valid, creates a new session token.
func (s *Service) Login(ctx context.Context, username, password string, createdAt time.Time) (string, error) {
	if username != s.admin.Username || !pkg.CheckPasswordHash(password, s.admin.PasswordHash) {
		return "", ErrWrongCredentials
	}

	token, err := s.RandStringFunc(35)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	sessionKey := sessionKeyPrefix + token
	if err := s.redisClient.Set(ctx, sessionKey, createdAt.Unix(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	if err := s.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", fmt.Errorf("add token to sessions set: %w", err)
	}

	return token, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	sessionKey := sessionKeyPrefix + token
	removed, err := s.redisClient.Del(ctx, sessionKey).Result()
	if err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	if removed == 0 {
		return errors.New("session not found")
	}

	if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return fmt.Errorf("remove token from sessions set: %w", err)
	}
	return nil
}

// ScanAndClean removes tokens whose session key expired from the sessions set.
func (s *Service) ScanAndClean(ctx context.Context) {
	tokens, err := s.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		log.Errorf("auth scan and clean, get tokens: %s", err)
		return
	}

	var cleaned int
	for _, token := range tokens {
		exists, err := s.redisClient.Exists(ctx, sessionKeyPrefix+token).Result()
		if err != nil {
			log.Errorf("auth scan and clean, check session %s: %s", token, err)
			continue
		}
		if exists == 0 {
			if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
				log.Errorf("auth scan and clean, remove token: %s", err)
				continue
			}
			cleaned++
		}
	}

	if cleaned > 0 {
		log.Debugf("auth scan and clean: removed %d stale tokens", cleaned)
	}
}

// unix seconds helper kept here to keep the session value format in one place
func sessionCreatedAt(val string) (time.Time, error) {
	createdAtUnix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(createdAtUnix, 0), nil
}
