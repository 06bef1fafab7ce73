package service

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hoaxify/hoaxify-api/internal/domain"
	internal_errors "github.com/hoaxify/hoaxify-api/internal/errors"
	"github.com/hoaxify/hoaxify-api/internal/logger"
)

const sessionTokenLength = 32

// TokenStorage defines the database operations the auth service needs.
type TokenStorage interface {
	GetUserByEmail(email string) (domain.User, error)
	CreateToken(token domain.Token) error
	DeleteToken(token string) error
	DeleteExpiredTokens(cutoff int64) (int64, error)
}

type Auth struct {
	storage TokenStorage
	ttl     time.Duration
	tokens  func(length int) string
	now     func() time.Time
}

func NewAuth(storage TokenStorage, ttl time.Duration, tokens func(int) string) *Auth {
	return &Auth{storage: storage, ttl: ttl, tokens: tokens, now: time.Now}
}

func (a *Auth) WithClock(now func() time.Time) *Auth {
	a.now = now
	return a
}

// Credentials is what a successful login hands back to the client.
type Credentials struct {
	Id       domain.UserId `json:"id"`
	Username string        `json:"username"`
	Image    string        `json:"image,omitempty"`
	Token    string        `json:"token"`
}

// Login checks the password, refuses inactive accounts and mints an opaque
// session token. Wrong address and wrong password are indistinguishable.
func (a *Auth) Login(email, password string) (Credentials, error) {
	user, err := a.storage.GetUserByEmail(email)
	if err != nil {
		return Credentials{}, internal_errors.New("authentication_failure", http.StatusUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		return Credentials{}, internal_errors.New("authentication_failure", http.StatusUnauthorized)
	}
	if user.Inactive {
		return Credentials{}, internal_errors.New("inactive_authentication_failure", http.StatusForbidden)
	}

	token := domain.Token{
		Token:      a.tokens(sessionTokenLength),
		UserId:     user.Id,
		LastUsedAt: a.now().UnixMilli(),
	}
	if err := a.storage.CreateToken(token); err != nil {
		return Credentials{}, err
	}

	return Credentials{Id: user.Id, Username: user.Username, Image: user.Image, Token: token.Token}, nil
}

// Logout revokes the presented token. Unknown tokens succeed silently.
func (a *Auth) Logout(token string) error {
	return a.storage.DeleteToken(token)
}

// RemoveExpiredTokens prunes tokens idle past the ttl.
func (a *Auth) RemoveExpiredTokens() (int64, error) {
	cutoff := a.now().Add(-a.ttl).UnixMilli()
	return a.storage.DeleteExpiredTokens(cutoff)
}

// StartTokenCleanup starts the recurring token sweep, same worker shape as
// the attachment cleanup.
func (a *Auth) StartTokenCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started token cleanup sweep", "interval", interval, "ttl", a.ttl)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				removed, err := a.RemoveExpiredTokens()
				if err != nil {
					logger.Log.Error("token sweep failed", "error", err)
					continue
				}
				logger.Log.Info("token sweep completed", "removed", removed)
			case <-ctx.Done():
				logger.Log.Info("token sweep shutting down")
				return
			}
		}
	}()
}
