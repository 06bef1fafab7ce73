package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/hoaxify/hoaxify-api/internal/domain"
	"github.com/hoaxify/hoaxify-api/internal/logger"
)

// TokenVerifier resolves opaque bearer tokens against the token table.
type TokenVerifier interface {
	GetUserByToken(token string, idleCutoff int64) (domain.User, error)
	TouchToken(token string, now int64) error
}

type key int

const (
	userKey key = iota
	tokenKey
)

// Auth holds dependencies for the token authentication middleware.
type Auth struct {
	storage TokenVerifier
	ttl     time.Duration
	now     func() time.Time
}

func NewAuth(storage TokenVerifier, ttl time.Duration) *Auth {
	return &Auth{storage: storage, ttl: ttl, now: time.Now}
}

func (a *Auth) WithClock(now func() time.Time) *Auth {
	a.now = now
	return a
}

// TokenAuth resolves an Authorization bearer token into an authenticated user
// in the request context. It never rejects: requests without a valid token
// simply stay anonymous and handlers decide what that means per route.
func (a *Auth) TokenAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || token == "" {
			next.ServeHTTP(w, r)
			return
		}

		now := a.now()
		user, err := a.storage.GetUserByToken(token, now.Add(-a.ttl).UnixMilli())
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if err := a.storage.TouchToken(token, now.UnixMilli()); err != nil {
			logger.Log.Warn("failed to refresh token", "error", err)
		}

		ctx := context.WithValue(r.Context(), userKey, &user)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserFromContext returns the authenticated user, or nil when anonymous.
func GetUserFromContext(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userKey).(*domain.User)
	return user
}

// GetTokenFromContext returns the bearer token that authenticated the request.
func GetTokenFromContext(r *http.Request) string {
	token, _ := r.Context().Value(tokenKey).(string)
	return token
}

// WithUser stores a user in the request context, for handler tests.
func WithUser(r *http.Request, user *domain.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey, user))
}

// WithToken stores a bearer token in the request context, for handler tests.
func WithToken(r *http.Request, token string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), tokenKey, token))
}
