package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hoaxify/hoaxify-api/internal/domain"
	internal_errors "github.com/hoaxify/hoaxify-api/internal/errors"
)

type MockTokenStorage struct {
	MockGetByEmail    func(email string) (domain.User, error)
	MockCreateToken   func(token domain.Token) error
	MockDeleteToken   func(token string) error
	MockDeleteExpired func(cutoff int64) (int64, error)
}

func (m *MockTokenStorage) GetUserByEmail(email string) (domain.User, error) {
	if m.MockGetByEmail != nil {
		return m.MockGetByEmail(email)
	}
	return domain.User{}, nil
}

func (m *MockTokenStorage) CreateToken(token domain.Token) error {
	if m.MockCreateToken != nil {
		return m.MockCreateToken(token)
	}
	return nil
}

func (m *MockTokenStorage) DeleteToken(token string) error {
	if m.MockDeleteToken != nil {
		return m.MockDeleteToken(token)
	}
	return nil
}

func (m *MockTokenStorage) DeleteExpiredTokens(cutoff int64) (int64, error) {
	if m.MockDeleteExpired != nil {
		return m.MockDeleteExpired(cutoff)
	}
	return 0, nil
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLogin(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	t.Run("valid credentials mint a session token", func(t *testing.T) {
		storage := &MockTokenStorage{
			MockGetByEmail: func(email string) (domain.User, error) {
				return domain.User{
					Id:       3,
					Username: "user1",
					Email:    email,
					Image:    "avatar",
					PassHash: hashFor(t, "P4ssword"),
				}, nil
			},
		}
		var created domain.Token
		storage.MockCreateToken = func(token domain.Token) error {
			created = token
			return nil
		}
		svc := NewAuth(storage, 7*24*time.Hour, staticTokens("session-token")).WithClock(fixedClock(now))

		creds, err := svc.Login("user1@mail.com", "P4ssword")

		require.NoError(t, err)
		assert.EqualValues(t, 3, creds.Id)
		assert.Equal(t, "user1", creds.Username)
		assert.Equal(t, "avatar", creds.Image)
		assert.Equal(t, "session-token", creds.Token)
		assert.EqualValues(t, 3, created.UserId)
		assert.Equal(t, now.UnixMilli(), created.LastUsedAt)
	})

	t.Run("wrong password and unknown address fail the same way", func(t *testing.T) {
		knownUser := &MockTokenStorage{
			MockGetByEmail: func(email string) (domain.User, error) {
				return domain.User{Id: 3, PassHash: hashFor(t, "P4ssword")}, nil
			},
		}
		noUser := &MockTokenStorage{
			MockGetByEmail: func(string) (domain.User, error) {
				return domain.User{}, internal_errors.New("user_not_found", http.StatusNotFound)
			},
		}

		for name, svc := range map[string]*Auth{
			"wrong password":  NewAuth(knownUser, time.Hour, staticTokens("t")),
			"unknown address": NewAuth(noUser, time.Hour, staticTokens("t")),
		} {
			t.Run(name, func(t *testing.T) {
				_, err := svc.Login("user1@mail.com", "WrongP4ss")
				require.Error(t, err)
				e, ok := err.(*internal_errors.ErrorWithStatusCode)
				require.True(t, ok)
				assert.Equal(t, http.StatusUnauthorized, e.StatusCode)
				assert.Equal(t, "authentication_failure", e.MessageKey)
			})
		}
	})

	t.Run("an inactive account is forbidden even with the right password", func(t *testing.T) {
		storage := &MockTokenStorage{
			MockGetByEmail: func(string) (domain.User, error) {
				return domain.User{Id: 3, Inactive: true, PassHash: hashFor(t, "P4ssword")}, nil
			},
			MockCreateToken: func(domain.Token) error {
				t.Fatal("no token may be minted for an inactive account")
				return nil
			},
		}
		svc := NewAuth(storage, time.Hour, staticTokens("t"))

		_, err := svc.Login("user1@mail.com", "P4ssword")

		require.Error(t, err)
		e, ok := err.(*internal_errors.ErrorWithStatusCode)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, e.StatusCode)
		assert.Equal(t, "inactive_authentication_failure", e.MessageKey)
	})
}

func TestLogout(t *testing.T) {
	var deleted string
	storage := &MockTokenStorage{
		MockDeleteToken: func(token string) error {
			deleted = token
			return nil
		},
	}
	svc := NewAuth(storage, time.Hour, staticTokens("t"))

	require.NoError(t, svc.Logout("session-token"))
	assert.Equal(t, "session-token", deleted)
}

func TestRemoveExpiredTokens(t *testing.T) {
	now := time.UnixMilli(2_000_000_000_000)
	ttl := 7 * 24 * time.Hour

	var gotCutoff int64
	storage := &MockTokenStorage{
		MockDeleteExpired: func(cutoff int64) (int64, error) {
			gotCutoff = cutoff
			return 4, nil
		},
	}
	svc := NewAuth(storage, ttl, staticTokens("t")).WithClock(fixedClock(now))

	removed, err := svc.RemoveExpiredTokens()

	require.NoError(t, err)
	assert.EqualValues(t, 4, removed)
	assert.Equal(t, now.Add(-ttl).UnixMilli(), gotCutoff)
}
