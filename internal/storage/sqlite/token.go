package sqlite

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/hoaxify/hoaxify-api/internal/domain"
	internal_errors "github.com/hoaxify/hoaxify-api/internal/errors"
)

func (s *Storage) CreateToken(token domain.Token) error {
	_, err := s.db.Exec(`
	INSERT INTO tokens (token, user_id, last_used_at)
	VALUES (?, ?, ?)`, token.Token, token.UserId, token.LastUsedAt)
	return err
}

// GetUserByToken resolves a bearer token to its user, rejecting tokens idle
// since before idleCutoff (epoch millis).
func (s *Storage) GetUserByToken(token string, idleCutoff int64) (domain.User, error) {
	row := s.db.QueryRow(`
	SELECT u.id, u.username, u.email, u.password, u.inactive,
	       COALESCE(u.activation_token, ''), COALESCE(u.password_reset_token, ''), COALESCE(u.image, '')
	FROM tokens t
	JOIN users u ON u.id = t.user_id
	WHERE t.token = ? AND t.last_used_at >= ?`, token, idleCutoff)

	var u domain.User
	err := row.Scan(&u.Id, &u.Username, &u.Email, &u.PassHash, &u.Inactive,
		&u.ActivationToken, &u.PasswordResetToken, &u.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.New("authentication_failure", http.StatusUnauthorized)
		}
		return domain.User{}, err
	}
	return u, nil
}

// TouchToken refreshes the sliding expiry window on successful auth.
func (s *Storage) TouchToken(token string, now int64) error {
	_, err := s.db.Exec(`UPDATE tokens SET last_used_at = ? WHERE token = ?`, now, token)
	return err
}

func (s *Storage) DeleteToken(token string) error {
	_, err := s.db.Exec(`DELETE FROM tokens WHERE token = ?`, token)
	return err
}

// DeleteTokensByUser drops every session of a user, used after password reset.
func (s *Storage) DeleteTokensByUser(userId domain.UserId) error {
	_, err := s.db.Exec(`DELETE FROM tokens WHERE user_id = ?`, userId)
	return err
}

// DeleteExpiredTokens prunes tokens idle since before cutoff (epoch millis).
func (s *Storage) DeleteExpiredTokens(cutoff int64) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM tokens WHERE last_used_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
