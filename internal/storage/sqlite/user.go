package sqlite

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/hoaxify/hoaxify-api/internal/domain"
	internal_errors "github.com/hoaxify/hoaxify-api/internal/errors"
)

func (s *Storage) CreateUser(user domain.User) (domain.UserId, error) {
	res, err := s.db.Exec(`
	INSERT INTO users (username, email, password, inactive, activation_token, password_reset_token, image)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.PassHash, user.Inactive,
		user.ActivationToken, user.PasswordResetToken, user.Image)
	if err != nil {
		// the driver names the violated column in the constraint error
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			if strings.Contains(err.Error(), "users.username") {
				return 0, internal_errors.NewValidation(map[string]string{"username": "username_inuse"})
			}
			return 0, internal_errors.NewValidation(map[string]string{"email": "email_inuse"})
		}
		return 0, err
	}
	return res.LastInsertId()
}

const userColumns = `id, username, email, password, inactive, activation_token, password_reset_token, image`

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var activation, reset, image sql.NullString
	err := row.Scan(&u.Id, &u.Username, &u.Email, &u.PassHash, &u.Inactive, &activation, &reset, &image)
	if err != nil {
		return domain.User{}, err
	}
	u.ActivationToken = activation.String
	u.PasswordResetToken = reset.String
	u.Image = image.String
	return u, nil
}

func (s *Storage) userBy(where string, arg any) (domain.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE `+where, arg)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.New("user_not_found", http.StatusNotFound)
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *Storage) GetUserById(id domain.UserId) (domain.User, error) {
	return s.userBy("id = ?", id)
}

// GetActiveUserById hides inactive accounts, used by the public user endpoints.
func (s *Storage) GetActiveUserById(id domain.UserId) (domain.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ? AND inactive = 0`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.New("user_not_found", http.StatusNotFound)
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *Storage) GetUserByEmail(email string) (domain.User, error) {
	return s.userBy("email = ?", email)
}

func (s *Storage) GetUserByActivationToken(token string) (domain.User, error) {
	return s.userBy("activation_token = ?", token)
}

func (s *Storage) GetUserByPasswordResetToken(token string) (domain.User, error) {
	return s.userBy("password_reset_token = ?", token)
}

// UpdateUser persists every mutable user field.
func (s *Storage) UpdateUser(user domain.User) error {
	res, err := s.db.Exec(`
	UPDATE users
	SET username = ?, email = ?, password = ?, inactive = ?,
	    activation_token = ?, password_reset_token = ?, image = ?
	WHERE id = ?`,
		user.Username, user.Email, user.PassHash, user.Inactive,
		user.ActivationToken, user.PasswordResetToken, user.Image, user.Id)
	if err != nil {
		return err
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return internal_errors.New("user_not_found", http.StatusNotFound)
	}
	return nil
}

// DeleteUser removes the user row. Tokens, hoaxes and their attachment rows
// go with it via foreign key cascades.
func (s *Storage) DeleteUser(id domain.UserId) error {
	res, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return internal_errors.New("user_not_found", http.StatusNotFound)
	}
	return nil
}

// ListUsers returns a page of active users, excluding excludeId (the
// authenticated requester, 0 when anonymous), oldest first.
func (s *Storage) ListUsers(p domain.Pagination, excludeId domain.UserId) (domain.Page[domain.UserView], error) {
	page := domain.Page[domain.UserView]{Content: []domain.UserView{}, Page: p.Page, Size: p.Size}

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE inactive = 0 AND id != ?`, excludeId).Scan(&count)
	if err != nil {
		return page, err
	}
	page.TotalPages = domain.TotalPages(count, p.Size)

	rows, err := s.db.Query(`
	SELECT id, username, email, COALESCE(image, '')
	FROM users
	WHERE inactive = 0 AND id != ?
	ORDER BY id
	LIMIT ? OFFSET ?`, excludeId, p.Size, p.Offset())
	if err != nil {
		return page, err
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.UserView
		if err := rows.Scan(&v.Id, &v.Username, &v.Email, &v.Image); err != nil {
			return page, err
		}
		page.Content = append(page.Content, v)
	}
	return page, rows.Err()
}
