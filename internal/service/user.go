package service

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/hoaxify/hoaxify-api/internal/domain"
	internal_errors "github.com/hoaxify/hoaxify-api/internal/errors"
	"github.com/hoaxify/hoaxify-api/internal/logger"
)

const activationTokenLength = 16

// UserStorage defines the database operations the user service needs.
type UserStorage interface {
	CreateUser(user domain.User) (domain.UserId, error)
	GetUserById(id domain.UserId) (domain.User, error)
	GetActiveUserById(id domain.UserId) (domain.User, error)
	GetUserByEmail(email string) (domain.User, error)
	GetUserByActivationToken(token string) (domain.User, error)
	GetUserByPasswordResetToken(token string) (domain.User, error)
	UpdateUser(user domain.User) error
	DeleteUser(id domain.UserId) error
	ListUsers(p domain.Pagination, excludeId domain.UserId) (domain.Page[domain.UserView], error)
	DeleteTokensByUser(userId domain.UserId) error
}

// UserFiles is the slice of the file service the user service needs for
// profile images and the user-deletion file cleanup.
type UserFiles interface {
	SaveProfileImage(base64Content string) (string, error)
	DeleteProfileImage(filename string) error
	ValidateProfileImage(data []byte, maxSize int64) error
	DeleteUserFiles(user domain.User) error
}

// Mailer sends transactional mail.
type Mailer interface {
	Send(recipientEmail, subject, body string) error
}

type User struct {
	storage      UserStorage
	files        UserFiles
	mailer       Mailer
	maxImageSize int64
	tokens       func(length int) string
}

func NewUser(storage UserStorage, files UserFiles, mailer Mailer, maxImageSize int64, tokens func(int) string) *User {
	return &User{storage: storage, files: files, mailer: mailer, maxImageSize: maxImageSize, tokens: tokens}
}

// Register creates an inactive account and mails its activation token. When
// the mail cannot be sent the account is rolled back and the caller sees a
// 502: an account nobody can activate is worse than no account.
func (u *User) Register(username, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := domain.User{
		Username:        username,
		Email:           email,
		PassHash:        string(hash),
		Inactive:        true,
		ActivationToken: u.tokens(activationTokenLength),
	}

	id, err := u.storage.CreateUser(user)
	if err != nil {
		return err
	}

	body := "Your account activation token is " + user.ActivationToken
	if err := u.mailer.Send(email, "Account Activation", body); err != nil {
		logger.Log.Error("activation mail failed, rolling registration back", "email", email, "error", err)
		if delErr := u.storage.DeleteUser(id); delErr != nil {
			logger.Log.Error("failed to roll back registration", "id", id, "error", delErr)
		}
		return internal_errors.New("email_failure", http.StatusBadGateway)
	}
	return nil
}

// Activate flips the account active for a matching activation token. Unknown
// tokens, including ones already consumed, all fail the same way.
func (u *User) Activate(token string) error {
	user, err := u.storage.GetUserByActivationToken(token)
	if err != nil {
		return internal_errors.New("account_activation_failure", http.StatusBadRequest)
	}
	user.Inactive = false
	user.ActivationToken = ""
	return u.storage.UpdateUser(user)
}

func (u *User) List(p domain.Pagination, excludeId domain.UserId) (domain.Page[domain.UserView], error) {
	return u.storage.ListUsers(p, excludeId)
}

func (u *User) Get(id domain.UserId) (domain.UserView, error) {
	user, err := u.storage.GetActiveUserById(id)
	if err != nil {
		return domain.UserView{}, err
	}
	return user.View(), nil
}

// Update changes the username and optionally replaces the profile image. The
// new image is sniffed and size-checked before the old one is touched.
func (u *User) Update(id domain.UserId, username string, imageBase64 string, imageData []byte) (domain.UserView, error) {
	user, err := u.storage.GetUserById(id)
	if err != nil {
		return domain.UserView{}, err
	}

	user.Username = username
	if imageBase64 != "" {
		if err := u.files.ValidateProfileImage(imageData, u.maxImageSize); err != nil {
			return domain.UserView{}, err
		}
		filename, err := u.files.SaveProfileImage(imageBase64)
		if err != nil {
			return domain.UserView{}, err
		}
		if user.Image != "" {
			if err := u.files.DeleteProfileImage(user.Image); err != nil {
				logger.Log.Warn("failed to delete replaced profile image", "filename", user.Image, "error", err)
			}
		}
		user.Image = filename
	}

	if err := u.storage.UpdateUser(user); err != nil {
		return domain.UserView{}, err
	}
	return user.View(), nil
}

// Delete removes the account. Files go first so the row cascade cannot orphan
// them on disk; tokens, hoaxes and attachment rows fall with the user row.
func (u *User) Delete(id domain.UserId) error {
	user, err := u.storage.GetUserById(id)
	if err != nil {
		return err
	}
	if err := u.files.DeleteUserFiles(user); err != nil {
		return err
	}
	return u.storage.DeleteUser(id)
}

// RequestPasswordReset stores a reset token for the address and mails it.
func (u *User) RequestPasswordReset(email string) error {
	user, err := u.storage.GetUserByEmail(email)
	if err != nil {
		return internal_errors.New("email_not_inuse", http.StatusNotFound)
	}

	user.PasswordResetToken = u.tokens(activationTokenLength)
	if err := u.storage.UpdateUser(user); err != nil {
		return err
	}

	body := "Your password reset token is " + user.PasswordResetToken
	if err := u.mailer.Send(email, "Password Reset", body); err != nil {
		logger.Log.Error("password reset mail failed", "email", email, "error", err)
		return internal_errors.New("email_failure", http.StatusBadGateway)
	}
	return nil
}

// ResetPassword sets a new password for a valid reset token, activates the
// account and revokes every session. The token check runs first: an invalid
// token must yield a 403 even when the new password is also bad.
func (u *User) ResetPassword(token, newPassword string) error {
	if token == "" {
		return internal_errors.New("unauthroized_password_reset", http.StatusForbidden)
	}
	user, err := u.storage.GetUserByPasswordResetToken(token)
	if err != nil {
		return internal_errors.New("unauthroized_password_reset", http.StatusForbidden)
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PassHash = string(hash)
	user.PasswordResetToken = ""
	user.ActivationToken = ""
	user.Inactive = false
	if err := u.storage.UpdateUser(user); err != nil {
		return err
	}
	return u.storage.DeleteTokensByUser(user.Id)
}

// validatePassword mirrors the registration password rules for the reset
// path, which skips the request validator so the token check can come first.
func validatePassword(password string) error {
	if len(password) < 6 {
		return internal_errors.NewValidation(map[string]string{"password": "password_size"})
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return internal_errors.NewValidation(map[string]string{"password": "password_pattern"})
	}
	return nil
}
