package handler

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hoaxify/hoaxify-api/internal/domain"
	internal_errors "github.com/hoaxify/hoaxify-api/internal/errors"
	"github.com/hoaxify/hoaxify-api/internal/middleware"
)

func TestRegisterHandler(t *testing.T) {
	valid := map[string]string{
		"username": "user1",
		"email":    "user1@mail.com",
		"password": "P4ssword",
	}

	t.Run("a valid registration returns the success message", func(t *testing.T) {
		var gotUsername, gotEmail, gotPassword string
		user := &MockUserService{
			MockRegister: func(username, email, password string) error {
				gotUsername, gotEmail, gotPassword = username, email, password
				return nil
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/1.0/users", jsonBody(t, valid)))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		decodeBody(t, rec, &body)
		assert.Equal(t, "User created", body["message"])
		assert.Equal(t, "user1", gotUsername)
		assert.Equal(t, "user1@mail.com", gotEmail)
		assert.Equal(t, "P4ssword", gotPassword)
	})

	t.Run("field failures map to their message keys", func(t *testing.T) {
		tests := []struct {
			name    string
			mutate  func(m map[string]string)
			field   string
			message string
		}{
			{"missing username", func(m map[string]string) { delete(m, "username") },
				"username", "Username cannot be null"},
			{"short username", func(m map[string]string) { m["username"] = "abc" },
				"username", "Must have min 4 and max 32 characters"},
			{"missing email", func(m map[string]string) { delete(m, "email") },
				"email", "E-mail cannot be null"},
			{"invalid email", func(m map[string]string) { m["email"] = "not-an-address" },
				"email", "E-mail is not valid"},
			{"missing password", func(m map[string]string) { delete(m, "password") },
				"password", "Password cannot be null"},
			{"short password", func(m map[string]string) { m["password"] = "P4s" },
				"password", "Password must have at least 6 characters"},
			{"weak password", func(m map[string]string) { m["password"] = "alllowercase" },
				"password", "Password must have at least 1 uppercase, 1 lowercase letter and 1 number"},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				body := map[string]string{}
				for k, v := range valid {
					body[k] = v
				}
				tc.mutate(body)

				_, router := newTestHandler(t, testServices{})
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/1.0/users", jsonBody(t, body)))

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				var resp errorBody
				decodeBody(t, rec, &resp)
				assert.Equal(t, tc.message, resp.ValidationErrors[tc.field])
			})
		}
	})

	t.Run("a duplicate email surfaces as a validation error", func(t *testing.T) {
		user := &MockUserService{
			MockRegister: func(string, string, string) error {
				return internal_errors.NewValidation(map[string]string{"email": "email_inuse"})
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/1.0/users", jsonBody(t, valid)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp errorBody
		decodeBody(t, rec, &resp)
		assert.Equal(t, "E-mail in use", resp.ValidationErrors["email"])
	})

	t.Run("a mail failure is a 502", func(t *testing.T) {
		user := &MockUserService{
			MockRegister: func(string, string, string) error {
				return internal_errors.New("email_failure", http.StatusBadGateway)
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/1.0/users", jsonBody(t, valid)))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		var resp errorBody
		decodeBody(t, rec, &resp)
		assert.Equal(t, "E-mail Failure", resp.Message)
	})
}

func TestActivateHandler(t *testing.T) {
	t.Run("a valid token activates the account", func(t *testing.T) {
		var gotToken string
		user := &MockUserService{
			MockActivate: func(token string) error {
				gotToken = token
				return nil
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/1.0/users/token/abc123", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "abc123", gotToken)
		var body map[string]string
		decodeBody(t, rec, &body)
		assert.Equal(t, "Account is activated", body["message"])
	})

	t.Run("an unknown token is a 400", func(t *testing.T) {
		user := &MockUserService{
			MockActivate: func(string) error {
				return internal_errors.New("account_activation_failure", http.StatusBadRequest)
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/1.0/users/token/bogus", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListUsersHandler(t *testing.T) {
	t.Run("an authenticated requester is excluded from the page", func(t *testing.T) {
		var gotExclude domain.UserId
		user := &MockUserService{
			MockList: func(p domain.Pagination, excludeId domain.UserId) (domain.Page[domain.UserView], error) {
				gotExclude = excludeId
				return domain.Page[domain.UserView]{Size: p.Size}, nil
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		r := httptest.NewRequest(http.MethodGet, "/api/1.0/users", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, middleware.WithUser(r, &domain.User{Id: 3}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 3, gotExclude)
	})

	t.Run("anonymous listing excludes nobody", func(t *testing.T) {
		var gotExclude domain.UserId = -1
		user := &MockUserService{
			MockList: func(p domain.Pagination, excludeId domain.UserId) (domain.Page[domain.UserView], error) {
				gotExclude = excludeId
				return domain.Page[domain.UserView]{Size: p.Size}, nil
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/1.0/users", nil))

		assert.EqualValues(t, 0, gotExclude)
	})
}

func TestGetUserHandler(t *testing.T) {
	t.Run("an active user renders as json", func(t *testing.T) {
		user := &MockUserService{
			MockGet: func(id domain.UserId) (domain.UserView, error) {
				return domain.UserView{Id: id, Username: "user1", Image: "avatar"}, nil
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/1.0/users/3", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var view domain.UserView
		decodeBody(t, rec, &view)
		assert.EqualValues(t, 3, view.Id)
		assert.Equal(t, "user1", view.Username)
	})

	t.Run("a missing user is a 404", func(t *testing.T) {
		user := &MockUserService{
			MockGet: func(domain.UserId) (domain.UserView, error) {
				return domain.UserView{}, internal_errors.New("user_not_found", http.StatusNotFound)
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/1.0/users/99", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var resp errorBody
		decodeBody(t, rec, &resp)
		assert.Equal(t, "User not found", resp.Message)
	})
}

func TestUpdateUserHandler(t *testing.T) {
	owner := &domain.User{Id: 3, Username: "user1"}

	t.Run("someone else's account is forbidden", func(t *testing.T) {
		_, router := newTestHandler(t, testServices{})

		r := httptest.NewRequest(http.MethodPut, "/api/1.0/users/4",
			jsonBody(t, map[string]string{"username": "new-name"}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, middleware.WithUser(r, owner))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		var resp errorBody
		decodeBody(t, rec, &resp)
		assert.Equal(t, "You are not authorised to update user", resp.Message)
	})

	t.Run("anonymous updates are forbidden", func(t *testing.T) {
		_, router := newTestHandler(t, testServices{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/1.0/users/3",
			jsonBody(t, map[string]string{"username": "new-name"})))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("the owner can update username and image", func(t *testing.T) {
		imageBase64 := base64.StdEncoding.EncodeToString([]byte("image-bytes"))
		var gotUsername, gotBase64 string
		var gotData []byte
		user := &MockUserService{
			MockUpdate: func(id domain.UserId, username string, b64 string, data []byte) (domain.UserView, error) {
				gotUsername, gotBase64, gotData = username, b64, data
				return domain.UserView{Id: id, Username: username, Image: "stored-image"}, nil
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		r := httptest.NewRequest(http.MethodPut, "/api/1.0/users/3",
			jsonBody(t, map[string]string{"username": "new-name", "image": imageBase64}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, middleware.WithUser(r, owner))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "new-name", gotUsername)
		assert.Equal(t, imageBase64, gotBase64)
		assert.Equal(t, []byte("image-bytes"), gotData)
		var view domain.UserView
		decodeBody(t, rec, &view)
		assert.Equal(t, "stored-image", view.Image)
	})

	t.Run("invalid base64 image content is a validation failure", func(t *testing.T) {
		_, router := newTestHandler(t, testServices{})

		r := httptest.NewRequest(http.MethodPut, "/api/1.0/users/3",
			jsonBody(t, map[string]string{"username": "new-name", "image": "%%%not-base64%%%"}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, middleware.WithUser(r, owner))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp errorBody
		decodeBody(t, rec, &resp)
		assert.Equal(t, "Only PNG and JPEG files are allowed", resp.ValidationErrors["image"])
	})
}

func TestDeleteUserHandler(t *testing.T) {
	owner := &domain.User{Id: 3}

	t.Run("someone else's account is forbidden", func(t *testing.T) {
		user := &MockUserService{
			MockDelete: func(domain.UserId) error {
				t.Fatal("deletion must not reach the service")
				return nil
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		r := httptest.NewRequest(http.MethodDelete, "/api/1.0/users/4", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, middleware.WithUser(r, owner))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		var resp errorBody
		decodeBody(t, rec, &resp)
		assert.Equal(t, "You are not authorised to delete user", resp.Message)
	})

	t.Run("the owner gets a 200", func(t *testing.T) {
		var deleted domain.UserId
		user := &MockUserService{
			MockDelete: func(id domain.UserId) error {
				deleted = id
				return nil
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		r := httptest.NewRequest(http.MethodDelete, "/api/1.0/users/3", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, middleware.WithUser(r, owner))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 3, deleted)
	})
}

func TestPasswordResetHandlers(t *testing.T) {
	t.Run("a reset request returns the success message", func(t *testing.T) {
		var gotEmail string
		user := &MockUserService{
			MockRequestReset: func(email string) error {
				gotEmail = email
				return nil
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/1.0/user/password",
			jsonBody(t, map[string]string{"email": "user1@mail.com"})))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user1@mail.com", gotEmail)
		var body map[string]string
		decodeBody(t, rec, &body)
		assert.Equal(t, "Check your e-mail for resetting your password", body["message"])
	})

	t.Run("an unregistered address is a 404", func(t *testing.T) {
		user := &MockUserService{
			MockRequestReset: func(string) error {
				return internal_errors.New("email_not_inuse", http.StatusNotFound)
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/1.0/user/password",
			jsonBody(t, map[string]string{"email": "nobody@mail.com"})))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("an invalid address is rejected before the service", func(t *testing.T) {
		user := &MockUserService{
			MockRequestReset: func(string) error {
				t.Fatal("an invalid address must not reach the service")
				return nil
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/1.0/user/password",
			jsonBody(t, map[string]string{"email": "not-an-address"})))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp errorBody
		decodeBody(t, rec, &resp)
		assert.Equal(t, "E-mail is not valid", resp.ValidationErrors["email"])
	})

	t.Run("the reset itself forwards token and password", func(t *testing.T) {
		var gotToken, gotPassword string
		user := &MockUserService{
			MockReset: func(token, newPassword string) error {
				gotToken, gotPassword = token, newPassword
				return nil
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/1.0/user/password",
			jsonBody(t, map[string]string{"password": "N3w-password", "passwordResetToken": "reset-token"})))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "reset-token", gotToken)
		assert.Equal(t, "N3w-password", gotPassword)
	})

	t.Run("an invalid reset token is forbidden", func(t *testing.T) {
		user := &MockUserService{
			MockReset: func(string, string) error {
				return internal_errors.New("unauthroized_password_reset", http.StatusForbidden)
			},
		}
		_, router := newTestHandler(t, testServices{user: user})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/1.0/user/password",
			jsonBody(t, map[string]string{"password": "short", "passwordResetToken": "bogus"})))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		var resp errorBody
		decodeBody(t, rec, &resp)
		assert.Equal(t, "You are not authorised to update your password", resp.Message)
	})
}
