package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hoaxify/hoaxify-api/internal/domain"
	internal_errors "github.com/hoaxify/hoaxify-api/internal/errors"
	"github.com/hoaxify/hoaxify-api/internal/middleware"
	"github.com/hoaxify/hoaxify-api/internal/utils"
)

func registrationFieldKey(field, tag string) string {
	switch field + "/" + tag {
	case "username/required":
		return "username_null"
	case "username/min", "username/max":
		return "username_size"
	case "email/required":
		return "email_null"
	case "email/email":
		return "email_invalid"
	case "password/required":
		return "password_null"
	case "password/min":
		return "password_size"
	case "password/password":
		return "password_pattern"
	}
	return "validation_failure"
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username *string `json:"username" validate:"required,min=4,max=32"`
		Email    *string `json:"email" validate:"required,email"`
		Password *string `json:"password" validate:"required,min=6,password"`
	}
	if err := utils.DecodeValidate(r.Body, &body, registrationFieldKey); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.user.Register(*body.Username, *body.Email, *body.Password); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.message(w, r, "user_create_success")
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.user.Activate(mux.Vars(r)["token"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.message(w, r, "account_activation_success")
}

// ListUsers pages through active accounts, leaving the requester out of
// their own listing.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var excludeId domain.UserId
	if user := middleware.GetUserFromContext(r); user != nil {
		excludeId = user.Id
	}

	page, err := h.user.List(middleware.GetPagination(r), excludeId)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.user.Get(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func updateFieldKey(field, tag string) string {
	switch tag {
	case "required":
		return "username_null"
	default:
		return "username_size"
	}
}

// UpdateUser lets a user change their own username and profile image. The
// image arrives base64-encoded in the JSON body.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	id, err := pathId(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if user == nil || user.Id != id {
		h.writeError(w, r, internal_errors.New("unauthroized_user_update", http.StatusForbidden))
		return
	}

	var body struct {
		Username *string `json:"username" validate:"required,min=4,max=32"`
		Image    string  `json:"image"`
	}
	if err := utils.DecodeValidate(r.Body, &body, updateFieldKey); err != nil {
		h.writeError(w, r, err)
		return
	}

	var imageData []byte
	if body.Image != "" {
		imageData, err = base64.StdEncoding.DecodeString(body.Image)
		if err != nil {
			h.writeError(w, r, internal_errors.NewValidation(map[string]string{"image": "unsupported_image_file"}))
			return
		}
	}

	view, err := h.user.Update(id, *body.Username, body.Image, imageData)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	id, err := pathId(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if user == nil || user.Id != id {
		h.writeError(w, r, internal_errors.New("unauthroized_user_delete", http.StatusForbidden))
		return
	}

	if err := h.user.Delete(id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func passwordResetFieldKey(field, tag string) string {
	if tag == "email" {
		return "email_invalid"
	}
	return "email_null"
}

func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email *string `json:"email" validate:"required,email"`
	}
	if err := utils.DecodeValidate(r.Body, &body, passwordResetFieldKey); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.user.RequestPasswordReset(*body.Email); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.message(w, r, "password_reset_request_success")
}

// ResetPassword sets a new password for a reset token. The token check runs
// before password validation, so an invalid token is always a 403.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password           string `json:"password"`
		PasswordResetToken string `json:"passwordResetToken"`
	}
	if err := utils.Decode(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.user.ResetPassword(body.PasswordResetToken, body.Password); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
