package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hoaxify/hoaxify-api/internal/config"
	"github.com/hoaxify/hoaxify-api/internal/domain"
	internal_errors "github.com/hoaxify/hoaxify-api/internal/errors"
	"github.com/hoaxify/hoaxify-api/internal/i18n"
	"github.com/hoaxify/hoaxify-api/internal/logger"
	"github.com/hoaxify/hoaxify-api/internal/service"
)

type HoaxService interface {
	Create(content string, userId domain.UserId, attachmentId *domain.AttachmentId) error
	List(p domain.Pagination, userId *domain.UserId) (domain.Page[domain.HoaxView], error)
	Delete(id domain.HoaxId, requesterId domain.UserId) error
}

type FileService interface {
	SaveAttachment(data []byte) (domain.AttachmentId, error)
}

type UserService interface {
	Register(username, email, password string) error
	Activate(token string) error
	List(p domain.Pagination, excludeId domain.UserId) (domain.Page[domain.UserView], error)
	Get(id domain.UserId) (domain.UserView, error)
	Update(id domain.UserId, username string, imageBase64 string, imageData []byte) (domain.UserView, error)
	Delete(id domain.UserId) error
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
}

type AuthService interface {
	Login(email, password string) (service.Credentials, error)
	Logout(token string) error
}

// StaticDirs exposes where uploaded files live on disk for static serving.
type StaticDirs interface {
	ProfileDir() string
	AttachmentDir() string
}

type Handler struct {
	hoax    HoaxService
	file    FileService
	user    UserService
	auth    AuthService
	static  StaticDirs
	catalog *i18n.Catalog
	cfg     *config.Config
}

func New(hoax HoaxService, file FileService, user UserService, auth AuthService,
	static StaticDirs, catalog *i18n.Catalog, cfg *config.Config) *Handler {
	return &Handler{hoax, file, user, auth, static, catalog, cfg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// errorBody is the uniform error response shape.
type errorBody struct {
	Message          string            `json:"message"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
	Timestamp        int64             `json:"timestamp"`
	Path             string            `json:"path"`
}

// writeError is the single boundary turning domain errors into localized
// JSON. Anything that is not an ErrorWithStatusCode renders as a 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	locale := h.catalog.Locale(r.Header.Get("Accept-Language"))

	body := errorBody{
		Timestamp: nowMillis(),
		Path:      r.URL.Path,
	}
	status := http.StatusInternalServerError

	if e, ok := err.(*internal_errors.ErrorWithStatusCode); ok {
		status = e.StatusCode
		body.Message = h.catalog.Message(locale, e.MessageKey)
		if len(e.ValidationErrors) > 0 {
			body.ValidationErrors = make(map[string]string, len(e.ValidationErrors))
			for field, key := range e.ValidationErrors {
				body.ValidationErrors[field] = h.catalog.Message(locale, key)
			}
		}
	} else {
		logger.Log.Error("unexpected error", "path", r.URL.Path, "error", err)
		body.Message = h.catalog.Message(locale, "unexpected_error")
	}

	writeJSON(w, status, body)
}

// message renders a single localized {message} body.
func (h *Handler) message(w http.ResponseWriter, r *http.Request, key string) {
	locale := h.catalog.Locale(r.Header.Get("Accept-Language"))
	writeJSON(w, http.StatusOK, map[string]string{"message": h.catalog.Message(locale, key)})
}
