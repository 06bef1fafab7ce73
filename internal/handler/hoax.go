package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hoaxify/hoaxify-api/internal/domain"
	internal_errors "github.com/hoaxify/hoaxify-api/internal/errors"
	"github.com/hoaxify/hoaxify-api/internal/middleware"
	"github.com/hoaxify/hoaxify-api/internal/utils"
)

func hoaxFieldKey(field, tag string) string {
	// every content failure, including a missing field, carries the same key
	return "hoax_content_size"
}

func (h *Handler) CreateHoax(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		h.writeError(w, r, internal_errors.New("unauthorised_hoax_submit", http.StatusUnauthorized))
		return
	}

	var body struct {
		Content        *string              `json:"content" validate:"required,min=10,max=5000"`
		FileAttachment *domain.AttachmentId `json:"fileAttachment"`
	}
	if err := utils.DecodeValidate(r.Body, &body, hoaxFieldKey); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.hoax.Create(*body.Content, user.Id, body.FileAttachment); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.message(w, r, "hoax_submission_successful")
}

// ListHoaxes serves both the global listing and the owner-scoped one; the
// presence of the userId path variable decides which.
func (h *Handler) ListHoaxes(w http.ResponseWriter, r *http.Request) {
	var userId *domain.UserId
	if _, ok := mux.Vars(r)["userId"]; ok {
		id, err := pathId(r, "userId")
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		userId = &id
	}

	page, err := h.hoax.List(middleware.GetPagination(r), userId)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) DeleteHoax(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		h.writeError(w, r, internal_errors.New("unautorised_hoax_delete", http.StatusForbidden))
		return
	}

	id, err := pathId(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.hoax.Delete(id, user.Id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
