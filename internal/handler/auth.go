package handler

import (
	"net/http"
	"strings"

	"github.com/hoaxify/hoaxify-api/internal/middleware"
	"github.com/hoaxify/hoaxify-api/internal/utils"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.Decode(r.Body, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	creds, err := h.auth.Login(body.Email, body.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, creds)
}

// Logout revokes the presented bearer token. Requests without one are fine:
// there is nothing to revoke.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r)
	if token == "" {
		token, _ = strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if token != "" {
		if err := h.auth.Logout(token); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}
