package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/hoaxify/hoaxify-api/internal/domain"
	internal_errors "github.com/hoaxify/hoaxify-api/internal/errors"
)

// multipart overhead on top of the attachment size cap
const uploadBuffer = 1 << 20

// UploadAttachment accepts a multipart "file" field and stores it as an
// unassociated attachment. Anything over the size cap is a 400.
func (h *Handler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	maxSize := h.cfg.Public.MaxAttachmentSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+uploadBuffer)

	if err := r.ParseMultipartForm(maxSize + uploadBuffer); err != nil {
		h.writeError(w, r, internal_errors.New("attachment_size_limit", http.StatusBadRequest))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, r, internal_errors.New("validation_failure", http.StatusBadRequest))
		return
	}
	defer file.Close()

	if header.Size > maxSize {
		h.writeError(w, r, internal_errors.New("attachment_size_limit", http.StatusBadRequest))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.file.SaveAttachment(data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]domain.AttachmentId{"id": id})
}

func (h *Handler) ServeProfileImage(w http.ResponseWriter, r *http.Request) {
	serveStatic(w, r, h.static.ProfileDir())
}

func (h *Handler) ServeAttachment(w http.ResponseWriter, r *http.Request) {
	serveStatic(w, r, h.static.AttachmentDir())
}

// serveStatic serves a stored file with a one-year cache header. Stored
// filenames are opaque and immutable, so aggressive caching is safe.
func serveStatic(w http.ResponseWriter, r *http.Request, dir string) {
	filename := filepath.Base(mux.Vars(r)["filename"])
	fullPath := filepath.Join(dir, filename)

	if _, err := os.Stat(fullPath); err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "max-age=31536000")
	http.ServeFile(w, r, fullPath)
}
