package service

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/hoaxify/hoaxify-api/internal/domain"
	internal_errors "github.com/hoaxify/hoaxify-api/internal/errors"
	"github.com/hoaxify/hoaxify-api/internal/logger"
	"github.com/hoaxify/hoaxify-api/internal/utils"
)

const storedFilenameLength = 32

// profileImagePlaceholder is written when a profile image update carries no
// content, so the stored filename always resolves to a real file.
const profileImagePlaceholder = "None"

// AttachmentStorage defines the database operations the file service needs.
type AttachmentStorage interface {
	CreateAttachment(att domain.FileAttachment) (domain.AttachmentId, error)
	AssociateAttachment(id domain.AttachmentId, hoaxId domain.HoaxId) error
	OrphanedAttachmentsBefore(cutoff int64) ([]domain.FileAttachment, error)
	DeleteAttachment(id domain.AttachmentId) error
	AttachmentFilenamesByUser(userId domain.UserId) ([]string, error)
}

// FileStore defines the filesystem operations the file service needs.
type FileStore interface {
	SaveProfile(filename string, data []byte) error
	DeleteProfile(filename string) error
	SaveAttachment(filename string, data []byte) error
	DeleteAttachment(filename string) error
}

// File owns the lifecycle of uploaded binary content: profile images, hoax
// attachments and the periodic sweep that removes stale orphans.
type File struct {
	storage   AttachmentStorage
	files     FileStore
	retention time.Duration
	now       func() time.Time
}

func NewFile(storage AttachmentStorage, files FileStore, retention time.Duration) *File {
	return &File{storage: storage, files: files, retention: retention, now: time.Now}
}

// WithClock replaces the service clock, for tests.
func (f *File) WithClock(now func() time.Time) *File {
	f.now = now
	return f
}

// SaveProfileImage decodes base64 content and writes it under a fresh random
// filename. Empty content still produces a file, holding a placeholder.
func (f *File) SaveProfileImage(base64Content string) (string, error) {
	data := []byte(profileImagePlaceholder)
	if base64Content != "" {
		decoded, err := base64.StdEncoding.DecodeString(base64Content)
		if err != nil {
			return "", internal_errors.New("unsupported_image_file", http.StatusBadRequest)
		}
		data = decoded
	}

	filename := utils.RandomString(storedFilenameLength)
	if err := f.files.SaveProfile(filename, data); err != nil {
		return "", err
	}
	return filename, nil
}

// DeleteProfileImage removes a known-existing profile image; errors propagate.
func (f *File) DeleteProfileImage(filename string) error {
	return f.files.DeleteProfile(filename)
}

// ValidateProfileImage sniffs the decoded content and accepts only PNG or
// JPEG signatures within the size limit. Detection is content based, so a
// spoofed extension changes nothing.
func (f *File) ValidateProfileImage(data []byte, maxSize int64) error {
	if int64(len(data)) > maxSize {
		return internal_errors.NewValidation(map[string]string{"image": "profile_image_size"})
	}
	mtype := mimetype.Detect(data)
	if !mtype.Is("image/png") && !mtype.Is("image/jpeg") {
		return internal_errors.NewValidation(map[string]string{"image": "unsupported_image_file"})
	}
	return nil
}

// SaveAttachment writes the uploaded buffer under a random filename and
// records it with a null hoax id. The MIME type comes from magic-byte
// detection; when nothing is recognized the type is stored as "unknown" and
// the filename keeps no extension. Either way the upload succeeds.
func (f *File) SaveAttachment(data []byte) (domain.AttachmentId, error) {
	filename := utils.RandomString(storedFilenameLength)
	fileType := "unknown"

	mtype := mimetype.Detect(data)
	if ext := mtype.Extension(); ext != "" && !mtype.Is("application/octet-stream") {
		filename += ext
		fileType = mtype.String()
	}

	if err := f.files.SaveAttachment(filename, data); err != nil {
		return 0, err
	}

	id, err := f.storage.CreateAttachment(domain.FileAttachment{
		Filename:   filename,
		UploadDate: f.now().UnixMilli(),
		FileType:   fileType,
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// AssociateFileToHoax binds an uploaded attachment to a hoax. Missing and
// already-associated attachments are both no-ops: association is immutable.
func (f *File) AssociateFileToHoax(attachmentId domain.AttachmentId, hoaxId domain.HoaxId) error {
	return f.storage.AssociateAttachment(attachmentId, hoaxId)
}

// DeleteAttachmentFile removes a stored file best-effort; the file may
// already be gone on cascade paths, which only costs a log line.
func (f *File) DeleteAttachmentFile(filename string) {
	if err := f.files.DeleteAttachment(filename); err != nil {
		logger.Log.Warn("failed to delete attachment file", "filename", filename, "error", err)
	}
}

// DeleteUserFiles removes the user's profile image and every attachment file
// belonging to their hoaxes. It must finish before the row cascade so no file
// is left behind once its row is gone.
func (f *File) DeleteUserFiles(user domain.User) error {
	if user.Image != "" {
		if err := f.files.DeleteProfile(user.Image); err != nil {
			logger.Log.Warn("failed to delete profile image", "filename", user.Image, "error", err)
		}
	}

	filenames, err := f.storage.AttachmentFilenamesByUser(user.Id)
	if err != nil {
		return err
	}
	for _, filename := range filenames {
		f.DeleteAttachmentFile(filename)
	}
	return nil
}

// RemoveUnusedAttachments runs one sweep over attachments never associated
// with a hoax and older than the retention window, deleting file then row.
// Failures are isolated per row so one bad file cannot stall the sweep.
func (f *File) RemoveUnusedAttachments() (int, error) {
	cutoff := f.now().Add(-f.retention).UnixMilli()

	orphans, err := f.storage.OrphanedAttachmentsBefore(cutoff)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, att := range orphans {
		if err := f.files.DeleteAttachment(att.Filename); err != nil {
			logger.Log.Warn("sweep: failed to delete attachment file, keeping row",
				"filename", att.Filename, "error", err)
			continue
		}
		if err := f.storage.DeleteAttachment(att.Id); err != nil {
			logger.Log.Warn("sweep: failed to delete attachment row",
				"id", att.Id, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// StartBackgroundCleanup starts the recurring orphan sweep. The default
// interval equals the retention window, so the first sweep fires only after
// one full window.
func (f *File) StartBackgroundCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started attachment cleanup sweep",
		"interval", interval, "retention", f.retention)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				removed, err := f.RemoveUnusedAttachments()
				if err != nil {
					logger.Log.Error("attachment sweep failed", "error", err)
					continue
				}
				logger.Log.Info("attachment sweep completed", "removed", removed)
			case <-ctx.Done():
				logger.Log.Info("attachment sweep shutting down")
				return
			}
		}
	}()
}
