package service

import (
	"time"

	"github.com/hoaxify/hoaxify-api/internal/domain"
)

// HoaxStorage defines the database operations the hoax service needs.
type HoaxStorage interface {
	CreateHoax(hoax domain.Hoax) (domain.HoaxId, error)
	ListHoaxes(p domain.Pagination, userId *domain.UserId) ([]domain.HoaxView, int, error)
	GetOwnedHoax(id domain.HoaxId, userId domain.UserId) (domain.Hoax, *domain.FileAttachment, error)
	DeleteHoax(id domain.HoaxId) error
	GetUserById(id domain.UserId) (domain.User, error)
}

// HoaxFiles is the slice of the file service the hoax service coordinates
// with: association at creation, file removal at deletion.
type HoaxFiles interface {
	AssociateFileToHoax(attachmentId domain.AttachmentId, hoaxId domain.HoaxId) error
	DeleteAttachmentFile(filename string)
}

type Hoax struct {
	storage HoaxStorage
	files   HoaxFiles
	now     func() time.Time
}

func NewHoax(storage HoaxStorage, files HoaxFiles) *Hoax {
	return &Hoax{storage: storage, files: files, now: time.Now}
}

func (h *Hoax) WithClock(now func() time.Time) *Hoax {
	h.now = now
	return h
}

// Create inserts a hoax stamped with the current time and, when an attachment
// id was supplied with the submission, binds that attachment to the new hoax.
// Content length is the request validator's problem; this trusts its input.
func (h *Hoax) Create(content string, userId domain.UserId, attachmentId *domain.AttachmentId) error {
	id, err := h.storage.CreateHoax(domain.Hoax{
		Content:   content,
		Timestamp: h.now().UnixMilli(),
		UserId:    userId,
	})
	if err != nil {
		return err
	}

	if attachmentId != nil {
		if err := h.files.AssociateFileToHoax(*attachmentId, id); err != nil {
			return err
		}
	}
	return nil
}

// List returns one page of hoaxes, newest first. With a userId the listing is
// scoped to that owner and a missing owner is a 404 — an existing user with
// no hoaxes gets a valid empty page instead.
func (h *Hoax) List(p domain.Pagination, userId *domain.UserId) (domain.Page[domain.HoaxView], error) {
	if userId != nil {
		if _, err := h.storage.GetUserById(*userId); err != nil {
			return domain.Page[domain.HoaxView]{}, err
		}
	}

	views, count, err := h.storage.ListHoaxes(p, userId)
	if err != nil {
		return domain.Page[domain.HoaxView]{}, err
	}
	return domain.Page[domain.HoaxView]{
		Content:    views,
		Page:       p.Page,
		Size:       p.Size,
		TotalPages: domain.TotalPages(count, p.Size),
	}, nil
}

// Delete removes a hoax the requester owns. Ownership is enforced inside the
// lookup query, so someone else's hoax and a nonexistent id produce the same
// forbidden error. The attachment file goes first, best-effort; the row
// cascade then removes the attachment record.
func (h *Hoax) Delete(id domain.HoaxId, requesterId domain.UserId) error {
	_, attachment, err := h.storage.GetOwnedHoax(id, requesterId)
	if err != nil {
		return err
	}

	if attachment != nil {
		h.files.DeleteAttachmentFile(attachment.Filename)
	}
	return h.storage.DeleteHoax(id)
}
