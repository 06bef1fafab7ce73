package sqlite

import (
	"database/sql"

	"github.com/hoaxify/hoaxify-api/internal/domain"
)

func (s *Storage) CreateAttachment(att domain.FileAttachment) (domain.AttachmentId, error) {
	res, err := s.db.Exec(`
	INSERT INTO file_attachments (filename, upload_date, file_type, hoax_id)
	VALUES (?, ?, ?, ?)`, att.Filename, att.UploadDate, att.FileType, att.HoaxId)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Storage) GetAttachment(id domain.AttachmentId) (domain.FileAttachment, error) {
	var att domain.FileAttachment
	var hoaxId sql.NullInt64
	err := s.db.QueryRow(`
	SELECT id, filename, upload_date, file_type, hoax_id
	FROM file_attachments WHERE id = ?`, id).
		Scan(&att.Id, &att.Filename, &att.UploadDate, &att.FileType, &hoaxId)
	if err != nil {
		return domain.FileAttachment{}, err
	}
	if hoaxId.Valid {
		att.HoaxId = &hoaxId.Int64
	}
	return att, nil
}

// AssociateAttachment binds an attachment to a hoax. The WHERE clause makes
// missing rows and already-associated rows a no-op in one statement, which is
// also what keeps the association immutable under concurrent calls.
func (s *Storage) AssociateAttachment(id domain.AttachmentId, hoaxId domain.HoaxId) error {
	_, err := s.db.Exec(`
	UPDATE file_attachments SET hoax_id = ?
	WHERE id = ? AND hoax_id IS NULL`, hoaxId, id)
	return err
}

// OrphanedAttachmentsBefore returns attachments never associated with a hoax
// whose upload date is strictly before cutoff (epoch millis).
func (s *Storage) OrphanedAttachmentsBefore(cutoff int64) ([]domain.FileAttachment, error) {
	rows, err := s.db.Query(`
	SELECT id, filename, upload_date, file_type
	FROM file_attachments
	WHERE hoax_id IS NULL AND upload_date < ?`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var atts []domain.FileAttachment
	for rows.Next() {
		var att domain.FileAttachment
		if err := rows.Scan(&att.Id, &att.Filename, &att.UploadDate, &att.FileType); err != nil {
			return nil, err
		}
		atts = append(atts, att)
	}
	return atts, rows.Err()
}

func (s *Storage) DeleteAttachment(id domain.AttachmentId) error {
	_, err := s.db.Exec(`DELETE FROM file_attachments WHERE id = ?`, id)
	return err
}
