package sqlite

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/hoaxify/hoaxify-api/internal/domain"
	internal_errors "github.com/hoaxify/hoaxify-api/internal/errors"
)

func (s *Storage) CreateHoax(hoax domain.Hoax) (domain.HoaxId, error) {
	res, err := s.db.Exec(`
	INSERT INTO hoaxes (content, timestamp, user_id)
	VALUES (?, ?, ?)`, hoax.Content, hoax.Timestamp, hoax.UserId)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListHoaxes returns one page of hoaxes joined with the owner's public fields
// and the optional attachment, newest first by id. userId narrows the listing
// to a single owner; existence of that owner is the service's concern.
func (s *Storage) ListHoaxes(p domain.Pagination, userId *domain.UserId) ([]domain.HoaxView, int, error) {
	where := ""
	args := []any{}
	if userId != nil {
		where = "WHERE h.user_id = ?"
		args = append(args, *userId)
	}

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM hoaxes h `+where, args...).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	args = append(args, p.Size, p.Offset())
	rows, err := s.db.Query(`
	SELECT h.id, h.content, h.timestamp,
	       u.id, u.username, u.email, COALESCE(u.image, ''),
	       a.filename, a.file_type
	FROM hoaxes h
	JOIN users u ON u.id = h.user_id
	LEFT JOIN file_attachments a ON a.hoax_id = h.id
	`+where+`
	ORDER BY h.id DESC
	LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	views := []domain.HoaxView{}
	for rows.Next() {
		var v domain.HoaxView
		var filename, fileType sql.NullString
		err := rows.Scan(&v.Id, &v.Content, &v.Timestamp,
			&v.User.Id, &v.User.Username, &v.User.Email, &v.User.Image,
			&filename, &fileType)
		if err != nil {
			return nil, 0, err
		}
		if filename.Valid {
			v.FileAttachment = &domain.AttachmentView{Filename: filename.String, FileType: fileType.String}
		}
		views = append(views, v)
	}
	return views, count, rows.Err()
}

// GetOwnedHoax looks a hoax up by id and owner in one query, along with its
// attachment if any. A hoax owned by someone else is indistinguishable from a
// missing one: both come back as a 403 so existence does not leak.
func (s *Storage) GetOwnedHoax(id domain.HoaxId, userId domain.UserId) (domain.Hoax, *domain.FileAttachment, error) {
	var hoax domain.Hoax
	var attId sql.NullInt64
	var filename, fileType sql.NullString
	err := s.db.QueryRow(`
	SELECT h.id, h.content, h.timestamp, h.user_id, a.id, a.filename, a.file_type
	FROM hoaxes h
	LEFT JOIN file_attachments a ON a.hoax_id = h.id
	WHERE h.id = ? AND h.user_id = ?`, id, userId).
		Scan(&hoax.Id, &hoax.Content, &hoax.Timestamp, &hoax.UserId, &attId, &filename, &fileType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hoax{}, nil, internal_errors.New("unautorised_hoax_delete", http.StatusForbidden)
		}
		return domain.Hoax{}, nil, err
	}

	var attachment *domain.FileAttachment
	if attId.Valid {
		attachment = &domain.FileAttachment{
			Id:       attId.Int64,
			Filename: filename.String,
			FileType: fileType.String,
			HoaxId:   &hoax.Id,
		}
	}
	return hoax, attachment, nil
}

// DeleteHoax removes the row; the attachment row cascades at the database level.
func (s *Storage) DeleteHoax(id domain.HoaxId) error {
	_, err := s.db.Exec(`DELETE FROM hoaxes WHERE id = ?`, id)
	return err
}

// AttachmentFilenamesByUser lists stored filenames of every attachment bound
// to one of the user's hoaxes, for the user deletion file cleanup.
func (s *Storage) AttachmentFilenamesByUser(userId domain.UserId) ([]string, error) {
	rows, err := s.db.Query(`
	SELECT a.filename
	FROM file_attachments a
	JOIN hoaxes h ON h.id = a.hoax_id
	WHERE h.user_id = ?`, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var filenames []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		filenames = append(filenames, f)
	}
	return filenames, rows.Err()
}
