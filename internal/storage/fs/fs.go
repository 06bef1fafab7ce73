package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage owns the on-disk layout for uploaded content: an upload root with
// one subdirectory for profile images and one for hoax attachments.
type Storage struct {
	rootPath      string
	profilePath   string
	attachmentPath string
}

// New cleans the root path and idempotently creates the upload directory
// layout. Existing directories are left alone.
func New(rootPath, profileDir, attachmentDir string) (*Storage, error) {
	p := filepath.Clean(rootPath)

	s := &Storage{
		rootPath:       p,
		profilePath:    filepath.Join(p, profileDir),
		attachmentPath: filepath.Join(p, attachmentDir),
	}

	for _, dir := range []string{s.rootPath, s.profilePath, s.attachmentPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}
	return s, nil
}

func (s *Storage) ProfileDir() string {
	return s.profilePath
}

func (s *Storage) AttachmentDir() string {
	return s.attachmentPath
}

// join keeps stored filenames inside dir; filenames are server-generated but
// static serving passes client input through here too.
func join(dir, filename string) string {
	return filepath.Join(dir, filepath.Base(filename))
}

func (s *Storage) SaveProfile(filename string, data []byte) error {
	return os.WriteFile(join(s.profilePath, filename), data, 0644)
}

// DeleteProfile propagates every error, including a missing file. It is only
// called for images the database says exist.
func (s *Storage) DeleteProfile(filename string) error {
	return os.Remove(join(s.profilePath, filename))
}

func (s *Storage) SaveAttachment(filename string, data []byte) error {
	return os.WriteFile(join(s.attachmentPath, filename), data, 0644)
}

// DeleteAttachment removes a stored attachment file. The caller decides
// whether a failure (the file may already be gone) is worth more than a log
// line.
func (s *Storage) DeleteAttachment(filename string) error {
	return os.Remove(join(s.attachmentPath, filename))
}
