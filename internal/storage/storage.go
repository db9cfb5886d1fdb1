package storage

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"

	"github.com/kaosekai/companion-api/internal/constants"
)

// PublicPrefix is the URL prefix under which stored files are served.
const PublicPrefix = "/uploads"

var (
	ErrNotImage     = errors.New("file is not an image")
	ErrNotPDF       = errors.New("file is not a PDF")
	ErrFileTooLarge = errors.New("file exceeds the size limit")
)

// Store writes uploaded files under a root directory and hands back public
// reference paths. Generated filenames are unique per request, so concurrent
// writes never contend.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// SaveImage stores a generic image upload under images/.
func (s *Store) SaveImage(fh *multipart.FileHeader) (string, error) {
	return s.save(fh, "images", constants.MaxImageUploadBytes, isImage)
}

// SaveCover stores a catalog cover image under covers/.
func (s *Store) SaveCover(fh *multipart.FileHeader) (string, error) {
	return s.save(fh, "covers", constants.MaxCatalogUploadBytes, isImage)
}

// SavePDF stores a catalog PDF under pdfs/.
func (s *Store) SavePDF(fh *multipart.FileHeader) (string, error) {
	return s.save(fh, "pdfs", constants.MaxCatalogUploadBytes, isPDF)
}

func (s *Store) save(fh *multipart.FileHeader, subdir string, maxBytes int64, check func(*mimetype.MIME) error) (string, error) {
	if fh.Size > maxBytes {
		return "", ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	mime, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}
	if err := check(mime); err != nil {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}

	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name, err := uniqueName(fh.Filename)
	if err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path.Join(PublicPrefix, subdir, name), nil
}

// Remove deletes a previously stored file by its public reference path.
// Cleanup is best-effort: failures are logged, never surfaced, because the
// database row is the source of truth.
func (s *Store) Remove(refPath string) {
	rel := strings.TrimPrefix(refPath, PublicPrefix)
	rel = strings.TrimPrefix(rel, "/")
	clean := filepath.Clean(rel)
	if clean == "." || strings.HasPrefix(clean, "..") {
		log.Warn().Str("path", refPath).Msg("refusing to remove file outside upload root")
		return
	}

	if err := os.Remove(filepath.Join(s.root, clean)); err != nil {
		log.Warn().Err(err).Str("path", refPath).Msg("failed to remove stored file")
	}
}

func uniqueName(original string) (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate filename: %w", err)
	}
	suffix := binary.BigEndian.Uint32(buf[:]) % 1_000_000_000
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d-%09d%s", time.Now().UnixMilli(), suffix, ext), nil
}

func isImage(m *mimetype.MIME) error {
	if !strings.HasPrefix(m.String(), "image/") {
		return ErrNotImage
	}
	return nil
}

func isPDF(m *mimetype.MIME) error {
	if !m.Is("application/pdf") {
		return ErrNotPDF
	}
	return nil
}
