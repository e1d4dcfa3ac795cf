package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/storage"
)

// FilesPath is the public prefix under which stored attachments are served.
const FilesPath = "/api/v1/files/"

type AttachmentService interface {
	Upload(ctx context.Context, name, contentType string, data io.Reader, size int64) (*models.Attachment, error)
	Download(ctx context.Context, key string) (io.ReadCloser, *models.Attachment, error)
	Delete(ctx context.Context, key string) error
}

type attachmentService struct {
	storage storage.ObjectStorage
	maxSize int64
	logger  zerolog.Logger
}

func NewAttachmentService(objects storage.ObjectStorage, maxSize int64, logger zerolog.Logger) AttachmentService {
	return &attachmentService{
		storage: objects,
		maxSize: maxSize,
		logger:  logger,
	}
}

func (s *attachmentService) Upload(ctx context.Context, name, contentType string, data io.Reader, size int64) (*models.Attachment, error) {
	if data == nil || size <= 0 {
		return nil, ErrFileRequired
	}
	if s.maxSize > 0 && size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	clean := safeFileName(name)
	key := uuid.New().String() + "_" + clean

	if err := s.storage.Upload(ctx, key, data, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	s.logger.Info().
		Str("key", key).
		Int64("size", size).
		Msg("Attachment uploaded")

	return &models.Attachment{
		Key:         key,
		Name:        clean,
		Size:        size,
		ContentType: contentType,
		URL:         FilesPath + key,
	}, nil
}

func (s *attachmentService) Download(ctx context.Context, key string) (io.ReadCloser, *models.Attachment, error) {
	if !validKey(key) {
		return nil, nil, ErrFileNotFound
	}

	body, info, err := s.storage.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	return body, &models.Attachment{
		Key:         key,
		Name:        originalName(key),
		Size:        info.Size,
		ContentType: info.ContentType,
		URL:         FilesPath + key,
	}, nil
}

func (s *attachmentService) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return ErrFileNotFound
	}

	body, _, err := s.Download(ctx, key)
	if err != nil {
		return err
	}
	body.Close()

	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	s.logger.Info().Str("key", key).Msg("Attachment deleted")
	return nil
}

// safeFileName keeps the base name and replaces anything outside
// [A-Za-z0-9._-] so keys stay valid single path segments.
func safeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "file"
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func validKey(key string) bool {
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return false
	}
	return key == safeFileName(key)
}

func originalName(key string) string {
	if _, name, ok := strings.Cut(key, "_"); ok {
		return name
	}
	return key
}
