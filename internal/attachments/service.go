package attachments

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"cvision-backend/internal/shared/storage/object"
)

var allowedMimeTypes = map[string]struct{}{
	mimePDF:              {},
	mimeDOCX:             {},
	"application/zip":    {},
	"application/msword": {},
}

// Service contains business logic for CV attachments.
type Service struct {
	Store           object.ObjectStore
	Repo            Repo
	StorageProvider string
}

// Upload saves the file to object storage and records the attachment.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Attachment, error) {
	if userID == "" || strings.TrimSpace(fileName) == "" {
		return Attachment{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Attachment{}, err
	}

	att := Attachment{
		ID:              uuid.NewString(),
		UserID:          userID,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.StorageProvider,
		StorageKey:      storageKey,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, att); err != nil {
		return Attachment{}, err
	}
	return att, nil
}

// Get returns an attachment by ID for a user.
func (s *Service) Get(ctx context.Context, userID, attachmentID string) (Attachment, error) {
	if userID == "" || attachmentID == "" {
		return Attachment{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, attachmentID)
}

// List returns attachments for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Attachment, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes an attachment.
func (s *Service) Delete(ctx context.Context, userID, attachmentID string) error {
	if userID == "" || attachmentID == "" {
		return ErrInvalidInput
	}
	deleted, err := s.Repo.Delete(ctx, userID, attachmentID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Open streams the stored file.
func (s *Service) Open(ctx context.Context, att Attachment) (io.ReadCloser, error) {
	return s.Store.Open(ctx, att.StorageKey)
}

// Text returns the extracted plain text for an attachment, extracting and
// caching it on first use. The derived text lives next to the original under
// a .extracted.txt key.
func (s *Service) Text(ctx context.Context, userID, attachmentID string) (string, error) {
	att, err := s.Get(ctx, userID, attachmentID)
	if err != nil {
		return "", err
	}

	if att.ExtractedTextKey != "" {
		body, err := s.Store.Open(ctx, att.ExtractedTextKey)
		if err == nil {
			defer body.Close()
			cached, readErr := io.ReadAll(body)
			if readErr == nil {
				return string(cached), nil
			}
		}
		// Cached copy unreadable; fall through and re-extract.
	}

	body, err := s.Store.Open(ctx, att.StorageKey)
	if err != nil {
		return "", err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	text, err := extractText(raw, att.MimeType, att.FileName)
	if err != nil {
		return "", err
	}

	extractedKey := att.StorageKey + ".extracted.txt"
	if err := s.saveExtracted(ctx, extractedKey, text); err == nil {
		_ = s.Repo.UpdateExtraction(ctx, userID, attachmentID, extractedKey, time.Now().UTC())
	}
	return text, nil
}

type keySaver interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}

func (s *Service) saveExtracted(ctx context.Context, key, text string) error {
	saver, ok := s.Store.(keySaver)
	if !ok {
		return errors.New("object store does not support SaveWithKey")
	}
	_, err := saver.SaveWithKey(ctx, key, "text/plain; charset=utf-8", strings.NewReader(text))
	return err
}
