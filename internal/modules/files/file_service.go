package files

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"

	"travel-journal-backend/internal/models"
	"travel-journal-backend/pkg/storage"
)

// ServiceInterface accepts a batch of photo files and returns the
// server-assigned references. Nothing here retains raw bytes after upload.
type ServiceInterface interface {
	UploadBatch(ctx context.Context, memberID string, files []*multipart.FileHeader) ([]models.PhotoRef, error)
}

// Service streams photo uploads into object storage.
type Service struct {
	uploader storage.UploaderInterface
}

// NewService creates a new file service.
func NewService(uploader storage.UploaderInterface) *Service {
	return &Service{uploader: uploader}
}

// UploadBatch stores every file in the batch. The batch is all-or-nothing:
// a failed upload aborts the rest and cleans up what was already stored, so
// the caller never commits a partial photo list to a draft.
func (s *Service) UploadBatch(ctx context.Context, memberID string, headers []*multipart.FileHeader) ([]models.PhotoRef, error) {
	refs := make([]models.PhotoRef, 0, len(headers))

	for _, header := range headers {
		ref, err := s.uploadOne(ctx, memberID, header)
		if err != nil {
			for _, stored := range refs {
				_ = s.uploader.Delete(ctx, stored.FileID)
			}
			return nil, fmt.Errorf("service.UploadBatch %q: %w", header.Filename, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *Service) uploadOne(ctx context.Context, memberID string, header *multipart.FileHeader) (models.PhotoRef, error) {
	f, err := header.Open()
	if err != nil {
		return models.PhotoRef{}, err
	}
	defer f.Close()

	key := fmt.Sprintf("photos/%s/%s%s", memberID, uuid.New().String(), filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := s.uploader.Upload(ctx, key, contentType, f)
	if err != nil {
		return models.PhotoRef{}, err
	}
	return models.PhotoRef{
		FileID:     key,
		Filename:   header.Filename,
		PreviewURL: url,
	}, nil
}
