package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/habitcoach/coaching-system/internal/api/metrics"
	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// BloodworkService implements bloodwork document uploads and listing.
// The store keeps metadata and a reference URL only; file bytes are
// handed to blob storage out of band and never persisted here.
type BloodworkService struct {
	docs    ports.BloodworkStore
	access  ports.ClientStore
	baseURL string
	log     zerolog.Logger
}

// NewBloodworkService builds a BloodworkService. baseURL is the blob
// storage prefix referenced by generated file URLs.
func NewBloodworkService(docs ports.BloodworkStore, access ports.ClientStore, baseURL string, log zerolog.Logger) *BloodworkService {
	return &BloodworkService{docs: docs, access: access, baseURL: baseURL, log: log}
}

// Upload validates and stores one document's metadata.
func (s *BloodworkService) Upload(ctx context.Context, in ports.UploadBloodworkInput) (*domain.BloodworkDocument, error) {
	ok, err := s.access.CanAccess(ctx, in.ActorID, in.TargetUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAccessDenied
	}

	if in.FileName == "" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrValidation)
	}
	if !domain.AllowedBloodworkType(in.FileType) {
		return nil, fmt.Errorf("%w: only PDF, DOCX, TXT, JPEG and PNG files are allowed", domain.ErrValidation)
	}
	if in.FileSize <= 0 || in.FileSize > domain.MaxBloodworkSize {
		return nil, fmt.Errorf("%w: file size must be positive and at most 10MB", domain.ErrValidation)
	}

	doc, err := s.docs.SaveBloodworkDocument(ctx, domain.BloodworkDocument{
		UserID:     in.TargetUserID,
		FileName:   in.FileName,
		FileType:   in.FileType,
		FileSize:   in.FileSize,
		UploadDate: time.Now().UTC(),
		FileURL:    fmt.Sprintf("%s/%s/%s", s.baseURL, in.TargetUserID, uuid.NewString()),
		Notes:      in.Notes,
	}, in.ActorID)
	if err != nil {
		return nil, err
	}

	metrics.BloodworkUploadsTotal.Inc()
	s.log.Info().Str("user_id", doc.UserID).Str("file_name", doc.FileName).Int64("size", doc.FileSize).Msg("bloodwork uploaded")
	return doc, nil
}

// List returns the target user's documents, newest upload first.
func (s *BloodworkService) List(ctx context.Context, actorID, userID string) ([]*domain.BloodworkDocument, error) {
	ok, err := s.access.CanAccess(ctx, actorID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAccessDenied
	}
	return s.docs.BloodworkDocuments(ctx, userID)
}
