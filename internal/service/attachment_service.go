package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gusti-hub/mlb-borneo-be/internal/entity"
	"github.com/gusti-hub/mlb-borneo-be/internal/repository"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var allowedAttachmentExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".pdf": true,
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
}

// AttachmentService stores attachment files in object storage and their
// descriptors in the database.
type AttachmentService struct {
	attachments *repository.AttachmentRepository
	activities  *repository.ActivityRepository
	minioClient *minio.Client
	bucket      string
	logger      *zap.Logger
}

// NewAttachmentService creates the attachment service.
func NewAttachmentService(attachments *repository.AttachmentRepository, activities *repository.ActivityRepository, minioClient *minio.Client, bucket string, logger *zap.Logger) *AttachmentService {
	return &AttachmentService{
		attachments: attachments,
		activities:  activities,
		minioClient: minioClient,
		bucket:      bucket,
		logger:      logger,
	}
}

// Upload stores one file against an activity.
func (s *AttachmentService) Upload(ctx context.Context, activityID, userID, fileName, contentType string, size int64, reader io.Reader) (*entity.Attachment, error) {
	exists, err := s.activities.Exists(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrNotFound
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedAttachmentExts[ext] {
		return nil, fmt.Errorf("%w: file type %q is not allowed", ErrValidation, ext)
	}

	objectName := fmt.Sprintf("attachments/%s/%s%s",
		time.Now().Format("2006/01/02"), repository.NewID()[:8], ext)

	if s.minioClient != nil {
		_, err = s.minioClient.PutObject(ctx, s.bucket, objectName, reader, size,
			minio.PutObjectOptions{ContentType: contentType})
		if err != nil {
			return nil, fmt.Errorf("store attachment object: %w", err)
		}
	}

	attachment := &entity.Attachment{
		ID:         repository.NewID(),
		ActivityID: activityID,
		FileName:   fileName,
		FilePath:   objectName,
		FileType:   contentType,
		FileSize:   size,
		UploadedBy: userID,
		CreatedAt:  time.Now(),
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		s.removeObject(ctx, objectName)
		return nil, err
	}

	s.logger.Info("attachment uploaded",
		zap.String("activity_id", activityID),
		zap.String("file", fileName),
		zap.Int64("size", size))
	return attachment, nil
}

// ListByActivity returns an activity's attachments, newest first.
func (s *AttachmentService) ListByActivity(ctx context.Context, activityID string) ([]entity.Attachment, error) {
	exists, err := s.activities.Exists(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrNotFound
	}
	return s.attachments.ListByActivity(ctx, activityID)
}

// Download streams an attachment's bytes from object storage.
func (s *AttachmentService) Download(ctx context.Context, id string) (*entity.Attachment, io.ReadCloser, error) {
	attachment, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.minioClient == nil {
		return nil, nil, fmt.Errorf("object storage is not configured")
	}
	object, err := s.minioClient.GetObject(ctx, s.bucket, attachment.FilePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("fetch attachment object: %w", err)
	}
	return attachment, object, nil
}

// Delete removes an attachment row, then its stored object best-effort.
func (s *AttachmentService) Delete(ctx context.Context, id string) error {
	attachment, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.attachments.Delete(ctx, id); err != nil {
		return err
	}
	s.removeObject(ctx, attachment.FilePath)
	return nil
}

// removeObject deletes a stored object, logging failures as orphans.
func (s *AttachmentService) removeObject(ctx context.Context, objectName string) {
	if s.minioClient == nil {
		return
	}
	if err := s.minioClient.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Warn("attachment object orphaned",
			zap.String("object", objectName),
			zap.Error(err))
	}
}
