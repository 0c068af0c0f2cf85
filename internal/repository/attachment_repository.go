package repository

import (
	"context"
	"errors"

	"github.com/gusti-hub/mlb-borneo-be/internal/entity"
	"gorm.io/gorm"
)

// AttachmentRepository owns attachment descriptor rows.
type AttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates the attachment repository.
func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Create inserts an attachment row.
func (r *AttachmentRepository) Create(ctx context.Context, attachment *entity.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// FindByID returns an attachment row by id.
func (r *AttachmentRepository) FindByID(ctx context.Context, id string) (*entity.Attachment, error) {
	var attachment entity.Attachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&attachment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// ListByActivity returns an activity's attachments, newest first.
func (r *AttachmentRepository) ListByActivity(ctx context.Context, activityID string) ([]entity.Attachment, error) {
	var attachments []entity.Attachment
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("created_at DESC").
		Find(&attachments).Error
	return attachments, err
}

// Delete removes an attachment row.
func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.Attachment{}).Error
}
