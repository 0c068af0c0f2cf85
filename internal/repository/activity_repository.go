package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gusti-hub/mlb-borneo-be/internal/entity"
	"gorm.io/gorm"
)

// ActivityRepository owns the activities table and its appointments.
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates the activity repository.
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts an activity row. Callers pass the ingestion transaction
// so the insert commits or rolls back with the reference resolution.
func (r *ActivityRepository) Create(tx *gorm.DB, activity *entity.Activity) error {
	return tx.Create(activity).Error
}

// CreateAppointments inserts appointment rows inside the ingestion transaction.
func (r *ActivityRepository) CreateAppointments(tx *gorm.DB, appointments []entity.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}
	return tx.Create(&appointments).Error
}

// FindByID loads an activity with its references, appointments and attachments.
func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*entity.Activity, error) {
	var activity entity.Activity
	err := r.db.WithContext(ctx).
		Preload("Vessel").
		Preload("PIC").
		Preload("Shipper").
		Preload("Buyer").
		Preload("LoadingPort").
		Preload("DischargingPort").
		Preload("Appointments", func(db *gorm.DB) *gorm.DB {
			return db.Order("appointment_date ASC")
		}).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).
		First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// List returns a filtered page of activities, newest first.
func (r *ActivityRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Activity{})

	if vessel, ok := filters["vessel"].(string); ok && vessel != "" {
		query = query.Joins("JOIN vessels ON vessels.id = activities.vessel_id").
			Where("vessels.vessel_name ILIKE ?", "%"+vessel+"%")
	}
	if picCode, ok := filters["pic"].(string); ok && picCode != "" {
		query = query.Joins("JOIN pics ON pics.id = activities.pic_id").
			Where("pics.pic_code = ?", picCode)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("activities.status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []entity.Activity
	err := query.
		Preload("Vessel").
		Preload("PIC").
		Preload("Shipper").
		Preload("Buyer").
		Preload("LoadingPort").
		Preload("DischargingPort").
		Order("activities.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&activities).Error
	return activities, total, err
}

// UpdateFields applies a partial column update and stamps updated_at.
// An empty field set still bumps the timestamp, matching a no-op success.
func (r *ActivityRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.Activity{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete removes an activity. Appointments and attachments go with it via
// ON DELETE CASCADE; a missing id is a successful no-op.
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.Activity{}).Error
}

// Exists reports whether an activity row exists.
func (r *ActivityRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Activity{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
