package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentinel errors
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories is the repository bundle shared by all services.
type Repositories struct {
	User       *UserRepository
	Reference  *ReferenceRepository
	Activity   *ActivityRepository
	Attachment *AttachmentRepository
	Dashboard  *DashboardRepository
}

// NewRepositories creates the repository bundle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Reference:  NewReferenceRepository(db),
		Activity:   NewActivityRepository(db),
		Attachment: NewAttachmentRepository(db),
		Dashboard:  NewDashboardRepository(db),
	}
}

// NewID returns a fresh 32-char identifier.
func NewID() string {
	return uuid.New().String()[:32]
}
