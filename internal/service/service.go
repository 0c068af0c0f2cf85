package service

import (
	"errors"

	"github.com/gusti-hub/mlb-borneo-be/internal/config"
	"github.com/gusti-hub/mlb-borneo-be/internal/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service-level sentinel errors. Handlers map these onto the response
// envelope; everything else is an internal failure.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Services is the service bundle.
type Services struct {
	Auth       *AuthService
	Activity   *ActivityService
	Attachment *AttachmentService
	Dashboard  *DashboardService
}

// NewServices wires the service bundle. MinIO is optional: with no
// endpoint configured, attachment bytes are not stored and only the
// descriptor rows are kept (useful for tests).
func NewServices(db *gorm.DB, repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("MinIO client init failed, attachments will not be stored", zap.Error(err))
			minioClient = nil
		}
	}

	attachmentSvc := NewAttachmentService(repos.Attachment, repos.Activity, minioClient, cfg.MinIO.Bucket, logger)

	return &Services{
		Auth:       NewAuthService(repos.User, rdb, cfg),
		Activity:   NewActivityService(db, repos.Reference, repos.Activity, attachmentSvc, logger),
		Attachment: attachmentSvc,
		Dashboard:  NewDashboardService(repos.Dashboard, logger),
	}
}
