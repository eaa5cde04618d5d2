// Package storage holds the entity collections behind the API. Every
// collection assigns its own ids, starting at 1 and never reused. Foreign
// ids (ownerId, datasetId, userId) are stored as given and never checked.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/clinical-data-api/internal/models"
)

// ErrNotFound is returned by operations that require an existing record.
// Lookups report a missing record as a nil result instead.
var ErrNotFound = errors.New("storage: record not found")

// Storage is implemented by MemStorage and GormStorage.
type Storage interface {
	// GetUser returns nil when no user has the id.
	GetUser(ctx context.Context, id uint64) (*models.User, error)
	// GetUserByUsername returns nil when no user has the username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	// CreateUser does not check username uniqueness.
	CreateUser(ctx context.Context, user models.NewUser) (*models.User, error)
	// UpdateUser fails with ErrNotFound when no user has the id.
	UpdateUser(ctx context.Context, id uint64, patch models.UserPatch) (*models.User, error)
	// DeleteUser is a no-op when no user has the id.
	DeleteUser(ctx context.Context, id uint64) error

	// GetDatasets returns every dataset, or only those of modality when it is non-empty.
	GetDatasets(ctx context.Context, modality models.Modality) ([]models.Dataset, error)
	GetDataset(ctx context.Context, id uint64) (*models.Dataset, error)
	CreateDataset(ctx context.Context, dataset models.NewDataset) (*models.Dataset, error)

	GetFiles(ctx context.Context, datasetID uint64) ([]models.FileRecord, error)
	CreateFile(ctx context.Context, file models.NewFile) (*models.FileRecord, error)

	GetModels(ctx context.Context) ([]models.Model, error)
	CreateModel(ctx context.Context, model models.NewModel) (*models.Model, error)

	// GetAuditLogs returns the newest entries first; entries without a
	// timestamp come last.
	GetAuditLogs(ctx context.Context) ([]models.AuditLog, error)
	CreateAuditLog(ctx context.Context, log models.NewAuditLog) (*models.AuditLog, error)

	// Reset drops every record and restarts the id counters.
	Reset(ctx context.Context) error
}

type options struct {
	now func() time.Time
}

// Option configures a storage backend.
type Option func(*options)

// WithClock sets the clock used to stamp createdAt, uploadedAt and timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
