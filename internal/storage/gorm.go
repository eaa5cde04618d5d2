package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/clinical-data-api/internal/database"
	"github.com/yukikurage/clinical-data-api/internal/models"
	"gorm.io/gorm"
)

// GormStorage is a GORM implementation of Storage for the SQL drivers.
type GormStorage struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Storage = (*GormStorage)(nil)

// NewGormStorage wraps an already migrated database.
func NewGormStorage(db *gorm.DB, opts ...Option) *GormStorage {
	o := newOptions(opts)
	return &GormStorage{db: db, now: o.now}
}

// first loads one record by condition, returning nil when nothing matches.
func first[T any](db *gorm.DB, conds ...interface{}) (*T, error) {
	var record T
	if err := db.First(&record, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (s *GormStorage) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := first[models.User](s.db.WithContext(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

func (s *GormStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := first[models.User](s.db.WithContext(ctx).Order("id"), "username = ?", username)
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return user, nil
}

func (s *GormStorage) GetUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *GormStorage) CreateUser(ctx context.Context, input models.NewUser) (*models.User, error) {
	user := &models.User{
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		FullName:     input.FullName,
		Institution:  input.Institution,
		IsActive:     input.IsActive,
		CreatedAt:    s.now(),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *GormStorage) UpdateUser(ctx context.Context, id uint64, patch models.UserPatch) (*models.User, error) {
	var updated *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := first[models.User](tx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrNotFound
		}
		patch.Apply(user)
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return updated, nil
}

func (s *GormStorage) DeleteUser(ctx context.Context, id uint64) error {
	if err := s.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

func (s *GormStorage) GetDatasets(ctx context.Context, modality models.Modality) ([]models.Dataset, error) {
	datasets := []models.Dataset{}
	query := s.db.WithContext(ctx).Order("id")
	if modality != "" {
		query = query.Where("modality = ?", modality)
	}
	if err := query.Find(&datasets).Error; err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return datasets, nil
}

func (s *GormStorage) GetDataset(ctx context.Context, id uint64) (*models.Dataset, error) {
	dataset, err := first[models.Dataset](s.db.WithContext(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("get dataset %d: %w", id, err)
	}
	return dataset, nil
}

func (s *GormStorage) CreateDataset(ctx context.Context, input models.NewDataset) (*models.Dataset, error) {
	dataset := &models.Dataset{
		Name:         input.Name,
		Description:  input.Description,
		Modality:     input.Modality,
		PatientCount: input.PatientCount,
		SizeBytes:    input.SizeBytes,
		OwnerID:      input.OwnerID,
		CreatedAt:    s.now(),
	}
	if err := s.db.WithContext(ctx).Create(dataset).Error; err != nil {
		return nil, fmt.Errorf("create dataset: %w", err)
	}
	return dataset, nil
}

func (s *GormStorage) GetFiles(ctx context.Context, datasetID uint64) ([]models.FileRecord, error) {
	files := []models.FileRecord{}
	if err := s.db.WithContext(ctx).
		Where("dataset_id = ?", datasetID).
		Order("id").
		Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list files of dataset %d: %w", datasetID, err)
	}
	return files, nil
}

func (s *GormStorage) CreateFile(ctx context.Context, input models.NewFile) (*models.FileRecord, error) {
	file := &models.FileRecord{
		DatasetID:  input.DatasetID,
		Name:       input.Name,
		FileType:   input.FileType,
		SizeBytes:  input.SizeBytes,
		URL:        input.URL,
		UploadedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	return file, nil
}

func (s *GormStorage) GetModels(ctx context.Context) ([]models.Model, error) {
	list := []models.Model{}
	if err := s.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return list, nil
}

func (s *GormStorage) CreateModel(ctx context.Context, input models.NewModel) (*models.Model, error) {
	model := &models.Model{
		Name:     input.Name,
		Type:     input.Type,
		Modality: input.Modality,
		Status:   input.Status,
		Accuracy: input.Accuracy,
		LastRun:  input.LastRun,
	}
	if model.Status == "" {
		model.Status = models.ModelStatusReady
	}
	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("create model: %w", err)
	}
	return model, nil
}

func (s *GormStorage) GetAuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	logs := []models.AuditLog{}
	if err := s.db.WithContext(ctx).
		Order("CASE WHEN occurred_at IS NULL THEN 1 ELSE 0 END, occurred_at DESC, id DESC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

func (s *GormStorage) CreateAuditLog(ctx context.Context, input models.NewAuditLog) (*models.AuditLog, error) {
	now := s.now()
	log := &models.AuditLog{
		UserID:    input.UserID,
		Action:    input.Action,
		Resource:  input.Resource,
		Details:   input.Details,
		Timestamp: &now,
	}
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, fmt.Errorf("create audit log: %w", err)
	}
	return log, nil
}

// Reset drops and recreates every table, which also restarts the id sequences.
func (s *GormStorage) Reset(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.Migrator().DropTable(database.Tables()...); err != nil {
		return fmt.Errorf("reset: drop tables: %w", err)
	}
	return database.Migrate(db)
}
