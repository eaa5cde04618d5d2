package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yukikurage/clinical-data-api/internal/models"
)

// MemStorage keeps every collection in process memory. Nothing survives a
// restart.
type MemStorage struct {
	mu  sync.RWMutex
	now func() time.Time

	users     map[uint64]models.User
	datasets  map[uint64]models.Dataset
	files     map[uint64]models.FileRecord
	models    map[uint64]models.Model
	auditLogs map[uint64]models.AuditLog

	userID    uint64
	datasetID uint64
	fileID    uint64
	modelID   uint64
	auditID   uint64
}

var _ Storage = (*MemStorage)(nil)

// NewMemStorage returns an empty store. Call Seed to load the fixtures.
func NewMemStorage(opts ...Option) *MemStorage {
	o := newOptions(opts)
	s := &MemStorage{now: o.now}
	s.reset()
	return s
}

func (s *MemStorage) reset() {
	s.users = make(map[uint64]models.User)
	s.datasets = make(map[uint64]models.Dataset)
	s.files = make(map[uint64]models.FileRecord)
	s.models = make(map[uint64]models.Model)
	s.auditLogs = make(map[uint64]models.AuditLog)
	s.userID, s.datasetID, s.fileID, s.modelID, s.auditID = 0, 0, 0, 0, 0
}

// Reset drops every record and restarts the id counters at 1.
func (s *MemStorage) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

// ordered returns the values of m by ascending id, which is insertion order.
func ordered[T any](m map[uint64]T, keep func(T) bool) []T {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		v := m[id]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (s *MemStorage) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *MemStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := ordered(s.users, func(u models.User) bool { return u.Username == username })
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (s *MemStorage) GetUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ordered(s.users, nil), nil
}

func (s *MemStorage) CreateUser(ctx context.Context, input models.NewUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userID++
	user := models.User{
		ID:           s.userID,
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		FullName:     input.FullName,
		Institution:  input.Institution,
		IsActive:     input.IsActive,
		CreatedAt:    s.now(),
	}
	s.users[user.ID] = user
	return &user, nil
}

func (s *MemStorage) UpdateUser(ctx context.Context, id uint64, patch models.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("update user %d: %w", id, ErrNotFound)
	}
	patch.Apply(&user)
	s.users[id] = user
	return &user, nil
}

func (s *MemStorage) DeleteUser(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

func (s *MemStorage) GetDatasets(ctx context.Context, modality models.Modality) ([]models.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if modality == "" {
		return ordered(s.datasets, nil), nil
	}
	return ordered(s.datasets, func(d models.Dataset) bool { return d.Modality == modality }), nil
}

func (s *MemStorage) GetDataset(ctx context.Context, id uint64) (*models.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dataset, ok := s.datasets[id]
	if !ok {
		return nil, nil
	}
	return &dataset, nil
}

func (s *MemStorage) CreateDataset(ctx context.Context, input models.NewDataset) (*models.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.datasetID++
	dataset := models.Dataset{
		ID:           s.datasetID,
		Name:         input.Name,
		Description:  input.Description,
		Modality:     input.Modality,
		PatientCount: input.PatientCount,
		SizeBytes:    input.SizeBytes,
		OwnerID:      input.OwnerID,
		CreatedAt:    s.now(),
	}
	s.datasets[dataset.ID] = dataset
	return &dataset, nil
}

func (s *MemStorage) GetFiles(ctx context.Context, datasetID uint64) ([]models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ordered(s.files, func(f models.FileRecord) bool { return f.DatasetID == datasetID }), nil
}

func (s *MemStorage) CreateFile(ctx context.Context, input models.NewFile) (*models.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fileID++
	file := models.FileRecord{
		ID:         s.fileID,
		DatasetID:  input.DatasetID,
		Name:       input.Name,
		FileType:   input.FileType,
		SizeBytes:  input.SizeBytes,
		URL:        input.URL,
		UploadedAt: s.now(),
	}
	s.files[file.ID] = file
	return &file, nil
}

func (s *MemStorage) GetModels(ctx context.Context) ([]models.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ordered(s.models, nil), nil
}

func (s *MemStorage) CreateModel(ctx context.Context, input models.NewModel) (*models.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.modelID++
	model := models.Model{
		ID:       s.modelID,
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
	s.models[model.ID] = model
	return &model, nil
}

func (s *MemStorage) GetAuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	s.mu.RLock()
	logs := ordered(s.auditLogs, nil)
	s.mu.RUnlock()

	SortAuditLogs(logs)
	return logs, nil
}

func (s *MemStorage) CreateAuditLog(ctx context.Context, input models.NewAuditLog) (*models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auditID++
	now := s.now()
	log := models.AuditLog{
		ID:        s.auditID,
		UserID:    input.UserID,
		Action:    input.Action,
		Resource:  input.Resource,
		Details:   input.Details,
		Timestamp: &now,
	}
	s.auditLogs[log.ID] = log
	return &log, nil
}

// SortAuditLogs orders logs newest first. Entries without a timestamp sort as
// the oldest; equal timestamps fall back to the higher id first.
func SortAuditLogs(logs []models.AuditLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		a, b := logs[i].Timestamp, logs[j].Timestamp
		switch {
		case a == nil && b == nil:
			return logs[i].ID > logs[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.After(*b)
		default:
			return logs[i].ID > logs[j].ID
		}
	})
}
