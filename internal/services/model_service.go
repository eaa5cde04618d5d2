package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yukikurage/clinical-data-api/internal/constants"
	"github.com/yukikurage/clinical-data-api/internal/models"
	"github.com/yukikurage/clinical-data-api/internal/storage"
)

// ModelService lists models and accepts run requests.
type ModelService struct {
	store storage.Storage
	audit *AuditService
}

// NewModelService creates a new ModelService.
func NewModelService(store storage.Storage, audit *AuditService) *ModelService {
	return &ModelService{
		store: store,
		audit: audit,
	}
}

// RunResult identifies an accepted model run.
type RunResult struct {
	JobID  string
	Status string
}

// List returns every registered model.
func (s *ModelService) List(ctx context.Context) ([]models.Model, error) {
	list, err := s.store.GetModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return list, nil
}

// Run accepts a run of modelID against datasetID and returns a queued job.
// No worker picks the job up: the model record is neither read nor changed,
// so its status stays whatever it was.
func (s *ModelService) Run(ctx context.Context, actorID, modelID, datasetID uint64) RunResult {
	result := RunResult{
		JobID:  constants.JobIDPrefix + uuid.NewString(),
		Status: constants.ModelRunQueued,
	}

	s.audit.recordBestEffort(ctx, actorID, models.AuditActionModelRun, fmt.Sprintf("models/%d", modelID),
		fmt.Sprintf("Queued %s on dataset %d", result.JobID, datasetID))
	return result
}
