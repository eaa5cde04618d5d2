package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/yukikurage/clinical-data-api/internal/constants"
	"github.com/yukikurage/clinical-data-api/internal/models"
	"github.com/yukikurage/clinical-data-api/internal/storage"
)

var ErrDatasetNotFound = errors.New("dataset not found")

// DatasetService handles datasets and the files registered under them.
type DatasetService struct {
	store       storage.Storage
	audit       *AuditService
	fileBaseURL string
}

// NewDatasetService creates a new DatasetService. fileBaseURL prefixes the
// URLs of uploaded file records.
func NewDatasetService(store storage.Storage, audit *AuditService, fileBaseURL string) *DatasetService {
	return &DatasetService{
		store:       store,
		audit:       audit,
		fileBaseURL: fileBaseURL,
	}
}

// UploadFileInput carries the metadata a client sent with an upload. Missing
// fields fall back to fixed defaults.
type UploadFileInput struct {
	Name *string
	Type *string
	Size *int64
}

// List returns every dataset, filtered by modality when it is non-empty.
func (s *DatasetService) List(ctx context.Context, modality models.Modality) ([]models.Dataset, error) {
	datasets, err := s.store.GetDatasets(ctx, modality)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	return datasets, nil
}

// Get returns one dataset or ErrDatasetNotFound.
func (s *DatasetService) Get(ctx context.Context, id uint64) (*models.Dataset, error) {
	dataset, err := s.store.GetDataset(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find dataset: %w", err)
	}
	if dataset == nil {
		return nil, ErrDatasetNotFound
	}
	return dataset, nil
}

// Create stores a new dataset. The owner id is not checked against users.
func (s *DatasetService) Create(ctx context.Context, actorID uint64, input models.NewDataset) (*models.Dataset, error) {
	dataset, err := s.store.CreateDataset(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset: %w", err)
	}

	s.audit.recordBestEffort(ctx, actorID, models.AuditActionCreate, datasetResource(dataset.ID), "Created dataset "+dataset.Name)
	return dataset, nil
}

// ListFiles returns the files registered under datasetID.
func (s *DatasetService) ListFiles(ctx context.Context, datasetID uint64) ([]models.FileRecord, error) {
	files, err := s.store.GetFiles(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// UploadFile registers a file record under datasetID. No content is
// transferred; the record is built from the supplied metadata.
func (s *DatasetService) UploadFile(ctx context.Context, actorID, datasetID uint64, input UploadFileInput) (*models.FileRecord, error) {
	name := constants.DefaultUploadName
	if input.Name != nil {
		name = *input.Name
	}
	fileType := constants.DefaultUploadType
	if input.Type != nil {
		fileType = *input.Type
	}
	size := int64(constants.DefaultUploadSize)
	if input.Size != nil {
		size = *input.Size
	}

	file, err := s.store.CreateFile(ctx, models.NewFile{
		DatasetID: datasetID,
		Name:      name,
		FileType:  fileType,
		SizeBytes: size,
		URL:       fmt.Sprintf("%s/datasets/%d/files/%s", s.fileBaseURL, datasetID, url.PathEscape(name)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	s.audit.recordBestEffort(ctx, actorID, models.AuditActionUpload, datasetResource(datasetID), "Uploaded "+file.Name)
	return file, nil
}

func datasetResource(id uint64) string {
	return fmt.Sprintf("datasets/%d", id)
}
