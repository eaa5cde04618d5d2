package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/clinical-data-api/internal/contract"
	"github.com/yukikurage/clinical-data-api/internal/middleware"
	"github.com/yukikurage/clinical-data-api/internal/models"
	"github.com/yukikurage/clinical-data-api/internal/services"
)

// DatasetHandler serves datasets and their files.
type DatasetHandler struct {
	datasetService *services.DatasetService
}

// NewDatasetHandler creates a new DatasetHandler.
func NewDatasetHandler(datasetService *services.DatasetService) *DatasetHandler {
	return &DatasetHandler{
		datasetService: datasetService,
	}
}

// ListDatasets returns every dataset, optionally filtered by ?modality=.
func (h *DatasetHandler) ListDatasets(c *gin.Context) {
	modality := models.Modality(c.Query("modality"))

	datasets, err := h.datasetService.List(c.Request.Context(), modality)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, contract.DatasetsList, http.StatusOK, datasets)
}

// GetDataset returns a dataset by ID.
func (h *DatasetHandler) GetDataset(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	dataset, err := h.datasetService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, contract.DatasetsGet, http.StatusOK, dataset)
}

// CreateDataset creates a dataset.
func (h *DatasetHandler) CreateDataset(c *gin.Context) {
	var req contract.CreateDatasetRequest
	if !bindJSON(c, &req, false) {
		return
	}

	dataset, err := h.datasetService.Create(c.Request.Context(), middleware.ActorID(c), models.NewDataset{
		Name:         req.Name,
		Description:  req.Description,
		Modality:     req.Modality,
		PatientCount: req.PatientCount,
		SizeBytes:    req.SizeBytes,
		OwnerID:      req.OwnerID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, contract.DatasetsCreate, http.StatusCreated, dataset)
}

// ListFiles returns the files of a dataset.
func (h *DatasetHandler) ListFiles(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	files, err := h.datasetService.ListFiles(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, contract.FilesList, http.StatusOK, files)
}

// UploadFile registers a file under a dataset from the metadata in the body.
// The body may be empty.
func (h *DatasetHandler) UploadFile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req contract.UploadFileRequest
	if !bindJSON(c, &req, true) {
		return
	}

	file, err := h.datasetService.UploadFile(c.Request.Context(), middleware.ActorID(c), id, services.UploadFileInput{
		Name: req.Name,
		Type: req.Type,
		Size: req.Size,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, contract.FilesUpload, http.StatusCreated, file)
}
