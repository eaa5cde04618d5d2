package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/clinical-data-api/internal/contract"
	"github.com/yukikurage/clinical-data-api/internal/dto"
	"github.com/yukikurage/clinical-data-api/internal/middleware"
	"github.com/yukikurage/clinical-data-api/internal/services"
)

type ModelHandler struct {
	modelService *services.ModelService
}

func NewModelHandler(modelService *services.ModelService) *ModelHandler {
	return &ModelHandler{
		modelService: modelService,
	}
}

// ListModels returns every model.
func (h *ModelHandler) ListModels(c *gin.Context) {
	list, err := h.modelService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, contract.ModelsList, http.StatusOK, list)
}

// RunModel queues a run of the model against a dataset.
func (h *ModelHandler) RunModel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req contract.RunModelRequest
	if !bindJSON(c, &req, false) {
		return
	}

	result := h.modelService.Run(c.Request.Context(), middleware.ActorID(c), id, req.DatasetID)

	respond(c, contract.ModelsRun, http.StatusOK, dto.ModelRunResponse{
		JobID:  result.JobID,
		Status: result.Status,
	})
}
