package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/clinical-data-api/internal/contract"
	"github.com/yukikurage/clinical-data-api/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// ListAuditLogs returns the audit trail, newest first.
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	logs, err := h.auditService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, contract.AuditList, http.StatusOK, logs)
}
