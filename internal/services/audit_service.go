package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/yukikurage/clinical-data-api/internal/models"
	"github.com/yukikurage/clinical-data-api/internal/storage"
)

var auditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "clinical_audit_events_total",
		Help: "Audit log entries written, by action",
	},
	[]string{"action"},
)

// AuditService records and lists audit log entries.
type AuditService struct {
	store storage.Storage
}

// NewAuditService creates a new AuditService.
func NewAuditService(store storage.Storage) *AuditService {
	return &AuditService{store: store}
}

// Record writes one audit entry attributed to actorID (0 for anonymous callers).
func (s *AuditService) Record(ctx context.Context, actorID uint64, action, resource, details string) (*models.AuditLog, error) {
	entry := models.NewAuditLog{
		UserID:   actorID,
		Action:   action,
		Resource: resource,
	}
	if details != "" {
		entry.Details = &details
	}

	log, err := s.store.CreateAuditLog(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to record audit entry: %w", err)
	}
	auditEventsTotal.WithLabelValues(action).Inc()
	return log, nil
}

// recordBestEffort records an entry for a mutation that already happened; a
// failure is logged rather than reported to the caller.
func (s *AuditService) recordBestEffort(ctx context.Context, actorID uint64, action, resource, details string) {
	if _, err := s.Record(ctx, actorID, action, resource, details); err != nil {
		slog.ErrorContext(ctx, "audit entry lost",
			slog.String("action", action),
			slog.String("resource", resource),
			slog.Uint64("user_id", actorID),
			slog.String("error", err.Error()),
		)
	}
}

// List returns every entry, newest first.
func (s *AuditService) List(ctx context.Context) ([]models.AuditLog, error) {
	logs, err := s.store.GetAuditLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
