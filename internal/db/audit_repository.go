package db

import (
	"context"
	"fmt"

	"github.com/sevengen/site-backend/internal/models"
	"github.com/sevengen/site-backend/pkg/database"
)

const auditLogsCollection = "auditLogs"

type documentAuditRepository struct {
	store database.DocumentStore
}

// NewAuditRepository creates an AuditRepository backed by store.
func NewAuditRepository(store database.DocumentStore) AuditRepository {
	return &documentAuditRepository{store: store}
}

// Create appends an audit log entry. The timestamp is assigned by the store.
func (r *documentAuditRepository) Create(ctx context.Context, logEntry models.AuditLog) error {
	data := map[string]interface{}{
		"timestamp": database.ServerTimestamp,
		"userId":    logEntry.UserID,
		"action":    logEntry.Action,
	}
	setIfNotEmpty(data, "targetType", logEntry.TargetType)
	setIfNotEmpty(data, "targetId", logEntry.TargetID)
	if len(logEntry.Details) > 0 {
		data["details"] = logEntry.Details
	}
	if _, err := r.store.Create(ctx, auditLogsCollection, data); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}
