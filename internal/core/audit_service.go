package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/db"
	"github.com/sevengen/site-backend/internal/models"
)

// Audit target types.
const (
	AuditTargetQuoteRequest    = "QUOTE_REQUEST"
	AuditTargetHomepageContent = "HOMEPAGE_CONTENT"
)

// auditService implements the AuditService interface.
type auditService struct {
	auditRepo db.AuditRepository
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(auditRepo db.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// CreateAuditLog stores an audit log entry.
func (s *auditService) CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error {
	if s.auditRepo == nil {
		return fmt.Errorf("AuditRepository not initialized in AuditService")
	}
	if logEntry.UserID == "" || logEntry.Action == "" {
		return fmt.Errorf("audit log requires a user and an action")
	}
	if err := s.auditRepo.Create(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log via repository: %w", err)
	}
	return nil
}

// recordAudit writes an audit entry and only logs a failure; audit never fails the main operation.
func recordAudit(ctx context.Context, audit AuditService, logger *zap.Logger, entry models.AuditLog) {
	if audit == nil {
		return
	}
	if err := audit.CreateAuditLog(ctx, entry); err != nil {
		logger.Warn("Failed to create audit log",
			zap.String("action", entry.Action),
			zap.String("targetID", entry.TargetID),
			zap.Error(err))
	}
}
