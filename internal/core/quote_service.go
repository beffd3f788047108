package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/db"
	"github.com/sevengen/site-backend/internal/models"
)

const quoteRequestsCollection = "quoteRequests"

// quoteService implements the QuoteService interface.
type quoteService struct {
	quoteRepo db.QuoteRepository
	roles     RoleResolver
	audit     AuditService
	publisher QuoteEventPublisher
	validator *Validator
	metrics   MetricsRecorder
	logger    *zap.Logger

	inflight sync.WaitGroup
}

// NewQuoteService creates a new QuoteService instance.
func NewQuoteService(
	qr db.QuoteRepository,
	roles RoleResolver,
	as AuditService,
	publisher QuoteEventPublisher,
	validator *Validator,
	metrics MetricsRecorder,
	logger *zap.Logger,
) QuoteService {
	if publisher == nil {
		publisher = NoopPublisher
	}
	if metrics == nil {
		metrics = NoopMetrics
	}
	return &quoteService{
		quoteRepo: qr,
		roles:     roles,
		audit:     as,
		publisher: publisher,
		validator: validator,
		metrics:   metrics,
		logger:    logger,
	}
}

// Submit validates and persists a quote request and returns its ID once the store has
// confirmed the write.
func (s *quoteService) Submit(ctx context.Context, caller *models.Principal, req models.SubmitQuoteRequest) (string, error) {
	return s.SubmitAsync(ctx, caller, req).Wait(ctx)
}

// SubmitAsync starts a submission and returns its Operation right away. The write is not
// cancelled when ctx is; only ctx values are carried over.
func (s *quoteService) SubmitAsync(ctx context.Context, caller *models.Principal, req models.SubmitQuoteRequest) *Operation[string] {
	detached := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	return Go(func() (string, error) {
		defer s.inflight.Done()
		return s.submit(detached, caller, req)
	})
}

// Drain waits for started submissions to finish, or returns ctx.Err() if ctx ends first.
func (s *quoteService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *quoteService) submit(ctx context.Context, caller *models.Principal, req models.SubmitQuoteRequest) (string, error) {
	quote := &models.QuoteRequest{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Company: strings.TrimSpace(req.Company),
		Service: strings.TrimSpace(req.Service),
		Message: strings.TrimSpace(req.Message),
		Status:  models.QuoteStatusPending,
	}

	authenticated := caller != nil && caller.UID != ""
	if authenticated {
		quote.UserID = caller.UID
		quote.IsRegisteredUser = true
		if quote.Name == "" {
			quote.Name = caller.DisplayName
		}
		if quote.Email == "" {
			quote.Email = caller.Email
		}
	}

	if err := s.validator.ValidateQuote(quote, authenticated); err != nil {
		s.metrics.QuoteSubmitted(OutcomeRejected)
		return "", err
	}
	if quote.Name == "" {
		quote.Name = quote.Email
	}

	id, err := s.quoteRepo.Create(ctx, quote)
	if err != nil {
		s.metrics.QuoteSubmitted(OutcomeFailed)
		return "", s.persistenceFailure("create", "", quotePayload(quote), err)
	}
	s.metrics.QuoteSubmitted(OutcomeCreated)
	s.logger.Info("Quote request created", zap.String("quoteID", id), zap.Bool("registeredUser", quote.IsRegisteredUser))

	event := models.QuoteSubmittedEvent{
		QuoteID:          id,
		Name:             quote.Name,
		Email:            quote.Email,
		Phone:            quote.Phone,
		Company:          quote.Company,
		Service:          quote.Service,
		Message:          quote.Message,
		IsRegisteredUser: quote.IsRegisteredUser,
	}
	if err := s.publisher.PublishQuoteSubmitted(ctx, event); err != nil {
		s.logger.Warn("Failed to publish quote submitted event", zap.String("quoteID", id), zap.Error(err))
	}
	return id, nil
}

// List returns every quote request, most recent first. Admin only.
func (s *quoteService) List(ctx context.Context, caller *models.Principal) ([]*models.QuoteRequest, error) {
	if err := s.roles.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	quotes, err := s.quoteRepo.ListByCreatedDesc(ctx)
	if err != nil {
		return nil, s.persistenceFailure("list", "", nil, err)
	}
	return quotes, nil
}

// ListPartitioned returns the List result split into closed and other requests.
func (s *quoteService) ListPartitioned(ctx context.Context, caller *models.Principal) (*models.QuoteListing, error) {
	quotes, err := s.List(ctx, caller)
	if err != nil {
		return nil, err
	}
	listing := PartitionQuotes(quotes)
	return &listing, nil
}

// PartitionQuotes separates closed requests from the rest, keeping the input order in both.
func PartitionQuotes(quotes []*models.QuoteRequest) models.QuoteListing {
	listing := models.QuoteListing{
		Active: make([]*models.QuoteRequest, 0, len(quotes)),
		Closed: make([]*models.QuoteRequest, 0),
	}
	for _, q := range quotes {
		if q.Status == models.QuoteStatusClosed {
			listing.Closed = append(listing.Closed, q)
		} else {
			listing.Active = append(listing.Active, q)
		}
	}
	return listing
}

// Get returns one quote request. Admin only.
func (s *quoteService) Get(ctx context.Context, caller *models.Principal, quoteID string) (*models.QuoteRequest, error) {
	if err := s.roles.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	return s.get(ctx, quoteID)
}

func (s *quoteService) get(ctx context.Context, quoteID string) (*models.QuoteRequest, error) {
	quote, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrQuoteNotFound, quoteID)
		}
		return nil, s.persistenceFailure("get", quoteID, nil, err)
	}
	return quote, nil
}

// Update applies an admin edit. The edited record is validated as a whole before it is written;
// status may move between any two values.
func (s *quoteService) Update(ctx context.Context, caller *models.Principal, quoteID string, req models.UpdateQuoteRequest) (*models.QuoteRequest, error) {
	if err := s.roles.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}

	quote, err := s.get(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	apply := func(key string, value *string, target *string) {
		if value == nil {
			return
		}
		trimmed := strings.TrimSpace(*value)
		*target = trimmed
		fields[key] = trimmed
	}
	apply("name", req.Name, &quote.Name)
	apply("email", req.Email, &quote.Email)
	apply("phone", req.Phone, &quote.Phone)
	apply("company", req.Company, &quote.Company)
	if req.Status != nil {
		quote.Status = *req.Status
		fields["status"] = string(*req.Status)
	}

	identityEdited := req.Name != nil || req.Email != nil || req.Phone != nil
	if err := s.validator.ValidateQuoteUpdate(quote, identityEdited); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Update(ctx, quoteID, fields); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrQuoteNotFound, quoteID)
		}
		return nil, s.persistenceFailure("update", quoteID, fields, err)
	}

	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID:     caller.UID,
		Action:     models.AuditActionQuoteUpdate,
		TargetType: AuditTargetQuoteRequest,
		TargetID:   quoteID,
		Details:    fields,
	})
	return quote, nil
}

// Delete removes a quote request permanently. Admin only.
func (s *quoteService) Delete(ctx context.Context, caller *models.Principal, quoteID string) error {
	if err := s.roles.RequireAdmin(ctx, caller); err != nil {
		return err
	}
	if err := s.quoteRepo.Delete(ctx, quoteID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrQuoteNotFound, quoteID)
		}
		return s.persistenceFailure("delete", quoteID, nil, err)
	}

	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID:     caller.UID,
		Action:     models.AuditActionQuoteDelete,
		TargetType: AuditTargetQuoteRequest,
		TargetID:   quoteID,
	})
	return nil
}

func (s *quoteService) persistenceFailure(operation, docID string, payload map[string]interface{}, err error) error {
	s.logger.Error("Quote request persistence failed",
		zap.String("collection", quoteRequestsCollection),
		zap.String("operation", operation),
		zap.String("documentId", docID),
		zap.Any("payload", payload),
		zap.Error(err))
	return &PersistenceError{Operation: operation, Collection: quoteRequestsCollection, Err: err}
}

func quotePayload(q *models.QuoteRequest) map[string]interface{} {
	return map[string]interface{}{
		"name":             q.Name,
		"email":            q.Email,
		"phone":            q.Phone,
		"company":          q.Company,
		"service":          q.Service,
		"message":          q.Message,
		"status":           q.Status,
		"userId":           q.UserID,
		"isRegisteredUser": q.IsRegisteredUser,
	}
}
