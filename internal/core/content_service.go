package core

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sevengen/site-backend/internal/db"
	"github.com/sevengen/site-backend/internal/models"
	"github.com/sevengen/site-backend/pkg/cache"
)

const (
	homepageContentCollection = "homepageContent"
	contentCacheKey           = "homepage-content"
)

//go:embed default_content.yaml
var defaultContentYAML []byte

// DefaultContent returns a fresh copy of the built-in homepage content.
func DefaultContent() (models.HomepageContent, error) {
	var content models.HomepageContent
	if err := yaml.Unmarshal(defaultContentYAML, &content); err != nil {
		return models.HomepageContent{}, fmt.Errorf("failed to parse default content: %w", err)
	}
	if content.Services == nil {
		content.Services = []models.ServiceItem{}
	}
	return content, nil
}

// contentService implements the ContentService interface.
type contentService struct {
	contentRepo db.ContentRepository
	roles       RoleResolver
	audit       AuditService
	validator   *Validator
	cache       cache.Cache
	cacheTTL    time.Duration
	metrics     MetricsRecorder
	logger      *zap.Logger
	defaults    models.HomepageContent

	// cacheMu orders cache fills against writes. generation is bumped by every successful
	// write; a read only fills the cache if no write happened since it started.
	cacheMu    sync.Mutex
	generation uint64
}

// NewContentService creates a new ContentService. contentCache may be nil.
func NewContentService(
	cr db.ContentRepository,
	roles RoleResolver,
	as AuditService,
	validator *Validator,
	contentCache cache.Cache,
	cacheTTL time.Duration,
	metrics MetricsRecorder,
	logger *zap.Logger,
) (ContentService, error) {
	defaults, err := DefaultContent()
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = NoopMetrics
	}
	return &contentService{
		contentRepo: cr,
		roles:       roles,
		audit:       as,
		validator:   validator,
		cache:       contentCache,
		cacheTTL:    cacheTTL,
		metrics:     metrics,
		logger:      logger,
		defaults:    defaults,
	}, nil
}

// Read returns the published homepage content. It never fails: when nothing is stored or the
// store cannot be read, the built-in defaults are returned.
func (s *contentService) Read(ctx context.Context) *models.HomepageContent {
	if cached, ok := s.readCache(ctx); ok {
		return cached
	}
	generation := s.currentGeneration()

	content, err := s.contentRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			s.logger.Error("Failed to read homepage content, serving defaults",
				zap.String("collection", homepageContentCollection),
				zap.String("operation", "get"),
				zap.Error(err))
		}
		return s.defaultCopy()
	}

	s.fillCache(ctx, content, generation)
	return content
}

// Write merges the provided fields into the stored content. Services, when present, replace the
// stored list. Admin only.
func (s *contentService) Write(ctx context.Context, caller *models.Principal, req models.WriteContentRequest) (*models.HomepageContent, error) {
	if err := s.roles.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateContent(req); err != nil {
		return nil, err
	}

	fields := contentFields(req)
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if err := s.contentRepo.Merge(ctx, fields); err != nil {
		s.logger.Error("Homepage content persistence failed",
			zap.String("collection", homepageContentCollection),
			zap.String("operation", "merge"),
			zap.String("documentId", "main"),
			zap.Any("payload", fields),
			zap.Error(err))
		return nil, &PersistenceError{Operation: "merge", Collection: homepageContentCollection, Err: err}
	}
	s.metrics.ContentWritten()

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	recordAudit(ctx, s.audit, s.logger, models.AuditLog{
		UserID:     caller.UID,
		Action:     models.AuditActionContentWrite,
		TargetType: AuditTargetHomepageContent,
		TargetID:   "main",
		Details:    map[string]interface{}{"fields": keys},
	})

	// The merge is durable from here on; a failed read-back only degrades the returned view.
	content, err := s.contentRepo.Get(ctx)
	if err != nil {
		s.logger.Warn("Homepage content saved but could not be read back",
			zap.String("collection", homepageContentCollection),
			zap.String("operation", "get"),
			zap.String("documentId", "main"),
			zap.Strings("fields", keys),
			zap.Error(err))
		s.replaceCache(ctx, nil)
		return applyContentRequest(s.defaultCopy(), req), nil
	}
	s.replaceCache(ctx, content)
	return content, nil
}

// EnsureSeeded stores the default content when no document exists yet.
func (s *contentService) EnsureSeeded(ctx context.Context) error {
	created, err := s.contentRepo.CreateIfAbsent(ctx, s.defaults)
	if err != nil {
		return &PersistenceError{Operation: "seed", Collection: homepageContentCollection, Err: err}
	}
	if created {
		s.logger.Info("Seeded default homepage content")
	}
	return nil
}

func (s *contentService) defaultCopy() *models.HomepageContent {
	content := s.defaults
	content.Services = append([]models.ServiceItem{}, s.defaults.Services...)
	return &content
}

func (s *contentService) readCache(ctx context.Context) (*models.HomepageContent, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, contentCacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Content cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var content models.HomepageContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		s.logger.Warn("Discarding undecodable cached content", zap.Error(err))
		return nil, false
	}
	return &content, true
}

func (s *contentService) writeCache(ctx context.Context, content *models.HomepageContent) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, contentCacheKey, string(raw), s.cacheTTL); err != nil {
		s.logger.Warn("Content cache write failed", zap.Error(err))
	}
}

func (s *contentService) currentGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

// fillCache stores content read at generation, unless a write has landed since.
func (s *contentService) fillCache(ctx context.Context, content *models.HomepageContent, generation uint64) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation != generation {
		return
	}
	s.writeCache(ctx, content)
}

// replaceCache starts a new generation after a write and caches content, or drops the cached
// value when content is nil.
func (s *contentService) replaceCache(ctx context.Context, content *models.HomepageContent) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++
	if s.cache == nil {
		return
	}
	if content != nil {
		s.writeCache(ctx, content)
		return
	}
	if err := s.cache.Delete(ctx, contentCacheKey); err != nil {
		s.logger.Warn("Content cache invalidation failed", zap.Error(err))
	}
}

// applyContentRequest overlays the fields present in req onto base.
func applyContentRequest(base *models.HomepageContent, req models.WriteContentRequest) *models.HomepageContent {
	for target, value := range map[*string]*string{
		&base.LogoURL:       req.LogoURL,
		&base.HeroTitle:     req.HeroTitle,
		&base.HeroSubtitle:  req.HeroSubtitle,
		&base.HeroImageURL:  req.HeroImageURL,
		&base.AboutTitle:    req.AboutTitle,
		&base.AboutText:     req.AboutText,
		&base.AboutImageURL: req.AboutImageURL,
	} {
		if value != nil {
			*target = *value
		}
	}
	if req.Services != nil {
		base.Services = append([]models.ServiceItem{}, (*req.Services)...)
	}
	return base
}

func contentFields(req models.WriteContentRequest) map[string]interface{} {
	fields := make(map[string]interface{})
	for key, value := range map[string]*string{
		"logoUrl":       req.LogoURL,
		"heroTitle":     req.HeroTitle,
		"heroSubtitle":  req.HeroSubtitle,
		"heroImageUrl":  req.HeroImageURL,
		"aboutTitle":    req.AboutTitle,
		"aboutText":     req.AboutText,
		"aboutImageUrl": req.AboutImageURL,
	} {
		if value != nil {
			fields[key] = *value
		}
	}
	if req.Services != nil {
		fields["services"] = db.ServicesToDocument(*req.Services)
	}
	return fields
}
