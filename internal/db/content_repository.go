package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/sevengen/site-backend/internal/models"
	"github.com/sevengen/site-backend/pkg/database"
)

const (
	homepageContentCollection = "homepageContent"
	homepageContentDocID      = "main"
)

// documentContentRepository implements ContentRepository on a DocumentStore.
type documentContentRepository struct {
	store database.DocumentStore
}

// NewContentRepository creates a ContentRepository backed by store.
func NewContentRepository(store database.DocumentStore) ContentRepository {
	return &documentContentRepository{store: store}
}

func (r *documentContentRepository) Get(ctx context.Context) (*models.HomepageContent, error) {
	doc, err := r.store.Get(ctx, homepageContentCollection, homepageContentDocID)
	if err != nil {
		return nil, fmt.Errorf("failed to get homepage content: %w", err)
	}
	return contentFromDocument(doc), nil
}

func (r *documentContentRepository) Merge(ctx context.Context, fields map[string]interface{}) error {
	if err := r.store.Set(ctx, homepageContentCollection, homepageContentDocID, fields, true); err != nil {
		return fmt.Errorf("failed to merge homepage content: %w", err)
	}
	return nil
}

func (r *documentContentRepository) CreateIfAbsent(ctx context.Context, content models.HomepageContent) (bool, error) {
	err := r.store.CreateWithID(ctx, homepageContentCollection, homepageContentDocID, ContentToDocument(content))
	if errors.Is(err, database.ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to seed homepage content: %w", err)
	}
	return true, nil
}

// ServicesToDocument converts a service list to its stored shape.
func ServicesToDocument(services []models.ServiceItem) []interface{} {
	out := make([]interface{}, 0, len(services))
	for _, s := range services {
		out = append(out, map[string]interface{}{
			"icon":        string(s.Icon),
			"title":       s.Title,
			"description": s.Description,
			"status":      string(s.Status),
		})
	}
	return out
}

// ContentToDocument converts a full content value to its stored shape.
func ContentToDocument(c models.HomepageContent) map[string]interface{} {
	return map[string]interface{}{
		"logoUrl":       c.LogoURL,
		"heroTitle":     c.HeroTitle,
		"heroSubtitle":  c.HeroSubtitle,
		"heroImageUrl":  c.HeroImageURL,
		"aboutTitle":    c.AboutTitle,
		"aboutText":     c.AboutText,
		"aboutImageUrl": c.AboutImageURL,
		"services":      ServicesToDocument(c.Services),
	}
}

func contentFromDocument(doc *database.Document) *models.HomepageContent {
	content := &models.HomepageContent{
		LogoURL:       stringField(doc.Data, "logoUrl"),
		HeroTitle:     stringField(doc.Data, "heroTitle"),
		HeroSubtitle:  stringField(doc.Data, "heroSubtitle"),
		HeroImageURL:  stringField(doc.Data, "heroImageUrl"),
		AboutTitle:    stringField(doc.Data, "aboutTitle"),
		AboutText:     stringField(doc.Data, "aboutText"),
		AboutImageURL: stringField(doc.Data, "aboutImageUrl"),
		Services:      []models.ServiceItem{},
	}
	raw, _ := doc.Data["services"].([]interface{})
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		status := models.ServiceStatus(stringField(m, "status"))
		if status == "" {
			// Documents saved before services carried a status are active.
			status = models.ServiceStatusActive
		}
		content.Services = append(content.Services, models.ServiceItem{
			Icon:        models.IconName(stringField(m, "icon")),
			Title:       stringField(m, "title"),
			Description: stringField(m, "description"),
			Status:      status,
		})
	}
	return content
}
