package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/db"
	"github.com/sevengen/site-backend/internal/models"
	"github.com/sevengen/site-backend/pkg/cache"
	"github.com/sevengen/site-backend/pkg/database"
)

type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newMemoryCache() *memoryCache { return &memoryCache{values: make(map[string]string)} }

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.values[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *memoryCache) Close() error { return nil }

func TestDefaultContent(t *testing.T) {
	content, err := DefaultContent()
	require.NoError(t, err)
	assert.Equal(t, "Sevengen Automação", content.HeroTitle)
	assert.Len(t, content.Services, 7)
	for _, s := range content.Services {
		assert.Equal(t, models.ServiceStatusActive, s.Status)
		assert.Contains(t, models.IconNames, s.Icon)
	}
}

func TestContentService_ReadFallsBackToDefaults(t *testing.T) {
	f := newFixture(t)
	content := f.content.Read(context.Background())
	require.NotNil(t, content)
	assert.Equal(t, "Sevengen Automação", content.HeroTitle)

	// Callers may not alter the defaults through the returned value.
	content.Services[0].Title = "changed"
	again := f.content.Read(context.Background())
	assert.NotEqual(t, "changed", again.Services[0].Title)
}

func TestContentService_WriteMergesAndReplacesServices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.content.EnsureSeeded(ctx))

	saved, err := f.content.Write(ctx, adminPrincipal, models.WriteContentRequest{HeroTitle: strPtr("Novo título")})
	require.NoError(t, err)
	assert.Equal(t, "Novo título", saved.HeroTitle)
	assert.Contains(t, saved.AboutText, "Sevengen Automação é sua parceira")
	assert.Len(t, saved.Services, 7)

	services := []models.ServiceItem{{Icon: models.IconHardHat, Title: "Engenharia", Description: "Projetos", Status: models.ServiceStatusComingSoon}}
	saved, err = f.content.Write(ctx, adminPrincipal, models.WriteContentRequest{HeroTitle: strPtr("Outro"), Services: &services})
	require.NoError(t, err)
	assert.Equal(t, services, saved.Services)
	assert.Contains(t, saved.AboutText, "Sevengen Automação é sua parceira")

	read := f.content.Read(ctx)
	assert.Equal(t, "Outro", read.HeroTitle)
	assert.Equal(t, services, read.Services)
	assert.Equal(t, 2, f.metrics.writes)
}

func TestContentService_CustomerWriteIsDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.content.EnsureSeeded(ctx))
	before := f.content.Read(ctx)

	_, err := f.content.Write(ctx, customerPrincipal, models.WriteContentRequest{HeroTitle: strPtr("Hacked")})
	assert.True(t, errors.Is(err, ErrPermissionDenied))
	assert.Equal(t, before, f.content.Read(ctx))

	audits, err := f.store.Query(ctx, "auditLogs", database.Query{})
	require.NoError(t, err)
	assert.Empty(t, audits)
}

func TestContentService_WriteRejectsInvalidAndEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.content.Write(ctx, adminPrincipal, models.WriteContentRequest{HeroImageURL: strPtr("nope")})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = f.content.Write(ctx, adminPrincipal, models.WriteContentRequest{})
	assert.True(t, errors.Is(err, ErrNoFieldsToUpdate))
}

func TestContentService_EnsureSeededKeepsExisting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.content.Write(ctx, adminPrincipal, models.WriteContentRequest{HeroTitle: strPtr("Já salvo")})
	require.NoError(t, err)

	require.NoError(t, f.content.EnsureSeeded(ctx))
	assert.Equal(t, "Já salvo", f.content.Read(ctx).HeroTitle)
}

// hookedContentRepository runs getHook around every Get of the wrapped repository.
type hookedContentRepository struct {
	db.ContentRepository
	getHook func(ctx context.Context, inner db.ContentRepository) (*models.HomepageContent, error)
}

func (r *hookedContentRepository) Get(ctx context.Context) (*models.HomepageContent, error) {
	return r.getHook(ctx, r.ContentRepository)
}

func newCachedContentService(t *testing.T, repo db.ContentRepository, store database.DocumentStore, c cache.Cache) ContentService {
	t.Helper()
	users := db.NewUserRepository(store)
	require.NoError(t, users.Create(context.Background(), &models.UserProfile{ID: adminPrincipal.UID, Role: models.RoleAdmin}))
	validator, err := NewValidator(DefaultQuoteRules)
	require.NoError(t, err)
	svc, err := NewContentService(repo, NewRoleResolver(users, nil, zap.NewNop()), nil, validator, c, time.Minute, nil, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestContentService_WriteSucceedsWhenReadBackFails(t *testing.T) {
	store := database.NewMemoryStore()
	c := newMemoryCache()
	repo := &hookedContentRepository{
		ContentRepository: db.NewContentRepository(store),
		getHook: func(context.Context, db.ContentRepository) (*models.HomepageContent, error) {
			return nil, errors.New("deadline exceeded")
		},
	}
	svc := newCachedContentService(t, repo, store, c)
	ctx := context.Background()
	c.values["homepage-content"] = `{"heroTitle":"Antigo"}`

	saved, err := svc.Write(ctx, adminPrincipal, models.WriteContentRequest{HeroTitle: strPtr("Persistido")})
	require.NoError(t, err)
	assert.Equal(t, "Persistido", saved.HeroTitle)
	assert.Len(t, saved.Services, 7)
	assert.NotContains(t, c.values, "homepage-content")

	stored, err := db.NewContentRepository(store).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Persistido", stored.HeroTitle)
}

func TestContentService_ReadDoesNotCacheOverNewerWrite(t *testing.T) {
	store := database.NewMemoryStore()
	c := newMemoryCache()
	var svc ContentService
	fired := false
	repo := &hookedContentRepository{ContentRepository: db.NewContentRepository(store)}
	repo.getHook = func(ctx context.Context, inner db.ContentRepository) (*models.HomepageContent, error) {
		content, err := inner.Get(ctx)
		if !fired {
			// A write lands after this read fetched its copy but before it fills the cache.
			fired = true
			_, werr := svc.Write(ctx, adminPrincipal, models.WriteContentRequest{HeroTitle: strPtr("Novo")})
			require.NoError(t, werr)
		}
		return content, err
	}
	svc = newCachedContentService(t, repo, store, c)
	ctx := context.Background()
	require.NoError(t, svc.EnsureSeeded(ctx))

	stale := svc.Read(ctx)
	assert.Equal(t, "Sevengen Automação", stale.HeroTitle)
	assert.Contains(t, c.values["homepage-content"], `"heroTitle":"Novo"`)
	assert.Equal(t, "Novo", svc.Read(ctx).HeroTitle)
}

func TestContentService_CacheIsFilledAndRefreshedOnWrite(t *testing.T) {
	store := database.NewMemoryStore()
	users := db.NewUserRepository(store)
	require.NoError(t, users.Create(context.Background(), &models.UserProfile{ID: adminPrincipal.UID, Role: models.RoleAdmin}))
	validator, err := NewValidator(DefaultQuoteRules)
	require.NoError(t, err)
	c := newMemoryCache()
	svc, err := NewContentService(db.NewContentRepository(store), NewRoleResolver(users, nil, zap.NewNop()), nil, validator, c, time.Minute, nil, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.EnsureSeeded(ctx))
	svc.Read(ctx)
	assert.Contains(t, c.values, "homepage-content")

	// A stale store change is hidden by the cache until a write refreshes it.
	require.NoError(t, store.Set(ctx, "homepageContent", "main", map[string]interface{}{"heroTitle": "Direto"}, true))
	assert.Equal(t, "Sevengen Automação", svc.Read(ctx).HeroTitle)

	_, err = svc.Write(ctx, adminPrincipal, models.WriteContentRequest{AboutTitle: strPtr("Sobre")})
	require.NoError(t, err)
	assert.Contains(t, c.values["homepage-content"], `"aboutTitle":"Sobre"`)
	assert.Equal(t, "Direto", svc.Read(ctx).HeroTitle)

	c.getErr = errors.New("redis down")
	assert.Equal(t, "Direto", svc.Read(ctx).HeroTitle)
}
