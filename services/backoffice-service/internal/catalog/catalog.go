// Package catalog holds the service-category option list shared by every
// session's service form.
package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/backendapi"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/editor"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/model"
)

type Source interface {
	Filter(ctx context.Context, key string) ([]model.ServiceCategory, []backendapi.Issue, error)
}

type Catalog struct {
	source Source
	logger *slog.Logger

	mu          sync.RWMutex
	categories  []model.ServiceCategory
	refreshedAt time.Time
}

func New(source Source, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{source: source, logger: logger}
}

// Refresh replaces the list with every category the backend knows. On
// failure the previous list is kept.
func (c *Catalog) Refresh(ctx context.Context) error {
	categories, warnings, err := c.source.Filter(ctx, "")
	if err != nil {
		c.logger.Warn("category catalog refresh failed", "err", err)
		return err
	}
	if len(warnings) > 0 {
		c.logger.Warn("category catalog refresh returned warnings", "count", len(warnings))
	}
	c.Replace(categories)
	c.logger.Debug("category catalog refreshed", "count", len(categories))
	return nil
}

const refreshTimeout = 10 * time.Second

// OnChange wraps a category editor change hook so every save or delete also
// reloads the list. The reload outlives the operator's request.
func (c *Catalog) OnChange(next func(context.Context, editor.Change)) func(context.Context, editor.Change) {
	return func(ctx context.Context, change editor.Change) {
		if next != nil {
			next(ctx, change)
		}
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		_ = c.Refresh(ctx)
	}
}

// Ensure refreshes the catalog if it was never loaded.
func (c *Catalog) Ensure(ctx context.Context) {
	if c.Loaded() {
		return
	}
	_ = c.Refresh(ctx)
}

func (c *Catalog) Replace(categories []model.ServiceCategory) {
	next := make([]model.ServiceCategory, len(categories))
	copy(next, categories)
	c.mu.Lock()
	c.categories = next
	c.refreshedAt = time.Now()
	c.mu.Unlock()
}

func (c *Catalog) Categories() []model.ServiceCategory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.ServiceCategory, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.refreshedAt.IsZero()
}
