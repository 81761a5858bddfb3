package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Errors returned by the stores.
var (
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrExpenditureNotFound = errors.New("expenditure not found")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidBackup       = errors.New("invalid backup")
)

// Catalog is the persisted menu.
type Catalog struct {
	mu     sync.RWMutex
	p      Persistence
	items  []domain.MenuItem
	logger *zap.Logger
}

// NewCatalog loads the saved menu, falling back to SeedMenu.
func NewCatalog(ctx context.Context, p Persistence, logger *zap.Logger) *Catalog {
	c := &Catalog{p: p, logger: logger.Named("catalog")}
	c.Load(ctx)
	return c
}

// Load replaces the in-memory menu with the persisted one. An absent or
// unreadable blob yields the seed menu.
func (c *Catalog) Load(ctx context.Context) {
	var items []domain.MenuItem
	if err := loadBlob(ctx, c.p, KeyMenu, &items); err != nil {
		logLoadFallback(c.logger, KeyMenu, err)
		items = SeedMenu()
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

func (c *Catalog) List() []domain.MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Get(id string) (domain.MenuItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.ID == id {
			return it, nil
		}
	}
	return domain.MenuItem{}, ErrMenuItemNotFound
}

// Add stores a new item under a fresh id. Name and hpp are required; a
// missing category defaults to FOOD.
func (c *Catalog) Add(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" || item.HPP <= 0 {
		return domain.MenuItem{}, fmt.Errorf("%w: name and hpp are required", domain.ErrInvalidMenuItem)
	}
	if item.Category == "" {
		item.Category = enum.CategoryFood
	}
	item.ID = uuid.NewString()
	item.PromoPrice = normalizePromo(item.PromoPrice)
	if err := item.Validate(); err != nil {
		return domain.MenuItem{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := append(c.snapshot(), item)
	if err := c.commit(ctx, next); err != nil {
		return domain.MenuItem{}, err
	}
	c.logger.Info("menu item added", zap.String("id", item.ID), zap.String("name", item.Name))
	return item, nil
}

// Update replaces every field of the item with the same id.
func (c *Catalog) Update(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" || item.Price <= 0 {
		return domain.MenuItem{}, fmt.Errorf("%w: name and price are required", domain.ErrInvalidMenuItem)
	}
	item.PromoPrice = normalizePromo(item.PromoPrice)
	if err := item.Validate(); err != nil {
		return domain.MenuItem{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.snapshot()
	idx := -1
	for i := range next {
		if next[i].ID == item.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.MenuItem{}, ErrMenuItemNotFound
	}
	next[idx] = item
	if err := c.commit(ctx, next); err != nil {
		return domain.MenuItem{}, err
	}
	return item, nil
}

// Delete removes the item. Past transactions keep their own copies.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]domain.MenuItem, 0, len(c.items))
	for _, it := range c.items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	if len(next) == len(c.items) {
		return ErrMenuItemNotFound
	}
	return c.commit(ctx, next)
}

// snapshot copies the items; callers must hold c.mu.
func (c *Catalog) snapshot() []domain.MenuItem {
	out := make([]domain.MenuItem, len(c.items), len(c.items)+1)
	copy(out, c.items)
	return out
}

func (c *Catalog) commit(ctx context.Context, next []domain.MenuItem) error {
	if err := saveBlob(ctx, c.p, KeyMenu, next); err != nil {
		return err
	}
	c.items = next
	return nil
}

func normalizePromo(p *int64) *int64 {
	if p == nil || *p <= 0 {
		return nil
	}
	return p
}

func loadBlob(ctx context.Context, p Persistence, key string, dst any) error {
	b, err := p.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// logLoadFallback reports why a collection started from its default.
func logLoadFallback(logger *zap.Logger, key string, err error) {
	if errors.Is(err, ErrNotFound) {
		logger.Info("no saved data, starting from defaults", zap.String("key", key))
		return
	}
	logger.Warn("saved data unreadable, starting from defaults", zap.String("key", key), zap.Error(err))
}

func saveBlob(ctx context.Context, p Persistence, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := p.Set(ctx, key, b); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
