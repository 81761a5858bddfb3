package store

import (
	"context"
	"sync"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"go.uber.org/zap"
)

// ProfileStore holds the receipt header/footer.
type ProfileStore struct {
	mu      sync.RWMutex
	p       Persistence
	profile domain.StoreProfile
	logger  *zap.Logger
}

func NewProfileStore(ctx context.Context, p Persistence, logger *zap.Logger) *ProfileStore {
	s := &ProfileStore{p: p, logger: logger.Named("profile")}
	s.Load(ctx)
	return s
}

func (s *ProfileStore) Load(ctx context.Context) {
	var prof domain.StoreProfile
	if err := loadBlob(ctx, s.p, KeyProfile, &prof); err != nil {
		logLoadFallback(s.logger, KeyProfile, err)
		prof = SeedProfile()
	}
	s.mu.Lock()
	s.profile = prof
	s.mu.Unlock()
}

func (s *ProfileStore) Get() domain.StoreProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Save replaces the whole profile.
func (s *ProfileStore) Save(ctx context.Context, prof domain.StoreProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := saveBlob(ctx, s.p, KeyProfile, prof); err != nil {
		return err
	}
	s.profile = prof
	return nil
}
