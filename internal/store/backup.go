package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/clock"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"go.uber.org/zap"
)

// Backup is the portable JSON document holding every collection.
type Backup struct {
	Menu         []domain.MenuItem    `json:"menu"`
	Transactions []domain.Transaction `json:"transactions"`
	Expenditures []domain.Expenditure `json:"expenditures"`
	Profile      domain.StoreProfile  `json:"profile"`
	ExportedAt   time.Time            `json:"exportedAt"`
}

// Backups exports, restores and resets the stores as one unit.
type Backups struct {
	p       Persistence
	catalog *Catalog
	ledger  *Ledger
	profile *ProfileStore
	clock   clock.Clock
	logger  *zap.Logger
}

func NewBackups(p Persistence, catalog *Catalog, ledger *Ledger, profile *ProfileStore, clk clock.Clock, logger *zap.Logger) *Backups {
	return &Backups{
		p:       p,
		catalog: catalog,
		ledger:  ledger,
		profile: profile,
		clock:   clk,
		logger:  logger.Named("backup"),
	}
}

// Export snapshots every collection in stored order.
func (b *Backups) Export() Backup {
	b.ledger.mu.RLock()
	txs := make([]domain.Transaction, len(b.ledger.transactions))
	copy(txs, b.ledger.transactions)
	exps := make([]domain.Expenditure, len(b.ledger.expenditures))
	copy(exps, b.ledger.expenditures)
	b.ledger.mu.RUnlock()

	return Backup{
		Menu:         b.catalog.List(),
		Transactions: txs,
		Expenditures: exps,
		Profile:      b.profile.Get(),
		ExportedAt:   b.clock.Now(),
	}
}

type pendingWrite struct {
	key   string
	value any
}

// Import restores the collections present in data and reports the keys it
// wrote. Missing or null collections are left untouched, so backups taken
// before expenditures existed still load. Everything is validated before
// the first write, and a failed write puts the earlier blobs back.
func (b *Backups) Import(ctx context.Context, data []byte) ([]string, error) {
	var raw struct {
		Menu         json.RawMessage `json:"menu"`
		Transactions json.RawMessage `json:"transactions"`
		Expenditures json.RawMessage `json:"expenditures"`
		Profile      json.RawMessage `json:"profile"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	var writes []pendingWrite

	if present(raw.Menu) {
		var menu []domain.MenuItem
		if err := json.Unmarshal(raw.Menu, &menu); err != nil {
			return nil, fmt.Errorf("%w: menu: %v", ErrInvalidBackup, err)
		}
		seen := make(map[string]bool, len(menu))
		for _, it := range menu {
			if err := it.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
			}
			if err := checkUnique(seen, "menu item", it.ID); err != nil {
				return nil, err
			}
		}
		writes = append(writes, pendingWrite{KeyMenu, menu})
	}
	if present(raw.Transactions) {
		var txs []domain.Transaction
		if err := json.Unmarshal(raw.Transactions, &txs); err != nil {
			return nil, fmt.Errorf("%w: transactions: %v", ErrInvalidBackup, err)
		}
		seen := make(map[string]bool, len(txs))
		for _, tx := range txs {
			if err := tx.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
			}
			if err := checkUnique(seen, "transaction", tx.ID); err != nil {
				return nil, err
			}
		}
		writes = append(writes, pendingWrite{KeyTransactions, txs})
	}
	if present(raw.Expenditures) {
		var exps []domain.Expenditure
		if err := json.Unmarshal(raw.Expenditures, &exps); err != nil {
			return nil, fmt.Errorf("%w: expenditures: %v", ErrInvalidBackup, err)
		}
		seen := make(map[string]bool, len(exps))
		for _, e := range exps {
			if err := e.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
			}
			if err := checkUnique(seen, "expenditure", e.ID); err != nil {
				return nil, err
			}
		}
		writes = append(writes, pendingWrite{KeyExpenditures, exps})
	}
	if present(raw.Profile) {
		var prof domain.StoreProfile
		if err := json.Unmarshal(raw.Profile, &prof); err != nil {
			return nil, fmt.Errorf("%w: profile: %v", ErrInvalidBackup, err)
		}
		writes = append(writes, pendingWrite{KeyProfile, prof})
	}

	if len(writes) == 0 {
		return nil, fmt.Errorf("%w: no menu, transactions, expenditures or profile found", ErrInvalidBackup)
	}

	prev := make(map[string][]byte, len(writes))
	for _, w := range writes {
		raw, err := b.p.Get(ctx, w.key)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("snapshot %s: %w", w.key, err)
		}
		prev[w.key] = raw
	}

	keys := make([]string, 0, len(writes))
	for _, w := range writes {
		if err := saveBlob(ctx, b.p, w.key, w.value); err != nil {
			b.logger.Error("restore aborted, rolling back", zap.Strings("written", keys), zap.Error(err))
			b.rollback(ctx, keys, prev)
			b.reload(ctx)
			return nil, err
		}
		keys = append(keys, w.key)
	}
	b.reload(ctx)
	b.logger.Info("backup restored", zap.Strings("keys", keys))
	return keys, nil
}

// Reset removes every stored collection; the stores fall back to the seed
// menu, empty ledgers and the seed profile.
func (b *Backups) Reset(ctx context.Context) error {
	for _, key := range Keys {
		if err := b.p.Remove(ctx, key); err != nil {
			b.reload(ctx)
			return fmt.Errorf("reset: %w", err)
		}
	}
	b.reload(ctx)
	b.logger.Warn("all data reset to defaults")
	return nil
}

// rollback restores the snapshot of every key already written. A key that
// had no blob before is removed again.
func (b *Backups) rollback(ctx context.Context, written []string, prev map[string][]byte) {
	for _, key := range written {
		var err error
		if prev[key] == nil {
			err = b.p.Remove(ctx, key)
		} else {
			err = b.p.Set(ctx, key, prev[key])
		}
		if err != nil {
			b.logger.Error("rollback failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func (b *Backups) reload(ctx context.Context) {
	b.catalog.Load(ctx)
	b.ledger.Load(ctx)
	b.profile.Load(ctx)
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func checkUnique(seen map[string]bool, kind, id string) error {
	if seen[id] {
		return fmt.Errorf("%w: duplicate %s id %q", ErrInvalidBackup, kind, id)
	}
	seen[id] = true
	return nil
}
