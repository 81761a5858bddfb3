package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/clock"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewExpenditure is the input for recording an expense. Date is an optional
// local calendar day (YYYY-MM-DD); the entry is stamped with that day at the
// current hour and minute.
type NewExpenditure struct {
	Description string
	Amount      int64
	Date        string
}

// Ledger is the append-only transaction log plus the expenditure list.
type Ledger struct {
	mu           sync.RWMutex
	p            Persistence
	clock        clock.Clock
	transactions []domain.Transaction
	expenditures []domain.Expenditure
	logger       *zap.Logger
}

func NewLedger(ctx context.Context, p Persistence, clk clock.Clock, logger *zap.Logger) *Ledger {
	l := &Ledger{p: p, clock: clk, logger: logger.Named("ledger")}
	l.Load(ctx)
	return l
}

// Load re-reads both collections; absent or unreadable blobs start empty.
func (l *Ledger) Load(ctx context.Context) {
	var txs []domain.Transaction
	if err := loadBlob(ctx, l.p, KeyTransactions, &txs); err != nil {
		logLoadFallback(l.logger, KeyTransactions, err)
		txs = nil
	}
	var exps []domain.Expenditure
	if err := loadBlob(ctx, l.p, KeyExpenditures, &exps); err != nil {
		logLoadFallback(l.logger, KeyExpenditures, err)
		exps = nil
	}

	l.mu.Lock()
	l.transactions = txs
	l.expenditures = exps
	l.mu.Unlock()
}

// AppendTransaction persists tx at the end of the log. On error the log is
// unchanged.
func (l *Ledger) AppendTransaction(ctx context.Context, tx domain.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]domain.Transaction, len(l.transactions), len(l.transactions)+1)
	copy(next, l.transactions)
	next = append(next, tx)
	if err := saveBlob(ctx, l.p, KeyTransactions, next); err != nil {
		return err
	}
	l.transactions = next
	l.logger.Info("transaction recorded",
		zap.String("id", tx.ID),
		zap.Int64("total_amount", tx.TotalAmount),
		zap.String("order_source", tx.OrderSource),
	)
	return nil
}

// Transactions returns the log in commit order.
func (l *Ledger) Transactions() []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// AddExpenditure validates and records an expense.
func (l *Ledger) AddExpenditure(ctx context.Context, in NewExpenditure) (domain.Expenditure, error) {
	ts, err := l.expenditureTime(in.Date)
	if err != nil {
		return domain.Expenditure{}, err
	}
	exp := domain.Expenditure{
		ID:          "EXP-" + newID(),
		Timestamp:   ts.UnixMilli(),
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
	}
	if err := exp.Validate(); err != nil {
		return domain.Expenditure{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]domain.Expenditure, len(l.expenditures), len(l.expenditures)+1)
	copy(next, l.expenditures)
	next = append(next, exp)
	if err := saveBlob(ctx, l.p, KeyExpenditures, next); err != nil {
		return domain.Expenditure{}, err
	}
	l.expenditures = next
	return exp, nil
}

func (l *Ledger) DeleteExpenditure(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]domain.Expenditure, 0, len(l.expenditures))
	for _, e := range l.expenditures {
		if e.ID != id {
			next = append(next, e)
		}
	}
	if len(next) == len(l.expenditures) {
		return ErrExpenditureNotFound
	}
	if err := saveBlob(ctx, l.p, KeyExpenditures, next); err != nil {
		return err
	}
	l.expenditures = next
	return nil
}

// Expenditures returns the expense list newest first.
func (l *Ledger) Expenditures() []domain.Expenditure {
	l.mu.RLock()
	out := make([]domain.Expenditure, len(l.expenditures))
	copy(out, l.expenditures)
	l.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

func (l *Ledger) expenditureTime(date string) (time.Time, error) {
	now := l.clock.Now()
	if strings.TrimSpace(date) == "" {
		return now, nil
	}
	day, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), 0, 0, now.Location()), nil
}

// newID returns a time-ordered UUID, falling back to a random one.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
