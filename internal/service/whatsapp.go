package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/clock"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/matcher"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/parser"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/store"
	"go.uber.org/zap"
)

var ErrNothingMatched = errors.New("no order line matched the menu")

// OrderLineResult reports how one chat line was resolved.
type OrderLineResult struct {
	Text       string   `json:"text"`
	Qty        int      `json:"qty"`
	MenuItemID string   `json:"menuItemId,omitempty"`
	MenuName   string   `json:"menuName,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
}

type WhatsAppOrderResult struct {
	Session   Session           `json:"session"`
	Added     []OrderLineResult `json:"added"`
	Ambiguous []OrderLineResult `json:"ambiguous"`
	Unmatched []OrderLineResult `json:"unmatched"`
	Warnings  []string          `json:"warnings"`
}

// AddWhatsAppOrder parses a chat order, matches each line against the menu
// and adds the matched lines to the cart. The sale is marked as a WhatsApp
// order. Ambiguous and unmatched lines are reported, not guessed.
func (s *CheckoutService) AddWhatsAppOrder(text string) (WhatsAppOrderResult, error) {
	msg, err := parser.ParseOrder(text)
	if err != nil {
		return WhatsAppOrderResult{}, err
	}

	menu := s.menu.List()
	items := make([]matcher.Item, len(menu))
	for i, it := range menu {
		items[i] = matcher.Item{ID: it.ID, Name: it.Name}
	}
	m := matcher.New(items)

	res := WhatsAppOrderResult{Warnings: msg.Warnings}
	for _, line := range msg.Lines {
		lr := OrderLineResult{Text: line.RawText, Qty: line.Qty}
		match := m.Match(line.Name)
		switch match.Status {
		case matcher.Matched:
			if _, err := s.AddItems(match.Item.ID, line.Qty); err != nil {
				res.Unmatched = append(res.Unmatched, lr)
				continue
			}
			lr.MenuItemID, lr.MenuName = match.Item.ID, match.Item.Name
			res.Added = append(res.Added, lr)
		case matcher.Ambiguous:
			for _, c := range match.Candidates {
				lr.Candidates = append(lr.Candidates, c.Name)
			}
			res.Ambiguous = append(res.Ambiguous, lr)
		default:
			res.Unmatched = append(res.Unmatched, lr)
		}
	}

	if len(res.Added) == 0 {
		res.Session = s.Session()
		return res, ErrNothingMatched
	}

	session, err := s.UpdateSession(CheckoutRequest{OrderSource: enum.OrderSourceWhatsApp})
	if err != nil {
		return WhatsAppOrderResult{}, err
	}
	res.Session = session
	s.logger.Info("whatsapp order added to cart",
		zap.Int("added", len(res.Added)),
		zap.Int("ambiguous", len(res.Ambiguous)),
		zap.Int("unmatched", len(res.Unmatched)),
	)
	return res, nil
}

// ExpenditureRecorder persists expenses. Satisfied by *store.Ledger.
type ExpenditureRecorder interface {
	AddExpenditure(ctx context.Context, in store.NewExpenditure) (domain.Expenditure, error)
}

// ExpenseNoteService records WhatsApp shopping notes as expenditures.
type ExpenseNoteService struct {
	ledger ExpenditureRecorder
	clock  clock.Clock
	logger *zap.Logger
}

func NewExpenseNoteService(ledger ExpenditureRecorder, clk clock.Clock, logger *zap.Logger) *ExpenseNoteService {
	return &ExpenseNoteService{ledger: ledger, clock: clk, logger: logger.Named("expense_notes")}
}

type ExpenseNoteResult struct {
	Date         string               `json:"date"`
	Expenditures []domain.Expenditure `json:"expenditures"`
	Warnings     []string             `json:"warnings"`
}

// Record parses the note and stores one expenditure per item line. Lines are
// recorded in order; the first failure stops the batch and is returned with
// whatever was already stored.
func (s *ExpenseNoteService) Record(ctx context.Context, text string) (ExpenseNoteResult, error) {
	note, err := parser.ParseExpenseNote(text, s.clock.Now())
	if err != nil {
		return ExpenseNoteResult{}, err
	}

	res := ExpenseNoteResult{
		Date:     note.Date.Format(time.DateOnly),
		Warnings: note.Warnings,
	}
	for _, item := range note.Items {
		exp, err := s.ledger.AddExpenditure(ctx, store.NewExpenditure{
			Description: describeExpense(item),
			Amount:      item.Amount,
			Date:        res.Date,
		})
		if err != nil {
			return res, fmt.Errorf("record %q: %w", item.RawText, err)
		}
		res.Expenditures = append(res.Expenditures, exp)
	}
	s.logger.Info("expense note recorded", zap.String("date", res.Date), zap.Int("items", len(res.Expenditures)))
	return res, nil
}

// describeExpense renders "gas 3kg" style descriptions.
func describeExpense(item parser.ExpenseItem) string {
	desc := item.Description
	if item.Unit != "" {
		desc += " " + strconv.FormatFloat(item.Qty, 'f', -1, 64) + item.Unit
	}
	return strings.TrimSpace(desc)
}
