package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/clock"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/pricing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Errors returned by the checkout service.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInsufficientCash     = errors.New("cash given is less than the total amount")
	ErrInvalidOrderSource   = errors.New("invalid order_source")
	ErrInvalidPaymentMethod = errors.New("invalid payment_method")
	ErrInvalidQuantity      = errors.New("quantity must be > 0")
	ErrMenuItemNotFound     = errors.New("menu item not found")
)

// Session states.
const (
	StateBuilding  = "BUILDING"
	StateCommitted = "COMMITTED"
)

// MenuLookup resolves menu items. Satisfied by *store.Catalog.
type MenuLookup interface {
	Get(id string) (domain.MenuItem, error)
	List() []domain.MenuItem
}

// TransactionAppender persists committed sales. Satisfied by *store.Ledger.
type TransactionAppender interface {
	AppendTransaction(ctx context.Context, tx domain.Transaction) error
}

// CheckoutRequest carries the sale context chosen at the register. Blank
// fields fall back to the session's current values.
type CheckoutRequest struct {
	OrderSource   string
	PaymentMethod string
	CustomerName  string
	CashGiven     *int64
}

// Session is a read-only view of the open sale.
type Session struct {
	State         string            `json:"state"`
	Lines         []domain.CartLine `json:"lines"`
	Totals        pricing.Totals    `json:"totals"`
	OrderSource   string            `json:"orderSource"`
	PaymentMethod string            `json:"paymentMethod"`
	CustomerName  string            `json:"customerName"`
}

// CheckoutService holds the single open cart of the register and commits it
// to the ledger.
type CheckoutService struct {
	mu     sync.Mutex
	menu   MenuLookup
	ledger TransactionAppender
	clock  clock.Clock
	logger *zap.Logger
	newID  func() (uuid.UUID, error)

	cart          pricing.Cart
	state         string
	orderSource   string
	paymentMethod string
	customerName  string
	last          *domain.Transaction
}

func NewCheckoutService(menu MenuLookup, ledger TransactionAppender, clk clock.Clock, logger *zap.Logger) *CheckoutService {
	s := &CheckoutService{
		menu:   menu,
		ledger: ledger,
		clock:  clk,
		logger: logger.Named("checkout"),
		newID:  uuid.NewV7,
	}
	s.resetSession()
	return s
}

// AddItem puts one unit of the menu item in the cart.
func (s *CheckoutService) AddItem(id string) (Session, error) {
	return s.AddItems(id, 1)
}

// AddItems puts qty units of the menu item in the cart. The price is pinned
// the first time the item enters the cart.
func (s *CheckoutService) AddItems(id string, qty int) (Session, error) {
	if qty <= 0 {
		return Session{}, ErrInvalidQuantity
	}
	item, err := s.menu.Get(id)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %s", ErrMenuItemNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Add(item)
	if qty > 1 {
		s.cart.UpdateQuantity(item.ID, qty-1)
	}
	s.state = StateBuilding
	return s.sessionLocked(), nil
}

// UpdateQuantity shifts a line by delta; lines reaching zero are removed.
func (s *CheckoutService) UpdateQuantity(id string, delta int) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.UpdateQuantity(id, delta)
	s.state = StateBuilding
	return s.sessionLocked()
}

// UpdateSession changes the order source, payment method or customer name
// of the open sale. Blank fields are left as they are.
func (s *CheckoutService) UpdateSession(req CheckoutRequest) (Session, error) {
	if req.OrderSource != "" && !enum.IsOrderSource(req.OrderSource) {
		return Session{}, ErrInvalidOrderSource
	}
	if req.PaymentMethod != "" && !enum.IsPaymentMethod(req.PaymentMethod) {
		return Session{}, ErrInvalidPaymentMethod
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.OrderSource != "" {
		s.orderSource = req.OrderSource
	}
	if req.PaymentMethod != "" {
		s.paymentMethod = req.PaymentMethod
	}
	if name := strings.TrimSpace(req.CustomerName); name != "" {
		s.customerName = name
	}
	s.state = StateBuilding
	return s.sessionLocked(), nil
}

// Clear empties the cart and resets the sale context.
func (s *CheckoutService) Clear() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
	s.resetSession()
	return s.sessionLocked()
}

func (s *CheckoutService) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionLocked()
}

// ChangePreview is the change due for cashGiven against the current total,
// or 0 while the cash does not cover it.
func (s *CheckoutService) ChangePreview(cashGiven int64) int64 {
	s.mu.Lock()
	total := s.cart.Totals().TotalAmount
	s.mu.Unlock()

	if cashGiven < total {
		return 0
	}
	return cashGiven - total
}

// LastTransaction returns the most recent sale committed through this
// register, for the receipt view.
func (s *CheckoutService) LastTransaction() (domain.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return domain.Transaction{}, false
	}
	return *s.last, true
}

// Checkout validates the open sale, appends it to the ledger and resets the
// register. Nothing changes when validation or persistence fails.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// --- Validate ---
	if s.cart.Len() == 0 {
		return domain.Transaction{}, ErrEmptyCart
	}
	source := firstNonEmpty(req.OrderSource, s.orderSource)
	if !enum.IsOrderSource(source) {
		return domain.Transaction{}, ErrInvalidOrderSource
	}
	// Online orders are paid through the platform; any selection is dropped.
	var payment string
	if source == enum.OrderSourceOffline {
		payment = firstNonEmpty(req.PaymentMethod, s.paymentMethod)
		if !enum.IsPaymentMethod(payment) {
			return domain.Transaction{}, ErrInvalidPaymentMethod
		}
	}

	totals := s.cart.Totals()

	var cashGiven, change *int64
	if source == enum.OrderSourceOffline && payment == enum.PaymentMethodCash {
		var cash int64
		if req.CashGiven != nil {
			cash = *req.CashGiven
		}
		if cash < totals.TotalAmount {
			return domain.Transaction{}, ErrInsufficientCash
		}
		diff := cash - totals.TotalAmount
		cashGiven, change = &cash, &diff
	}
	customer := strings.TrimSpace(firstNonEmpty(req.CustomerName, s.customerName))
	if customer == "" {
		customer = domain.DefaultCustomerName
	}

	id, err := s.newID()
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("generate transaction id: %w", err)
	}

	tx := domain.Transaction{
		ID:            "TRX-" + id.String(),
		Timestamp:     s.clock.Now().UnixMilli(),
		Items:         s.cart.Lines(),
		TotalAmount:   totals.TotalAmount,
		TotalHPP:      totals.TotalHPP,
		TotalProfit:   totals.TotalProfit,
		OrderSource:   source,
		PaymentMethod: payment,
		CustomerName:  customer,
		CashGiven:     cashGiven,
		Change:        change,
	}

	// --- Commit ---
	if err := s.ledger.AppendTransaction(ctx, tx); err != nil {
		s.logger.Error("checkout not recorded, cart kept", zap.Error(err))
		return domain.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}

	s.last = &tx
	s.cart.Clear()
	s.resetSession()
	s.state = StateCommitted
	return tx, nil
}

// resetSession restores the default sale context; callers hold s.mu.
func (s *CheckoutService) resetSession() {
	s.state = StateBuilding
	s.orderSource = enum.OrderSourceOffline
	s.paymentMethod = enum.PaymentMethodCash
	s.customerName = ""
}

func (s *CheckoutService) sessionLocked() Session {
	return Session{
		State:         s.state,
		Lines:         s.cart.Lines(),
		Totals:        s.cart.Totals(),
		OrderSource:   s.orderSource,
		PaymentMethod: s.paymentMethod,
		CustomerName:  s.customerName,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
