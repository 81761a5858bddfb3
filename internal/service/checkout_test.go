package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/clock"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- Mocks ---

type mockMenu struct {
	items []domain.MenuItem
}

func (m *mockMenu) Get(id string) (domain.MenuItem, error) {
	for _, it := range m.items {
		if it.ID == id {
			return it, nil
		}
	}
	return domain.MenuItem{}, errors.New("not found")
}

func (m *mockMenu) List() []domain.MenuItem { return m.items }

type mockLedger struct {
	appendFn func(tx domain.Transaction) error
	txs      []domain.Transaction
}

func (m *mockLedger) AppendTransaction(_ context.Context, tx domain.Transaction) error {
	if m.appendFn != nil {
		if err := m.appendFn(tx); err != nil {
			return err
		}
	}
	m.txs = append(m.txs, tx)
	return nil
}

// --- Helpers ---

var (
	wib     = time.FixedZone("WIB", 7*3600)
	fixedAt = time.Date(2026, 10, 16, 12, 30, 0, 0, wib)
)

func testMenu() *mockMenu {
	return &mockMenu{items: []domain.MenuItem{
		{ID: "1", Name: "Nasi Goreng Spesial", Category: enum.CategoryFood, HPP: 12000, Price: 25000},
		{ID: "2", Name: "Mie Goreng Seafood", Category: enum.CategoryFood, HPP: 15000, Price: 30000},
		{ID: "4", Name: "Es Teh Manis", Category: enum.CategoryBeverage, HPP: 2000, Price: 5000},
		{ID: "5", Name: "Es Jeruk", Category: enum.CategoryBeverage, HPP: 4000, Price: 10000},
	}}
}

func newTestService(ledger *mockLedger) *CheckoutService {
	return NewCheckoutService(testMenu(), ledger, clock.Fixed(fixedAt), zap.NewNop())
}

func cash(v int64) *int64 { return &v }

// fillScenarioCart adds 1x Nasi Goreng (25000/12000) and 2x Es Teh (5000/2000).
func fillScenarioCart(t *testing.T, svc *CheckoutService) {
	t.Helper()
	if _, err := svc.AddItem("1"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.AddItems("4", 2); err != nil {
		t.Fatalf("AddItems: %v", err)
	}
}

// --- Tests ---

func TestCheckout_EmptyCart(t *testing.T) {
	ledger := &mockLedger{}
	svc := newTestService(ledger)

	_, err := svc.Checkout(context.Background(), CheckoutRequest{OrderSource: enum.OrderSourceGrab})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if len(ledger.txs) != 0 {
		t.Errorf("ledger grew to %d", len(ledger.txs))
	}
}

func TestCheckout_InsufficientCash(t *testing.T) {
	tests := []struct {
		name string
		cash *int64
	}{
		{"below total", cash(34999)},
		{"missing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &mockLedger{}
			svc := newTestService(ledger)
			fillScenarioCart(t, svc)

			_, err := svc.Checkout(context.Background(), CheckoutRequest{
				OrderSource: enum.OrderSourceOffline, PaymentMethod: enum.PaymentMethodCash, CashGiven: tt.cash,
			})
			if !errors.Is(err, ErrInsufficientCash) {
				t.Fatalf("expected ErrInsufficientCash, got %v", err)
			}
			if len(ledger.txs) != 0 {
				t.Error("ledger changed on validation failure")
			}
			if got := svc.Session(); len(got.Lines) != 2 {
				t.Errorf("cart changed on validation failure: %+v", got.Lines)
			}
		})
	}
}

func TestCheckout_OfflineCash(t *testing.T) {
	tests := []struct {
		name       string
		cash       int64
		wantChange int64
	}{
		{"change due", 50000, 15000},
		{"exact cash", 35000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &mockLedger{}
			svc := newTestService(ledger)
			fillScenarioCart(t, svc)

			tx, err := svc.Checkout(context.Background(), CheckoutRequest{
				OrderSource:   enum.OrderSourceOffline,
				PaymentMethod: enum.PaymentMethodCash,
				CashGiven:     cash(tt.cash),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tx.TotalAmount != 35000 || tx.TotalHPP != 16000 || tx.TotalProfit != 19000 {
				t.Errorf("totals = %d/%d/%d, want 35000/16000/19000", tx.TotalAmount, tx.TotalHPP, tx.TotalProfit)
			}
			if tx.Change == nil || *tx.Change != tt.wantChange {
				t.Errorf("change = %v, want %d", tx.Change, tt.wantChange)
			}
			if tx.CashGiven == nil || *tx.CashGiven != tt.cash {
				t.Errorf("cashGiven = %v", tx.CashGiven)
			}
			if tx.PaymentMethod != enum.PaymentMethodCash {
				t.Errorf("paymentMethod = %q", tx.PaymentMethod)
			}
			if tx.CustomerName != domain.DefaultCustomerName {
				t.Errorf("customerName = %q", tx.CustomerName)
			}
			if tx.Timestamp != fixedAt.UnixMilli() {
				t.Errorf("timestamp = %d, want %d", tx.Timestamp, fixedAt.UnixMilli())
			}
			if len(ledger.txs) != 1 {
				t.Fatalf("ledger has %d transactions", len(ledger.txs))
			}
		})
	}
}

func TestCheckout_OnlineDropsPaymentAndCash(t *testing.T) {
	ledger := &mockLedger{}
	svc := newTestService(ledger)
	fillScenarioCart(t, svc)

	tx, err := svc.Checkout(context.Background(), CheckoutRequest{
		OrderSource:   enum.OrderSourceGojek,
		PaymentMethod: enum.PaymentMethodQRIS,
		CashGiven:     cash(100000),
		CustomerName:  "  Budi ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.PaymentMethod != "" || tx.CashGiven != nil || tx.Change != nil {
		t.Errorf("online order kept payment fields: %q %v %v", tx.PaymentMethod, tx.CashGiven, tx.Change)
	}
	if tx.CustomerName != "Budi" {
		t.Errorf("customerName = %q", tx.CustomerName)
	}
}

func TestCheckout_OnlineIgnoresUnknownPayment(t *testing.T) {
	ledger := &mockLedger{}
	svc := newTestService(ledger)
	fillScenarioCart(t, svc)

	tx, err := svc.Checkout(context.Background(), CheckoutRequest{
		OrderSource:   enum.OrderSourceGrab,
		PaymentMethod: "BARTER",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.PaymentMethod != "" {
		t.Errorf("paymentMethod = %q, want empty", tx.PaymentMethod)
	}
}

func TestCheckout_NonCashOfflineHasNoChange(t *testing.T) {
	svc := newTestService(&mockLedger{})
	fillScenarioCart(t, svc)

	tx, err := svc.Checkout(context.Background(), CheckoutRequest{
		OrderSource: enum.OrderSourceOffline, PaymentMethod: enum.PaymentMethodQRIS,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.PaymentMethod != enum.PaymentMethodQRIS || tx.CashGiven != nil || tx.Change != nil {
		t.Errorf("tx = %+v", tx)
	}
}

func TestCheckout_InvalidContext(t *testing.T) {
	tests := []struct {
		name string
		req  CheckoutRequest
		want error
	}{
		{"unknown source", CheckoutRequest{OrderSource: "ONLINE_UBER"}, ErrInvalidOrderSource},
		{"unknown payment", CheckoutRequest{OrderSource: enum.OrderSourceOffline, PaymentMethod: "BARTER"}, ErrInvalidPaymentMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&mockLedger{})
			fillScenarioCart(t, svc)
			if _, err := svc.Checkout(context.Background(), tt.req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCheckout_ResetsSession(t *testing.T) {
	svc := newTestService(&mockLedger{})
	fillScenarioCart(t, svc)
	if _, err := svc.UpdateSession(CheckoutRequest{OrderSource: enum.OrderSourceShopee, PaymentMethod: enum.PaymentMethodTransfer, CustomerName: "Sari"}); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	tx, err := svc.Checkout(context.Background(), CheckoutRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.OrderSource != enum.OrderSourceShopee || tx.CustomerName != "Sari" {
		t.Errorf("session values not used: %+v", tx)
	}

	s := svc.Session()
	if s.State != StateCommitted || len(s.Lines) != 0 {
		t.Errorf("after checkout: state %s, %d lines", s.State, len(s.Lines))
	}
	if s.OrderSource != enum.OrderSourceOffline || s.PaymentMethod != enum.PaymentMethodCash || s.CustomerName != "" {
		t.Errorf("session not reset: %+v", s)
	}
	last, ok := svc.LastTransaction()
	if !ok || last.ID != tx.ID {
		t.Errorf("LastTransaction = %v, %v", last.ID, ok)
	}

	if s, _ := svc.AddItem("5"); s.State != StateBuilding {
		t.Errorf("state after new item = %s, want BUILDING", s.State)
	}
}

func TestCheckout_LedgerFailureKeepsCart(t *testing.T) {
	ledger := &mockLedger{appendFn: func(domain.Transaction) error { return errors.New("disk full") }}
	svc := newTestService(ledger)
	fillScenarioCart(t, svc)

	_, err := svc.Checkout(context.Background(), CheckoutRequest{OrderSource: enum.OrderSourceGrab})
	if err == nil {
		t.Fatal("expected error")
	}
	if s := svc.Session(); len(s.Lines) != 2 || s.State != StateBuilding {
		t.Errorf("cart lost after failed commit: %+v", s)
	}
	if _, ok := svc.LastTransaction(); ok {
		t.Error("LastTransaction set after failed commit")
	}
}

func TestCheckout_TransactionIDsAreTimeOrdered(t *testing.T) {
	svc := newTestService(&mockLedger{})
	var ids []string
	for i := 0; i < 3; i++ {
		if _, err := svc.AddItem("2"); err != nil {
			t.Fatal(err)
		}
		tx, err := svc.Checkout(context.Background(), CheckoutRequest{OrderSource: enum.OrderSourceGrab})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, tx.ID)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Errorf("ids not increasing: %s then %s", ids[i-1], ids[i])
		}
	}
}

func TestCheckout_IDGenerationFailure(t *testing.T) {
	svc := newTestService(&mockLedger{})
	svc.newID = func() (uuid.UUID, error) { return uuid.Nil, errors.New("entropy") }
	fillScenarioCart(t, svc)

	if _, err := svc.Checkout(context.Background(), CheckoutRequest{OrderSource: enum.OrderSourceGrab}); err == nil {
		t.Fatal("expected error")
	}
}

func TestAddItems(t *testing.T) {
	svc := newTestService(&mockLedger{})

	if _, err := svc.AddItem("missing"); !errors.Is(err, ErrMenuItemNotFound) {
		t.Errorf("unknown id: err = %v", err)
	}
	if _, err := svc.AddItems("1", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero qty: err = %v", err)
	}

	s, err := svc.AddItems("1", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Lines) != 1 || s.Lines[0].Quantity != 3 || s.Totals.TotalItems != 3 {
		t.Errorf("session = %+v", s)
	}

	s = svc.UpdateQuantity("1", -5)
	if len(s.Lines) != 0 {
		t.Errorf("line not removed: %+v", s.Lines)
	}
}

func TestUpdateSession_Validates(t *testing.T) {
	svc := newTestService(&mockLedger{})
	if _, err := svc.UpdateSession(CheckoutRequest{OrderSource: "DRIVE_THRU"}); !errors.Is(err, ErrInvalidOrderSource) {
		t.Errorf("err = %v", err)
	}
	if _, err := svc.UpdateSession(CheckoutRequest{PaymentMethod: "CRYPTO"}); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Errorf("err = %v", err)
	}
}

func TestChangePreview(t *testing.T) {
	svc := newTestService(&mockLedger{})
	fillScenarioCart(t, svc)

	tests := []struct {
		cash int64
		want int64
	}{
		{0, 0},
		{20000, 0},
		{35000, 0},
		{50000, 15000},
	}
	for _, tt := range tests {
		if got := svc.ChangePreview(tt.cash); got != tt.want {
			t.Errorf("ChangePreview(%d) = %d, want %d", tt.cash, got, tt.want)
		}
	}
}

func TestClear(t *testing.T) {
	svc := newTestService(&mockLedger{})
	fillScenarioCart(t, svc)
	_, _ = svc.UpdateSession(CheckoutRequest{OrderSource: enum.OrderSourceGrab})

	s := svc.Clear()
	if len(s.Lines) != 0 || s.OrderSource != enum.OrderSourceOffline {
		t.Errorf("Clear() = %+v", s)
	}
}
