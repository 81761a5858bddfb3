// Package domain holds the entities shared by the catalog, the checkout and
// the ledger. Money is whole rupiah.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
)

// DefaultCustomerName is recorded when the cashier leaves the customer blank.
const DefaultCustomerName = "Pelanggan Umum"

var (
	ErrInvalidMenuItem    = errors.New("invalid menu item")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidExpenditure = errors.New("invalid expenditure")
)

type MenuItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	HPP         int64  `json:"hpp"`
	Price       int64  `json:"price"`
	PromoPrice  *int64 `json:"promoPrice,omitempty"`
	Description string `json:"description,omitempty"`
	IsPopular   bool   `json:"isPopular,omitempty"`
}

// Validate checks the structural invariants every stored menu item holds.
func (m MenuItem) Validate() error {
	switch {
	case strings.TrimSpace(m.ID) == "":
		return fmt.Errorf("%w: id is required", ErrInvalidMenuItem)
	case strings.TrimSpace(m.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidMenuItem)
	case !enum.IsCategory(m.Category):
		return fmt.Errorf("%w: unknown category %q", ErrInvalidMenuItem, m.Category)
	case m.HPP < 0 || m.Price < 0:
		return fmt.Errorf("%w: hpp and price must be >= 0", ErrInvalidMenuItem)
	case m.PromoPrice != nil && *m.PromoPrice < 0:
		return fmt.Errorf("%w: promoPrice must be >= 0", ErrInvalidMenuItem)
	}
	return nil
}

// CartLine is a menu item snapshot inside a cart. Price is the charged unit
// price (promo already applied); OriginalPrice is the list price at add time.
type CartLine struct {
	MenuItem
	Quantity      int   `json:"quantity"`
	OriginalPrice int64 `json:"originalPrice"`
}

type Transaction struct {
	ID            string     `json:"id"`
	Timestamp     int64      `json:"timestamp"`
	Items         []CartLine `json:"items"`
	TotalAmount   int64      `json:"totalAmount"`
	TotalHPP      int64      `json:"totalHpp"`
	TotalProfit   int64      `json:"totalProfit"`
	OrderSource   string     `json:"orderSource"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	CustomerName  string     `json:"customerName,omitempty"`
	CashGiven     *int64     `json:"cashGiven,omitempty"`
	Change        *int64     `json:"change,omitempty"`
}

// Time returns the commit instant. Timestamp is Unix milliseconds.
func (t Transaction) Time() time.Time { return time.UnixMilli(t.Timestamp) }

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTransaction)
	}
	if !enum.IsOrderSource(t.OrderSource) {
		return fmt.Errorf("%w %s: unknown orderSource %q", ErrInvalidTransaction, t.ID, t.OrderSource)
	}
	if t.PaymentMethod != "" && !enum.IsPaymentMethod(t.PaymentMethod) {
		return fmt.Errorf("%w %s: unknown paymentMethod %q", ErrInvalidTransaction, t.ID, t.PaymentMethod)
	}
	var amount int64
	for _, line := range t.Items {
		if line.Quantity <= 0 {
			return fmt.Errorf("%w %s: quantity must be > 0", ErrInvalidTransaction, t.ID)
		}
		amount += line.Price * int64(line.Quantity)
	}
	if amount != t.TotalAmount {
		return fmt.Errorf("%w %s: totalAmount %d does not match items (%d)", ErrInvalidTransaction, t.ID, t.TotalAmount, amount)
	}
	if t.TotalProfit != t.TotalAmount-t.TotalHPP {
		return fmt.Errorf("%w %s: totalProfit must equal totalAmount - totalHpp", ErrInvalidTransaction, t.ID)
	}
	return nil
}

type Expenditure struct {
	ID          string `json:"id"`
	Timestamp   int64  `json:"timestamp"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

func (e Expenditure) Time() time.Time { return time.UnixMilli(e.Timestamp) }

func (e Expenditure) Validate() error {
	switch {
	case strings.TrimSpace(e.ID) == "":
		return fmt.Errorf("%w: id is required", ErrInvalidExpenditure)
	case strings.TrimSpace(e.Description) == "":
		return fmt.Errorf("%w: description is required", ErrInvalidExpenditure)
	case e.Amount <= 0:
		return fmt.Errorf("%w: amount must be > 0", ErrInvalidExpenditure)
	}
	return nil
}

// StoreProfile is printed on receipts. Saved whole.
type StoreProfile struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	SocialMedia string `json:"socialMedia"`
	FooterText  string `json:"footerText"`
}
