package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/parser"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/service"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/ws"
)

// Register is the open sale at the counter. Satisfied by
// *service.CheckoutService.
type Register interface {
	Session() service.Session
	AddItems(id string, qty int) (service.Session, error)
	UpdateQuantity(id string, delta int) service.Session
	UpdateSession(req service.CheckoutRequest) (service.Session, error)
	Clear() service.Session
	ChangePreview(cashGiven int64) int64
	LastTransaction() (domain.Transaction, bool)
	Checkout(ctx context.Context, req service.CheckoutRequest) (domain.Transaction, error)
	AddWhatsAppOrder(text string) (service.WhatsAppOrderResult, error)
}

// CartHandler handles the register endpoints.
type CartHandler struct {
	register Register
	events   Broadcaster
}

func NewCartHandler(register Register, events Broadcaster) *CartHandler {
	return &CartHandler{register: register, events: orNop(events)}
}

// RegisterRoutes registers cart endpoints. Expected mount point: /cart
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Patch("/", h.UpdateSession)
	r.Delete("/", h.Clear)
	r.Post("/items", h.AddItem)
	r.Patch("/items/{id}", h.UpdateQuantity)
	r.Post("/checkout", h.Checkout)
	r.Post("/whatsapp", h.WhatsAppOrder)
	r.Get("/change", h.ChangePreview)
	r.Get("/last-transaction", h.LastTransaction)
}

// --- Request types ---

type addCartItemRequest struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

type updateQuantityRequest struct {
	Delta int `json:"delta"`
}

type sessionRequest struct {
	OrderSource   string `json:"orderSource"`
	PaymentMethod string `json:"paymentMethod"`
	CustomerName  string `json:"customerName"`
	CashGiven     *int64 `json:"cashGiven"`
}

func (req sessionRequest) toCheckout() service.CheckoutRequest {
	return service.CheckoutRequest{
		OrderSource:   req.OrderSource,
		PaymentMethod: req.PaymentMethod,
		CustomerName:  req.CustomerName,
		CashGiven:     req.CashGiven,
	}
}

type textRequest struct {
	Text string `json:"text"`
}

type changeResponse struct {
	CashGiven   int64 `json:"cashGiven"`
	TotalAmount int64 `json:"totalAmount"`
	Change      int64 `json:"change"`
}

// --- Handlers ---

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.register.Session())
}

func (h *CartHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.register.UpdateSession(req.toCheckout())
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.register.Clear())
}

// AddItem adds quantity units (default 1) of a menu item.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MenuItemID == "" {
		writeError(w, http.StatusBadRequest, "menuItemId is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	sess, err := h.register.AddItems(req.MenuItemID, req.Quantity)
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// UpdateQuantity shifts a line by delta; unknown ids are ignored.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, h.register.UpdateQuantity(chi.URLParam(r, "id"), req.Delta))
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	tx, err := h.register.Checkout(r.Context(), req.toCheckout())
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}

	publish(r, h.events, ws.StreamLedger, ws.EventTransactionCreated, tx)
	writeJSON(w, http.StatusCreated, tx)
}

// WhatsAppOrder adds the lines of a pasted chat order to the cart.
func (h *CartHandler) WhatsAppOrder(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.register.AddWhatsAppOrder(req.Text)
	if err != nil {
		switch {
		case errors.Is(err, parser.ErrNoItems):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrNothingMatched):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":     err.Error(),
				"unmatched": res.Unmatched,
				"ambiguous": res.Ambiguous,
			})
		default:
			writeCheckoutError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ChangePreview reports the change for ?cash_given= against the open total.
func (h *CartHandler) ChangePreview(w http.ResponseWriter, r *http.Request) {
	cash, _, err := queryInt64(r, "cash_given")
	if err != nil || cash < 0 {
		writeError(w, http.StatusBadRequest, "invalid cash_given")
		return
	}
	writeJSON(w, http.StatusOK, changeResponse{
		CashGiven:   cash,
		TotalAmount: h.register.Session().Totals.TotalAmount,
		Change:      h.register.ChangePreview(cash),
	})
}

func (h *CartHandler) LastTransaction(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.register.LastTransaction()
	if !ok {
		writeError(w, http.StatusNotFound, "no transaction yet")
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMenuItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInsufficientCash),
		errors.Is(err, service.ErrInvalidOrderSource),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidQuantity):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		internalError(w, r, "checkout", err)
	}
}
