package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/advisor"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/pricing"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/store"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/ws"
)

// MenuStore defines the catalog methods needed by menu handlers.
// Satisfied by *store.Catalog.
type MenuStore interface {
	List() []domain.MenuItem
	Add(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	Update(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	Delete(ctx context.Context, id string) error
}

// PriceAdvisor recommends a selling price. Satisfied by *advisor.Service.
type PriceAdvisor interface {
	Recommend(ctx context.Context, req advisor.AdviceRequest) (advisor.Advice, error)
}

// MenuHandler handles catalog CRUD and pricing advice.
type MenuHandler struct {
	store   MenuStore
	advisor PriceAdvisor
	events  Broadcaster
}

func NewMenuHandler(store MenuStore, adv PriceAdvisor, events Broadcaster) *MenuHandler {
	return &MenuHandler{store: store, advisor: adv, events: orNop(events)}
}

// RegisterRoutes registers menu endpoints. Expected mount point: /menu
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/pricing-advice", h.PricingAdvice)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request types ---

type menuItemRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	HPP         int64  `json:"hpp"`
	Price       int64  `json:"price"`
	PromoPrice  *int64 `json:"promoPrice"`
	Description string `json:"description"`
	IsPopular   bool   `json:"isPopular"`
}

func (req menuItemRequest) toItem(id string) domain.MenuItem {
	return domain.MenuItem{
		ID:          id,
		Name:        req.Name,
		Category:    strings.ToUpper(strings.TrimSpace(req.Category)),
		HPP:         req.HPP,
		Price:       req.Price,
		PromoPrice:  req.PromoPrice,
		Description: strings.TrimSpace(req.Description),
		IsPopular:   req.IsPopular,
	}
}

type pricingAdviceRequest struct {
	ItemName    string `json:"itemName"`
	Ingredients string `json:"ingredients"`
	HPP         int64  `json:"hpp"`
}

// --- Handlers ---

// List returns the catalog, optionally narrowed with ?category=.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	category := strings.ToUpper(r.URL.Query().Get("category"))
	if category != "" && category != enum.CategoryAll && !enum.IsCategory(category) {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}
	writeJSON(w, http.StatusOK, pricing.FilterByCategory(h.store.List(), category))
}

func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.store.Add(r.Context(), req.toItem(""))
	if err != nil {
		h.writeStoreError(w, r, "add menu item", err)
		return
	}

	h.publishMenu(r)
	writeJSON(w, http.StatusCreated, item)
}

func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.store.Update(r.Context(), req.toItem(chi.URLParam(r, "id")))
	if err != nil {
		h.writeStoreError(w, r, "update menu item", err)
		return
	}

	h.publishMenu(r)
	writeJSON(w, http.StatusOK, item)
}

func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStoreError(w, r, "delete menu item", err)
		return
	}

	h.publishMenu(r)
	w.WriteHeader(http.StatusNoContent)
}

// PricingAdvice asks the advisor for a selling price. Advisor outages are
// answered with the fallback advice, never an error.
func (h *MenuHandler) PricingAdvice(w http.ResponseWriter, r *http.Request) {
	var req pricingAdviceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	advice, err := h.advisor.Recommend(r.Context(), advisor.AdviceRequest{
		ItemName:    req.ItemName,
		Ingredients: req.Ingredients,
		CostBasis:   req.HPP,
	})
	if err != nil {
		if errors.Is(err, advisor.ErrAdviceInputRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		internalError(w, r, "pricing advice", err)
		return
	}

	writeJSON(w, http.StatusOK, advice)
}

func (h *MenuHandler) writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidMenuItem):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrMenuItemNotFound):
		writeError(w, http.StatusNotFound, "menu item not found")
	default:
		internalError(w, r, op, err)
	}
}

func (h *MenuHandler) publishMenu(r *http.Request) {
	publish(r, h.events, ws.StreamMenu, ws.EventMenuUpdated, h.store.List())
}
