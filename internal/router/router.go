package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/advisor"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/clock"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/config"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/handler"
	mw "github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/middleware"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/service"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/store"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/ws"
)

// Deps are the long-lived components the routes are served from.
type Deps struct {
	Clock    clock.Clock
	Catalog  *store.Catalog
	Ledger   *store.Ledger
	Profile  *store.ProfileStore
	Backups  *store.Backups
	Checkout *service.CheckoutService
	Notes    *service.ExpenseNoteService
	Advisor  *advisor.Service
	Hub      *ws.Hub
}

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, logger *zap.Logger, d Deps) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	r.Get("/ws/{stream}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(d.Hub, w, r)
	})

	var events handler.Broadcaster
	if d.Hub != nil {
		events = d.Hub
	}

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireJSON)

		r.Route("/menu", handler.NewMenuHandler(d.Catalog, d.Advisor, events).RegisterRoutes)
		r.Route("/cart", handler.NewCartHandler(d.Checkout, events).RegisterRoutes)
		r.Route("/transactions", handler.NewTransactionHandler(d.Ledger, d.Clock).RegisterRoutes)
		r.Route("/expenditures", handler.NewExpenditureHandler(d.Ledger, d.Notes, d.Clock, events).RegisterRoutes)
		r.Route("/reports", handler.NewReportsHandler(d.Ledger, d.Clock).RegisterRoutes)
		r.Route("/profile", handler.NewProfileHandler(d.Profile, events).RegisterRoutes)
		r.Route("/backup", handler.NewBackupHandler(d.Backups, d.Clock, events).RegisterRoutes)
	})

	logger.Debug("router initialized")
	return r
}
