// Package api wires the HTTP surface: a chi router with JSON handlers
// over the service layer. Transport only; all domain rules live in
// internal/engine.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tandaclub/tanda/internal/auth"
	"github.com/tandaclub/tanda/internal/metrics"
	"github.com/tandaclub/tanda/internal/middleware"
	"github.com/tandaclub/tanda/internal/service"
	"github.com/tandaclub/tanda/internal/storage"
)

// Deps collects everything the router needs.
type Deps struct {
	Auth   *service.AuthService
	Tandas *service.TandaService
	Admin  *service.AdminService
	Tokens *auth.JWTManager
	Store  storage.Store
}

// New builds the HTTP handler.
func New(deps Deps) http.Handler {
	authH := &authHandler{svc: deps.Auth}
	tandaH := &tandaHandler{svc: deps.Tandas, store: deps.Store}
	adminH := &adminHandler{svc: deps.Admin}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authH.register)
		r.Post("/auth/login", authH.login)

		r.Route("/tandas", func(r chi.Router) {
			// Queries and the self-regulating operations are open to any
			// observer: the protocol is designed so that no particular
			// caller is required to keep a tanda moving.
			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuth(deps.Tokens))

				r.Get("/", tandaH.list)
				r.Get("/{id}", tandaH.get)
				r.Get("/{id}/members", tandaH.members)
				r.Get("/{id}/beneficiary", tandaH.beneficiary)
				r.Get("/{id}/deadline", tandaH.deadline)
				r.Get("/{id}/all-deposited", tandaH.allDeposited)
				r.Get("/{id}/advance-status", tandaH.advanceStatus)
				r.Get("/{id}/can-expel/{address}", tandaH.canExpel)
				r.Get("/{id}/pool", tandaH.pool)

				r.Post("/{id}/payout", tandaH.payout)
				r.Post("/{id}/advance", tandaH.advance)
				r.Post("/{id}/expel", tandaH.expel)
			})

			// Operations acting as a specific member need a proven
			// identity.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(deps.Tokens))

				r.Post("/", tandaH.create)
				r.Post("/{id}/join", tandaH.join)
				r.Post("/{id}/start", tandaH.start)
				r.Post("/{id}/cancel", tandaH.cancel)
				r.Post("/{id}/deposit", tandaH.deposit)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth(deps.Tokens))

			r.Get("/config", adminH.getConfig)
			r.Post("/commission", adminH.setCommission)
			r.Post("/admin", adminH.setAdmin)
			r.Post("/mint", adminH.mint)
		})
	})

	return r
}

// cors allows browser clients to reach the API.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
