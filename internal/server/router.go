// Package server assembles the HTTP API: routing, middleware and handlers.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	authhandler "truedial/internal/auth/handler"
	contacthandler "truedial/internal/contact/handler"
	healthhandler "truedial/internal/health/handler"
	searchhandler "truedial/internal/search/handler"
	"truedial/internal/security"
	"truedial/internal/server/middleware"
	spamhandler "truedial/internal/spam/handler"
)

// Deps carries everything the router needs.
type Deps struct {
	Auth     *authhandler.Handler
	Contacts *contacthandler.Handler
	Spam     *spamhandler.Handler
	Search   *searchhandler.Handler
	Health   *healthhandler.Handler

	Tokens   *security.TokenProvider
	Sessions middleware.SessionChecker
	Tracer   trace.Tracer
	Meter    metric.Meter
}

// New builds the API router. All routes except health checks, registration
// and login require a valid bearer token.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	if d.Tracer != nil && d.Meter != nil {
		r.Use(middleware.Telemetry(d.Tracer, d.Meter))
	}

	r.Get("/healthz", d.Health.Live)
	r.Get("/readyz", d.Health.Ready)

	r.Post("/auth/register", d.Auth.Register)
	r.Post("/auth/login", d.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(d.Tokens, d.Sessions))

		r.Post("/auth/logout", d.Auth.Logout)
		r.Get("/me", d.Auth.GetProfile)
		r.Put("/me", d.Auth.UpdateProfile)

		r.Post("/contacts", d.Contacts.Add)
		r.Get("/contacts", d.Contacts.List)
		r.Post("/contacts/import", d.Contacts.Import)

		r.Post("/spam/mark", d.Spam.Mark)

		r.Get("/search", d.Search.Search)
	})

	return r
}
