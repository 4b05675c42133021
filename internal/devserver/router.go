package devserver

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs the HTTP handler serving the blacklist API.
//
// Routes:
//
//	POST /auth/login          → Handler.Login (public)
//	GET  /auth/me             → Handler.Me
//	GET  /user/profile        → Handler.Profile
//	GET  /records/search      → Handler.Search
//	GET  /records/my          → Handler.MyRecords
//	POST /records             → Handler.Create
//	DELETE /records/{id}      → Handler.Delete
//
// Everything except login sits behind the bearer-token middleware.
func NewRouter(h *Handler, maker *TokenMaker, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(WithRequestLogging(logger))

	// Public endpoint
	r.Post("/auth/login", h.Login)

	// Protected group: requires a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(maker))

		r.Get("/auth/me", h.Me)
		r.Get("/user/profile", h.Profile)
		r.Get("/records/search", h.Search)
		r.Get("/records/my", h.MyRecords)
		r.Post("/records", h.Create)
		r.Delete("/records/{id}", h.Delete)
	})

	return r
}
