package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the full HTTP surface on a chi router with the standard
// middleware stack.
func NewRouter(h *Handler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", h.Health)

	r.Post("/query", h.Query)

	r.Route("/cart/{userID}", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/items/{entryID}", h.RemoveCartItem)
	})

	r.Route("/review/{userID}", func(r chi.Router) {
		r.Get("/", h.GetReviewSession)
		r.Post("/command", h.SessionCommand)
	})

	r.Post("/checkout/{userID}", h.Checkout)

	return r
}
