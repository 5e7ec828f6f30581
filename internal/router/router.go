package router

import (
	"net/http"

	"product-store/internal/handler"
	"product-store/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(productHandler *handler.ProductHandler, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware in order: Recovery -> RequestID -> Logging -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.Get("/health", productHandler.Health)

	r.Route("/product", func(r chi.Router) {
		r.Get("/list", productHandler.List)
		r.Post("/add", productHandler.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/info", productHandler.GetByID)
			r.Put("/update", productHandler.Update)
		})
	})

	return r
}
