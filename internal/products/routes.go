package products

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra rutas de products en el router.
// Mantener esto separado hace que main.go no crezca sin control.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/products", func(route chi.Router) {
		route.Get("/", handler.List)
		route.Post("/", handler.Create)
		route.Get("/metrics", handler.GetMetrics)
		route.Get("/{id}", handler.GetByID)
		route.Put("/{id}", handler.Update)
		route.Delete("/{id}", handler.Delete)
	})
}
