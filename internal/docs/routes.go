package docs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta Swagger UI y el documento OpenAPI bajo /docs.
// /docs sin barra final redirige a /docs/ para que los assets relativos
// de la página resuelvan bien.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/docs/", http.StatusMovedPermanently)
	})

	r.Route("/docs", func(r chi.Router) {
		r.Get("/", swaggerPage.serve)
		r.Get("/openapi.yaml", openAPIDocument.serve)
	})
}
