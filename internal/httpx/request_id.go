package httpx

import (
	"net/http"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestID asigna un id único a cada request si el cliente no mandó uno,
// y lo refleja en la respuesta para poder correlacionar logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// RequestIDFrom lee el request id desde los headers del request.
func RequestIDFrom(request *http.Request) string {
	if request == nil {
		return ""
	}
	return request.Header.Get(requestIDHeader)
}
