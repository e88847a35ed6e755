package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody es el sobre uniforme para errores de la API.
// No exponer detalles internos (SQL, stacktrace, etc.) en producción.
type ErrorBody struct {
	Error   string `json:"error"`             // ej: "Error de validación", "Producto no encontrado"
	Message string `json:"message,omitempty"` // mensaje para humanos
	Details any    `json:"details,omitempty"` // lista de violaciones campo a campo, si aplica
}

// JSON escribe una respuesta JSON con headers correctos.
// Nota: en caso de error de encodeo, responde 500 de forma segura.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)

	if err := enc.Encode(payload); err != nil {
		// Último recurso: no se pudo serializar JSON.
		http.Error(w, `{"error":"internal","message":"internal server error"}`, http.StatusInternalServerError)
	}
}

// OK devuelve una respuesta exitosa con el payload tal cual.
func OK(w http.ResponseWriter, status int, data any) {
	JSON(w, status, data)
}

// Fail devuelve un error estructurado sin detalles.
func Fail(w http.ResponseWriter, status int, errorLabel, message string) {
	JSON(w, status, ErrorBody{
		Error:   errorLabel,
		Message: message,
	})
}

// FailWithDetails devuelve un error estructurado con detalles campo a campo.
func FailWithDetails(w http.ResponseWriter, status int, errorLabel, message string, details any) {
	JSON(w, status, ErrorBody{
		Error:   errorLabel,
		Message: message,
		Details: details,
	})
}
