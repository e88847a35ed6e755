package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"inventory-api/internal/httpx"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ServiceAPI define lo que el handler necesita.
// Permite testear handlers con stubs sin tocar DB.
type ServiceAPI interface {
	List(ctx context.Context, options ListOptions) (ListResult, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, input CreateProductInput) (Product, error)
	Update(ctx context.Context, id int64, input UpdateProductInput) (Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Metrics(ctx context.Context) (Metrics, error)
}

// Handler HTTP para products.
// Solo traduce HTTP <-> dominio (service).
type Handler struct {
	service ServiceAPI
	logger  zerolog.Logger
	devMode bool
}

// NewHandler crea un handler de products. Con devMode activo los 500
// incluyen el error interno en la respuesta; en producción jamás.
func NewHandler(service ServiceAPI, logger zerolog.Logger, devMode bool) *Handler {
	return &Handler{service: service, logger: logger, devMode: devMode}
}

// List maneja GET /products con paginación, búsqueda y filtros de rango.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	options, validationError := parseListOptions(request)
	if validationError != nil {
		httpx.FailWithDetails(writer, http.StatusBadRequest, "Error de validación",
			"Parámetros de búsqueda inválidos", validationError.Details)
		return
	}

	result, err := handler.service.List(request.Context(), options)
	if err != nil {
		handler.respondError(writer, request, err)
		return
	}

	httpx.OK(writer, http.StatusOK, result)
}

// GetMetrics maneja GET /products/metrics.
func (handler *Handler) GetMetrics(writer http.ResponseWriter, request *http.Request) {
	metrics, err := handler.service.Metrics(request.Context())
	if err != nil {
		handler.respondError(writer, request, err)
		return
	}

	httpx.OK(writer, http.StatusOK, metrics)
}

// GetByID maneja GET /products/{id}.
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	product, err := handler.service.Get(request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrorNotFound) {
			failNotFound(writer, id)
			return
		}
		handler.respondError(writer, request, err)
		return
	}

	httpx.OK(writer, http.StatusOK, product)
}

// Create maneja POST /products.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input CreateProductInput
	if !decodeJSONBody(writer, request, &input) {
		return
	}

	product, err := handler.service.Create(request.Context(), input)
	if err != nil {
		handler.respondError(writer, request, err)
		return
	}

	httpx.OK(writer, http.StatusCreated, product)
}

// Update maneja PUT /products/{id} con actualización parcial.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	var input UpdateProductInput
	if !decodeJSONBody(writer, request, &input) {
		return
	}

	product, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		if errors.Is(err, ErrorNotFound) {
			failNotFound(writer, id)
			return
		}
		handler.respondError(writer, request, err)
		return
	}

	httpx.OK(writer, http.StatusOK, product)
}

// Delete maneja DELETE /products/{id}.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	id, ok := parseID(writer, request)
	if !ok {
		return
	}

	deleted, err := handler.service.Delete(request.Context(), id)
	if err != nil {
		handler.respondError(writer, request, err)
		return
	}
	if !deleted {
		failNotFound(writer, id)
		return
	}

	httpx.OK(writer, http.StatusOK, map[string]any{
		"message": "Producto eliminado exitosamente",
		"id":      id,
	})
}

// respondError es el único lugar que decide status y forma pública de los
// errores que no dependen del id pedido. Nada de acá filtra SQL ni internals.
func (handler *Handler) respondError(writer http.ResponseWriter, request *http.Request, err error) {
	var validationError *ValidationError
	switch {
	case errors.As(err, &validationError):
		httpx.FailWithDetails(writer, http.StatusBadRequest, "Error de validación",
			"Los datos enviados no cumplen las reglas de validación", validationError.Details)
	case errors.Is(err, ErrorIntegrity):
		httpx.Fail(writer, http.StatusBadRequest, "Error de validación de base de datos",
			"Los datos proporcionados violan las restricciones de la base de datos")
	case errors.Is(err, ErrorNotFound):
		httpx.Fail(writer, http.StatusNotFound, "Producto no encontrado", "El producto no existe")
	default:
		handler.logger.Error().
			Err(err).
			Str("request_id", httpx.RequestIDFrom(request)).
			Msg("unhandled error")

		message := "Ocurrió un error al procesar la solicitud"
		if handler.devMode {
			message = err.Error()
		}
		httpx.Fail(writer, http.StatusInternalServerError, "Error interno del servidor", message)
	}
}

func failNotFound(writer http.ResponseWriter, id int64) {
	httpx.Fail(writer, http.StatusNotFound, "Producto no encontrado",
		fmt.Sprintf("No existe un producto con ID %d", id))
}

// decodeJSONBody lee el body JSON en target. Un campo con el tipo equivocado
// (por ejemplo price como texto) es una violación de regla sobre ese campo,
// no un body roto: sale por la misma forma que los errores de validación,
// con el campo nombrado en details.
func decodeJSONBody(writer http.ResponseWriter, request *http.Request, target any) bool {
	err := json.NewDecoder(request.Body).Decode(target)
	if err == nil {
		return true
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) && typeError.Field != "" {
		detail := fieldTypeError(typeError)
		httpx.FailWithDetails(writer, http.StatusBadRequest, "Error de validación",
			"Los datos enviados no cumplen las reglas de validación", []FieldError{detail})
		return false
	}

	httpx.Fail(writer, http.StatusBadRequest, "JSON inválido", "El cuerpo del request no es JSON válido")
	return false
}

func fieldTypeError(typeError *json.UnmarshalTypeError) FieldError {
	expected := typeError.Type
	if expected.Kind() == reflect.Pointer {
		expected = expected.Elem()
	}

	switch expected.Kind() {
	case reflect.Float32, reflect.Float64:
		return FieldError{Field: typeError.Field, Rule: "numeric",
			Message: fmt.Sprintf("El campo %s debe ser un número", typeError.Field)}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FieldError{Field: typeError.Field, Rule: "integer",
			Message: fmt.Sprintf("El campo %s debe ser un número entero", typeError.Field)}
	case reflect.String:
		return FieldError{Field: typeError.Field, Rule: "string",
			Message: fmt.Sprintf("El campo %s debe ser texto", typeError.Field)}
	default:
		return FieldError{Field: typeError.Field, Rule: "type",
			Message: fmt.Sprintf("El campo %s tiene un tipo inválido", typeError.Field)}
	}
}

// parseID lee el id de la ruta. El id es numérico en DB: un id no numérico
// es entrada inválida, no un producto ausente.
func parseID(writer http.ResponseWriter, request *http.Request) (int64, bool) {
	raw := chi.URLParam(request, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httpx.Fail(writer, http.StatusBadRequest, "Identificador inválido", "El id debe ser un número entero")
		return 0, false
	}
	return id, true
}

// parseListOptions coacciona los query params con defaults page=1 y limit=10.
// Junta TODOS los errores de tipo antes de cortar; los rangos los chequea
// la capa de validación del service.
func parseListOptions(request *http.Request) (ListOptions, *ValidationError) {
	query := request.URL.Query()
	options := ListOptions{Page: defaultPage, Limit: defaultLimit}
	var details []FieldError

	if value := strings.TrimSpace(query.Get("page")); value != "" {
		number, err := strconv.Atoi(value)
		if err != nil {
			details = append(details, FieldError{Field: "page", Rule: "integer", Message: "La página debe ser un número entero"})
		} else {
			options.Page = number
		}
	}

	if value := strings.TrimSpace(query.Get("limit")); value != "" {
		number, err := strconv.Atoi(value)
		if err != nil {
			details = append(details, FieldError{Field: "limit", Rule: "integer", Message: "El límite debe ser un número entero"})
		} else {
			options.Limit = number
		}
	}

	options.Search = strings.TrimSpace(query.Get("search"))

	if value := strings.TrimSpace(query.Get("minPrice")); value != "" {
		number, err := strconv.ParseFloat(value, 64)
		if err != nil {
			details = append(details, FieldError{Field: "minPrice", Rule: "numeric", Message: "El precio mínimo debe ser un número"})
		} else {
			options.MinPrice = &number
		}
	}

	if value := strings.TrimSpace(query.Get("maxPrice")); value != "" {
		number, err := strconv.ParseFloat(value, 64)
		if err != nil {
			details = append(details, FieldError{Field: "maxPrice", Rule: "numeric", Message: "El precio máximo debe ser un número"})
		} else {
			options.MaxPrice = &number
		}
	}

	if value := strings.TrimSpace(query.Get("minStock")); value != "" {
		number, err := strconv.Atoi(value)
		if err != nil {
			details = append(details, FieldError{Field: "minStock", Rule: "integer", Message: "El stock mínimo debe ser un número entero"})
		} else {
			options.MinStock = &number
		}
	}

	if value := strings.TrimSpace(query.Get("maxStock")); value != "" {
		number, err := strconv.Atoi(value)
		if err != nil {
			details = append(details, FieldError{Field: "maxStock", Rule: "integer", Message: "El stock máximo debe ser un número entero"})
		} else {
			options.MaxStock = &number
		}
	}

	if len(details) > 0 {
		return ListOptions{}, &ValidationError{Details: details}
	}
	return options, nil
}
