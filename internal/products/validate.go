package products

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describe una regla violada sobre un campo puntual.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError junta TODAS las violaciones de un payload, no solo la primera.
type ValidationError struct {
	Details []FieldError
}

func (validationError *ValidationError) Error() string {
	fields := make([]string, 0, len(validationError.Details))
	for _, detail := range validationError.Details {
		fields = append(fields, detail.Field)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Los detalles de error usan el nombre JSON del campo, no el de Go.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	// notblank: no vacío después de trim. "required" solo no frena "   ".
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// ValidateCreate aplica las reglas de creación: los tres campos son obligatorios.
func ValidateCreate(input CreateProductInput) *ValidationError {
	return validateStruct(input)
}

// ValidateUpdate aplica las reglas de actualización parcial: todo opcional,
// pero lo presente debe cumplir lo mismo que en Create.
func ValidateUpdate(input UpdateProductInput) *ValidationError {
	return validateStruct(input)
}

// ValidateListOptions aplica las reglas de los query params del listado.
// No hay chequeo cruzado min<=max: un rango invertido da resultado vacío, no error.
func ValidateListOptions(options ListOptions) *ValidationError {
	return validateStruct(options)
}

func validateStruct(data any) *ValidationError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationError{Details: []FieldError{{Field: "payload", Rule: "invalid", Message: err.Error()}}}
	}

	details := make([]FieldError, 0, len(violations))
	for _, violation := range violations {
		details = append(details, FieldError{
			Field:   violation.Field(),
			Rule:    violation.Tag(),
			Message: fieldMessage(violation),
		})
	}
	return &ValidationError{Details: details}
}

func fieldMessage(violation validator.FieldError) string {
	field := violation.Field()
	switch violation.Tag() {
	case "required":
		return fmt.Sprintf("El campo %s es requerido", field)
	case "notblank":
		return fmt.Sprintf("El campo %s no puede estar vacío", field)
	case "max":
		if violation.Kind() == reflect.String {
			return fmt.Sprintf("El campo %s no puede exceder %s caracteres", field, violation.Param())
		}
		return fmt.Sprintf("El campo %s no puede ser mayor a %s", field, violation.Param())
	case "gte":
		return fmt.Sprintf("El campo %s debe ser mayor o igual a %s", field, violation.Param())
	case "lte":
		return fmt.Sprintf("El campo %s debe ser menor o igual a %s", field, violation.Param())
	default:
		return fmt.Sprintf("El campo %s no cumple la regla %s", field, violation.Tag())
	}
}
