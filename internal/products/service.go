package products

import (
	"context"
	"strings"
)

// RepositoryAPI define lo que el service necesita del repo.
// Permite testear el service con fakes sin tocar DB.
type RepositoryAPI interface {
	List(ctx context.Context, options ListOptions) (ListResult, error)
	GetByID(ctx context.Context, id int64) (Product, error)
	Insert(ctx context.Context, input CreateProductInput) (Product, error)
	Update(ctx context.Context, id int64, input UpdateProductInput) (Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Metrics(ctx context.Context) (Metrics, error)
}

// Service corre las reglas de validación antes de tocar el repo.
// Si la validación falla, el repo no se entera: corto circuito directo al 400.
type Service struct {
	repository RepositoryAPI
}

// NewService crea un service de products.
func NewService(repository RepositoryAPI) *Service {
	return &Service{repository: repository}
}

// List normaliza y valida los parámetros de búsqueda y delega en el repo.
// No re-clampea page ni limit: fuera de rango es error de validación, no ajuste silencioso.
func (service *Service) List(ctx context.Context, options ListOptions) (ListResult, error) {
	options.Search = strings.TrimSpace(options.Search)

	if validationError := ValidateListOptions(options); validationError != nil {
		return ListResult{}, validationError
	}

	return service.repository.List(ctx, options)
}

// Get obtiene un producto por ID.
func (service *Service) Get(ctx context.Context, id int64) (Product, error) {
	return service.repository.GetByID(ctx, id)
}

// Create valida las reglas de creación y persiste el producto.
func (service *Service) Create(ctx context.Context, input CreateProductInput) (Product, error) {
	input.Name = strings.TrimSpace(input.Name)

	if validationError := ValidateCreate(input); validationError != nil {
		return Product{}, validationError
	}

	return service.repository.Insert(ctx, input)
}

// Update valida la actualización parcial y la aplica.
// Un payload sin campos no es error: devuelve el producto tal como está.
func (service *Service) Update(ctx context.Context, id int64, input UpdateProductInput) (Product, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}

	if validationError := ValidateUpdate(input); validationError != nil {
		return Product{}, validationError
	}

	return service.repository.Update(ctx, id, input)
}

// Delete elimina un producto por ID e informa si existía.
func (service *Service) Delete(ctx context.Context, id int64) (bool, error) {
	return service.repository.Delete(ctx, id)
}

// Metrics devuelve el reporte derivado del inventario.
func (service *Service) Metrics(ctx context.Context) (Metrics, error) {
	return service.repository.Metrics(ctx)
}
