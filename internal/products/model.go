package products

import "time"

// Product representa un registro persistido en DB.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateProductInput representa el payload para crear un producto.
// Price y Stock son punteros para distinguir "no vino" de cero.
type CreateProductInput struct {
	Name  string   `json:"name" validate:"required,notblank,max=255"`
	Price *float64 `json:"price" validate:"required,gte=0"`
	Stock *int     `json:"stock" validate:"required,gte=0"`
}

// UpdateProductInput representa una actualización parcial: cualquier subconjunto
// de campos. Un campo presente debe cumplir las mismas reglas que en Create.
type UpdateProductInput struct {
	Name  *string  `json:"name" validate:"omitempty,notblank,max=255"`
	Price *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock *int     `json:"stock" validate:"omitempty,gte=0"`
}

// ListOptions agrupa paginación y filtros del listado.
// Los filtros ausentes no aportan condición alguna a la búsqueda.
type ListOptions struct {
	Page     int      `json:"page" validate:"gte=1"`
	Limit    int      `json:"limit" validate:"gte=1,lte=100"`
	Search   string   `json:"search" validate:"max=255"`
	MinPrice *float64 `json:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `json:"maxPrice" validate:"omitempty,gte=0"`
	MinStock *int     `json:"minStock" validate:"omitempty,gte=0"`
	MaxStock *int     `json:"maxStock" validate:"omitempty,gte=0"`
}

// Pagination describe la página devuelta y el universo total que matchea el filtro.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListResult es la respuesta del listado paginado.
type ListResult struct {
	Data       []Product  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Metrics es el reporte derivado del inventario. No se persiste:
// se recalcula completo en cada consulta.
type Metrics struct {
	TotalProducts       int       `json:"totalProducts"`
	TotalInventoryValue float64   `json:"totalInventoryValue"`
	AveragePrice        float64   `json:"averagePrice"`
	MinPrice            float64   `json:"minPrice"`
	MaxPrice            float64   `json:"maxPrice"`
	LowStockProducts    int       `json:"lowStockProducts"`
	TotalStock          int       `json:"totalStock"`
	LowStockItems       []Product `json:"lowStockItems"`
	MostExpensive       []Product `json:"mostExpensive"`
	Cheapest            []Product `json:"cheapest"`
}
