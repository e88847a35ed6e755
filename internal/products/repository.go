package products

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	// ErrorNotFound marca ausencia: "no hay fila con ese id". No es una falla.
	ErrorNotFound = errors.New("product not found")
	// ErrorIntegrity marca que la DB rechazó datos por un CHECK. Si aparece,
	// la validación de entrada tuvo un hueco que vale la pena investigar.
	ErrorIntegrity = errors.New("database constraint violated")
)

// Umbral de stock bajo y tope de los rankings del reporte de métricas.
// Son decisiones de producto, no de protocolo; si cambian, cambian acá.
const (
	lowStockThreshold = 10
	topListLimit      = 5
)

// Postgres: check_violation
const pgCheckViolation = "23514"

// DB es el contrato mínimo contra la base: una fila o varias filas.
// *pgxpool.Pool lo satisface; los tests inyectan un fake.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository accede a la tabla products.
// Contiene SQL y mapeo DB → modelo.
type Repository struct {
	database DB
}

// NewRepository crea un repositorio de products.
func NewRepository(database DB) *Repository {
	return &Repository{database: database}
}

func scanProduct(row pgx.Row) (Product, error) {
	var product Product
	err := row.Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt)
	return product, err
}

// buildFilters arma el WHERE conjuntivo solo con los filtros presentes.
// Devuelve la cláusula (vacía si no hay filtros) y los parámetros posicionales.
// Nunca interpola valores en el SQL: todo va bindeado.
func buildFilters(options ListOptions) (string, []any) {
	var conditions []string
	var params []any

	if options.Search != "" {
		// LIKE con la collation por defecto del motor; no forzamos case-insensitive.
		params = append(params, "%"+options.Search+"%")
		conditions = append(conditions, fmt.Sprintf("name LIKE $%d", len(params)))
	}
	if options.MinPrice != nil {
		params = append(params, *options.MinPrice)
		conditions = append(conditions, fmt.Sprintf("price >= $%d", len(params)))
	}
	if options.MaxPrice != nil {
		params = append(params, *options.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("price <= $%d", len(params)))
	}
	if options.MinStock != nil {
		params = append(params, *options.MinStock)
		conditions = append(conditions, fmt.Sprintf("stock >= $%d", len(params)))
	}
	if options.MaxStock != nil {
		params = append(params, *options.MaxStock)
		conditions = append(conditions, fmt.Sprintf("stock <= $%d", len(params)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), params
}

// List ejecuta la búsqueda paginada: primero cuenta el total que matchea el
// filtro, después trae exactamente una página ordenada por id descendente
// (lo más recién creado primero). Pedir una página más allá de la última
// devuelve lista vacía con la paginación real, sin error.
func (repository *Repository) List(ctx context.Context, options ListOptions) (ListResult, error) {
	whereClause, params := buildFilters(options)

	countQuery := strings.TrimSpace(fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause))

	var total int
	if err := repository.database.QueryRow(ctx, countQuery, params...).Scan(&total); err != nil {
		return ListResult{}, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + options.Limit - 1) / options.Limit
	}

	// Más allá de la última página no hay filas: se responde la página vacía
	// sin consultar. El OFFSET solo se calcula para páginas reales, así una
	// page gigante no desborda la multiplicación.
	if options.Page > totalPages {
		return ListResult{
			Data: []Product{},
			Pagination: Pagination{
				Page:       options.Page,
				Limit:      options.Limit,
				Total:      total,
				TotalPages: totalPages,
			},
		}, nil
	}

	offset := (options.Page - 1) * options.Limit
	listParams := append(params, options.Limit, offset)
	listQuery := strings.TrimSpace(fmt.Sprintf(
		"SELECT id, name, price, stock, created_at, updated_at FROM products %s ORDER BY id DESC LIMIT $%d OFFSET $%d",
		whereClause, len(listParams)-1, len(listParams),
	))

	rows, err := repository.database.Query(ctx, listQuery, listParams...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	items := make([]Product, 0, options.Limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return ListResult{}, err
		}
		items = append(items, product)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Data: items,
		Pagination: Pagination{
			Page:       options.Page,
			Limit:      options.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// GetByID busca por clave primaria. La ausencia se devuelve como
// ErrorNotFound para que el handler decida el 404; nunca es un 500.
func (repository *Repository) GetByID(ctx context.Context, id int64) (Product, error) {
	const query = `
		SELECT id, name, price, stock, created_at, updated_at
		FROM products
		WHERE id = $1;
	`

	product, err := scanProduct(repository.database.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrorNotFound
		}
		return Product{}, err
	}
	return product, nil
}

// Insert crea un producto y devuelve el registro persistido.
// Usamos RETURNING para obtener id y timestamps generados por DB.
func (repository *Repository) Insert(ctx context.Context, input CreateProductInput) (Product, error) {
	const query = `
		INSERT INTO products (name, price, stock)
		VALUES ($1, $2, $3)
		RETURNING id, name, price, stock, created_at, updated_at;
	`

	product, err := scanProduct(repository.database.QueryRow(ctx, query, input.Name, *input.Price, *input.Stock))
	if err != nil {
		var postgresError *pgconn.PgError
		if errors.As(err, &postgresError) && postgresError.Code == pgCheckViolation {
			return Product{}, ErrorIntegrity
		}
		return Product{}, err
	}
	return product, nil
}

// Update aplica solo los campos presentes más updated_at, en un solo statement.
// Con el set vacío no escribe nada: devuelve la fila actual tal cual está.
func (repository *Repository) Update(ctx context.Context, id int64, input UpdateProductInput) (Product, error) {
	var assignments []string
	var params []any

	if input.Name != nil {
		params = append(params, *input.Name)
		assignments = append(assignments, fmt.Sprintf("name = $%d", len(params)))
	}
	if input.Price != nil {
		params = append(params, *input.Price)
		assignments = append(assignments, fmt.Sprintf("price = $%d", len(params)))
	}
	if input.Stock != nil {
		params = append(params, *input.Stock)
		assignments = append(assignments, fmt.Sprintf("stock = $%d", len(params)))
	}

	if len(assignments) == 0 {
		return repository.GetByID(ctx, id)
	}

	assignments = append(assignments, "updated_at = now()")
	params = append(params, id)

	query := fmt.Sprintf(
		"UPDATE products SET %s WHERE id = $%d RETURNING id, name, price, stock, created_at, updated_at",
		strings.Join(assignments, ", "), len(params),
	)

	product, err := scanProduct(repository.database.QueryRow(ctx, query, params...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrorNotFound
		}
		var postgresError *pgconn.PgError
		if errors.As(err, &postgresError) && postgresError.Code == pgCheckViolation {
			return Product{}, ErrorIntegrity
		}
		return Product{}, err
	}
	return product, nil
}

// Delete borra por id y devuelve si había fila que borrar.
// Borrar un id inexistente no es un error: devuelve false.
func (repository *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM products WHERE id = $1 RETURNING id;`

	var deletedID int64
	err := repository.database.QueryRow(ctx, query, id).Scan(&deletedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Metrics corre el agregado global más los tres rankings top-N, en secuencia.
// Sin una transacción de solo lectura las cuatro consultas pueden ver
// escrituras intercaladas; para un reporte operativo esa foto alcanza.
func (repository *Repository) Metrics(ctx context.Context) (Metrics, error) {
	const aggregateQuery = `
		SELECT
			COUNT(*),
			COALESCE(SUM(price * stock), 0),
			COALESCE(AVG(price), 0),
			COALESCE(MIN(price), 0),
			COALESCE(MAX(price), 0),
			COUNT(*) FILTER (WHERE stock < $1),
			COALESCE(SUM(stock), 0)
		FROM products;
	`

	var metrics Metrics
	err := repository.database.QueryRow(ctx, aggregateQuery, lowStockThreshold).Scan(
		&metrics.TotalProducts,
		&metrics.TotalInventoryValue,
		&metrics.AveragePrice,
		&metrics.MinPrice,
		&metrics.MaxPrice,
		&metrics.LowStockProducts,
		&metrics.TotalStock,
	)
	if err != nil {
		return Metrics{}, err
	}
	metrics.AveragePrice = math.Round(metrics.AveragePrice*100) / 100

	const lowStockQuery = `
		SELECT id, name, price, stock, created_at, updated_at
		FROM products
		WHERE stock < $1
		ORDER BY stock ASC, id ASC
		LIMIT $2;
	`
	lowStockItems, err := repository.topProducts(ctx, lowStockQuery, lowStockThreshold, topListLimit)
	if err != nil {
		return Metrics{}, err
	}
	metrics.LowStockItems = lowStockItems

	const mostExpensiveQuery = `
		SELECT id, name, price, stock, created_at, updated_at
		FROM products
		ORDER BY price DESC, id ASC
		LIMIT $1;
	`
	mostExpensive, err := repository.topProducts(ctx, mostExpensiveQuery, topListLimit)
	if err != nil {
		return Metrics{}, err
	}
	metrics.MostExpensive = mostExpensive

	const cheapestQuery = `
		SELECT id, name, price, stock, created_at, updated_at
		FROM products
		ORDER BY price ASC, id ASC
		LIMIT $1;
	`
	cheapest, err := repository.topProducts(ctx, cheapestQuery, topListLimit)
	if err != nil {
		return Metrics{}, err
	}
	metrics.Cheapest = cheapest

	return metrics, nil
}

func (repository *Repository) topProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := repository.database.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Product, 0, topListLimit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
