package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type poolPinger interface {
	Ping(ctx context.Context) error
	Close()
}

var (
	newPool  = pgxpool.New
	pingPool = func(ctx context.Context, pool poolPinger) error {
		return pool.Ping(ctx)
	}
	closePool = func(pool poolPinger) {
		pool.Close()
	}
)

// Esquema de la tabla products. Los CHECK duplican la validación de entrada:
// si algo llega acá con precio o stock negativo, la DB es la última barrera.
const productsSchema = `
	CREATE TABLE IF NOT EXISTS products (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		price      DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		stock      INTEGER NOT NULL CHECK (stock >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

// NewPool crea un pool de conexiones a PostgreSQL.
// Se usa un timeout corto para evitar que el arranque quede colgado si la DB no responde.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := newPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	// Validación temprana: asegura que la app no arranca "a medias".
	if err := pingPool(ctx, pool); err != nil {
		closePool(pool)
		return nil, err
	}

	return pool, nil
}

// Execer es lo que EnsureSchema necesita para correr DDL.
// *pgxpool.Pool lo satisface.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EnsureSchema crea la tabla products si no existe todavía.
// Idempotente: se corre en cada arranque.
func EnsureSchema(ctx context.Context, database Execer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := database.Exec(ctx, productsSchema)
	return err
}
