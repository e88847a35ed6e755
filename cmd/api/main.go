package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joho/godotenv"

	"inventory-api/internal/config"
	"inventory-api/internal/db"
	"inventory-api/internal/docs"
	"inventory-api/internal/health"
	"inventory-api/internal/httpx"
	"inventory-api/internal/logger"
	"inventory-api/internal/products"
)

// appPool es la vista que main necesita del pool: ping, cierre, DDL y queries.
// Existe para poder testear el arranque con un fake.
type appPool interface {
	Ping(ctx context.Context) error
	Close()
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Indirecciones para que los tests puedan interceptar el arranque.
var (
	loadConfigFn = config.Load
	newPoolFn    = func(ctx context.Context, databaseURL string) (appPool, error) {
		return db.NewPool(ctx, databaseURL)
	}
	ensureSchemaFn = func(ctx context.Context, pool appPool) error {
		return db.EnsureSchema(ctx, pool)
	}
	runServerFn = runServer
	fatalf      = func(args ...any) {
		log.Fatal(args...)
	}
)

// Rutas conocidas, para el 404 de routing.
var knownRoutes = []string{
	"GET /products",
	"GET /products/{id}",
	"POST /products",
	"PUT /products/{id}",
	"DELETE /products/{id}",
	"GET /products/metrics",
	"GET /health",
	"GET /ready",
	"GET /docs",
}

func main() {
	// .env es para desarrollo; en producción las variables vienen del entorno real.
	_ = godotenv.Load()

	cfg, err := loadConfigFn()
	if err != nil {
		fatalf(err)
		return
	}

	appLogger := logger.Init("inventory-api", cfg.IsDevelopment())

	// Contexto raíz del proceso.
	ctx := context.Background()

	pool, err := newPoolFn(ctx, cfg.DatabaseURL)
	if err != nil {
		fatalf(err)
		return
	}
	defer pool.Close()

	if err := ensureSchemaFn(ctx, pool); err != nil {
		fatalf(err)
		return
	}

	repository := products.NewRepository(pool)
	service := products.NewService(repository)
	productsHandler := products.NewHandler(service, appLogger, cfg.IsDevelopment())
	healthHandler := health.New(pool)

	r := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	r.Use(httpx.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(appLogger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	// Errores de routing se manejan a nivel router.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.FailWithDetails(w, http.StatusNotFound, "Ruta no encontrada",
			fmt.Sprintf("La ruta %s %s no existe", r.Method, r.URL.Path), knownRoutes)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusMethodNotAllowed, "Método no permitido",
			fmt.Sprintf("El método %s no está permitido para %s", r.Method, r.URL.Path))
	})

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	products.RegisterRoutes(r, productsHandler)
	docs.RegisterRoutes(r)

	addr := ":" + cfg.Port
	appLogger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")

	if err := runServerFn(ctx, addr, r); err != nil {
		fatalf(err)
		return
	}

	appLogger.Info().Msg("server stopped")
}

// runServer levanta el servidor HTTP y espera SIGINT/SIGTERM para apagarlo
// drenando las conexiones en curso. El pool se cierra recién después,
// por el defer de main.
func runServer(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{Addr: addr, Handler: handler}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverError := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case err := <-serverError:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
