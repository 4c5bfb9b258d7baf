package store

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"

	"github.com/vibestyle/shopping-assistant/internal/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Postgres is the pgx-backed catalog store. The pool is a shared reusable
// handle; each call is an independent read.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects a pgx pool and verifies it with a ping.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Postgres) Close() {
	s.pool.Close()
}

// Ping reports whether the database is reachable.
func (s *Postgres) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// RunMigrations applies all pending goose migrations from the embedded SQL
// files.
func RunMigrations(ctx context.Context, dsn string) error {
	goose.SetBaseFS(migrations)

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db for migrations: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Search returns products matching the criteria.
func (s *Postgres) Search(ctx context.Context, c SearchCriteria) ([]model.Product, error) {
	sql, args := buildSearchQuery(c)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search apparels: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Get returns a single product by ID.
func (s *Postgres) Get(ctx context.Context, id string) (*model.Product, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+selectColumns+" FROM apparels WHERE id = $1", id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get apparel: %w", err)
	}
	return p, nil
}

// List returns the whole catalog in display order.
func (s *Postgres) List(ctx context.Context) ([]model.Product, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+selectColumns+" FROM apparels ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list apparels: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Count returns the total number of products.
func (s *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM apparels").Scan(&n); err != nil {
		return 0, fmt.Errorf("count apparels: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &p.Fabric, &p.Fit,
		&p.ColorOrPrint, &p.Pattern, &p.SleeveLength, &p.Neckline,
		&p.Length, &p.PantType, &p.AvailableSizes, &p.Style, &p.Occasion,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan apparel: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate apparels: %w", err)
	}
	return products, nil
}
