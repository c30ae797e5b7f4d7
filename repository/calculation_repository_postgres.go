package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"financial-calc/domain"
)

const createCalculationsTable = `
CREATE TABLE IF NOT EXISTS calculations (
	id         uuid PRIMARY KEY,
	function   text NOT NULL,
	inputs     jsonb NOT NULL,
	value      double precision,
	raw        text NOT NULL,
	finite     boolean NOT NULL,
	display    text NOT NULL DEFAULT '',
	residual   double precision,
	created_at timestamptz NOT NULL
)`

// CalculationRepositoryPostgres stores calculations in a PostgreSQL table.
type CalculationRepositoryPostgres struct {
	pool *pgxpool.Pool
}

// NewCalculationRepositoryPostgres opens a connection pool for databaseURL.
func NewCalculationRepositoryPostgres(ctx context.Context, databaseURL string) (*CalculationRepositoryPostgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &CalculationRepositoryPostgres{pool: pool}, nil
}

// EnsureSchema creates the calculations table if it does not exist.
func (r *CalculationRepositoryPostgres) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createCalculationsTable); err != nil {
		return fmt.Errorf("failed to create calculations table: %w", err)
	}
	return nil
}

func (r *CalculationRepositoryPostgres) Save(ctx context.Context, calc domain.Calculation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO calculations (id, function, inputs, value, raw, finite, display, residual, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		calc.ID.String(),
		string(calc.Function),
		string(calc.Inputs),
		calc.Value,
		calc.Raw,
		calc.Finite,
		calc.Display,
		calc.Residual,
		calc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert calculation: %w", err)
	}
	return nil
}

func (r *CalculationRepositoryPostgres) Recent(ctx context.Context, limit int) ([]domain.Calculation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, function, inputs, value, raw, finite, display, residual, created_at
		FROM calculations
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations: %w", err)
	}
	defer rows.Close()

	out := []domain.Calculation{}
	for rows.Next() {
		var (
			calc     domain.Calculation
			id       string
			function string
			inputs   []byte
		)
		if err := rows.Scan(&id, &function, &inputs, &calc.Value, &calc.Raw, &calc.Finite, &calc.Display, &calc.Residual, &calc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		if calc.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid calculation id %q: %w", id, err)
		}
		calc.Function = domain.Function(function)
		calc.Inputs = inputs
		out = append(out, calc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read calculations: %w", err)
	}
	return out, nil
}

// Close releases the connection pool.
func (r *CalculationRepositoryPostgres) Close() {
	r.pool.Close()
}
