package postgres

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"liquidityPool/internal/model"
)

// Schema creates the journal tables when they are missing.
const Schema = `
CREATE TABLE IF NOT EXISTS pools (
	pool_address TEXT PRIMARY KEY,
	token0 TEXT NOT NULL,
	token1 TEXT NOT NULL,
	claim_supply NUMERIC(20,0) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS pool_operations (
	id BIGSERIAL PRIMARY KEY,
	op TEXT NOT NULL,
	caller TEXT NOT NULL,
	pool_address TEXT,
	amount0 NUMERIC(20,0) NOT NULL,
	amount1 NUMERIC(20,0) NOT NULL,
	in0 BOOLEAN NOT NULL,
	claim NUMERIC(20,0) NOT NULL,
	claim_supply NUMERIC(20,0) NOT NULL,
	admin TEXT,
	executed_at TIMESTAMPTZ NOT NULL
);`

// Store provides Postgres persistence for the operation journal.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate applies Schema.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	return err
}

// PutOperationBatch inserts the records and upserts the claim supply of every
// pool they touch, in one batch.
func (s *Store) PutOperationBatch(ctx context.Context, records []model.OperationRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	queued := 0
	for _, r := range records {
		executedAt, err := parseTimestamp(r.Timestamp)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO pool_operations (
				op, caller, pool_address, amount0, amount1, in0, claim, claim_supply, admin, executed_at
			) VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, NULLIF($9, ''), $10)
		`,
			r.Op,
			r.Caller,
			r.Pool,
			numeric(r.Amount0),
			numeric(r.Amount1),
			r.In0,
			numeric(r.Claim),
			numeric(r.ClaimSupply),
			r.Admin,
			executedAt,
		)
		queued++

		if r.Pool == "" {
			continue
		}
		batch.Queue(`
			INSERT INTO pools (
				pool_address, token0, token1, claim_supply, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (pool_address)
			DO UPDATE SET
				claim_supply = EXCLUDED.claim_supply,
				updated_at = EXCLUDED.updated_at
		`,
			r.Pool,
			r.Token0,
			r.Token1,
			numeric(r.ClaimSupply),
			executedAt,
		)
		queued++
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < queued; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// numeric encodes a uint64 for NUMERIC(20,0) columns; values above
// math.MaxInt64 do not fit BIGINT.
func numeric(v uint64) pgtype.Numeric {
	return pgtype.Numeric{Int: new(big.Int).SetUint64(v), Valid: true}
}

func parseTimestamp(ts string) (time.Time, error) {
	if ts == "" {
		return time.Now().UTC(), nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse record timestamp: %w", err)
	}
	return parsed, nil
}
