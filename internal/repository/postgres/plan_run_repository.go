package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/supplyops/planner/internal/domain"
)

// Schema:
//
//	CREATE TABLE plan_runs (
//	    id            BIGSERIAL PRIMARY KEY,
//	    session_id    TEXT NOT NULL,
//	    row_count     INT NOT NULL,
//	    product_count INT NOT NULL,
//	    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//
//	CREATE TABLE plan_run_rows (
//	    run_id          BIGINT NOT NULL REFERENCES plan_runs(id) ON DELETE CASCADE,
//	    product         TEXT NOT NULL,
//	    month           INT NOT NULL,
//	    stock_beginning DOUBLE PRECISION NOT NULL,
//	    demand          DOUBLE PRECISION NOT NULL,
//	    safety_stock    DOUBLE PRECISION NOT NULL,
//	    order_qty       DOUBLE PRECISION NOT NULL,
//	    stock_ending    DOUBLE PRECISION NOT NULL,
//	    abc_class       TEXT NOT NULL,
//	    service_level   DOUBLE PRECISION NOT NULL,
//	    PRIMARY KEY (run_id, product, month)
//	);
type PlanRunRepository struct {
	db *DB
}

func NewPlanRunRepository(db *DB) *PlanRunRepository {
	return &PlanRunRepository{db: db}
}

// SaveRun stores a plan snapshot and its rows in one transaction, returning
// the new run id.
func (r *PlanRunRepository) SaveRun(ctx context.Context, sessionID string, plan domain.Plan) (int64, error) {
	products := make(map[string]struct{})
	for _, row := range plan {
		products[row.Product] = struct{}{}
	}

	var runID int64
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		const insertRun = `
			INSERT INTO plan_runs (session_id, row_count, product_count, created_at)
			VALUES ($1, $2, $3, NOW())
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, insertRun, sessionID, len(plan), len(products)).Scan(&runID); err != nil {
			return fmt.Errorf("failed to insert plan run: %w", err)
		}

		const insertRow = `
			INSERT INTO plan_run_rows (
				run_id, product, month, stock_beginning, demand,
				safety_stock, order_qty, stock_ending, abc_class, service_level
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		for _, row := range plan {
			if _, err := tx.ExecContext(ctx, insertRow,
				runID, row.Product, row.Month, row.StockBeginning, row.Demand,
				row.SafetyStock, row.Order, row.StockEnding, row.ABCClass, row.ServiceLevel,
			); err != nil {
				return fmt.Errorf("failed to insert plan run row: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return runID, nil
}

// ListRuns returns the most recent runs for a session, newest first.
func (r *PlanRunRepository) ListRuns(ctx context.Context, sessionID string, limit int) ([]domain.PlanRun, error) {
	if limit <= 0 {
		limit = 20
	}

	const query = `
		SELECT id, session_id, row_count, product_count, created_at
		FROM plan_runs
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	runs := make([]domain.PlanRun, 0)
	if err := r.db.SelectContext(ctx, &runs, query, sessionID, limit); err != nil {
		return nil, fmt.Errorf("failed to list plan runs: %w", err)
	}
	return runs, nil
}

// GetRunRows returns a stored plan in (product, month) order.
func (r *PlanRunRepository) GetRunRows(ctx context.Context, runID int64) (domain.Plan, error) {
	const query = `
		SELECT product, month, stock_beginning, demand, safety_stock,
		       order_qty, stock_ending, abc_class, service_level
		FROM plan_run_rows
		WHERE run_id = $1
		ORDER BY product, month
	`

	rows, err := r.db.QueryxContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan run rows: %w", err)
	}
	defer rows.Close()

	var plan domain.Plan
	for rows.Next() {
		var row domain.PlanRow
		if err := rows.Scan(
			&row.Product, &row.Month, &row.StockBeginning, &row.Demand, &row.SafetyStock,
			&row.Order, &row.StockEnding, &row.ABCClass, &row.ServiceLevel,
		); err != nil {
			return nil, fmt.Errorf("failed to scan plan run row: %w", err)
		}
		plan = append(plan, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plan run rows: %w", err)
	}

	return plan, nil
}
