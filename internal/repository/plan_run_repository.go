package repository

import (
	"context"

	"github.com/supplyops/planner/internal/domain"
)

// PlanRunRepository records generated plans so a session's planning history
// can be inspected after the fact.
type PlanRunRepository interface {
	SaveRun(ctx context.Context, sessionID string, plan domain.Plan) (int64, error)
	ListRuns(ctx context.Context, sessionID string, limit int) ([]domain.PlanRun, error)
	GetRunRows(ctx context.Context, runID int64) (domain.Plan, error)
}
