package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/supplyops/planner/internal/domain"
	"github.com/supplyops/planner/internal/export"
	"github.com/supplyops/planner/internal/planning"
	"github.com/supplyops/planner/internal/repository"
	"github.com/supplyops/planner/internal/session"
	"github.com/supplyops/planner/internal/storage"
)

// ErrValidation marks request errors callers should surface as bad input.
var ErrValidation = errors.New("validation error")

// PlanningService drives the planning loop over session state: every
// mutation loads the session, applies the change, regenerates the plan from
// scratch and saves the result. Cycles within one session are serialized by
// a per-session lock; state in the store is only ever replaced wholesale.
type PlanningService struct {
	sessions session.Store
	runs     repository.PlanRunRepository // optional plan history
	archive  storage.ObjectStorage        // optional export archive

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewPlanningService(sessions session.Store, runs repository.PlanRunRepository, archive storage.ObjectStorage) *PlanningService {
	return &PlanningService{
		sessions: sessions,
		runs:     runs,
		archive:  archive,
		locks:    make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing one session's cycles.
func (s *PlanningService) sessionLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// CreateSession initializes a session from an ingested demand table: all
// products selected, initial stocks at 0, plan computed immediately.
func (s *PlanningService) CreateSession(ctx context.Context, table domain.DemandTable) (*domain.SessionState, error) {
	products := table.Products()

	stocks := make(domain.InitialStocks, len(products))
	for _, p := range products {
		stocks[p] = 0
	}

	now := time.Now().UTC()
	state := &domain.SessionState{
		ID:               uuid.NewString(),
		DemandData:       table.Clone(),
		SelectedProducts: products,
		InitialStocks:    stocks,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	state.Plan = planning.Generate(state.DemandData, state.InitialStocks, state.SelectedProducts)

	if err := s.sessions.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save new session: %w", err)
	}

	s.recordRun(ctx, state)

	log.Info().Str("session", state.ID).Int("products", len(products)).
		Int("plan_rows", len(state.Plan)).Msg("planning session created")

	return state, nil
}

// GetSession returns the current session state.
func (s *PlanningService) GetSession(ctx context.Context, id string) (*domain.SessionState, error) {
	return s.sessions.Get(ctx, id)
}

// DeleteSession ends a session.
func (s *PlanningService) DeleteSession(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// UpdateSelection replaces the ordered product selection and recomputes the
// plan.
func (s *PlanningService) UpdateSelection(ctx context.Context, id string, products []string) (*domain.SessionState, error) {
	return s.mutate(ctx, id, func(state *domain.SessionState) error {
		state.SelectedProducts = append([]string(nil), products...)
		return nil
	})
}

// UpdateInitialStocks merges the given initial stock levels and recomputes
// the plan.
func (s *PlanningService) UpdateInitialStocks(ctx context.Context, id string, stocks map[string]float64) (*domain.SessionState, error) {
	return s.mutate(ctx, id, func(state *domain.SessionState) error {
		for product, qty := range stocks {
			if qty < 0 {
				return fmt.Errorf("%w: initial stock for %s must not be negative", ErrValidation, product)
			}
			state.InitialStocks[product] = qty
		}
		return nil
	})
}

// ReplaceDemandTable swaps in an edited demand table and recomputes the
// plan. Products no longer present are dropped from the selection; new ones
// are appended.
func (s *PlanningService) ReplaceDemandTable(ctx context.Context, id string, table domain.DemandTable) (*domain.SessionState, error) {
	return s.mutate(ctx, id, func(state *domain.SessionState) error {
		state.DemandData = table.Clone()

		present := make(map[string]bool)
		for _, p := range table.Products() {
			present[p] = true
		}
		selected := make([]string, 0, len(state.SelectedProducts))
		chosen := make(map[string]bool)
		for _, p := range state.SelectedProducts {
			if present[p] {
				selected = append(selected, p)
				chosen[p] = true
			}
		}
		for _, p := range table.Products() {
			if !chosen[p] {
				selected = append(selected, p)
			}
		}
		state.SelectedProducts = selected
		return nil
	})
}

// SubmitPlan reconciles an externally edited plan against the session's
// pre-edit plan, pushing demand and first-month stock edits back into the
// demand table and initial stocks, then regenerates the plan.
func (s *PlanningService) SubmitPlan(ctx context.Context, id string, edited domain.Plan) (*domain.SessionState, error) {
	return s.mutate(ctx, id, func(state *domain.SessionState) error {
		planning.SyncPlanChanges(edited, state.Plan, state.DemandData, state.InitialStocks)
		return nil
	})
}

// ExportCSV renders the session's current plan as CSV. When an archive is
// configured the export is also uploaded there, best effort.
func (s *PlanningService) ExportCSV(ctx context.Context, id string) ([]byte, error) {
	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WritePlanCSV(&buf, state.Plan); err != nil {
		return nil, fmt.Errorf("failed to export plan: %w", err)
	}

	if s.archive != nil {
		key := fmt.Sprintf("exports/%s/%s.csv", id, time.Now().UTC().Format("20060102T150405"))
		if err := s.archive.UploadObject(ctx, key, "text/csv", buf.Bytes()); err != nil {
			log.Warn().Err(err).Str("session", id).Msg("plan export archive failed")
		}
	}

	return buf.Bytes(), nil
}

// ListRuns returns the session's persisted plan history. Without a
// configured repository the history is empty.
func (s *PlanningService) ListRuns(ctx context.Context, id string, limit int) ([]domain.PlanRun, error) {
	if s.runs == nil {
		return []domain.PlanRun{}, nil
	}
	return s.runs.ListRuns(ctx, id, limit)
}

// mutate runs one edit cycle: lock the session, load, apply, regenerate,
// save.
func (s *PlanningService) mutate(ctx context.Context, id string, apply func(*domain.SessionState) error) (*domain.SessionState, error) {
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(state); err != nil {
		return nil, err
	}

	state.Plan = planning.Generate(state.DemandData, state.InitialStocks, state.SelectedProducts)
	state.UpdatedAt = time.Now().UTC()

	if err := s.sessions.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.recordRun(ctx, state)

	return state, nil
}

// recordRun persists a plan snapshot when a history repository is
// configured. Failures are logged, not surfaced: history is an accessory to
// the planning loop.
func (s *PlanningService) recordRun(ctx context.Context, state *domain.SessionState) {
	if s.runs == nil {
		return
	}
	if _, err := s.runs.SaveRun(ctx, state.ID, state.Plan); err != nil {
		log.Warn().Err(err).Str("session", state.ID).Msg("failed to record plan run")
	}
}
