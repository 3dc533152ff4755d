package domain

import "time"

// SessionState is the long-lived state of one planning session: the demand
// table and initial stocks survive across edit cycles, the plan is fully
// regenerated on every cycle.
type SessionState struct {
	ID               string        `json:"id"`
	DemandData       DemandTable   `json:"demand_data"`
	SelectedProducts []string      `json:"selected_products"`
	InitialStocks    InitialStocks `json:"initial_stocks"`
	Plan             Plan          `json:"plan"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Clone returns a deep copy of the session state.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	out := *s
	out.DemandData = s.DemandData.Clone()
	out.SelectedProducts = append([]string(nil), s.SelectedProducts...)
	out.InitialStocks = s.InitialStocks.Clone()
	out.Plan = s.Plan.Clone()
	return &out
}

// PlanRun is a persisted snapshot of one generated plan, used for run
// history.
type PlanRun struct {
	ID           int64     `json:"id" db:"id"`
	SessionID    string    `json:"session_id" db:"session_id"`
	RowCount     int       `json:"row_count" db:"row_count"`
	ProductCount int       `json:"product_count" db:"product_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
