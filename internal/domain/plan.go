package domain

// PlanRow is one (product, month) line of the monthly supply plan.
// SafetyStock, Order, StockEnding and the carried StockBeginning are rounded
// to 2 decimals; the rounded ending stock is what rolls into the next month.
type PlanRow struct {
	Product        string  `json:"product"`
	Month          int     `json:"month"`
	StockBeginning float64 `json:"stock_beginning"`
	Demand         float64 `json:"demand"`
	SafetyStock    float64 `json:"safety_stock"`
	Order          float64 `json:"order"`
	StockEnding    float64 `json:"stock_ending"`
	ABCClass       string  `json:"abc_class"`
	ServiceLevel   float64 `json:"service_level"`
}

// PlanKey identifies a plan row; (product, month) pairs are unique within a
// plan.
type PlanKey struct {
	Product string
	Month   int
}

// Plan is the monthly supply plan, sorted by (product, month ascending).
type Plan []PlanRow

// Clone returns a deep copy of the plan.
func (p Plan) Clone() Plan {
	if p == nil {
		return nil
	}
	out := make(Plan, len(p))
	copy(out, p)
	return out
}

// ByKey indexes the plan by (product, month).
func (p Plan) ByKey() map[PlanKey]PlanRow {
	idx := make(map[PlanKey]PlanRow, len(p))
	for _, row := range p {
		idx[PlanKey{Product: row.Product, Month: row.Month}] = row
	}
	return idx
}
