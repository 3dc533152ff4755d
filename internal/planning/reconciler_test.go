package planning

import (
	"reflect"
	"testing"

	"github.com/supplyops/planner/internal/domain"
)

func editRow(p domain.Plan, product string, month int, edit func(*domain.PlanRow)) domain.Plan {
	edited := p.Clone()
	for i := range edited {
		if edited[i].Product == product && edited[i].Month == month {
			edit(&edited[i])
		}
	}
	return edited
}

func TestSyncPlanChanges_DemandEditRoundTrip(t *testing.T) {
	table := twoMonthTable()
	stocks := domain.InitialStocks{}

	original := Generate(table, stocks, []string{"P1"})
	edited := editRow(original, "P1", 2, func(r *domain.PlanRow) { r.Demand = 35 })

	SyncPlanChanges(edited, original, table, stocks)

	if table[1].Demand != 35 {
		t.Fatalf("demand edit not written back to table: %+v", table)
	}

	regenerated := Generate(table, stocks, []string{"P1"})
	var feb *domain.PlanRow
	for i := range regenerated {
		if regenerated[i].Month == 2 {
			feb = &regenerated[i]
		}
	}
	if feb == nil || feb.Demand != 35 {
		t.Fatalf("regenerated plan does not carry edited demand: %+v", regenerated)
	}
}

func TestSyncPlanChanges_FirstMonthStockEdit(t *testing.T) {
	table := twoMonthTable()
	stocks := domain.InitialStocks{}

	original := Generate(table, stocks, []string{"P1"})
	edited := editRow(original, "P1", 1, func(r *domain.PlanRow) { r.StockBeginning = 50 })

	SyncPlanChanges(edited, original, table, stocks)

	if stocks["P1"] != 50 {
		t.Fatalf("first-month stock edit not persisted: %+v", stocks)
	}

	regenerated := Generate(table, stocks, []string{"P1"})
	if !almostEqual(regenerated[0].StockBeginning, 50) {
		t.Errorf("regenerated plan ignores edited initial stock: %+v", regenerated[0])
	}
	if reflect.DeepEqual(regenerated, original) {
		t.Error("first-month stock edit must change the roll-forward")
	}
}

func TestSyncPlanChanges_NonFirstMonthStockEditDiscarded(t *testing.T) {
	table := twoMonthTable()
	stocks := domain.InitialStocks{}

	original := Generate(table, stocks, []string{"P1"})
	edited := editRow(original, "P1", 2, func(r *domain.PlanRow) { r.StockBeginning = 999 })

	SyncPlanChanges(edited, original, table, stocks)

	if len(stocks) != 0 {
		t.Fatalf("non-first-month stock edit must not be persisted: %+v", stocks)
	}

	regenerated := Generate(table, stocks, []string{"P1"})
	if !reflect.DeepEqual(regenerated, original) {
		t.Errorf("plan changed after a discarded edit:\n%+v\n%+v", regenerated, original)
	}
}

func TestSyncPlanChanges_UnknownKeySkipped(t *testing.T) {
	table := twoMonthTable()
	stocks := domain.InitialStocks{}

	original := Generate(table, stocks, []string{"P1"})
	edited := original.Clone()
	edited = append(edited, domain.PlanRow{Product: "GHOST", Month: 4, Demand: 77})

	SyncPlanChanges(edited, original, table, stocks)

	if !reflect.DeepEqual(table, twoMonthTable()) {
		t.Errorf("table mutated by a row absent from the original plan: %+v", table)
	}
	if len(stocks) != 0 {
		t.Errorf("stocks mutated by a row absent from the original plan: %+v", stocks)
	}
}

func TestSyncPlanChanges_EmptyPlans(t *testing.T) {
	table := twoMonthTable()
	stocks := domain.InitialStocks{}

	SyncPlanChanges(nil, domain.Plan{{Product: "P1", Month: 1}}, table, stocks)
	SyncPlanChanges(domain.Plan{{Product: "P1", Month: 1}}, nil, table, stocks)

	if !reflect.DeepEqual(table, twoMonthTable()) || len(stocks) != 0 {
		t.Error("empty plans must be a no-op")
	}
}

func TestSyncPlanChanges_UnmappableMonthIsNoOp(t *testing.T) {
	table := domain.DemandTable{
		{Product: "P1", MonthName: "brumaire", Demand: 10, ABCClass: "A"},
	}
	stocks := domain.InitialStocks{}

	// Both plans carry the undefined month 0; the reverse month lookup
	// fails, so the demand edit silently goes nowhere.
	original := domain.Plan{{Product: "P1", Month: 0, Demand: 10}}
	edited := domain.Plan{{Product: "P1", Month: 0, Demand: 99}}

	SyncPlanChanges(edited, original, table, stocks)

	if table[0].Demand != 10 {
		t.Errorf("demand for an unmappable month must stay untouched: %+v", table)
	}
}

func TestSyncPlanChanges_DemandEditTouchesOnlyMatchingProduct(t *testing.T) {
	table := domain.DemandTable{
		{Product: "P1", MonthName: "janvier", Demand: 10, ABCClass: "A"},
		{Product: "P2", MonthName: "janvier", Demand: 10, ABCClass: "A"},
		{Product: "P1", MonthName: "février", Demand: 20, ABCClass: "A"},
		{Product: "P2", MonthName: "février", Demand: 20, ABCClass: "A"},
	}
	stocks := domain.InitialStocks{}

	original := Generate(table, stocks, []string{"P1", "P2"})
	edited := editRow(original, "P2", 1, func(r *domain.PlanRow) { r.Demand = 44 })

	SyncPlanChanges(edited, original, table, stocks)

	if table[0].Demand != 10 || table[1].Demand != 44 {
		t.Errorf("demand edit leaked across products: %+v", table)
	}
}
