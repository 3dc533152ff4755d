package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/supplyops/planner/internal/domain"
)

func TestWritePlanCSV(t *testing.T) {
	plan := domain.Plan{
		{
			Product:        "P1",
			Month:          1,
			StockBeginning: 0,
			Demand:         10,
			SafetyStock:    16.48,
			Order:          26.48,
			StockEnding:    16.48,
			ABCClass:       "A",
			ServiceLevel:   0.99,
		},
		{
			Product:        "P1",
			Month:          2,
			StockBeginning: 16.48,
			Demand:         20.5,
			SafetyStock:    16.48,
			Order:          20.5,
			StockEnding:    16.48,
			ABCClass:       "A",
			ServiceLevel:   0.99,
		},
	}

	var buf bytes.Buffer
	if err := WritePlanCSV(&buf, plan); err != nil {
		t.Fatalf("WritePlanCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}

	wantHeader := "Articles,Month,Stock_Beginning,Demand,Safety_Stock,Order,Stock_Ending,Classification_ABC,Service_Level"
	if lines[0] != wantHeader {
		t.Errorf("header mismatch:\n got %s\nwant %s", lines[0], wantHeader)
	}
	if lines[1] != "P1,1,0.00,10,16.48,26.48,16.48,A,0.99" {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	if lines[2] != "P1,2,16.48,20.5,16.48,20.50,16.48,A,0.99" {
		t.Errorf("unexpected second row: %s", lines[2])
	}
}

func TestWritePlanCSV_EmptyPlan(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePlanCSV(&buf, nil); err != nil {
		t.Fatalf("WritePlanCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Errorf("empty plan must still emit the header, got %d lines", len(lines))
	}
}
