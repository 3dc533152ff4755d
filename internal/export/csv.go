package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/supplyops/planner/internal/domain"
)

// Header columns of the exported plan, matching the upstream report layout.
var planHeader = []string{
	"Articles",
	"Month",
	"Stock_Beginning",
	"Demand",
	"Safety_Stock",
	"Order",
	"Stock_Ending",
	"Classification_ABC",
	"Service_Level",
}

// WritePlanCSV serializes a monthly plan as UTF-8 CSV in the plan's current
// sort order. Rounded quantities are rendered with 2 decimals.
func WritePlanCSV(w io.Writer, plan domain.Plan) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(planHeader); err != nil {
		return fmt.Errorf("failed to write plan header: %w", err)
	}

	for _, row := range plan {
		record := []string{
			row.Product,
			strconv.Itoa(row.Month),
			strconv.FormatFloat(row.StockBeginning, 'f', 2, 64),
			strconv.FormatFloat(row.Demand, 'f', -1, 64),
			strconv.FormatFloat(row.SafetyStock, 'f', 2, 64),
			strconv.FormatFloat(row.Order, 'f', 2, 64),
			strconv.FormatFloat(row.StockEnding, 'f', 2, 64),
			row.ABCClass,
			strconv.FormatFloat(row.ServiceLevel, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write plan row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
