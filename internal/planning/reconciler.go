package planning

import (
	"strings"

	"github.com/supplyops/planner/internal/domain"
)

// SyncPlanChanges diffs an externally edited plan against its pre-edit
// snapshot and pushes the detected edits back into the source data:
//
//   - an edited Demand overwrites the demand of the table rows whose
//     localized month text matches the row's month;
//   - an edited StockBeginning is persisted to the product's initial stock,
//     but only when the row is the product's first month (smallest mapped
//     month across its demand rows). Beginning-stock edits on later months
//     have no persisted effect and disappear on the next regeneration.
//
// Edited rows whose (product, month) key is absent from the original plan
// are skipped, as are rows whose month has no localized name. The function
// is the sole writer of the demand table and initial stocks; its effect is
// entirely through mutation of those two arguments.
func SyncPlanChanges(edited, original domain.Plan, table domain.DemandTable, stocks domain.InitialStocks) {
	if len(edited) == 0 || len(original) == 0 {
		return
	}

	originalByKey := original.ByKey()

	for _, row := range edited {
		orig, ok := originalByKey[domain.PlanKey{Product: row.Product, Month: row.Month}]
		if !ok {
			continue
		}

		if row.Demand != orig.Demand {
			if name := domain.MonthName(row.Month); name != "" {
				for i := range table {
					if table[i].Product != row.Product {
						continue
					}
					if strings.ToLower(strings.TrimSpace(table[i].MonthName)) != name {
						continue
					}
					table[i].Demand = row.Demand
				}
			}
		}

		if row.StockBeginning != orig.StockBeginning {
			if first := table.FirstMonth(row.Product); first != 0 && row.Month == first {
				stocks[row.Product] = row.StockBeginning
			}
		}
	}
}
