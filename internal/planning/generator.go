package planning

import (
	"sort"

	"github.com/supplyops/planner/internal/domain"
)

// Generate computes the monthly supply plan for the selected products.
//
// For each selected product the demand rows are ordered by their derived
// month and rolled forward from the product's initial stock:
//
//	order       = max(0, demand + safetyStock - stockBeginning)
//	stockEnding = stockBeginning + order - demand
//
// Safety stock is constant per product: z(serviceLevel) times the sample
// standard deviation of the product's whole demand series. All quantities
// are rounded to 2 decimals and the rounded ending stock is the beginning
// stock of the next month, so displayed and carried values never diverge.
//
// Generate never mutates its inputs and never fails: an empty selection,
// an empty table, or a selected product without demand rows simply
// contribute no rows.
func Generate(table domain.DemandTable, stocks domain.InitialStocks, selectedProducts []string) domain.Plan {
	byProduct := make(map[string]domain.DemandTable, len(selectedProducts))
	selected := make(map[string]struct{}, len(selectedProducts))
	for _, p := range selectedProducts {
		selected[p] = struct{}{}
	}
	for _, rec := range table {
		if _, ok := selected[rec.Product]; !ok {
			continue
		}
		byProduct[rec.Product] = append(byProduct[rec.Product], rec)
	}

	var plan domain.Plan
	for _, product := range selectedProducts {
		rows := byProduct[product]
		if len(rows) == 0 {
			continue
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Month() < rows[j].Month()
		})

		// Classification is assumed constant per product.
		serviceLevel := ServiceLevelFor(rows[0].ABCClass)

		series := make([]float64, len(rows))
		for i, rec := range rows {
			series[i] = rec.Demand
		}
		safetyStock := roundFloat(SafetyStock(DemandStd(series), serviceLevel), 2)

		stock := stocks.Get(product)
		for _, rec := range rows {
			order := rec.Demand + safetyStock - stock
			if order < 0 {
				order = 0
			}
			order = roundFloat(order, 2)
			ending := roundFloat(stock+order-rec.Demand, 2)

			plan = append(plan, domain.PlanRow{
				Product:        product,
				Month:          rec.Month(),
				StockBeginning: stock,
				Demand:         rec.Demand,
				SafetyStock:    safetyStock,
				Order:          order,
				StockEnding:    ending,
				ABCClass:       rows[0].ABCClass,
				ServiceLevel:   serviceLevel,
			})

			stock = ending
		}
	}

	sort.SliceStable(plan, func(i, j int) bool {
		if plan[i].Product != plan[j].Product {
			return plan[i].Product < plan[j].Product
		}
		return plan[i].Month < plan[j].Month
	})

	return plan
}
