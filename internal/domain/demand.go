package domain

// DemandRecord is a single row of the normalized demand table: one product,
// one month of forecast demand, and the product's ABC classification.
type DemandRecord struct {
	Product   string  `json:"product"`
	MonthName string  `json:"month_name"`
	Demand    float64 `json:"demand"`
	ABCClass  string  `json:"abc_class"`
}

// Month returns the record's numeric month derived from its localized month
// text, or 0 when the text is not a known month name.
func (r DemandRecord) Month() int {
	return MonthNumber(r.MonthName)
}

// DemandTable is the ordered demand table, conceptually keyed by
// (product, month).
type DemandTable []DemandRecord

// Clone returns a deep copy of the table.
func (t DemandTable) Clone() DemandTable {
	if t == nil {
		return nil
	}
	out := make(DemandTable, len(t))
	copy(out, t)
	return out
}

// Products returns the unique products in first-seen order.
func (t DemandTable) Products() []string {
	seen := make(map[string]struct{}, len(t))
	var products []string
	for _, rec := range t {
		if _, ok := seen[rec.Product]; ok {
			continue
		}
		seen[rec.Product] = struct{}{}
		products = append(products, rec.Product)
	}
	return products
}

// FirstMonth returns the smallest mapped month number among the product's
// rows. Rows with unmappable month text are ignored. Returns 0 when the
// product has no rows with a known month.
func (t DemandTable) FirstMonth(product string) int {
	first := 0
	for _, rec := range t {
		if rec.Product != product {
			continue
		}
		m := rec.Month()
		if m == 0 {
			continue
		}
		if first == 0 || m < first {
			first = m
		}
	}
	return first
}

// InitialStocks maps a product to its stock level at the start of the
// planning horizon. Products without an entry start at 0.
type InitialStocks map[string]float64

// Get returns the initial stock for a product, defaulting to 0.
func (s InitialStocks) Get(product string) float64 {
	return s[product]
}

// Clone returns a copy of the mapping.
func (s InitialStocks) Clone() InitialStocks {
	if s == nil {
		return nil
	}
	out := make(InitialStocks, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
