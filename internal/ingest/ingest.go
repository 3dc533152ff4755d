package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/supplyops/planner/internal/domain"
)

// Column names expected in uploaded demand files.
const (
	ColProduct  = "Articles"
	ColMonth    = "DateDuMois - Mois"
	ColDemand   = "UVC_2025"
	ColABCClass = "Classification_ABC"
)

var requiredColumns = []string{ColProduct, ColMonth, ColDemand, ColABCClass}

// ReadFile loads a demand table from a local CSV or XLSX file, dispatching
// on the file extension.
func ReadFile(path string) (domain.DemandTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported demand file type: %s", path)
	}
}

// ReadCSV parses a demand table from CSV data.
func ReadCSV(r io.Reader) (domain.DemandTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read demand csv: %w", err)
	}

	return parseRows(records)
}

// ReadXLSX parses a demand table from the first sheet of an XLSX workbook.
func ReadXLSX(path string) (domain.DemandTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}

	return parseRows(rows)
}

// parseRows turns a header row plus data rows into a demand table. All four
// required columns must be present; anything else in the file is ignored.
func parseRows(rows [][]string) (domain.DemandTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("demand file is empty")
	}

	cols, err := locateColumns(rows[0])
	if err != nil {
		return nil, err
	}

	table := make(domain.DemandTable, 0, len(rows)-1)
	for i, row := range rows[1:] {
		get := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		product := get(cols[ColProduct])
		if product == "" {
			continue
		}

		demand, err := parseQuantity(get(cols[ColDemand]))
		if err != nil {
			log.Warn().Int("row", i+2).Str("product", product).Err(err).
				Msg("ingest: unparseable demand, using 0")
			demand = 0
		}
		if demand < 0 {
			log.Warn().Int("row", i+2).Str("product", product).Float64("demand", demand).
				Msg("ingest: negative demand clamped to 0")
			demand = 0
		}

		table = append(table, domain.DemandRecord{
			Product:   product,
			MonthName: get(cols[ColMonth]),
			Demand:    demand,
			ABCClass:  strings.ToUpper(get(cols[ColABCClass])),
		})
	}

	return table, nil
}

// locateColumns maps each required column name to its index in the header.
// A missing column is the one fatal, user-visible input error.
func locateColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(requiredColumns))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return cols, nil
}

// parseQuantity parses a numeric cell, tolerating a comma decimal separator
// and an empty cell (0).
func parseQuantity(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}
