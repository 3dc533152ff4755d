package ingest

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const sampleCSV = `Articles,DateDuMois - Mois,UVC_2025,Classification_ABC
P1,janvier,10,A
P1,Février,"20,5",a
P2,mars,,c
,juin,99,A
P3,avril,-4,B
`

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if len(table) != 4 {
		t.Fatalf("expected 4 records (blank product dropped), got %d", len(table))
	}

	if table[0].Product != "P1" || table[0].MonthName != "janvier" || table[0].Demand != 10 || table[0].ABCClass != "A" {
		t.Errorf("unexpected first record: %+v", table[0])
	}
	if table[1].Demand != 20.5 {
		t.Errorf("comma decimal separator not handled: %+v", table[1])
	}
	if table[1].ABCClass != "A" {
		t.Errorf("class not uppercased: %+v", table[1])
	}
	if table[2].Demand != 0 {
		t.Errorf("empty demand must parse as 0: %+v", table[2])
	}
	if table[3].Demand != 0 {
		t.Errorf("negative demand must be clamped to 0: %+v", table[3])
	}
}

func TestReadCSV_MissingColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Articles,UVC_2025\nP1,10\n"))
	if err == nil {
		t.Fatal("expected an error for missing required columns")
	}
	if !strings.Contains(err.Error(), ColMonth) || !strings.Contains(err.Error(), ColABCClass) {
		t.Errorf("error should name the missing columns, got: %v", err)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected an error for an empty file")
	}
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demand.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Articles", "DateDuMois - Mois", "UVC_2025", "Classification_ABC"},
		{"P1", "janvier", 10, "A"},
		{"P1", "février", 20, "A"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("failed to build test workbook: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save test workbook: %v", err)
	}
	f.Close()

	table, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("expected 2 records, got %d", len(table))
	}
	if table[1].Product != "P1" || table[1].MonthName != "février" || table[1].Demand != 20 {
		t.Errorf("unexpected record: %+v", table[1])
	}
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	if _, err := ReadFile("demand.parquet"); err == nil {
		t.Fatal("expected an error for an unsupported file type")
	}
}
