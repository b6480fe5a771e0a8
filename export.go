package infraformat

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// csvDateLayout renders the derived date column in exports.
const csvDateLayout = "2006-01-02"

// ToCSV writes the table as CSV with a header row.
func (t *Table) ToCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("infraformat: csv export: %w", err)
	}
	record := make([]string, len(t.columns))
	for _, row := range t.rows {
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("infraformat: csv export: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV exports the collection's tabular projection to a CSV file.
// The path must end in .csv or .txt.
func (h Holes) WriteCSV(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
	default:
		return fmt.Errorf("%w: %s, use '.csv' or '.txt'", ErrFileExtension, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("infraformat: csv export: %w", err)
	}
	if err := h.Table().ToCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteExcel exports the collection's tabular projection to an Excel
// workbook. The path must end in .xlsx.
func (h Holes) WriteExcel(path string) error {
	if strings.ToLower(filepath.Ext(path)) != ".xlsx" {
		return fmt.Errorf("%w: %s, use '.xlsx'", ErrFileExtension, path)
	}
	table := h.Table()

	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)

	headers := make([]any, len(table.columns))
	for i, name := range table.columns {
		headers[i] = name
	}
	if err := wb.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("infraformat: excel export: %w", err)
	}
	for i, row := range table.rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = excelCell(cell)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("infraformat: excel export: %w", err)
		}
		if err := wb.SetSheetRow(sheet, axis, &cells); err != nil {
			return fmt.Errorf("infraformat: excel export: %w", err)
		}
	}
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("infraformat: excel export: %w", err)
	}
	return nil
}

// formatCell renders one projection cell as CSV text. Absent cells and
// missing numerics render empty.
func formatCell(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		if math.IsNaN(value) {
			return ""
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case time.Time:
		return value.Format(csvDateLayout)
	default:
		return fmt.Sprint(value)
	}
}

// excelCell maps projection cells to excelize values. Missing numerics
// become empty cells rather than NaN, which Excel cannot represent.
func excelCell(v any) any {
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return nil
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(csvDateLayout)
	}
	return v
}
