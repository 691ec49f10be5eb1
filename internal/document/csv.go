package document

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gridmend/gridmend/internal/model"
)

func parseCSV(data []byte, sheetName string, delim rune) (*model.Workbook, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1 // ragged rows are padded by the grid builder
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %v", model.ErrInvalidInput, err)
	}
	wb := model.NewWorkbook()
	sheet := &model.Sheet{Name: sheetName, Grid: gridFromStrings(rows)}
	if err := wb.AddSheet(sheet); err != nil {
		return nil, err
	}
	return wb, nil
}

func writeCSV(wb *model.Workbook, delim rune) ([]byte, error) {
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", model.ErrInvalidInput)
	}
	sheet := wb.Sheets[0]
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delim
	if len(sheet.Header) > 0 {
		if err := w.Write(sheet.Header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	record := make([]string, len(sheet.Header))
	for _, row := range sheet.Rows {
		record = record[:0]
		for _, v := range row {
			record = append(record, v.Raw)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
