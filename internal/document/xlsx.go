package document

import (
	"bytes"
	"fmt"

	"github.com/gridmend/gridmend/internal/model"
	"github.com/xuri/excelize/v2"
)

func parseXLSX(data []byte) (*model.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open xlsx: %v", model.ErrInvalidInput, err)
	}
	defer f.Close()

	wb := model.NewWorkbook()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheet := &model.Sheet{Name: name, Grid: gridFromStrings(rows)}
		if err := wb.AddSheet(sheet); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

func writeXLSX(wb *model.Workbook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", sheet.Name, err)
		}
		if len(sheet.Header) > 0 {
			if err := setRow(f, sheet.Name, 1, headerCells(sheet.Header)); err != nil {
				return nil, err
			}
		}
		for r, row := range sheet.Rows {
			if err := setRow(f, sheet.Name, r+2, valueCells(row)); err != nil {
				return nil, err
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d of %q: %w", rowNum, sheet, err)
	}
	return nil
}

func headerCells(header []string) []interface{} {
	out := make([]interface{}, len(header))
	for i, h := range header {
		out[i] = h
	}
	return out
}

// valueCells renders typed cells for excelize, keeping numbers numeric so
// the output workbook round-trips values instead of text.
func valueCells(row []model.Value) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		switch v.Kind {
		case model.KindEmpty:
			out[i] = nil
		case model.KindNumber:
			out[i] = v.Num
		case model.KindBool:
			out[i] = v.Raw
		default:
			out[i] = v.Raw
		}
	}
	return out
}
