// Package document parses spreadsheet byte buffers into the in-memory
// workbook model and serializes workbooks back to the same container format.
package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gridmend/gridmend/internal/model"
)

// Format identifies a supported container.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// DetectFormat picks a container format from the filename extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	default:
		return "", fmt.Errorf("%w: unsupported file extension %q", model.ErrInvalidInput, filepath.Ext(filename))
	}
}

// Parse reads a document buffer into a workbook. The filename is used only
// for format detection and for naming the single sheet of csv/tsv input.
func Parse(data []byte, filename string) (*model.Workbook, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document buffer", model.ErrInvalidInput)
	}
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return parseXLSX(data)
	case FormatCSV:
		return parseCSV(data, sheetNameFor(filename), ',')
	case FormatTSV:
		return parseCSV(data, sheetNameFor(filename), '\t')
	}
	return nil, fmt.Errorf("%w: unsupported format %q", model.ErrInvalidInput, format)
}

// Write serializes a workbook to the container format implied by filename.
// csv/tsv can hold a single grid, so only the first sheet is written there;
// xlsx carries every sheet including synthesized lookup tables.
func Write(wb *model.Workbook, filename string) ([]byte, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return writeXLSX(wb)
	case FormatCSV:
		return writeCSV(wb, ',')
	case FormatTSV:
		return writeCSV(wb, '\t')
	}
	return nil, fmt.Errorf("%w: unsupported format %q", model.ErrInvalidInput, format)
}

func sheetNameFor(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		return "Sheet1"
	}
	return name
}

// gridFromStrings builds a grid from raw text rows: row 0 is the header,
// short data rows are padded to header width, cell types inferred per cell.
func gridFromStrings(rows [][]string) model.Grid {
	if len(rows) == 0 {
		return model.Grid{}
	}
	header := append([]string(nil), rows[0]...)
	g := model.Grid{Header: header}
	for _, raw := range rows[1:] {
		row := make([]model.Value, 0, len(header))
		for i := 0; i < len(header) && i < len(raw); i++ {
			row = append(row, model.Infer(raw[i]))
		}
		g.Rows = append(g.Rows, model.PadRow(row, len(header)))
	}
	return g
}
