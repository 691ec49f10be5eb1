package model

import (
	"encoding/json"
	"fmt"
)

// Transformation is a tagged variant describing one mutation of a sheet.
// Construction goes through ParseDescriptor or the concrete types directly;
// applying a transformation is an exhaustive switch over these types, so an
// unknown or malformed descriptor is rejected before it reaches a grid.
type Transformation interface {
	// Type returns the wire name of the variant.
	Type() string
	// TargetSheet names the sheet this transformation mutates.
	TargetSheet() string
	// TargetColumn names the column, or "" for row-scoped variants.
	TargetColumn() string
	// RequiresCoordination reports whether correctness depends on state
	// threaded across all chunks of the sheet. Coordinated variants must run
	// sequentially over materialized chunks.
	RequiresCoordination() bool
}

// Fill methods.
const (
	FillMedian = "median"
	FillMean   = "mean"
	FillMode   = "mode"
	FillFixed  = "fixed"
)

// FillMissing replaces empty cells in a column with a computed or fixed value.
type FillMissing struct {
	Sheet  string
	Column string
	Method string
	Fixed  string // used when Method == FillFixed
}

func (t FillMissing) Type() string               { return "fill_missing" }
func (t FillMissing) TargetSheet() string        { return t.Sheet }
func (t FillMissing) TargetColumn() string       { return t.Column }
func (t FillMissing) RequiresCoordination() bool { return false }

// RemoveDuplicates drops repeated rows within one grid, keeping the first
// occurrence of each structurally-equal row.
type RemoveDuplicates struct {
	Sheet string
}

func (t RemoveDuplicates) Type() string               { return "remove_duplicates" }
func (t RemoveDuplicates) TargetSheet() string        { return t.Sheet }
func (t RemoveDuplicates) TargetColumn() string       { return "" }
func (t RemoveDuplicates) RequiresCoordination() bool { return false }

// RemoveDuplicatesGlobal deduplicates across every chunk of a sheet. The set
// of seen row signatures is threaded chunk to chunk, so it is coordinated.
type RemoveDuplicatesGlobal struct {
	Sheet string
}

func (t RemoveDuplicatesGlobal) Type() string               { return "remove_duplicates_global" }
func (t RemoveDuplicatesGlobal) TargetSheet() string        { return t.Sheet }
func (t RemoveDuplicatesGlobal) TargetColumn() string       { return "" }
func (t RemoveDuplicatesGlobal) RequiresCoordination() bool { return true }

// Standardize formats.
const (
	FormatLowercase = "lowercase"
	FormatUppercase = "uppercase"
	FormatTitleCase = "title_case"
	FormatEmail     = "email"
	FormatPhone     = "phone"
)

// StandardizeFormat rewrites string cells in a column to a canonical shape.
type StandardizeFormat struct {
	Sheet  string
	Column string
	Format string
}

func (t StandardizeFormat) Type() string               { return "standardize_format" }
func (t StandardizeFormat) TargetSheet() string        { return t.Sheet }
func (t StandardizeFormat) TargetColumn() string       { return t.Column }
func (t StandardizeFormat) RequiresCoordination() bool { return false }

// Target types for coercion.
const (
	TypeNumber = "number"
	TypeDate   = "date"
	TypeString = "string"
)

// FixDataTypes coerces cells in a column to a target type. Failed coercions
// leave the original value untouched; that is an expected per-cell outcome,
// not an error.
type FixDataTypes struct {
	Sheet      string
	Column     string
	TargetType string
}

func (t FixDataTypes) Type() string               { return "fix_data_types" }
func (t FixDataTypes) TargetSheet() string        { return t.Sheet }
func (t FixDataTypes) TargetColumn() string       { return t.Column }
func (t FixDataTypes) RequiresCoordination() bool { return false }

// TrimWhitespace trims cells in a column and collapses internal whitespace
// runs to a single space.
type TrimWhitespace struct {
	Sheet  string
	Column string
}

func (t TrimWhitespace) Type() string               { return "trim_whitespace" }
func (t TrimWhitespace) TargetSheet() string        { return t.Sheet }
func (t TrimWhitespace) TargetColumn() string       { return t.Column }
func (t TrimWhitespace) RequiresCoordination() bool { return false }

// SplitMultiValue splits a delimited cell into N rows, duplicating the rest
// of the row. Empty Delimiter means the default comma/semicolon/pipe class.
type SplitMultiValue struct {
	Sheet     string
	Column    string
	Delimiter string
}

func (t SplitMultiValue) Type() string               { return "split_multi_value" }
func (t SplitMultiValue) TargetSheet() string        { return t.Sheet }
func (t SplitMultiValue) TargetColumn() string       { return t.Column }
func (t SplitMultiValue) RequiresCoordination() bool { return false }

// Lookup variants. All four share the same mechanics: extract a set of
// columns into an auxiliary sheet keyed by a synthesized id and replace them
// in the source with a single reference column.
const (
	LookupVariantLookupTable  = "create_lookup_table"
	LookupVariantNormalize    = "normalize_data"
	LookupVariantTransitive   = "remove_transitive_dependencies"
	LookupVariantRepeatGroups = "split_repeating_groups"
)

// ExtractLookup builds an auxiliary lookup sheet from a set of columns.
// Id generation threads one counter across every chunk of the sheet, so it
// is coordinated.
type ExtractLookup struct {
	Sheet     string
	Columns   []string
	TableName string
	RefColumn string
	Variant   string
}

func (t ExtractLookup) Type() string               { return t.Variant }
func (t ExtractLookup) TargetSheet() string        { return t.Sheet }
func (t ExtractLookup) TargetColumn() string       { return "" }
func (t ExtractLookup) RequiresCoordination() bool { return true }

// DescriptorFields is the wire shape produced by recommendation generators.
type DescriptorFields struct {
	Type       string   `json:"type"`
	Sheet      string   `json:"sheet"`
	Column     string   `json:"column,omitempty"`
	Method     string   `json:"method,omitempty"`
	Value      string   `json:"value,omitempty"`
	Format     string   `json:"format,omitempty"`
	TargetType string   `json:"target_type,omitempty"`
	Delimiter  string   `json:"delimiter,omitempty"`
	Columns    []string `json:"columns,omitempty"`
	TableName  string   `json:"table_name,omitempty"`
	RefColumn  string   `json:"ref_column,omitempty"`
}

// ParseDescriptor validates a JSON descriptor and constructs the matching
// variant. Unknown types and missing required fields fail here, not at apply
// time.
func ParseDescriptor(data []byte) (Transformation, error) {
	var raw DescriptorFields
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode descriptor: %w", err)
	}
	return DescriptorFromFields(raw)
}

// DescriptorFromFields builds a Transformation from already-decoded fields.
func DescriptorFromFields(raw DescriptorFields) (Transformation, error) {
	if raw.Sheet == "" {
		return nil, fmt.Errorf("descriptor %q: missing sheet", raw.Type)
	}
	needColumn := func() error {
		if raw.Column == "" {
			return fmt.Errorf("descriptor %q: missing column", raw.Type)
		}
		return nil
	}
	switch raw.Type {
	case "fill_missing":
		if err := needColumn(); err != nil {
			return nil, err
		}
		switch raw.Method {
		case FillMedian, FillMean, FillMode, FillFixed:
		case "":
			raw.Method = FillMode
		default:
			return nil, fmt.Errorf("fill_missing: unknown method %q", raw.Method)
		}
		return FillMissing{Sheet: raw.Sheet, Column: raw.Column, Method: raw.Method, Fixed: raw.Value}, nil
	case "remove_duplicates":
		return RemoveDuplicates{Sheet: raw.Sheet}, nil
	case "remove_duplicates_global":
		return RemoveDuplicatesGlobal{Sheet: raw.Sheet}, nil
	case "standardize_format":
		if err := needColumn(); err != nil {
			return nil, err
		}
		switch raw.Format {
		case FormatLowercase, FormatUppercase, FormatTitleCase, FormatEmail, FormatPhone:
		default:
			return nil, fmt.Errorf("standardize_format: unknown format %q", raw.Format)
		}
		return StandardizeFormat{Sheet: raw.Sheet, Column: raw.Column, Format: raw.Format}, nil
	case "fix_data_types":
		if err := needColumn(); err != nil {
			return nil, err
		}
		switch raw.TargetType {
		case TypeNumber, TypeDate, TypeString:
		default:
			return nil, fmt.Errorf("fix_data_types: unknown target type %q", raw.TargetType)
		}
		return FixDataTypes{Sheet: raw.Sheet, Column: raw.Column, TargetType: raw.TargetType}, nil
	case "trim_whitespace":
		if err := needColumn(); err != nil {
			return nil, err
		}
		return TrimWhitespace{Sheet: raw.Sheet, Column: raw.Column}, nil
	case "split_multi_value":
		if err := needColumn(); err != nil {
			return nil, err
		}
		return SplitMultiValue{Sheet: raw.Sheet, Column: raw.Column, Delimiter: raw.Delimiter}, nil
	case LookupVariantLookupTable, LookupVariantNormalize, LookupVariantTransitive, LookupVariantRepeatGroups:
		if len(raw.Columns) == 0 {
			return nil, fmt.Errorf("%s: missing columns", raw.Type)
		}
		table := raw.TableName
		if table == "" {
			table = raw.Sheet + "_lookup"
		}
		ref := raw.RefColumn
		if ref == "" {
			ref = table + "_id"
		}
		return ExtractLookup{Sheet: raw.Sheet, Columns: raw.Columns, TableName: table, RefColumn: ref, Variant: raw.Type}, nil
	default:
		return nil, fmt.Errorf("unknown transformation type %q", raw.Type)
	}
}
