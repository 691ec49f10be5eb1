package model

import (
	"strconv"
	"strings"
	"time"
)

// Kind classifies a cell value. Type is inferred per cell; no schema is
// declared up front.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindBool
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	}
	return "unknown"
}

// Value is one cell. Raw keeps the text as read from (or written to) the
// source container; the typed fields are only meaningful for their Kind.
type Value struct {
	Kind Kind
	Raw  string
	Num  float64
	Bool bool
	Time time.Time
}

var dateLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

// Infer builds a Value from raw cell text, detecting number, bool and date
// shapes. Whitespace-only text is an empty cell.
func Infer(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{Kind: KindEmpty, Raw: raw}
	}
	switch strings.ToLower(trimmed) {
	case "true":
		return Value{Kind: KindBool, Raw: raw, Bool: true}
	case "false":
		return Value{Kind: KindBool, Raw: raw, Bool: false}
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Value{Kind: KindNumber, Raw: raw, Num: f}
	}
	if t, ok := ParseTimeMaybe(trimmed); ok {
		return Value{Kind: KindDate, Raw: raw, Time: t}
	}
	return Value{Kind: KindString, Raw: raw}
}

// Str builds a plain string cell without inference. Used by transformations
// that rewrite text and must not accidentally retype the cell.
func Str(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{Kind: KindEmpty, Raw: s}
	}
	return Value{Kind: KindString, Raw: s}
}

// Number builds a numeric cell with a canonical text rendering.
func Number(f float64) Value {
	return Value{Kind: KindNumber, Raw: strconv.FormatFloat(f, 'f', -1, 64), Num: f}
}

// Empty returns the zero cell.
func Empty() Value { return Value{Kind: KindEmpty} }

// IsEmpty reports whether the cell is null, empty, or whitespace-only.
func (v Value) IsEmpty() bool { return v.Kind == KindEmpty }

// Canonical returns a stable serialization used for structural equality of
// rows (duplicate detection). Numbers canonicalize so "1.0" and "1" match.
func (v Value) Canonical() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindBool:
		if v.Bool {
			return "b:true"
		}
		return "b:false"
	case KindDate:
		return "d:" + v.Time.UTC().Format(time.RFC3339)
	}
	return "s:" + v.Raw
}

// ParseTimeMaybe tries a fixed set of common date layouts.
func ParseTimeMaybe(s string) (time.Time, bool) {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumericMaybe is a tolerant numeric parse: strips percent signs,
// non-breaking spaces and common thousands separators before ParseFloat.
func ParseNumericMaybe(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, " ", " ")
	raw = strings.ReplaceAll(raw, " ", "")
	// Keep a single '.' as decimal; treat ',' as thousands unless it is the
	// only separator present.
	if strings.Contains(raw, ",") && !strings.Contains(raw, ".") {
		if strings.Count(raw, ",") == 1 && len(raw)-strings.LastIndex(raw, ",") <= 3 {
			raw = strings.Replace(raw, ",", ".", 1)
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	} else {
		raw = strings.ReplaceAll(raw, ",", "")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// RowSignature canonicalizes an ordered cell sequence for duplicate checks.
func RowSignature(row []Value) string {
	var b strings.Builder
	for i, v := range row {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(v.Canonical())
	}
	return b.String()
}
