package model

import (
	"strings"
	"testing"
)

func TestParseDescriptorVariants(t *testing.T) {
	cases := []struct {
		name     string
		json     string
		wantType string
		coord    bool
	}{
		{"fill", `{"type":"fill_missing","sheet":"S","column":"Age","method":"median"}`, "fill_missing", false},
		{"dedupe", `{"type":"remove_duplicates","sheet":"S"}`, "remove_duplicates", false},
		{"dedupe_global", `{"type":"remove_duplicates_global","sheet":"S"}`, "remove_duplicates_global", true},
		{"format", `{"type":"standardize_format","sheet":"S","column":"Email","format":"email"}`, "standardize_format", false},
		{"retype", `{"type":"fix_data_types","sheet":"S","column":"Price","target_type":"number"}`, "fix_data_types", false},
		{"trim", `{"type":"trim_whitespace","sheet":"S","column":"Name"}`, "trim_whitespace", false},
		{"split", `{"type":"split_multi_value","sheet":"S","column":"Tags"}`, "split_multi_value", false},
		{"lookup", `{"type":"create_lookup_table","sheet":"S","columns":["City","Zip"]}`, "create_lookup_table", true},
		{"normalize", `{"type":"normalize_data","sheet":"S","columns":["Dept"]}`, "normalize_data", true},
	}
	for _, c := range cases {
		tr, err := ParseDescriptor([]byte(c.json))
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if tr.Type() != c.wantType {
			t.Errorf("%s: Type() = %q, want %q", c.name, tr.Type(), c.wantType)
		}
		if tr.RequiresCoordination() != c.coord {
			t.Errorf("%s: RequiresCoordination() = %v, want %v", c.name, tr.RequiresCoordination(), c.coord)
		}
		if tr.TargetSheet() != "S" {
			t.Errorf("%s: TargetSheet() = %q", c.name, tr.TargetSheet())
		}
	}
}

func TestParseDescriptorRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		json string
		want string
	}{
		{"unknown type", `{"type":"explode","sheet":"S"}`, "unknown transformation type"},
		{"missing sheet", `{"type":"remove_duplicates"}`, "missing sheet"},
		{"missing column", `{"type":"trim_whitespace","sheet":"S"}`, "missing column"},
		{"bad method", `{"type":"fill_missing","sheet":"S","column":"A","method":"avg"}`, "unknown method"},
		{"bad format", `{"type":"standardize_format","sheet":"S","column":"A","format":"shouty"}`, "unknown format"},
		{"no lookup columns", `{"type":"create_lookup_table","sheet":"S"}`, "missing columns"},
	}
	for _, c := range cases {
		_, err := ParseDescriptor([]byte(c.json))
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Errorf("%s: error %q does not contain %q", c.name, err, c.want)
		}
	}
}

func TestLookupDefaultsNames(t *testing.T) {
	tr, err := ParseDescriptor([]byte(`{"type":"normalize_data","sheet":"Orders","columns":["City"]}`))
	if err != nil {
		t.Fatal(err)
	}
	lk := tr.(ExtractLookup)
	if lk.TableName != "Orders_lookup" {
		t.Errorf("TableName = %q", lk.TableName)
	}
	if lk.RefColumn != "Orders_lookup_id" {
		t.Errorf("RefColumn = %q", lk.RefColumn)
	}
}
