package model

import "testing"

func TestInferKinds(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
	}{
		{"", KindEmpty},
		{"   ", KindEmpty},
		{"hello", KindString},
		{"42", KindNumber},
		{"-3.5", KindNumber},
		{"true", KindBool},
		{"FALSE", KindBool},
		{"2023-04-01", KindDate},
		{"01/02/2006", KindDate},
		{"not a date 99", KindString},
	}
	for _, c := range cases {
		got := Infer(c.in)
		if got.Kind != c.want {
			t.Errorf("Infer(%q).Kind = %v, want %v", c.in, got.Kind, c.want)
		}
	}
}

func TestCanonicalNumbersMatch(t *testing.T) {
	a := Infer("1.0")
	b := Infer("1")
	if a.Canonical() != b.Canonical() {
		t.Errorf("canonical mismatch: %q vs %q", a.Canonical(), b.Canonical())
	}
}

func TestRowSignatureDistinguishesOrder(t *testing.T) {
	r1 := []Value{Str("a"), Str("b")}
	r2 := []Value{Str("b"), Str("a")}
	if RowSignature(r1) == RowSignature(r2) {
		t.Fatal("signatures should differ for reordered rows")
	}
	if RowSignature(r1) != RowSignature([]Value{Str("a"), Str("b")}) {
		t.Fatal("signatures should match for equal rows")
	}
}

func TestParseNumericMaybe(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,000", 1000, true},
		{"1,000.5", 1000.5, true},
		{"0,5", 0.5, true},
		{"12%", 12, true},
		{"abc", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumericMaybe(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("ParseNumericMaybe(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}
