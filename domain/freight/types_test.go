package freight

import (
	"testing"
	"time"
)

func TestDisplay(t *testing.T) {
	cases := []struct {
		in   Value
		want string
	}{
		{nil, ""},
		{"TRUCK - CARGA SECA", "TRUCK - CARGA SECA"},
		{100.0, "100"},
		{0.0, "0"},
		{12.5, "12.50"},
		{12.345, "12.35"},
		{time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC), "2025-03-14"},
	}
	for _, tc := range cases {
		if got := Display(tc.in); got != tc.want {
			t.Errorf("Display(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNumber(t *testing.T) {
	if n, ok := Number(12.5); !ok || n != 12.5 {
		t.Errorf("Number(12.5) = %v, %v", n, ok)
	}
	if n, ok := Number(7); !ok || n != 7 {
		t.Errorf("Number(7) = %v, %v", n, ok)
	}
	if _, ok := Number("12.5"); ok {
		t.Error("strings are not numbers")
	}
	if _, ok := Number(nil); ok {
		t.Error("nil is not a number")
	}
}

func TestSheet_HasColumn(t *testing.T) {
	s := &Sheet{Columns: []string{ColVehicleType, ColKMStart}}
	if !s.HasColumn(ColVehicleType) {
		t.Error("expected column to be present")
	}
	if s.HasColumn(ColDailyCost) {
		t.Error("unexpected column reported present")
	}
}

func TestFilterSelection_CloneIsIndependent(t *testing.T) {
	sel := NewFilterSelection()
	sel.Values[ColVehicleType] = []string{"TRUCK - CARGA SECA"}
	sel.Ranges[ColKMStart] = Range{Min: 0, Max: 100}

	clone := sel.Clone()
	clone.Values[ColVehicleType][0] = "mutated"
	clone.Ranges[ColKMStart] = Range{Min: 5, Max: 5}

	if sel.Values[ColVehicleType][0] != "TRUCK - CARGA SECA" {
		t.Error("clone mutation leaked into original values")
	}
	if sel.Ranges[ColKMStart].Max != 100 {
		t.Error("clone mutation leaked into original ranges")
	}
}

func TestFilterSelection_IsEmpty(t *testing.T) {
	sel := NewFilterSelection()
	if !sel.IsEmpty() {
		t.Error("fresh selection should be empty")
	}
	sel.Values[ColVehicleType] = []string{}
	if !sel.IsEmpty() {
		t.Error("column with zero accepted values does not constrain")
	}
	sel.Ranges[ColKMStart] = Range{Min: 0, Max: 10}
	if sel.IsEmpty() {
		t.Error("range constraint should make the selection non-empty")
	}
}

func TestRange_ContainsInclusive(t *testing.T) {
	r := Range{Min: 100, Max: 200}
	for v, want := range map[float64]bool{99.9: false, 100: true, 150: true, 200: true, 200.1: false} {
		if got := r.Contains(v); got != want {
			t.Errorf("Contains(%v) = %v, want %v", v, got, want)
		}
	}
}
