package core

import (
	"encoding/json"
	"math"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestSalaryCellRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"number", `37000`},
		{"decimal", `37000.5`},
		{"numeric string", `"37000"`},
		{"free text", `"environ 37k"`},
		{"null", `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c SalaryCell
			if err := json.Unmarshal([]byte(tt.json), &c); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			out, err := json.Marshal(c)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(out) != tt.json {
				t.Errorf("round trip changed %s to %s", tt.json, out)
			}
		})
	}
}

func TestSalaryCellValue(t *testing.T) {
	tests := []struct {
		name   string
		cell   SalaryCell
		want   float64
		wantOK bool
	}{
		{"number", NumberCell(37000), 37000, true},
		{"numeric text", TextCell("41000"), 41000, true},
		{"comma decimal", TextCell("37000,50"), 37000.5, true},
		{"empty", SalaryCell{}, 0, false},
		{"blank text", TextCell("   "), 0, false},
		{"garbage", TextCell("abc"), 0, false},
		{"nan text", TextCell("NaN"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.Value()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Value() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSalaryRowJSONFieldNames(t *testing.T) {
	row := SalaryRow{Salary: NumberCell(37000), StartDate: strPtr("01/2020")}
	out, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"Salaire":37000,"Date de début":"01/2020","Date de fin":null}`
	if string(out) != want {
		t.Errorf("got %s, want %s", out, want)
	}
}

func TestParseSalaryRowDates(t *testing.T) {
	tests := []struct {
		date   string
		wantOK bool
	}{
		{"15/06/2020", true},
		{"06/2020", true},
		{"2020", true},
		{"2020-06-15", true},
		{"June 2020", false},
		{"15-06-2020", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			row := SalaryRow{Salary: NumberCell(37000), StartDate: strPtr(tt.date)}
			_, ok := ParseSalaryRow(row)
			if ok != tt.wantOK {
				t.Errorf("date %q: ok = %v, want %v", tt.date, ok, tt.wantOK)
			}
		})
	}
}

func TestParseSalaryRowRejectsInvalidSalary(t *testing.T) {
	tests := []struct {
		name string
		row  SalaryRow
	}{
		{"no salary", SalaryRow{StartDate: strPtr("2020")}},
		{"zero salary", SalaryRow{Salary: NumberCell(0), StartDate: strPtr("2020")}},
		{"negative salary", SalaryRow{Salary: NumberCell(-100), StartDate: strPtr("2020")}},
		{"no date", SalaryRow{Salary: NumberCell(37000)}},
		{"text salary", SalaryRow{Salary: TextCell("beaucoup"), StartDate: strPtr("2020")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ParseSalaryRow(tt.row); ok {
				t.Error("expected row to be rejected")
			}
		})
	}
}

func TestParseSalaryRowsSortsByDate(t *testing.T) {
	rows := []SalaryRow{
		{Salary: NumberCell(45000), StartDate: strPtr("2023")},
		{Salary: NumberCell(37000), StartDate: strPtr("01/2020")},
		{}, // placeholder, dropped
		{Salary: NumberCell(41000), StartDate: strPtr("06/2021")},
	}
	points := ParseSalaryRows(rows)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].Salary != 37000 || points[1].Salary != 41000 || points[2].Salary != 45000 {
		t.Errorf("points not sorted by date: %v", points)
	}
}

func TestMeanGrowthRate(t *testing.T) {
	points := ParseSalaryRows([]SalaryRow{
		{Salary: NumberCell(37000), StartDate: strPtr("2020")},
		{Salary: NumberCell(41000), StartDate: strPtr("2021")},
	})
	rate, ok := MeanGrowthRate(points)
	if !ok {
		t.Fatal("expected a growth rate")
	}
	if math.Abs(rate-0.10810810810810811) > 1e-12 {
		t.Errorf("expected ~0.1081, got %v", rate)
	}
}

func TestMeanGrowthRateNeedsTwoPoints(t *testing.T) {
	if _, ok := MeanGrowthRate(nil); ok {
		t.Error("expected ok=false for no points")
	}
	one := []SalaryPoint{{Salary: 37000}}
	if _, ok := MeanGrowthRate(one); ok {
		t.Error("expected ok=false for one point")
	}
}

func TestPadSalaryRows(t *testing.T) {
	rows := []SalaryRow{{Salary: NumberCell(37000)}}
	padded := PadSalaryRows(rows, MinSalaryRows)
	if len(padded) != MinSalaryRows {
		t.Fatalf("expected %d rows, got %d", MinSalaryRows, len(padded))
	}
	if padded[0].Salary.Raw != "37000" {
		t.Error("existing row lost during padding")
	}
	for i := 1; i < len(padded); i++ {
		if !padded[i].IsEmpty() {
			t.Errorf("row %d should be a placeholder", i)
		}
	}

	long := PadSalaryRows(make([]SalaryRow, 12), MinSalaryRows)
	if len(long) != 12 {
		t.Errorf("padding must never truncate, got %d rows", len(long))
	}
}

func TestCloneSalaryRowsIsolatesPointers(t *testing.T) {
	rows := []SalaryRow{{Salary: NumberCell(37000), StartDate: strPtr("2020")}}
	clone := CloneSalaryRows(rows)
	*clone[0].StartDate = "2099"
	if *rows[0].StartDate != "2020" {
		t.Error("clone shares date pointer with original")
	}
}

func TestDefaultSalaryRowsFreshCopies(t *testing.T) {
	a := DefaultSalaryRows()
	b := DefaultSalaryRows()
	if len(a) == 0 {
		t.Fatal("expected seeded salary rows")
	}
	a[0].Salary = TextCell("mutated")
	if b[0].Salary.Raw == "mutated" {
		t.Error("DefaultSalaryRows returns shared state")
	}
}

func TestDefaultBudgetFreshCopies(t *testing.T) {
	a := DefaultBudget()
	b := DefaultBudget()
	if a.IsZero() {
		t.Fatal("expected seeded budget")
	}
	a.Categories[0].Items[0].Amount = 123456
	if b.Categories[0].Items[0].Amount == 123456 {
		t.Error("DefaultBudget returns shared state")
	}
}
