package core

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MinSalaryRows is the minimum number of rows the salary table shows. Loaded
// histories shorter than this are padded with empty rows, never truncated.
const MinSalaryRows = 8

// SalaryRow mirrors one row of the salary history table. The JSON field names
// are the historical French column ids of the save file and must round-trip
// exactly. The salary cell is free text in the UI, so it may arrive as a JSON
// number or as a numeric string.
type SalaryRow struct {
	Salary    SalaryCell `json:"Salaire"`
	StartDate *string    `json:"Date de début"`
	EndDate   *string    `json:"Date de fin"`
}

// SalaryCell holds a possibly-absent salary value without deciding yet
// whether it is valid. Raw keeps what the user typed and Text remembers
// whether it arrived as a JSON string, so a saved row round-trips unchanged.
type SalaryCell struct {
	Raw     string
	Defined bool
	Text    bool
}

// NumberCell builds a defined cell from a numeric value.
func NumberCell(v float64) SalaryCell {
	return SalaryCell{Raw: strconv.FormatFloat(v, 'f', -1, 64), Defined: true}
}

// TextCell builds a defined cell from free text.
func TextCell(s string) SalaryCell {
	return SalaryCell{Raw: s, Defined: true, Text: true}
}

// Value parses the cell as a number. ok is false for empty or non-numeric text.
func (c SalaryCell) Value() (float64, bool) {
	s := strings.TrimSpace(c.Raw)
	if !c.Defined || s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (c SalaryCell) MarshalJSON() ([]byte, error) {
	if !c.Defined {
		return []byte("null"), nil
	}
	if c.Text {
		return json.Marshal(c.Raw)
	}
	var n json.Number
	if err := json.Unmarshal([]byte(c.Raw), &n); err == nil {
		return []byte(n.String()), nil
	}
	return json.Marshal(c.Raw)
}

func (c *SalaryCell) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*c = SalaryCell{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = SalaryCell{Raw: s, Defined: true, Text: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*c = SalaryCell{Raw: n.String(), Defined: true}
		return nil
	}
	// Anything else (bool, object...) degrades to an empty cell.
	*c = SalaryCell{}
	return nil
}

// IsEmpty reports whether the row is a pure placeholder.
func (r SalaryRow) IsEmpty() bool {
	return !r.Salary.Defined && r.StartDate == nil && r.EndDate == nil
}

// EmptySalaryRow is the placeholder appended when padding the table.
func EmptySalaryRow() SalaryRow {
	return SalaryRow{}
}

// PadSalaryRows appends placeholder rows until the slice holds at least min
// entries. Existing rows are copied as-is and never removed.
func PadSalaryRows(rows []SalaryRow, min int) []SalaryRow {
	out := make([]SalaryRow, 0, max(len(rows), min))
	out = append(out, rows...)
	for len(out) < min {
		out = append(out, EmptySalaryRow())
	}
	return out
}

// CloneSalaryRows deep-copies the rows, including the date pointers, so the
// copy can be handed across a state boundary safely.
func CloneSalaryRows(rows []SalaryRow) []SalaryRow {
	if rows == nil {
		return nil
	}
	out := make([]SalaryRow, len(rows))
	for i, r := range rows {
		out[i] = r
		if r.StartDate != nil {
			v := *r.StartDate
			out[i].StartDate = &v
		}
		if r.EndDate != nil {
			v := *r.EndDate
			out[i].EndDate = &v
		}
	}
	return out
}

// SalaryPoint is one validated observation of the salary history.
type SalaryPoint struct {
	Salary float64
	Date   time.Time
}

// salaryDateLayouts are tried in order; the first match wins.
var salaryDateLayouts = []string{"02/01/2006", "01/2006", "2006", "2006-01-02"}

// ParseSalaryRow validates a single table row. ok is false when the salary is
// missing, non-numeric or non-positive, or when no date layout matches.
func ParseSalaryRow(row SalaryRow) (SalaryPoint, bool) {
	salary, ok := row.Salary.Value()
	if !ok || salary <= 0 {
		return SalaryPoint{}, false
	}
	if row.StartDate == nil {
		return SalaryPoint{}, false
	}
	raw := strings.TrimSpace(*row.StartDate)
	if raw == "" {
		return SalaryPoint{}, false
	}
	for _, layout := range salaryDateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return SalaryPoint{Salary: salary, Date: d}, true
		}
	}
	return SalaryPoint{}, false
}

// ParseSalaryRows keeps the valid rows and returns them sorted by date
// ascending. Rows that fail to parse are dropped silently; an input with no
// valid row yields nil.
func ParseSalaryRows(rows []SalaryRow) []SalaryPoint {
	var points []SalaryPoint
	for _, row := range rows {
		if p, ok := ParseSalaryRow(row); ok {
			points = append(points, p)
		}
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// MeanGrowthRate is the geometric mean year-over-year growth between the
// first and last observations: (last/first)^(1/(n-1)) - 1. ok is false with
// fewer than two points or a non-positive first salary.
func MeanGrowthRate(points []SalaryPoint) (float64, bool) {
	if len(points) < 2 || points[0].Salary <= 0 {
		return 0, false
	}
	n := float64(len(points) - 1)
	return math.Pow(points[len(points)-1].Salary/points[0].Salary, 1/n) - 1, true
}
