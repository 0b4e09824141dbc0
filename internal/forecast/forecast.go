// Package forecast computes the numeric series behind the dashboard charts:
// the national salary distribution, the percentile of a given salary, and the
// salary projection with its confidence band. Rendering stays in the browser;
// this package only produces data.
package forecast

import (
	"fmt"
	"math"
	"sync"

	"github.com/BurntSushi/toml"

	"patrimoine/assets"
	"patrimoine/internal/core"
)

// DistributionPoint is one known quantile of the national net-salary
// distribution (France, INSEE 2021).
type DistributionPoint struct {
	Label      string  `toml:"label" json:"label"`
	Salary     float64 `toml:"salary" json:"salary"`
	Proportion float64 `toml:"proportion" json:"proportion"`
}

type distributionFile struct {
	Distribution []DistributionPoint `toml:"distribution"`
	Palette      struct {
		Cycle      []string          `toml:"cycle"`
		Categories map[string]string `toml:"categories"`
	} `toml:"palette"`
}

var loadDistribution = sync.OnceValue(func() distributionFile {
	var f distributionFile
	if err := toml.Unmarshal(assets.DefaultsTOML, &f); err != nil {
		panic(fmt.Sprintf("forecast: embedded defaults.toml: %v", err))
	}
	return f
})

// Distribution returns the known quantiles in ascending salary order.
func Distribution() []DistributionPoint {
	src := loadDistribution().Distribution
	out := make([]DistributionPoint, len(src))
	copy(out, src)
	return out
}

// Percentile estimates the share of the population earning at most the given
// annual net salary, interpolating linearly between the known quantiles. The
// curve is anchored at (0, 0) and saturates at 1 past 1.6x the top quantile.
func Percentile(salary float64) float64 {
	points := loadDistribution().Distribution
	if len(points) == 0 || salary <= 0 {
		return 0
	}
	top := points[len(points)-1]
	xs := make([]float64, 0, len(points)+2)
	ys := make([]float64, 0, len(points)+2)
	xs, ys = append(xs, 0), append(ys, 0)
	for _, p := range points {
		xs, ys = append(xs, p.Salary), append(ys, p.Proportion)
	}
	xs, ys = append(xs, top.Salary*1.6), append(ys, 1)

	if salary >= xs[len(xs)-1] {
		return 1
	}
	for i := 1; i < len(xs); i++ {
		if salary <= xs[i] {
			span := xs[i] - xs[i-1]
			if span <= 0 {
				return ys[i]
			}
			t := (salary - xs[i-1]) / span
			return ys[i-1] + t*(ys[i]-ys[i-1])
		}
	}
	return 1
}

// Projection is the future salary series plus its confidence band. All three
// series share Years; index 0 is the last observed year.
type Projection struct {
	Years   []int     `json:"years"`
	Central []float64 `json:"central"`
	High    []float64 `json:"high"`
	Low     []float64 `json:"low"`
}

// Project compounds the last observed salary over the horizon at growthPct
// per year, with high/low series at growthPct ± confidencePct.
func Project(lastYear int, lastSalary, growthPct float64, horizon int, confidencePct float64) Projection {
	if horizon < 0 {
		horizon = 0
	}
	n := horizon + 1
	p := Projection{
		Years:   make([]int, n),
		Central: make([]float64, n),
		High:    make([]float64, n),
		Low:     make([]float64, n),
	}
	gr := 1 + growthPct/100
	grHigh := 1 + (growthPct+confidencePct)/100
	grLow := 1 + (growthPct-confidencePct)/100
	for i := 0; i < n; i++ {
		p.Years[i] = lastYear + i
		p.Central[i] = lastSalary * math.Pow(gr, float64(i))
		p.High[i] = lastSalary * math.Pow(grHigh, float64(i))
		p.Low[i] = lastSalary * math.Pow(grLow, float64(i))
	}
	return p
}

// ProjectHistory is Project seeded from a parsed salary history; ok is false
// when the history holds no valid observation.
func ProjectHistory(points []core.SalaryPoint, growthPct float64, horizon int, confidencePct float64) (Projection, bool) {
	if len(points) == 0 {
		return Projection{}, false
	}
	last := points[len(points)-1]
	return Project(last.Date.Year(), last.Salary, growthPct, horizon, confidencePct), true
}
