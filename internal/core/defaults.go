package core

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"

	"patrimoine/assets"
)

type defaultsFile struct {
	InitialSalary []struct {
		Salaire   float64 `toml:"salaire"`
		DateDebut string  `toml:"date_debut"`
		DateFin   string  `toml:"date_fin"`
	} `toml:"initial_salary"`
	Budget []struct {
		Name  string `toml:"name"`
		Items []struct {
			Name   string  `toml:"name"`
			Amount float64 `toml:"amount"`
		} `toml:"items"`
	} `toml:"budget"`
}

var loadDefaults = sync.OnceValue(func() defaultsFile {
	var f defaultsFile
	if err := toml.Unmarshal(assets.DefaultsTOML, &f); err != nil {
		panic(fmt.Sprintf("core: embedded defaults.toml: %v", err))
	}
	return f
})

// DefaultBudget returns a fresh copy of the default budget template.
func DefaultBudget() Budget {
	f := loadDefaults()
	b := Budget{Categories: make([]Category, 0, len(f.Budget))}
	for _, c := range f.Budget {
		cat := Category{Name: c.Name, Items: make([]BudgetItem, 0, len(c.Items))}
		for _, it := range c.Items {
			cat.Items = append(cat.Items, BudgetItem{Name: it.Name, Amount: it.Amount})
		}
		b.Categories = append(b.Categories, cat)
	}
	return b
}

// DefaultSalaryRows returns the seed salary history used when no save exists.
func DefaultSalaryRows() []SalaryRow {
	f := loadDefaults()
	rows := make([]SalaryRow, 0, len(f.InitialSalary))
	for _, r := range f.InitialSalary {
		start, end := r.DateDebut, r.DateFin
		rows = append(rows, SalaryRow{
			Salary:    NumberCell(r.Salaire),
			StartDate: &start,
			EndDate:   &end,
		})
	}
	return rows
}
