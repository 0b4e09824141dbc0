// Package session owns the process-lifetime dashboard state.
//
// Two layers exist. State holds the long-lived slots seeded from the save
// file at boot; they survive page reloads and change in exactly one place,
// Commit, which the save flow calls after the file write succeeded. Editor is
// the per-view working copy the handlers mutate; every page load re-seeds it
// from State, which is how a reload restores the last saved data without
// restarting the process.
package session

import (
	"log/slog"
	"sync"

	"patrimoine/internal/budget"
	"patrimoine/internal/core"
)

// Loader is the part of the persistence store the boot restore needs.
type Loader interface {
	Load() ([]core.SalaryRow, core.Budget)
}

// State is the pair of long-lived slots: salary history and budget tree.
type State struct {
	mu      sync.RWMutex
	minRows int
	salary  []core.SalaryRow
	budget  core.Budget
}

// Restore builds the boot-time state from the persistence store, substituting
// the seed defaults for an empty history or budget and padding the salary
// table to minRows. Loaded rows are never truncated.
func Restore(store Loader, minRows int) *State {
	if minRows <= 0 {
		minRows = core.MinSalaryRows
	}
	rows, b := store.Load()
	if len(rows) == 0 {
		rows = core.DefaultSalaryRows()
	}
	if b.IsZero() {
		b = core.DefaultBudget()
	}
	rows = core.PadSalaryRows(rows, minRows)

	slog.Info("Session state restored",
		"salary_rows", len(rows),
		"categories", len(b.Categories))
	return &State{minRows: minRows, salary: rows, budget: b}
}

// Snapshot returns padded deep copies of the slots, safe to hand to a view.
func (s *State) Snapshot() ([]core.SalaryRow, core.Budget) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.PadSalaryRows(core.CloneSalaryRows(s.salary), s.minRows), s.budget.Clone()
}

// Commit replaces both slots as one transaction. Only the save flow calls
// this, and only after the file write succeeded.
func (s *State) Commit(rows []core.SalaryRow, b core.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.salary = core.CloneSalaryRows(rows)
	s.budget = b.Clone()
}

// Editor is the working copy behind the editable table and budget panel. One
// mutation turn runs at a time; each method locks for its full duration.
type Editor struct {
	mu    sync.Mutex
	state *State

	salary []core.SalaryRow
	budget core.Budget
}

// NewEditor seeds a fresh working copy from the long-lived slots.
func NewEditor(state *State) *Editor {
	e := &Editor{state: state}
	e.Reload()
	return e
}

// Reload discards the draft and re-seeds it from the committed slots. Called
// for every full page load.
func (e *Editor) Reload() {
	rows, b := e.state.Snapshot()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.salary = rows
	e.budget = b
}

// View returns padded deep copies of the draft.
func (e *Editor) View() ([]core.SalaryRow, core.Budget) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return core.PadSalaryRows(core.CloneSalaryRows(e.salary), e.state.minRows), e.budget.Clone()
}

// SetSalaryRows replaces the draft salary table (cell edits, row deletions).
func (e *Editor) SetSalaryRows(rows []core.SalaryRow) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.salary = core.PadSalaryRows(core.CloneSalaryRows(rows), e.state.minRows)
}

// ApplyBudget runs one engine action against the draft tree and returns the
// resulting tree.
func (e *Editor) ApplyBudget(a budget.Action) core.Budget {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.budget = budget.Apply(&e.budget, a)
	return e.budget.Clone()
}
