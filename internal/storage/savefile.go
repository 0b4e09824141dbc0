package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"patrimoine/internal/core"
)

// SaveDocument is the single on-disk snapshot of the dashboard state.
type SaveDocument struct {
	SavedAt string           `json:"saved_at"`
	Salary  []core.SalaryRow `json:"salary"`
	Budget  core.Budget      `json:"budget"`
}

// savedAtLayout matches the historical save files: local time, second
// precision, no zone suffix.
const savedAtLayout = "2006-01-02T15:04:05"

// FileStore reads and writes the JSON save file. The path is fixed for the
// lifetime of the process.
type FileStore struct {
	path string
	now  func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

func (s *FileStore) Path() string { return s.path }

// Load reads the save file. It never fails: a missing, unreadable or
// malformed file yields empty salary rows and the default budget template,
// and a parsed document missing a key gets that key substituted.
func (s *FileStore) Load() ([]core.SalaryRow, core.Budget) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Save file unreadable, using defaults", "path", s.path, "error", err)
		}
		return []core.SalaryRow{}, core.DefaultBudget()
	}

	var doc struct {
		SavedAt string           `json:"saved_at"`
		Salary  []core.SalaryRow `json:"salary"`
		Budget  *core.Budget     `json:"budget"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("Save file malformed, using defaults", "path", s.path, "error", err)
		return []core.SalaryRow{}, core.DefaultBudget()
	}

	rows := doc.Salary
	if rows == nil {
		rows = []core.SalaryRow{}
	}
	budget := core.DefaultBudget()
	if doc.Budget != nil {
		budget = *doc.Budget
	}
	return rows, budget
}

// Save writes the full snapshot, substituting an empty row list and the
// default template for absent inputs, and stamps the current local time. The
// document is written to a temp file and renamed into place so a crash
// mid-write cannot corrupt the previous save.
func (s *FileStore) Save(rows []core.SalaryRow, b core.Budget) (SaveDocument, error) {
	if rows == nil {
		rows = []core.SalaryRow{}
	}
	if b.IsZero() {
		b = core.DefaultBudget()
	}
	doc := SaveDocument{
		SavedAt: s.now().Format(savedAtLayout),
		Salary:  rows,
		Budget:  b,
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return SaveDocument{}, fmt.Errorf("marshal save document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return SaveDocument{}, fmt.Errorf("create save directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".patrimoine-save-*.json")
	if err != nil {
		return SaveDocument{}, fmt.Errorf("create temp save file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return SaveDocument{}, fmt.Errorf("write save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return SaveDocument{}, fmt.Errorf("close save file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return SaveDocument{}, fmt.Errorf("replace save file: %w", err)
	}
	return doc, nil
}
