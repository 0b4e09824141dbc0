package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"patrimoine/internal/core"

	_ "modernc.org/sqlite"
)

// History keeps an append-only log of every saved snapshot in a local SQLite
// database, so earlier states of the save file can be inspected.
type History struct {
	db *sql.DB
}

// Snapshot is one archived save document.
type Snapshot struct {
	ID        int64            `json:"id"`
	SavedAt   string           `json:"saved_at"`
	Salary    []core.SalaryRow `json:"salary"`
	Budget    core.Budget      `json:"budget"`
	CreatedAt time.Time        `json:"created_at"`
}

func OpenHistory(dbPath string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}

	return &History{db: db}, nil
}

func (h *History) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// Append archives one saved document.
func (h *History) Append(ctx context.Context, doc SaveDocument) error {
	salaryJSON, err := json.Marshal(doc.Salary)
	if err != nil {
		return fmt.Errorf("marshal salary rows: %w", err)
	}
	budgetJSON, err := json.Marshal(doc.Budget)
	if err != nil {
		return fmt.Errorf("marshal budget: %w", err)
	}

	res, err := h.db.ExecContext(ctx,
		`INSERT INTO snapshots (saved_at, salary_json, budget_json) VALUES (?, ?, ?)`,
		doc.SavedAt, string(salaryJSON), string(budgetJSON))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	id, _ := res.LastInsertId()
	slog.InfoContext(ctx, "Snapshot archived",
		"id", id,
		"saved_at", doc.SavedAt,
		"categories", len(doc.Budget.Categories))
	return nil
}

// Recent returns the latest snapshots, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, saved_at, salary_json, budget_json, created_at
		 FROM snapshots ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			snap       Snapshot
			salaryJSON string
			budgetJSON string
			createdAt  string
		)
		if err := rows.Scan(&snap.ID, &snap.SavedAt, &salaryJSON, &budgetJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.CreatedAt = parseTimestamp(createdAt)
		if err := json.Unmarshal([]byte(salaryJSON), &snap.Salary); err != nil {
			return nil, fmt.Errorf("decode snapshot %d salary: %w", snap.ID, err)
		}
		if err := json.Unmarshal([]byte(budgetJSON), &snap.Budget); err != nil {
			return nil, fmt.Errorf("decode snapshot %d budget: %w", snap.ID, err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}

// parseTimestamp reads the sqlite CURRENT_TIMESTAMP text form, falling back
// to RFC 3339. A value in neither form yields the zero time.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
