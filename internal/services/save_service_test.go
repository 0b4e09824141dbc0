package services

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"patrimoine/internal/core"
	"patrimoine/internal/session"
	"patrimoine/internal/storage"
)

type stubLoader struct{}

func (stubLoader) Load() ([]core.SalaryRow, core.Budget) {
	return nil, core.Budget{}
}

func testBudget() core.Budget {
	return core.Budget{Categories: []core.Category{
		{Name: "Logement", Items: []core.BudgetItem{{Name: "Loyer", Amount: 800}}},
	}}
}

func TestSaveCommitsStateAndArchives(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewFileStore(filepath.Join(dir, "save.json"))
	state := session.Restore(stubLoader{}, 8)
	history, err := storage.OpenHistory(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}

	svc := NewSaveService(store, state, history, nil, nil)
	defer func() { _ = svc.Close() }()

	ctx := context.Background()
	doc, err := svc.Save(ctx, nil, testBudget())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if doc.SavedAt == "" {
		t.Error("expected a saved_at stamp")
	}

	_, committed := state.Snapshot()
	if !reflect.DeepEqual(committed, testBudget()) {
		t.Error("state not committed after a successful save")
	}

	snaps, err := svc.RecentSnapshots(ctx, 5)
	if err != nil {
		t.Fatalf("recent snapshots: %v", err)
	}
	if len(snaps) != 1 || snaps[0].SavedAt != doc.SavedAt {
		t.Errorf("expected one archived snapshot, got %v", snaps)
	}
}

func TestSaveFailureLeavesStateUntouched(t *testing.T) {
	dir := t.TempDir()
	// A directory at the save path makes the final rename fail.
	savePath := filepath.Join(dir, "save.json")
	if err := os.Mkdir(savePath, 0755); err != nil {
		t.Fatal(err)
	}

	store := storage.NewFileStore(savePath)
	state := session.Restore(stubLoader{}, 8)
	svc := NewSaveService(store, state, nil, nil, nil)

	_, err := svc.Save(context.Background(), nil, testBudget())
	if err == nil {
		t.Fatal("expected the save to fail")
	}

	_, committed := state.Snapshot()
	if !reflect.DeepEqual(committed, core.DefaultBudget()) {
		t.Error("failed save must not commit the state")
	}
}

func TestRecentSnapshotsWithoutHistory(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "save.json"))
	state := session.Restore(stubLoader{}, 8)
	svc := NewSaveService(store, state, nil, nil, nil)

	snaps, err := svc.RecentSnapshots(context.Background(), 5)
	if err != nil {
		t.Fatalf("recent snapshots: %v", err)
	}
	if snaps == nil || len(snaps) != 0 {
		t.Errorf("expected an empty list, got %v", snaps)
	}
}
