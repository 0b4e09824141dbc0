package services

import (
	"context"
	"fmt"

	"patrimoine/internal/amqp"
	"patrimoine/internal/core"
	applog "patrimoine/internal/log"
	"patrimoine/internal/session"
	"patrimoine/internal/storage"
)

// SaveService runs the save transaction: write the file, then commit the
// long-lived slots, then archive and announce the snapshot. History and AMQP
// are best effort; a failed file write aborts everything and leaves the
// committed state untouched.
type SaveService struct {
	store   *storage.FileStore
	state   *session.State
	history *storage.History // nil when disabled
	events  *amqp.Client     // nil when no broker configured
	logger  *applog.Logger
}

func NewSaveService(store *storage.FileStore, state *session.State, history *storage.History, events *amqp.Client, logger *applog.Logger) *SaveService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &SaveService{
		store:   store,
		state:   state,
		history: history,
		events:  events,
		logger:  logger.WithComponent(applog.ComponentStorage),
	}
}

// Save persists the working state. On success the returned document carries
// the saved_at stamp for user feedback; on failure the error describes the
// underlying cause and nothing was committed.
func (s *SaveService) Save(ctx context.Context, rows []core.SalaryRow, b core.Budget) (storage.SaveDocument, error) {
	doc, err := s.store.Save(rows, b)
	if err != nil {
		s.logger.ErrorContext(ctx, "Save failed, state left unchanged",
			applog.FieldOperation, applog.OpSave,
			applog.FieldSavePath, s.store.Path(),
			applog.FieldError, err)
		return storage.SaveDocument{}, fmt.Errorf("save snapshot: %w", err)
	}

	// The file is the source of truth for the next boot; commit the slots
	// only once it is safely on disk.
	s.state.Commit(doc.Salary, doc.Budget)

	if s.history != nil {
		if err := s.history.Append(ctx, doc); err != nil {
			s.logger.WarnContext(ctx, "Snapshot archive failed",
				applog.FieldOperation, applog.OpArchive,
				applog.FieldError, err)
			// Archive is best effort; the save already succeeded.
		}
	}

	if s.events != nil {
		if err := s.events.PublishSaveEvent(ctx, doc.SavedAt, len(doc.Budget.Categories), doc.Budget.Total()); err != nil {
			s.logger.WarnContext(ctx, "Save event publish failed",
				applog.FieldError, err)
		}
	}

	s.logger.InfoContext(ctx, "Snapshot saved",
		applog.FieldOperation, applog.OpSave,
		applog.FieldSavedAt, doc.SavedAt,
		applog.FieldSalaryRows, len(doc.Salary),
		applog.FieldCategories, len(doc.Budget.Categories))
	return doc, nil
}

// RecentSnapshots lists the latest archived snapshots; an empty list when
// the history is disabled.
func (s *SaveService) RecentSnapshots(ctx context.Context, limit int) ([]storage.Snapshot, error) {
	if s.history == nil {
		return []storage.Snapshot{}, nil
	}
	snaps, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	if snaps == nil {
		snaps = []storage.Snapshot{}
	}
	return snaps, nil
}

// Close releases the optional resources.
func (s *SaveService) Close() error {
	var firstErr error
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			firstErr = err
		}
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
