package memory

import (
	"context"
	"sync"

	"squad-backend/application/ports"
	"squad-backend/domain/weekend"
	apperrors "squad-backend/pkg/errors"
)

// WeekendStore is the in-process fallback implementation of
// ports.WeekendStore. Contents live only as long as the process; a restart
// starts empty.
type WeekendStore struct {
	mu      sync.RWMutex
	records map[string]*weekend.Record
}

// NewWeekendStore creates an empty in-memory store.
func NewWeekendStore() *WeekendStore {
	return &WeekendStore{
		records: make(map[string]*weekend.Record),
	}
}

// ListAll snapshots the current records and returns them sorted ascending by
// id. It cannot fail.
func (s *WeekendStore) ListAll(ctx context.Context) ([]weekend.Record, error) {
	s.mu.RLock()
	out := make([]weekend.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	s.mu.RUnlock()

	weekend.SortByID(out)
	return out, nil
}

// UpsertMerge merges the incoming fields into the existing record, or inserts
// the record whole when the id is new.
func (s *WeekendStore) UpsertMerge(ctx context.Context, rec weekend.Record) error {
	if err := rec.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[rec.ID]; ok {
		existing.Merge(rec)
		return nil
	}
	stored := rec.Clone()
	s.records[rec.ID] = &stored
	return nil
}

// InitializeIfEmpty writes the candidate set only when the map is empty. The
// emptiness check and the writes share one critical section, so two
// concurrent initializers can never both write.
func (s *WeekendStore) InitializeIfEmpty(ctx context.Context, records []weekend.Record) (ports.InitResult, error) {
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return "", apperrors.NewValidationError(err.Error())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) > 0 {
		return ports.InitResultAlreadyPopulated, nil
	}
	for _, rec := range records {
		stored := rec.Clone()
		s.records[rec.ID] = &stored
	}
	return ports.InitResultInitialized, nil
}
