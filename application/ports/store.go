package ports

import (
	"context"

	"squad-backend/domain/weekend"
)

// InitResult reports the outcome of a bulk initialization attempt.
type InitResult string

const (
	// InitResultInitialized means the store was empty and the candidate
	// set was written in full.
	InitResultInitialized InitResult = "initialized"

	// InitResultAlreadyPopulated means at least one record already existed
	// and nothing was written.
	InitResultAlreadyPopulated InitResult = "already_populated"
)

// WeekendStore is the persistence contract for weekend records. Both the
// DynamoDB adapter and the in-memory store implement it; the HTTP layer never
// sees which one is active.
type WeekendStore interface {
	// ListAll returns every record ordered ascending by id. It never
	// returns a partial result: either the full set or an error.
	ListAll(ctx context.Context) ([]weekend.Record, error)

	// UpsertMerge writes the record's fields on top of any existing record
	// with the same id, creating the record if absent. Fields not present
	// on the incoming record are left untouched. The record id is
	// required.
	UpsertMerge(ctx context.Context, rec weekend.Record) error

	// InitializeIfEmpty writes the candidate set only when the store holds
	// no records at all. A populated store is left untouched.
	InitializeIfEmpty(ctx context.Context, records []weekend.Record) (InitResult, error)
}

// StorageMode identifies which store implementation was selected at startup.
type StorageMode string

const (
	StorageModeDurable   StorageMode = "durable"
	StorageModeEphemeral StorageMode = "ephemeral"
)

// StorageStatus is the selector's published state. It is built exactly once
// at startup and read-only afterward; the health endpoint reports it without
// touching the store.
type StorageStatus struct {
	Mode StorageMode

	// FallbackReason records why the durable store was rejected when Mode
	// is ephemeral; empty otherwise.
	FallbackReason string
}

// Connected reports whether the process holds a usable store. Only the zero
// value reports false: fallback always lands on the ephemeral store, which
// cannot fail.
func (s StorageStatus) Connected() bool {
	return s.Mode != ""
}

// EventPublisher emits change notifications after successful writes. A nil
// publisher disables events.
type EventPublisher interface {
	PublishRecordUpserted(ctx context.Context, rec weekend.Record) error
	PublishStoreInitialized(ctx context.Context, count int) error
}
