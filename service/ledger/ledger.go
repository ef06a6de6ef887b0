// Package ledger records which inbound transaction signatures have been seen
// and their processing outcome. The signature is the idempotency key for the
// whole webhook pipeline: a signature present in the ledger, in any status,
// is never reprocessed.
package ledger

import (
	"context"
	"errors"
	"time"
)

// Entry statuses. An entry is created as processing and moves exactly once
// to completed or failed.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ErrCorrupt indicates the backing ledger state could not be parsed.
// Reads recover by treating the ledger as empty; write failures surface.
var ErrCorrupt = errors.New("ledger state is corrupt")

// ErrNotProcessing indicates a finalize targeted a signature with no
// in-flight processing entry.
var ErrNotProcessing = errors.New("no processing entry for signature")

// Entry is one processed-or-processing transaction.
type Entry struct {
	Signature        string    `json:"signature"`
	NFTID            *string   `json:"nftId"`
	Timestamp        time.Time `json:"timestamp"`
	Status           string    `json:"status"`
	RecipientAddress string    `json:"recipientAddress"`
	Amount           float64   `json:"amount"` // major units (SOL)
	Error            *string   `json:"error,omitempty"`
}

// Store is the durable transaction ledger. Implementations must make Begin
// atomic with respect to concurrent calls for the same signature: exactly one
// caller may win the insert. That single guarantee is what makes mint
// dispatch at-most-once under concurrent webhook deliveries.
type Store interface {
	// Exists reports whether an entry with the signature has ever been
	// recorded, regardless of status.
	Exists(ctx context.Context, signature string) (bool, error)

	// Begin inserts a new processing entry if and only if the signature is
	// absent. It returns false with no error when another entry (any
	// status) already holds the signature.
	Begin(ctx context.Context, entry Entry) (bool, error)

	// Finalize moves a processing entry to its terminal status. errMsg is
	// recorded only for failed outcomes. Returns ErrNotProcessing if the
	// signature has no in-flight entry.
	Finalize(ctx context.Context, signature string, status string, errMsg *string) error

	// Get returns the entry for a signature, or nil if absent.
	Get(ctx context.Context, signature string) (*Entry, error)

	// List returns entries ordered most recent first.
	List(ctx context.Context, limit, offset int32) ([]*Entry, error)
}
