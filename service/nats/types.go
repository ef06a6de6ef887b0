package nats

import (
	"time"

	"github.com/parchitalabs/mintgate/service/ledger"
)

// MintEvent represents a mint outcome published to NATS.
// This is published to the subject "mints.{status}" in JetStream.
type MintEvent struct {
	// Transaction identifiers
	Signature string  `json:"signature"`
	NFTID     *string `json:"nft_id,omitempty"`

	// Outcome
	Status string `json:"status"` // processing, completed or failed
	Error  string `json:"error,omitempty"`

	// Payment details
	RecipientAddress string  `json:"recipient_address"`
	Amount           float64 `json:"amount"` // major units (SOL)

	// Timing information
	Timestamp   time.Time `json:"timestamp"`
	PublishedAt time.Time `json:"published_at"`
}

// FromLedgerEntry converts a ledger entry to a MintEvent for publishing.
func FromLedgerEntry(entry *ledger.Entry) *MintEvent {
	event := &MintEvent{
		Signature:        entry.Signature,
		NFTID:            entry.NFTID,
		Status:           entry.Status,
		RecipientAddress: entry.RecipientAddress,
		Amount:           entry.Amount,
		Timestamp:        entry.Timestamp,
		PublishedAt:      time.Now().UTC(),
	}

	if entry.Error != nil {
		event.Error = *entry.Error
	}

	return event
}
