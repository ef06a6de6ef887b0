// Package webhook implements the ingestion pipeline for on-chain transaction
// events delivered by the RPC provider. Each batch is deduplicated against the
// ledger, filtered for relevance, mined for a memo-borne NFT ID and driven
// through a one-shot mint dispatch per qualifying signature.
package webhook

import (
	"encoding/json"
	"time"
)

// AccountData is one balance-change record inside a TransactionEvent.
type AccountData struct {
	Account             string            `json:"account"`
	NativeBalanceChange int64             `json:"nativeBalanceChange"`
	TokenBalanceChanges []json.RawMessage `json:"tokenBalanceChanges"`
}

// NativeTransfer is a single SOL movement inside a transaction, denominated
// in lamports.
type NativeTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	Amount          int64  `json:"amount"`
}

// Instruction is one program invocation inside a transaction.
type Instruction struct {
	Accounts  []string `json:"accounts"`
	Data      string   `json:"data"`
	ProgramID string   `json:"programId"`
}

// TransactionEvent mirrors the enhanced transaction payload posted by the
// webhook provider (Helius-style). Fields we never inspect are kept loose so
// unexpected payload growth does not break parsing.
type TransactionEvent struct {
	Signature       string           `json:"signature"`
	Timestamp       int64            `json:"timestamp"`
	FeePayer        string           `json:"feePayer"`
	Description     string           `json:"description,omitempty"`
	Slot            uint64           `json:"slot,omitempty"`
	Source          string           `json:"source,omitempty"`
	Type            string           `json:"type,omitempty"`
	Fee             int64            `json:"fee,omitempty"`
	AccountData     []AccountData    `json:"accountData"`
	NativeTransfers []NativeTransfer `json:"nativeTransfers"`
	Instructions    []Instruction    `json:"instructions"`
}

// Time converts the event's unix timestamp to a UTC time.
func (e *TransactionEvent) Time() time.Time {
	return time.Unix(e.Timestamp, 0).UTC()
}

// Event outcome statuses reported in a batch Summary. Completed and failed
// mirror the ledger statuses; duplicate marks a signature skipped because it
// was already recorded.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeDuplicate = "duplicate"
)

// Outcome is the per-signature result of processing one relevant event.
type Outcome struct {
	Signature string          `json:"signature"`
	NFTID     *string         `json:"nftId"`
	Status    string          `json:"status"`
	Error     string          `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Summary aggregates the result of processing one webhook batch.
type Summary struct {
	ReceivedAt time.Time `json:"receivedAt"`
	Received   int       `json:"received"`
	Relevant   int       `json:"relevant"`
	Duplicates int       `json:"duplicates"`
	Dispatched int       `json:"dispatched"`
	Outcomes   []Outcome `json:"outcomes"`
}
