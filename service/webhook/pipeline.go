package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/parchitalabs/mintgate/service/ledger"
	"github.com/parchitalabs/mintgate/service/memo"
	"github.com/parchitalabs/mintgate/service/metrics"
	"github.com/parchitalabs/mintgate/service/mint"
	"github.com/parchitalabs/mintgate/service/nats"
)

const lamportsPerSOL = 1_000_000_000

// errNoMemo is the recorded failure for relevant events that carry no
// decodable memo. The entry is kept for audit but nothing is dispatched.
const errNoMemo = "no memo instruction found; nothing to mint"

// Dispatcher is the mint operation the pipeline drives. Satisfied by
// *mint.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, nftID, recipientAddress string) mint.Result
}

// Pipeline processes webhook batches for one integration. The same pipeline
// is instantiated once per webhook endpoint, differing only in its filter.
type Pipeline struct {
	integration  string
	filter       *Filter
	store        ledger.Store
	dispatcher   Dispatcher
	publisher    nats.Publisher
	targetWallet string
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewPipeline creates a Pipeline. publisher and m may be nil; outcome
// publishing and metrics are then skipped.
func NewPipeline(
	integration string,
	filter *Filter,
	store ledger.Store,
	dispatcher Dispatcher,
	publisher nats.Publisher,
	targetWallet string,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		integration:  integration,
		filter:       filter,
		store:        store,
		dispatcher:   dispatcher,
		publisher:    publisher,
		targetWallet: targetWallet,
		metrics:      m,
		logger:       logger.With("integration", integration),
	}
}

// ProcessBatch runs every event in the batch through the state machine:
// filtered-out, duplicate, or processing followed by exactly one terminal
// transition. A failure on one event never aborts the rest of the batch.
func (p *Pipeline) ProcessBatch(ctx context.Context, events []TransactionEvent) *Summary {
	start := time.Now()
	summary := &Summary{
		ReceivedAt: start.UTC(),
		Received:   len(events),
		Outcomes:   []Outcome{},
	}

	for i := range events {
		event := &events[i]

		if !p.filter.Relevant(event) {
			p.recordEvent("filtered_out")
			continue
		}
		summary.Relevant++

		outcome := p.processEvent(ctx, event, summary)
		summary.Outcomes = append(summary.Outcomes, outcome)
		p.recordEvent(outcome.Status)
	}

	if p.metrics != nil {
		p.metrics.RecordWebhookBatch(p.integration, len(events), time.Since(start).Seconds())
	}

	p.logger.Info("processed webhook batch",
		"received", summary.Received,
		"relevant", summary.Relevant,
		"duplicates", summary.Duplicates,
		"dispatched", summary.Dispatched,
	)
	return summary
}

// processEvent handles a single relevant event and returns its outcome.
func (p *Pipeline) processEvent(ctx context.Context, event *TransactionEvent, summary *Summary) Outcome {
	logger := p.logger.With("signature", event.Signature)

	existsStart := time.Now()
	exists, err := p.store.Exists(ctx, event.Signature)
	p.recordLedgerOp("exists", existsStart, err)
	if err != nil {
		logger.Error("ledger lookup failed", "error", err)
		return Outcome{
			Signature: event.Signature,
			Status:    OutcomeFailed,
			Error:     fmt.Sprintf("ledger lookup failed: %v", err),
		}
	}
	if exists {
		logger.Info("transaction already processed, skipping")
		summary.Duplicates++
		return Outcome{Signature: event.Signature, Status: OutcomeDuplicate}
	}

	nftID := p.extractNFTID(event, logger)
	recipient, amount := p.resolvePayment(event)

	entry := ledger.Entry{
		Signature:        event.Signature,
		NFTID:            nftID,
		Timestamp:        event.Time(),
		Status:           ledger.StatusProcessing,
		RecipientAddress: recipient,
		Amount:           amount,
	}

	beginStart := time.Now()
	inserted, err := p.store.Begin(ctx, entry)
	p.recordLedgerOp("begin", beginStart, err)
	if err != nil {
		logger.Error("failed to record processing entry", "error", err)
		return Outcome{
			Signature: event.Signature,
			NFTID:     nftID,
			Status:    OutcomeFailed,
			Error:     fmt.Sprintf("ledger write failed: %v", err),
		}
	}
	if !inserted {
		// Lost the insert race to a concurrent delivery of the same
		// signature; that delivery owns the dispatch.
		logger.Info("transaction claimed by concurrent delivery, skipping")
		summary.Duplicates++
		return Outcome{Signature: event.Signature, Status: OutcomeDuplicate}
	}

	outcome := Outcome{Signature: event.Signature, NFTID: nftID}

	if nftID == nil {
		logger.Info("relevant transaction has no memo", "recipient", recipient, "amount", amount)
		outcome.Status = OutcomeFailed
		outcome.Error = errNoMemo
	} else {
		summary.Dispatched++
		dispatchStart := time.Now()
		result := p.dispatcher.Dispatch(ctx, *nftID, recipient)
		if p.metrics != nil {
			p.metrics.RecordMintDispatch(resultStatus(result), time.Since(dispatchStart).Seconds())
		}

		if result.Success {
			outcome.Status = OutcomeCompleted
			outcome.Data = result.Data
		} else {
			outcome.Status = OutcomeFailed
			outcome.Error = result.Error
		}
	}

	var errMsg *string
	if outcome.Error != "" {
		errMsg = &outcome.Error
	}
	finalizeStart := time.Now()
	if err := p.store.Finalize(ctx, event.Signature, outcome.Status, errMsg); err != nil {
		p.recordLedgerOp("finalize", finalizeStart, err)
		logger.Error("failed to finalize ledger entry", "status", outcome.Status, "error", err)
	} else {
		p.recordLedgerOp("finalize", finalizeStart, nil)
	}

	entry.Status = outcome.Status
	entry.Error = errMsg
	p.publishOutcome(ctx, &entry)

	logger.Info("processed transaction",
		"status", outcome.Status,
		"nft_id", nftID,
		"recipient", recipient,
		"amount", amount,
	)
	return outcome
}

// extractNFTID scans the event's instructions for the first memo-program
// instruction and decodes its payload. Undecodable memos are treated as no
// memo, per the decoder's never-throws contract.
func (p *Pipeline) extractNFTID(event *TransactionEvent, logger *slog.Logger) *string {
	for _, ins := range event.Instructions {
		if !memo.IsMemoProgram(ins.ProgramID) {
			continue
		}
		decoded, err := memo.Decode(ins.Data)
		if err != nil {
			logger.Debug("failed to decode memo data", "data", ins.Data, "error", err)
			p.recordMemoDecode("error")
			return nil
		}
		if decoded == "" {
			p.recordMemoDecode("empty")
			return nil
		}
		logger.Info("found NFT ID in memo", "nft_id", decoded)
		p.recordMemoDecode("ok")
		return &decoded
	}
	return nil
}

// resolvePayment derives the mint recipient and the SOL amount paid. The
// recipient is the sender of the first native transfer into the target
// wallet, falling back to the fee payer when no such transfer exists. The
// amount is the sum of all transfers into the target wallet in SOL.
func (p *Pipeline) resolvePayment(event *TransactionEvent) (string, float64) {
	recipient := event.FeePayer
	var lamports int64
	found := false

	for _, tr := range event.NativeTransfers {
		if tr.ToUserAccount != p.targetWallet {
			continue
		}
		if !found {
			recipient = tr.FromUserAccount
			found = true
		}
		lamports += tr.Amount
	}

	return recipient, float64(lamports) / lamportsPerSOL
}

func (p *Pipeline) publishOutcome(ctx context.Context, entry *ledger.Entry) {
	if p.publisher == nil {
		return
	}

	subject := fmt.Sprintf("mints.%s", entry.Status)
	start := time.Now()
	err := p.publisher.PublishMintEvent(ctx, nats.FromLedgerEntry(entry))
	if p.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		p.metrics.RecordNATSPublish(subject, status, time.Since(start).Seconds())
	}
	if err != nil {
		// Publishing is best effort; the ledger already holds the truth.
		p.logger.Warn("failed to publish mint event", "signature", entry.Signature, "error", err)
	}
}

func (p *Pipeline) recordLedgerOp(operation string, start time.Time, err error) {
	if p.metrics != nil {
		p.metrics.RecordLedgerOp(operation, time.Since(start).Seconds(), err)
	}
}

func (p *Pipeline) recordEvent(outcome string) {
	if p.metrics != nil {
		p.metrics.RecordWebhookEvent(p.integration, outcome)
	}
}

func (p *Pipeline) recordMemoDecode(status string) {
	if p.metrics != nil {
		p.metrics.RecordMemoDecode(status)
	}
}

func resultStatus(r mint.Result) string {
	if r.Success {
		return "success"
	}
	return "error"
}
