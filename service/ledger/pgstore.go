package ledger

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// PGStore is a Postgres-backed Store. The insert-if-absent guarantee comes
// from INSERT ... ON CONFLICT DO NOTHING on the signature primary key, so
// concurrent webhook deliveries carrying the same signature race safely: the
// database admits exactly one processing entry.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a Store backed by the given connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Migrate creates the ledger schema if it does not exist.
func (s *PGStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to migrate ledger schema: %w", err)
	}
	return nil
}

// Exists reports whether an entry with the signature has ever been recorded.
func (s *PGStore) Exists(ctx context.Context, signature string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM ledger_entries WHERE signature = $1)`,
		signature,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check signature existence: %w", err)
	}
	return exists, nil
}

// Begin inserts a new processing entry if the signature is absent.
func (s *PGStore) Begin(ctx context.Context, entry Entry) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO ledger_entries (signature, nft_id, ts, status, recipient_address, amount, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (signature) DO NOTHING`,
		entry.Signature,
		entry.NFTID,
		entry.Timestamp,
		StatusProcessing,
		entry.RecipientAddress,
		entry.Amount,
		entry.Error,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Finalize moves a processing entry to its terminal status.
func (s *PGStore) Finalize(ctx context.Context, signature string, status string, errMsg *string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE ledger_entries
		 SET status = $2, error = $3, updated_at = now()
		 WHERE signature = $1 AND status = $4`,
		signature, status, errMsg, StatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize ledger entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotProcessing, signature)
	}
	return nil
}

// Get returns the entry for a signature, or nil if absent.
func (s *PGStore) Get(ctx context.Context, signature string) (*Entry, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT signature, nft_id, ts, status, recipient_address, amount, error
		 FROM ledger_entries WHERE signature = $1`,
		signature,
	)
	entry, err := scanEntry(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}
	return entry, nil
}

// List returns entries ordered most recent first.
func (s *PGStore) List(ctx context.Context, limit, offset int32) ([]*Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT signature, nft_id, ts, status, recipient_address, amount, error
		 FROM ledger_entries
		 ORDER BY ts DESC, signature
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var (
		entry Entry
		nftID pgtype.Text
		ts    pgtype.Timestamptz
		errTx pgtype.Text
	)
	if err := row.Scan(&entry.Signature, &nftID, &ts, &entry.Status, &entry.RecipientAddress, &entry.Amount, &errTx); err != nil {
		return nil, err
	}
	if nftID.Valid {
		entry.NFTID = &nftID.String
	}
	entry.Timestamp = ts.Time
	if errTx.Valid {
		entry.Error = &errTx.String
	}
	return &entry, nil
}
