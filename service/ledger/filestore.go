package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// fileDocument is the persisted shape of the file-backed ledger.
type fileDocument struct {
	Transactions []Entry `json:"transactions"`
}

// FileStore is a Store persisted as a single JSON document. Every operation
// is a full load-modify-persist; a mutex serializes them so two concurrent
// webhook deliveries cannot both observe a signature as absent. This is the
// single-writer variant of the dedupe guarantee; deployments with a database
// use PGStore instead.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewFileStore creates a Store backed by the JSON document at path.
// The file is created on first write.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// load reads the full document. A missing or unparseable file is treated as
// an empty ledger so a fresh deployment can bootstrap; parse failures are
// logged and reported via ErrCorrupt for callers that care.
func (s *FileStore) load() (*fileDocument, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &fileDocument{}, nil
	}
	if err != nil {
		return &fileDocument{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return &fileDocument{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &doc, nil
}

// persist writes the full document back. Write failures always surface.
func (s *FileStore) persist(doc *fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to persist ledger: %w", err)
	}
	return nil
}

// Exists reports whether an entry with the signature has ever been recorded.
func (s *FileStore) Exists(_ context.Context, signature string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		s.logger.Warn("ledger state unreadable, treating as empty", "path", s.path, "error", err)
	}
	for i := range doc.Transactions {
		if doc.Transactions[i].Signature == signature {
			return true, nil
		}
	}
	return false, nil
}

// Begin inserts a new processing entry if the signature is absent. The
// existence check and the append happen under one lock acquisition, so only
// one concurrent caller can win.
func (s *FileStore) Begin(_ context.Context, entry Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		s.logger.Warn("ledger state unreadable, treating as empty", "path", s.path, "error", err)
	}
	for i := range doc.Transactions {
		if doc.Transactions[i].Signature == entry.Signature {
			return false, nil
		}
	}

	entry.Status = StatusProcessing
	doc.Transactions = append(doc.Transactions, entry)
	if err := s.persist(doc); err != nil {
		return false, err
	}
	return true, nil
}

// Finalize moves a processing entry to its terminal status.
func (s *FileStore) Finalize(_ context.Context, signature string, status string, errMsg *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		s.logger.Warn("ledger state unreadable, treating as empty", "path", s.path, "error", err)
	}
	for i := range doc.Transactions {
		if doc.Transactions[i].Signature == signature && doc.Transactions[i].Status == StatusProcessing {
			doc.Transactions[i].Status = status
			doc.Transactions[i].Error = errMsg
			return s.persist(doc)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotProcessing, signature)
}

// Get returns the entry for a signature, or nil if absent.
func (s *FileStore) Get(_ context.Context, signature string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		s.logger.Warn("ledger state unreadable, treating as empty", "path", s.path, "error", err)
	}
	for i := range doc.Transactions {
		if doc.Transactions[i].Signature == signature {
			entry := doc.Transactions[i]
			return &entry, nil
		}
	}
	return nil, nil
}

// List returns entries ordered most recent first.
func (s *FileStore) List(_ context.Context, limit, offset int32) ([]*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		s.logger.Warn("ledger state unreadable, treating as empty", "path", s.path, "error", err)
	}

	// Document order is append order; reverse for most recent first.
	var entries []*Entry
	for i := len(doc.Transactions) - 1; i >= 0; i-- {
		entry := doc.Transactions[i]
		entries = append(entries, &entry)
	}

	if int(offset) >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if int(limit) < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}
