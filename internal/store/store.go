package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jelmberg/commission-tracker/internal/domain"
	"github.com/jelmberg/commission-tracker/internal/engine"
)

// ErrNotFound is returned when no transaction exists for the given id.
var ErrNotFound = errors.New("transaction not found")

// Store holds the ordered transaction collection. It is safe for
// concurrent use and persists the full collection as a JSON blob that is
// written on every mutation and reloaded verbatim on startup.
//
// Edit-session pin state lives alongside each record but is deliberately
// not persisted: pins are scoped to an in-progress edit, not to the saved
// record.
type Store struct {
	mu       sync.RWMutex
	path     string
	txs      map[string]*domain.Transaction
	order    []string
	sessions map[string]*engine.Session
}

// snapshot is the on-disk shape of the blob.
type snapshot struct {
	Transactions []*domain.Transaction `json:"transactions"`
}

// New creates a store backed by the blob at path, loading any existing
// collection. An empty path keeps the store memory-only.
func New(path string) (*Store, error) {
	s := &Store{
		path:     path,
		txs:      make(map[string]*domain.Transaction),
		sessions: make(map[string]*engine.Session),
	}

	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", path, err)
	}
	for _, tx := range snap.Transactions {
		cp := *tx
		s.txs[tx.ID] = &cp
		s.order = append(s.order, tx.ID)
	}

	return s, nil
}

// List returns the transactions in insertion order.
func (s *Store) List() []*domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Transaction, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.txs[id]
		out = append(out, &cp)
	}
	return out
}

// Get retrieves one transaction by id.
func (s *Store) Get(id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.txs[id]
	if !ok {
		return nil, fmt.Errorf("store: %s: %w", id, ErrNotFound)
	}
	cp := *tx
	return &cp, nil
}

// Save inserts or updates a transaction and flushes the blob.
func (s *Store) Save(tx *domain.Transaction) error {
	if tx.ID == "" {
		return fmt.Errorf("store: transaction id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.txs[tx.ID]; !exists {
		s.order = append(s.order, tx.ID)
	}
	cp := *tx
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	cp.UpdatedAt = time.Now()
	s.txs[tx.ID] = &cp

	return s.flushLocked()
}

// Delete removes a transaction and its edit session. There is no
// soft-delete; removal is final.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.txs[id]; !ok {
		return fmt.Errorf("store: %s: %w", id, ErrNotFound)
	}
	delete(s.txs, id)
	delete(s.sessions, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return s.flushLocked()
}

// ReplaceAll swaps the whole collection, used when pulling from the
// spreadsheet (last writer wins). All edit sessions are discarded.
func (s *Store) ReplaceAll(txs []*domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txs = make(map[string]*domain.Transaction, len(txs))
	s.order = s.order[:0]
	s.sessions = make(map[string]*engine.Session)
	for _, tx := range txs {
		cp := *tx
		s.txs[tx.ID] = &cp
		s.order = append(s.order, tx.ID)
	}

	return s.flushLocked()
}

// Session returns the edit session for the given record, creating one on
// first use. Sessions are never shared across records.
func (s *Store) Session(id string) *engine.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = engine.NewSession()
		s.sessions[id] = sess
	}
	return sess
}

func (s *Store) flushLocked() error {
	if s.path == "" {
		return nil
	}

	snap := snapshot{Transactions: make([]*domain.Transaction, 0, len(s.order))}
	for _, id := range s.order {
		snap.Transactions = append(snap.Transactions, s.txs[id])
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("store: replace %s: %w", s.path, err)
	}

	return nil
}
