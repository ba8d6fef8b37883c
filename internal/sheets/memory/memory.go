package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"skybank/internal/core"
	ports "skybank/internal/sheets"
)

var (
	_ ports.TransactionReader   = (*Store)(nil)
	_ ports.TransactionImporter = (*Store)(nil)
)

// Store keeps transactions in memory. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	items []core.Transaction
}

func New(txs ...core.Transaction) *Store {
	s := &Store{seen: make(map[string]struct{})}
	s.add(txs)
	return s
}

// NewFromFile seeds the store from a CSV file carrying the export header.
// A missing file yields an empty store.
func NewFromFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	if len(records) == 0 {
		return New(), nil
	}
	txs, err := ports.ParseRows(records[0], records[1:])
	if err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return New(txs...), nil
}

// ReadTransactions returns a copy of the stored rows in insertion order.
func (s *Store) ReadTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction{}, s.items...), nil
}

// ImportTransactions adds rows not held from an earlier import and returns
// how many were added. Identical rows within txs are all kept.
func (s *Store) ImportTransactions(_ context.Context, txs []core.Transaction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(txs), nil
}

func (s *Store) add(txs []core.Transaction) int {
	keys := ports.BatchKeys(txs)
	added := 0
	for i, tx := range txs {
		key := keys[i]
		if _, ok := s.seen[key]; ok {
			continue
		}
		s.seen[key] = struct{}{}
		s.items = append(s.items, tx)
		added++
	}
	return added
}
