package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"fwm-go/internal/fwm"
)

// MemorySource serves tables from byte slices. Safe for concurrent use.
type MemorySource struct {
	mu     sync.RWMutex
	tables map[string][]byte
}

var _ fwm.Source = (*MemorySource)(nil)

func NewMemorySource() *MemorySource {
	return &MemorySource{tables: make(map[string][]byte)}
}

// Put replaces the content of a table.
func (s *MemorySource) Put(table string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = bytes.Clone(data)
}

func (s *MemorySource) Open(ctx context.Context, table string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %q not found", table)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MemorySource) Describe(table string) string {
	return "memory:" + table
}
