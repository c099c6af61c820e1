package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/levenlabs/go-lflag"
	"github.com/roofsight/roofsight/pkg/types"
)

// MemoryProvider implements Database in process memory. It is the default for
// demo deployments where the analysis history doesn't need to outlive the
// process; it keeps only the most recent maxRecords records.
type MemoryProvider struct {
	mu         sync.Mutex
	maxRecords int
	records    map[string]types.AnalysisRecord
}

// configuredMemory sets up the memory provider.
func configuredMemory() *MemoryProvider {
	maxRecords := 256
	lflag.JSON(&maxRecords, "memory-max-records", maxRecords, "Maximum number of analysis records kept in memory")

	m := &MemoryProvider{}

	lflag.Do(func() {
		m.maxRecords = maxRecords
		m.records = make(map[string]types.AnalysisRecord)
	})

	return m
}

// NewMemoryProvider returns a memory provider holding at most maxRecords
// records. This is primarily used for testing.
func NewMemoryProvider(maxRecords int) *MemoryProvider {
	return &MemoryProvider{
		maxRecords: maxRecords,
		records:    make(map[string]types.AnalysisRecord),
	}
}

// InsertAnalysis stores the record, evicting the oldest record if full.
func (m *MemoryProvider) InsertAnalysis(ctx context.Context, rec types.AnalysisRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[rec.ID] = rec
	for len(m.records) > m.maxRecords {
		oldest := ""
		for id := range m.records {
			if oldest == "" || id < oldest {
				oldest = id
			}
		}
		delete(m.records, oldest)
	}
	return nil
}

// GetAnalysis returns the record with the given ID.
func (m *MemoryProvider) GetAnalysis(ctx context.Context, id string) (types.AnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return types.AnalysisRecord{}, ErrAnalysisNotFound
	}
	return rec, nil
}

// ListAnalyses returns up to limit records newest first, continuing after
// lastID when set.
func (m *MemoryProvider) ListAnalyses(ctx context.Context, limit int, lastID string) ([]types.AnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		if lastID != "" && id >= lastID {
			continue
		}
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))

	if len(ids) > limit {
		ids = ids[:limit]
	}

	recs := make([]types.AnalysisRecord, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, m.records[id])
	}
	return recs, nil
}

// Close implements Database.
func (m *MemoryProvider) Close() error {
	return nil
}
