package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/levenlabs/go-lflag"
	"github.com/roofsight/roofsight/pkg/types"
)

var (
	// ErrAnalysisNotFound is returned when no record exists with the given ID.
	ErrAnalysisNotFound = errors.New("analysis not found")
)

// Database defines the interface for persisting analysis records.
//
// Record IDs begin with a fixed-width UTC timestamp, so lexicographically
// descending ID order is newest-first; implementations rely on that for
// listing.
type Database interface {
	// InsertAnalysis persists a record under rec.ID.
	InsertAnalysis(ctx context.Context, rec types.AnalysisRecord) error

	// GetAnalysis returns the record with the given ID, or ErrAnalysisNotFound.
	GetAnalysis(ctx context.Context, id string) (types.AnalysisRecord, error)

	// ListAnalyses returns up to limit records, newest first. A non-empty
	// lastID continues a previous listing after that record.
	ListAnalyses(ctx context.Context, limit int, lastID string) ([]types.AnalysisRecord, error)

	// Lifecycle
	Close() error
}

// Configured sets up the Storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "memory", "Storage provider to use (available: memory, firestore)")

	var p struct{ Database }

	fs := configuredFirestore()
	mem := configuredMemory()

	lflag.Do(func() {
		switch *provider {
		case "memory":
			p.Database = mem
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}
