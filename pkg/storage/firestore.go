package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"github.com/roofsight/roofsight/pkg/log"
	"github.com/roofsight/roofsight/pkg/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const analysesCollection = "analyses"

// FirestoreProvider implements the Database interface using Google Cloud
// Firestore. Records are stored as JSON strings keyed by their ID, which
// begins with a fixed-width timestamp so document ID order is chronological.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// Project ID verification could be here, but we allow empty if inferred.
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// InsertAnalysis stores the record as a JSON blob keyed by its ID.
func (f *FirestoreProvider) InsertAnalysis(ctx context.Context, rec types.AnalysisRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("record ID cannot be empty")
	}
	jsonBytes, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis record: %w", err)
	}

	_, err = f.client.Collection(analysesCollection).Doc(rec.ID).Set(ctx, map[string]interface{}{
		"json":      string(jsonBytes),
		"timestamp": rec.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to insert analysis record: %w", err)
	}
	return nil
}

// GetAnalysis retrieves a single record by ID.
func (f *FirestoreProvider) GetAnalysis(ctx context.Context, id string) (types.AnalysisRecord, error) {
	doc, err := f.client.Collection(analysesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.AnalysisRecord{}, fmt.Errorf("%w: %s", ErrAnalysisNotFound, id)
		}
		return types.AnalysisRecord{}, fmt.Errorf("failed to get analysis %s: %w", id, err)
	}
	rec, err := f.decodeRecord(ctx, doc)
	if err != nil {
		return types.AnalysisRecord{}, err
	}
	return rec, nil
}

// ListAnalyses retrieves up to limit records newest first. Document IDs sort
// chronologically so this is a descending ID query; lastID continues a
// previous page.
func (f *FirestoreProvider) ListAnalyses(ctx context.Context, limit int, lastID string) ([]types.AnalysisRecord, error) {
	q := f.client.Collection(analysesCollection).
		OrderBy(firestore.DocumentID, firestore.Desc).
		Limit(limit)
	if lastID != "" {
		q = q.StartAfter(lastID)
	}
	iter := q.Documents(ctx)
	defer iter.Stop()

	var recs []types.AnalysisRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating analyses: %w", err)
		}

		rec, err := f.decodeRecord(ctx, doc)
		if err != nil {
			// Skip malformed documents
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (f *FirestoreProvider) decodeRecord(ctx context.Context, doc *firestore.DocumentSnapshot) (types.AnalysisRecord, error) {
	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "analysis doc missing json", slog.String("id", doc.Ref.ID))
		return types.AnalysisRecord{}, fmt.Errorf("analysis %s missing json: %w", doc.Ref.ID, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "analysis doc json not string", slog.String("id", doc.Ref.ID))
		return types.AnalysisRecord{}, fmt.Errorf("analysis %s json not string", doc.Ref.ID)
	}

	var rec types.AnalysisRecord
	if err := json.Unmarshal([]byte(jsonStr), &rec); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal analysis", slog.String("id", doc.Ref.ID), slog.Any("err", err))
		return types.AnalysisRecord{}, fmt.Errorf("failed to unmarshal analysis %s: %w", doc.Ref.ID, err)
	}
	return rec, nil
}
