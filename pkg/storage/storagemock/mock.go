package storagemock

import (
	"context"

	"github.com/roofsight/roofsight/pkg/storage"
	"github.com/roofsight/roofsight/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) InsertAnalysis(ctx context.Context, rec types.AnalysisRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockDatabase) GetAnalysis(ctx context.Context, id string) (types.AnalysisRecord, error) {
	args := m.Called(ctx, id)
	if len(args) > 0 {
		return args.Get(0).(types.AnalysisRecord), args.Error(1)
	}
	return types.AnalysisRecord{}, nil
}

func (m *MockDatabase) ListAnalyses(ctx context.Context, limit int, lastID string) ([]types.AnalysisRecord, error) {
	args := m.Called(ctx, limit, lastID)
	if len(args) > 0 {
		return args.Get(0).([]types.AnalysisRecord), args.Error(1)
	}
	return nil, nil
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
