package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/roofsight/roofsight/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(i int) types.AnalysisRecord {
	ts := time.Date(2026, 8, 1, 12, 0, i, 0, time.UTC)
	return types.AnalysisRecord{
		ID:          fmt.Sprintf("%s-%04d", ts.Format("2006-01-02T15:04:05.000000000Z"), i),
		Timestamp:   ts,
		Source:      types.AnalysisSourceUpload,
		ImageWidth:  640,
		ImageHeight: 480,
	}
}

func TestMemoryProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("insert and get", func(t *testing.T) {
		m := NewMemoryProvider(10)
		rec := testRecord(1)
		require.NoError(t, m.InsertAnalysis(ctx, rec))

		got, err := m.GetAnalysis(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec, got)
	})

	t.Run("get missing", func(t *testing.T) {
		m := NewMemoryProvider(10)
		_, err := m.GetAnalysis(ctx, "nope")
		assert.ErrorIs(t, err, ErrAnalysisNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		m := NewMemoryProvider(10)
		for i := 0; i < 5; i++ {
			require.NoError(t, m.InsertAnalysis(ctx, testRecord(i)))
		}

		recs, err := m.ListAnalyses(ctx, 50, "")
		require.NoError(t, err)
		require.Len(t, recs, 5)
		for i := 1; i < len(recs); i++ {
			assert.True(t, recs[i].ID < recs[i-1].ID, "records should be newest first")
		}
	})

	t.Run("list pagination", func(t *testing.T) {
		m := NewMemoryProvider(10)
		for i := 0; i < 5; i++ {
			require.NoError(t, m.InsertAnalysis(ctx, testRecord(i)))
		}

		page1, err := m.ListAnalyses(ctx, 2, "")
		require.NoError(t, err)
		require.Len(t, page1, 2)

		page2, err := m.ListAnalyses(ctx, 2, page1[1].ID)
		require.NoError(t, err)
		require.Len(t, page2, 2)
		assert.True(t, page2[0].ID < page1[1].ID)

		page3, err := m.ListAnalyses(ctx, 2, page2[1].ID)
		require.NoError(t, err)
		assert.Len(t, page3, 1)
	})

	t.Run("evicts oldest when full", func(t *testing.T) {
		m := NewMemoryProvider(3)
		for i := 0; i < 5; i++ {
			require.NoError(t, m.InsertAnalysis(ctx, testRecord(i)))
		}

		recs, err := m.ListAnalyses(ctx, 50, "")
		require.NoError(t, err)
		require.Len(t, recs, 3)
		// the two oldest should be gone
		_, err = m.GetAnalysis(ctx, testRecord(0).ID)
		assert.ErrorIs(t, err, ErrAnalysisNotFound)
		_, err = m.GetAnalysis(ctx, testRecord(1).ID)
		assert.ErrorIs(t, err, ErrAnalysisNotFound)
		_, err = m.GetAnalysis(ctx, testRecord(4).ID)
		assert.NoError(t, err)
	})
}
