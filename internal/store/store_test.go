package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordGapDeduplicatesExactMatch(t *testing.T) {
	s := newTestStore(t)
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first, err := s.RecordGap("How do I export invoices?", t0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Frequency)

	second, err := s.RecordGap("How do I export invoices?", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Frequency)

	// A differently worded question is a separate gap.
	other, err := s.RecordGap("How can I export invoices?", t0)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	gaps, err := s.ListGaps()
	require.NoError(t, err)
	require.Len(t, gaps, 2)
}

func TestListGapsOrdersByFrequency(t *testing.T) {
	s := newTestStore(t)
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := s.RecordGap("rare question", t0)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = s.RecordGap("common question", t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	gaps, err := s.ListGaps()
	require.NoError(t, err)
	require.Len(t, gaps, 2)
	assert.Equal(t, "common question", gaps[0].Question)
	assert.Equal(t, 3, gaps[0].Frequency)
}

func TestResolveGap(t *testing.T) {
	s := newTestStore(t)
	gap, err := s.RecordGap("q", time.Now())
	require.NoError(t, err)

	require.NoError(t, s.ResolveGap(gap.ID))

	gaps, err := s.ListGaps()
	require.NoError(t, err)
	assert.Empty(t, gaps)

	err = s.ResolveGap(gap.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestScanHistory(t *testing.T) {
	s := newTestStore(t)
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordScan(ScanRecord{Framework: "nextjs", FileCount: 120, Features: 14, RanAt: t0}))
	require.NoError(t, s.RecordScan(ScanRecord{Framework: "nextjs", FileCount: 125, Features: 15, RanAt: t0.Add(time.Hour)}))

	recs, err := s.RecentScans(10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 125, recs[0].FileCount)
	assert.NotEmpty(t, recs[0].ID)

	recs, err = s.RecentScans(1)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
