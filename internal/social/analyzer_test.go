package social

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-app/halcyon/internal/storage"
	"github.com/halcyon-app/halcyon/pkg/types"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// fakeInteractionStore is an in-memory InteractionStore.
type fakeInteractionStore struct {
	mu      sync.Mutex
	records []types.InteractionRecord
}

func (s *fakeInteractionStore) Append(_ context.Context, record *types.InteractionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *record)
	return nil
}

func (s *fakeInteractionStore) ListSince(_ context.Context, userID string, since time.Time) ([]types.InteractionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.InteractionRecord
	for _, r := range s.records {
		if r.UserID == userID && !r.Timestamp.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeInteractionStore) Close() error { return nil }

func newTestAnalyzer() (*Analyzer, *fakeInteractionStore) {
	store := &fakeInteractionStore{}
	return NewAnalyzer(store, WithClock(func() time.Time { return testNow })), store
}

func interaction(kind types.InteractionType, sentiment types.Sentiment, intensity float64, target string, at time.Time) *types.InteractionRecord {
	return &types.InteractionRecord{
		UserID:       "user-1",
		Interaction:  kind,
		Sentiment:    sentiment,
		Intensity:    intensity,
		TargetUserID: target,
		Timestamp:    at,
	}
}

func TestRecord_Validation(t *testing.T) {
	analyzer, store := newTestAnalyzer()
	ctx := context.Background()

	err := analyzer.Record(ctx, interaction("poke", types.SentimentPositive, 0.5, "", testNow))
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = analyzer.Record(ctx, interaction(types.InteractionChat, "ambivalent", 0.5, "", testNow))
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = analyzer.Record(ctx, interaction(types.InteractionChat, types.SentimentPositive, 1.5, "", testNow))
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	record := interaction(types.InteractionChat, types.SentimentPositive, 0.5, "", time.Time{})
	require.NoError(t, analyzer.Record(ctx, record))
	assert.NotEmpty(t, record.ID, "missing IDs are assigned")
	assert.Equal(t, testNow, record.Timestamp, "missing timestamps default to now")
	assert.Len(t, store.records, 1)
}

func TestAnalyze(t *testing.T) {
	analyzer, _ := newTestAnalyzer()
	ctx := context.Background()

	require.NoError(t, analyzer.Record(ctx, interaction(types.InteractionChat, types.SentimentPositive, 0.8, "friend-1", testNow.Add(-time.Hour))))
	require.NoError(t, analyzer.Record(ctx, interaction(types.InteractionChat, types.SentimentPositive, 0.6, "friend-2", testNow.Add(-2*time.Hour))))
	require.NoError(t, analyzer.Record(ctx, interaction(types.InteractionUnfollow, types.SentimentNegative, 0.5, "friend-1", testNow.Add(-3*time.Hour))))

	analysis, err := analyzer.Analyze(ctx, "user-1")
	require.NoError(t, err)

	// (1*0.3*0.8 + 1*0.3*0.6 + (-1)*(-0.1)*0.5) / 3 = 0.47/3
	assert.InDelta(t, 0.47/3, analysis.EmotionScore, 1e-9)

	// 0.4*(3/30) + 0.3*(2/7) + 0.3*((0.8+0.6+0.5)/3)
	wantEngagement := 0.4*0.1 + 0.3*(2.0/7.0) + 0.3*(1.9/3.0)
	assert.InDelta(t, wantEngagement, analysis.Engagement, 1e-9)

	assert.Equal(t, 2, analysis.NetworkSize)
	assert.InDelta(t, 2.0/3.0, analysis.InteractionPatterns[types.InteractionChat], 1e-9)
	assert.Equal(t, 0.0, analysis.InteractionPatterns[types.InteractionLike])

	// dominant sentiment positive 2/3, mean intensity 1.9/3
	assert.InDelta(t, (2.0/3.0)*(1.9/3.0), analysis.Contagion, 1e-9)
}

func TestAnalyze_EmptyWindow(t *testing.T) {
	analyzer, _ := newTestAnalyzer()
	analysis, err := analyzer.Analyze(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0.0, analysis.EmotionScore)
	assert.Equal(t, 0.0, analysis.Engagement)
	assert.Equal(t, 0, analysis.NetworkSize)
	assert.Equal(t, 0.0, analysis.Contagion)
}

func TestAnalyze_IgnoresRecordsOutsideWindow(t *testing.T) {
	analyzer, _ := newTestAnalyzer()
	ctx := context.Background()

	require.NoError(t, analyzer.Record(ctx, interaction(types.InteractionChat, types.SentimentPositive, 0.9, "", testNow.Add(-40*24*time.Hour))))
	analysis, err := analyzer.Analyze(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, analysis.EmotionScore, "records older than 30 days are out of scope")
}

func TestTrend_DailyBuckets(t *testing.T) {
	analyzer, _ := newTestAnalyzer()
	ctx := context.Background()

	// One interaction yesterday, two the day before.
	require.NoError(t, analyzer.Record(ctx, interaction(types.InteractionLike, types.SentimentPositive, 0.5, "", testNow.Add(-20*time.Hour))))
	require.NoError(t, analyzer.Record(ctx, interaction(types.InteractionChat, types.SentimentPositive, 0.5, "a", testNow.Add(-40*time.Hour))))
	require.NoError(t, analyzer.Record(ctx, interaction(types.InteractionChat, types.SentimentNegative, 0.5, "b", testNow.Add(-41*time.Hour))))

	trend, err := analyzer.Trend(ctx, "user-1", types.TrendDaily)
	require.NoError(t, err)

	require.Len(t, trend.EmotionScores, 7)
	require.Len(t, trend.Timestamps, 7)
	assert.True(t, trend.Timestamps[0].Before(trend.Timestamps[6]), "buckets run oldest first")

	assert.Equal(t, []int{0, 0, 0, 0, 0, 2, 0}, trend.InteractionCounts[types.InteractionChat])
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 1}, trend.InteractionCounts[types.InteractionLike])

	// Network growth accumulates: empty buckets hold the running total.
	assert.Equal(t, []int{0, 0, 0, 0, 0, 2, 2}, trend.NetworkGrowth)
}

func TestTrend_RejectsUnknownPeriod(t *testing.T) {
	analyzer, _ := newTestAnalyzer()
	_, err := analyzer.Trend(context.Background(), "user-1", "hourly")
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestInsight(t *testing.T) {
	analyzer, _ := newTestAnalyzer()
	ctx := context.Background()

	require.NoError(t, analyzer.Record(ctx, interaction(types.InteractionChat, types.SentimentPositive, 0.8, "friend-1", testNow.Add(-time.Hour))))
	require.NoError(t, analyzer.Record(ctx, interaction(types.InteractionChat, types.SentimentNegative, 0.6, "friend-2", testNow.Add(-2*time.Hour))))
	require.NoError(t, analyzer.Record(ctx, interaction(types.InteractionLike, types.SentimentPositive, 0.4, "friend-1", testNow.Add(-3*time.Hour))))

	insight, err := analyzer.Insight(ctx, "user-1")
	require.NoError(t, err)

	require.Len(t, insight.TopInteractions, 2)
	assert.Equal(t, types.InteractionChat, insight.TopInteractions[0].Interaction)
	assert.InDelta(t, 2.0/3.0, insight.TopInteractions[0].Share, 1e-9)

	// chat impact: (0.8 - 0.6) / 2 = 0.1
	assert.InDelta(t, 0.1, insight.EmotionalImpact[types.InteractionChat], 1e-9)

	// support: 0.7*(1/2 positive chats) + 0.3*mean positive intensity (0.6)
	assert.InDelta(t, 0.7*0.5+0.3*0.6, insight.Support, 1e-9)

	// stress: 0.7*(1/3) + 0.3*0.6
	assert.InDelta(t, 0.7/3+0.3*0.6, insight.Stress, 1e-9)

	// friend-1: mean(1*0.8, 1*0.4) = 0.6 -> (0.6+1)/2 = 0.8
	assert.InDelta(t, 0.8, insight.RelationshipQuality["friend-1"], 1e-9)
	// friend-2: -0.6 -> 0.2
	assert.InDelta(t, 0.2, insight.RelationshipQuality["friend-2"], 1e-9)
}

func TestEngagement_CappedAtOne(t *testing.T) {
	records := make([]types.InteractionRecord, 200)
	for i := range records {
		records[i] = types.InteractionRecord{
			Interaction: types.InteractionChat,
			Sentiment:   types.SentimentPositive,
			Intensity:   1.0,
		}
	}
	if got := engagement(records); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("engagement should cap at 1.0, got %f", got)
	}
}
