// Package social derives social-emotion metrics from the interaction log.
// All views are recomputed on demand from the raw records; nothing here is
// stateful beyond the underlying store.
package social

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/halcyon-app/halcyon/internal/storage"
	"github.com/halcyon-app/halcyon/pkg/types"
)

// analysisWindow is the lookback for analysis and insight views.
const analysisWindow = 30 * 24 * time.Hour

// sentimentWeights sign each interaction's contribution.
var sentimentWeights = map[types.Sentiment]float64{
	types.SentimentPositive: 1.0,
	types.SentimentNegative: -1.0,
	types.SentimentNeutral:  0.0,
}

// interactionWeights scale each interaction kind's emotional relevance.
var interactionWeights = map[types.InteractionType]float64{
	types.InteractionChat:     0.3,
	types.InteractionComment:  0.2,
	types.InteractionLike:     0.1,
	types.InteractionShare:    0.2,
	types.InteractionFollow:   0.1,
	types.InteractionUnfollow: -0.1,
	types.InteractionMention:  0.2,
}

// Analyzer computes the social-emotion views.
type Analyzer struct {
	store storage.InteractionStore
	now   func() time.Time
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithClock replaces the analyzer clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// NewAnalyzer creates a social emotion analyzer.
func NewAnalyzer(store storage.InteractionStore, opts ...Option) *Analyzer {
	a := &Analyzer{store: store, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Record validates and appends one interaction to the log.
func (a *Analyzer) Record(ctx context.Context, record *types.InteractionRecord) error {
	if record == nil || record.UserID == "" {
		return fmt.Errorf("%w: interaction with user ID is required", storage.ErrInvalidInput)
	}
	if !types.IsValidInteractionType(record.Interaction) {
		return fmt.Errorf("%w: unknown interaction type %q", storage.ErrInvalidInput, record.Interaction)
	}
	if !types.IsValidSentiment(record.Sentiment) {
		return fmt.Errorf("%w: unknown sentiment %q", storage.ErrInvalidInput, record.Sentiment)
	}
	if record.Intensity < 0 || record.Intensity > 1 {
		return fmt.Errorf("%w: intensity must be in [0, 1], got %f", storage.ErrInvalidInput, record.Intensity)
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = a.now()
	}
	return a.store.Append(ctx, record)
}

// Analyze computes the social-emotion analysis over the 30-day window.
func (a *Analyzer) Analyze(ctx context.Context, userID string) (*types.SocialEmotionAnalysis, error) {
	now := a.now()
	records, err := a.store.ListSince(ctx, userID, now.Add(-analysisWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}

	return &types.SocialEmotionAnalysis{
		UserID:              userID,
		EmotionScore:        emotionScore(records),
		Engagement:          engagement(records),
		NetworkSize:         networkSize(records),
		InteractionPatterns: interactionShares(records),
		Contagion:           contagion(records),
		LastUpdated:         now,
	}, nil
}

// trendBuckets maps each period to its bucket width and count.
var trendBuckets = map[types.TrendPeriod]struct {
	width time.Duration
	count int
}{
	types.TrendDaily:   {24 * time.Hour, 7},
	types.TrendWeekly:  {7 * 24 * time.Hour, 4},
	types.TrendMonthly: {30 * 24 * time.Hour, 6},
}

// Trend buckets the interaction history into a fixed number of windows and
// reports per-bucket emotion, engagement, network growth and interaction
// counts, oldest bucket first.
func (a *Analyzer) Trend(ctx context.Context, userID string, period types.TrendPeriod) (*types.SocialEmotionTrend, error) {
	spec, ok := trendBuckets[period]
	if !ok {
		return nil, fmt.Errorf("%w: unknown trend period %q", storage.ErrInvalidInput, period)
	}

	now := a.now()
	start := now.Add(-time.Duration(spec.count) * spec.width)
	records, err := a.store.ListSince(ctx, userID, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}

	trend := &types.SocialEmotionTrend{
		UserID:            userID,
		Period:            period,
		EmotionScores:     make([]float64, 0, spec.count),
		EngagementScores:  make([]float64, 0, spec.count),
		NetworkGrowth:     make([]int, 0, spec.count),
		InteractionCounts: map[types.InteractionType][]int{},
		Timestamps:        make([]time.Time, 0, spec.count),
	}
	for _, kind := range types.ValidInteractionTypes {
		trend.InteractionCounts[kind] = make([]int, 0, spec.count)
	}

	// Network growth is cumulative: each bucket reports the distinct
	// counterparties seen up to and including it.
	partners := map[string]bool{}

	for i := 0; i < spec.count; i++ {
		bucketStart := start.Add(time.Duration(i) * spec.width)
		bucketEnd := bucketStart.Add(spec.width)

		var bucket []types.InteractionRecord
		for _, r := range records {
			if !r.Timestamp.Before(bucketStart) && r.Timestamp.Before(bucketEnd) {
				bucket = append(bucket, r)
			}
		}

		for _, r := range bucket {
			if r.TargetUserID != "" {
				partners[r.TargetUserID] = true
			}
		}

		trend.EmotionScores = append(trend.EmotionScores, emotionScore(bucket))
		trend.EngagementScores = append(trend.EngagementScores, engagement(bucket))
		trend.NetworkGrowth = append(trend.NetworkGrowth, len(partners))
		trend.Timestamps = append(trend.Timestamps, bucketStart)

		counts := map[types.InteractionType]int{}
		for _, r := range bucket {
			counts[r.Interaction]++
		}
		for _, kind := range types.ValidInteractionTypes {
			trend.InteractionCounts[kind] = append(trend.InteractionCounts[kind], counts[kind])
		}
	}

	return trend, nil
}

// Insight computes the insight view over the 30-day window.
func (a *Analyzer) Insight(ctx context.Context, userID string) (*types.SocialEmotionInsight, error) {
	now := a.now()
	records, err := a.store.ListSince(ctx, userID, now.Add(-analysisWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}

	return &types.SocialEmotionInsight{
		UserID:              userID,
		TopInteractions:     topInteractions(records),
		EmotionalImpact:     emotionalImpact(records),
		Support:             support(records),
		Stress:              stress(records),
		RelationshipQuality: relationshipQuality(records),
		LastUpdated:         now,
	}, nil
}

// emotionScore is the mean of sentiment weight * interaction weight *
// intensity over the records, 0 for an empty window.
func emotionScore(records []types.InteractionRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += sentimentWeights[r.Sentiment] * interactionWeights[r.Interaction] * r.Intensity
	}
	return sum / float64(len(records))
}

// engagement is 0.4*frequency(30-day baseline) + 0.3*type diversity +
// 0.3*mean intensity, capped at 1.
func engagement(records []types.InteractionRecord) float64 {
	if len(records) == 0 {
		return 0
	}

	frequency := float64(len(records)) / 30
	kinds := map[types.InteractionType]bool{}
	var intensitySum float64
	for _, r := range records {
		kinds[r.Interaction] = true
		intensitySum += r.Intensity
	}
	diversity := float64(len(kinds)) / float64(len(types.ValidInteractionTypes))
	meanIntensity := intensitySum / float64(len(records))

	score := frequency*0.4 + diversity*0.3 + meanIntensity*0.3
	if score > 1 {
		score = 1
	}
	return score
}

// networkSize counts distinct counterparties.
func networkSize(records []types.InteractionRecord) int {
	partners := map[string]bool{}
	for _, r := range records {
		if r.TargetUserID != "" {
			partners[r.TargetUserID] = true
		}
	}
	return len(partners)
}

// interactionShares maps every interaction kind to its share of the window.
func interactionShares(records []types.InteractionRecord) map[types.InteractionType]float64 {
	shares := map[types.InteractionType]float64{}
	if len(records) == 0 {
		return shares
	}
	counts := map[types.InteractionType]int{}
	for _, r := range records {
		counts[r.Interaction]++
	}
	for _, kind := range types.ValidInteractionTypes {
		shares[kind] = float64(counts[kind]) / float64(len(records))
	}
	return shares
}

// contagion is the dominant sentiment's share times the mean intensity.
func contagion(records []types.InteractionRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	counts := map[types.Sentiment]int{}
	maxCount := 0
	var intensitySum float64
	for _, r := range records {
		counts[r.Sentiment]++
		if counts[r.Sentiment] > maxCount {
			maxCount = counts[r.Sentiment]
		}
		intensitySum += r.Intensity
	}
	consistency := float64(maxCount) / float64(len(records))
	return consistency * intensitySum / float64(len(records))
}

// topInteractions orders interaction kinds by share, descending, keeping the
// canonical kind order for ties and dropping kinds that never occurred.
func topInteractions(records []types.InteractionRecord) []types.InteractionTypeShare {
	shares := interactionShares(records)
	top := make([]types.InteractionTypeShare, 0, len(shares))
	for _, kind := range types.ValidInteractionTypes {
		if shares[kind] > 0 {
			top = append(top, types.InteractionTypeShare{Interaction: kind, Share: shares[kind]})
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Share > top[j].Share })
	return top
}

// emotionalImpact maps each occurring kind to its mean signed
// sentiment-weighted intensity.
func emotionalImpact(records []types.InteractionRecord) map[types.InteractionType]float64 {
	sums := map[types.InteractionType]float64{}
	counts := map[types.InteractionType]int{}
	for _, r := range records {
		sums[r.Interaction] += sentimentWeights[r.Sentiment] * r.Intensity
		counts[r.Interaction]++
	}
	impact := map[types.InteractionType]float64{}
	for kind, n := range counts {
		impact[kind] = sums[kind] / float64(n)
	}
	return impact
}

// support is 0.7 * the positive share of chat and comment interactions +
// 0.3 * the mean intensity of positive interactions.
func support(records []types.InteractionRecord) float64 {
	if len(records) == 0 {
		return 0
	}

	conversational, positiveConversational := 0, 0
	var positiveIntensitySum float64
	positiveCount := 0
	for _, r := range records {
		if r.Interaction == types.InteractionChat || r.Interaction == types.InteractionComment {
			conversational++
			if r.Sentiment == types.SentimentPositive {
				positiveConversational++
			}
		}
		if r.Sentiment == types.SentimentPositive {
			positiveIntensitySum += r.Intensity
			positiveCount++
		}
	}

	var positiveShare float64
	if conversational > 0 {
		positiveShare = float64(positiveConversational) / float64(conversational)
	}
	var meanPositiveIntensity float64
	if positiveCount > 0 {
		meanPositiveIntensity = positiveIntensitySum / float64(positiveCount)
	}
	return positiveShare*0.7 + meanPositiveIntensity*0.3
}

// stress is 0.7 * the negative share of all interactions + 0.3 * the mean
// intensity of negative interactions.
func stress(records []types.InteractionRecord) float64 {
	if len(records) == 0 {
		return 0
	}

	negativeCount := 0
	var negativeIntensitySum float64
	for _, r := range records {
		if r.Sentiment == types.SentimentNegative {
			negativeCount++
			negativeIntensitySum += r.Intensity
		}
	}

	negativeShare := float64(negativeCount) / float64(len(records))
	var meanNegativeIntensity float64
	if negativeCount > 0 {
		meanNegativeIntensity = negativeIntensitySum / float64(negativeCount)
	}
	return negativeShare*0.7 + meanNegativeIntensity*0.3
}

// relationshipQuality scores each counterparty by mapping the mean signed
// sentiment-weighted intensity of their interactions from [-1, 1] to [0, 1].
func relationshipQuality(records []types.InteractionRecord) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range records {
		if r.TargetUserID == "" {
			continue
		}
		sums[r.TargetUserID] += sentimentWeights[r.Sentiment] * r.Intensity
		counts[r.TargetUserID]++
	}
	quality := map[string]float64{}
	for partner, n := range counts {
		quality[partner] = (sums[partner]/float64(n) + 1) / 2
	}
	return quality
}
