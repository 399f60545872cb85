// Package behavior tracks UI/usage events and derives per-user behavior
// patterns and insights from them.
package behavior

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/halcyon-app/halcyon/internal/classify"
	"github.com/halcyon-app/halcyon/internal/storage"
	"github.com/halcyon-app/halcyon/pkg/types"
)

const (
	// clusterCount is the number of behavior segments the clusterer builds.
	clusterCount = 3

	// maxActiveHours and maxFavoriteFeatures bound the insight rankings.
	maxActiveHours      = 3
	maxFavoriteFeatures = 5

	// engagementWindow and engagementScale turn recent event volume into a
	// score: min(events in window / scale, 1).
	engagementWindow = 7 * 24 * time.Hour
	engagementScale  = 100.0

	// retentionScale caps the consecutive-active-days streak.
	retentionScale = 30.0

	behaviorStripes = 64
)

// Analyzer ingests behavior events and maintains the derived pattern and
// insight views. At most one mutation per user is in flight at a time.
type Analyzer struct {
	store     storage.BehaviorStore
	clusterer classify.Clusterer
	stripes   [behaviorStripes]sync.Mutex
	now       func() time.Time
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithClock replaces the analyzer clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithClusterer replaces the behavior clusterer.
func WithClusterer(clusterer classify.Clusterer) Option {
	return func(a *Analyzer) { a.clusterer = clusterer }
}

// NewAnalyzer creates a behavior analyzer.
func NewAnalyzer(store storage.BehaviorStore, opts ...Option) *Analyzer {
	a := &Analyzer{
		store:     store,
		clusterer: classify.NewKMeans(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) stripe(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &a.stripes[h.Sum32()%behaviorStripes]
}

// Record ingests one behavior event: appends it to the user's history, keeps
// the history chronological, recomputes the pattern and insight views, and
// persists the profile.
func (a *Analyzer) Record(ctx context.Context, event *types.BehaviorEvent) (*types.BehaviorProfile, error) {
	if event == nil || event.UserID == "" {
		return nil, fmt.Errorf("%w: event with user ID is required", storage.ErrInvalidInput)
	}
	if !types.IsValidBehaviorType(event.Behavior) {
		return nil, fmt.Errorf("%w: unknown behavior type %q", storage.ErrInvalidInput, event.Behavior)
	}
	if event.Duration < 0 {
		return nil, fmt.Errorf("%w: duration must be non-negative, got %f", storage.ErrInvalidInput, event.Duration)
	}

	now := a.now()
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = now
	}

	mu := a.stripe(event.UserID)
	mu.Lock()
	defer mu.Unlock()

	profile, err := a.loadOrCreate(ctx, event.UserID, now)
	if err != nil {
		return nil, err
	}

	profile.History = append(profile.History, *event)
	sort.SliceStable(profile.History, func(i, j int) bool {
		return profile.History[i].Timestamp.Before(profile.History[j].Timestamp)
	})

	a.recompute(profile, now)

	if err := a.store.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to persist behavior profile: %w", err)
	}
	return profile, nil
}

// Patterns returns the derived pattern view, creating a default profile on
// first access.
func (a *Analyzer) Patterns(ctx context.Context, userID string) (*types.BehaviorPattern, error) {
	profile, err := a.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &profile.Pattern, nil
}

// Insights returns the derived insight view, creating a default profile on
// first access.
func (a *Analyzer) Insights(ctx context.Context, userID string) (*types.BehaviorInsight, error) {
	profile, err := a.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &profile.Insight, nil
}

func (a *Analyzer) profile(ctx context.Context, userID string) (*types.BehaviorProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", storage.ErrInvalidInput)
	}
	mu := a.stripe(userID)
	mu.Lock()
	defer mu.Unlock()
	return a.loadOrCreate(ctx, userID, a.now())
}

// loadOrCreate returns the stored profile, creating and persisting a default
// one when none exists. The caller must hold the user's stripe.
func (a *Analyzer) loadOrCreate(ctx context.Context, userID string, now time.Time) (*types.BehaviorProfile, error) {
	profile, err := a.store.Load(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to load behavior profile: %w", err)
	}

	profile = types.NewBehaviorProfile(userID, now)
	if err := a.store.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to persist new behavior profile: %w", err)
	}
	return profile, nil
}

// recompute refreshes the pattern and insight views from the history.
func (a *Analyzer) recompute(profile *types.BehaviorProfile, now time.Time) {
	history := profile.History

	profile.Pattern = types.BehaviorPattern{
		DailyPattern:     dailyCounts(history),
		WeeklyPattern:    weeklyCounts(history),
		Sequence:         transitionSequence(history),
		InteractionGraph: interactionGraph(history),
		LastUpdated:      now,
	}
	profile.Insight = types.BehaviorInsight{
		ActiveHours:      activeHours(history),
		FavoriteFeatures: favoriteFeatures(history),
		Clusters:         a.clusters(history),
		EngagementScore:  engagementScore(history, now),
		RetentionScore:   retentionScore(history),
		LastUpdated:      now,
	}
	profile.LastUpdated = now
}

// dailyCounts maps the hour of day ("0".."23") to event counts.
func dailyCounts(history []types.BehaviorEvent) map[string]int {
	counts := map[string]int{}
	for _, event := range history {
		counts[strconv.Itoa(event.Timestamp.Hour())]++
	}
	return counts
}

// weeklyCounts maps the Monday-indexed weekday ("0".."6") to event counts.
func weeklyCounts(history []types.BehaviorEvent) map[string]int {
	counts := map[string]int{}
	for _, event := range history {
		counts[strconv.Itoa(mondayIndex(event.Timestamp.Weekday()))]++
	}
	return counts
}

func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// transitionSequence lists each adjacent from→to step of the chronological
// history with its observed transition probability: the share of departures
// from the same source type that went to this target type.
func transitionSequence(history []types.BehaviorEvent) []types.BehaviorTransition {
	sequence := []types.BehaviorTransition{}
	if len(history) < 2 {
		return sequence
	}

	outgoing := map[types.BehaviorType]int{}
	pairs := map[types.BehaviorType]map[types.BehaviorType]int{}
	for i := 0; i < len(history)-1; i++ {
		from, to := history[i].Behavior, history[i+1].Behavior
		outgoing[from]++
		if pairs[from] == nil {
			pairs[from] = map[types.BehaviorType]int{}
		}
		pairs[from][to]++
	}

	for i := 0; i < len(history)-1; i++ {
		from, to := history[i].Behavior, history[i+1].Behavior
		sequence = append(sequence, types.BehaviorTransition{
			From:        from,
			To:          to,
			Probability: float64(pairs[from][to]) / float64(outgoing[from]),
		})
	}
	return sequence
}

// interactionGraph weights each ordered pair of distinct behavior types by
// how often the two types co-occur within the history.
func interactionGraph(history []types.BehaviorEvent) map[types.BehaviorType]map[types.BehaviorType]float64 {
	counts := map[types.BehaviorType]int{}
	for _, event := range history {
		counts[event.Behavior]++
	}

	graph := map[types.BehaviorType]map[types.BehaviorType]float64{}
	for from, fromCount := range counts {
		for to, toCount := range counts {
			if from == to {
				continue
			}
			if graph[from] == nil {
				graph[from] = map[types.BehaviorType]float64{}
			}
			graph[from][to] = float64(fromCount * toCount)
		}
	}
	return graph
}

// activeHours ranks the hours of day by event count and keeps the top 3.
// Ties break toward the earlier hour.
func activeHours(history []types.BehaviorEvent) []types.HourCount {
	counts := map[int]int{}
	for _, event := range history {
		counts[event.Timestamp.Hour()]++
	}

	ranked := make([]types.HourCount, 0, len(counts))
	for hour, count := range counts {
		ranked = append(ranked, types.HourCount{Hour: hour, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Hour < ranked[j].Hour
	})
	if len(ranked) > maxActiveHours {
		ranked = ranked[:maxActiveHours]
	}
	return ranked
}

// favoriteFeatures ranks behavior types by frequency and keeps the top 5.
// Ties break alphabetically.
func favoriteFeatures(history []types.BehaviorEvent) []types.BehaviorType {
	counts := map[types.BehaviorType]int{}
	for _, event := range history {
		counts[event.Behavior]++
	}

	ranked := make([]types.BehaviorType, 0, len(counts))
	for behavior := range counts {
		ranked = append(ranked, behavior)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > maxFavoriteFeatures {
		ranked = ranked[:maxFavoriteFeatures]
	}
	return ranked
}

// clusters segments the history by (hour, weekday, duration) into k=3 groups
// and reports each non-empty group's size and feature means. Histories with
// fewer events than clusters yield an empty list.
func (a *Analyzer) clusters(history []types.BehaviorEvent) []types.BehaviorCluster {
	if len(history) < clusterCount {
		return []types.BehaviorCluster{}
	}

	points := make([][]float64, len(history))
	for i, event := range history {
		points[i] = []float64{
			float64(event.Timestamp.Hour()),
			float64(mondayIndex(event.Timestamp.Weekday())),
			event.Duration,
		}
	}

	assignments, err := a.clusterer.Cluster(points, clusterCount)
	if err != nil {
		return []types.BehaviorCluster{}
	}

	sums := make([][3]float64, clusterCount)
	sizes := make([]int, clusterCount)
	for i, c := range assignments {
		sizes[c]++
		for d := 0; d < 3; d++ {
			sums[c][d] += points[i][d]
		}
	}

	clusters := []types.BehaviorCluster{}
	for c := 0; c < clusterCount; c++ {
		if sizes[c] == 0 {
			continue
		}
		n := float64(sizes[c])
		clusters = append(clusters, types.BehaviorCluster{
			ClusterID:   c,
			Size:        sizes[c],
			AvgHour:     sums[c][0] / n,
			AvgWeekday:  sums[c][1] / n,
			AvgDuration: sums[c][2] / n,
		})
	}
	return clusters
}

// engagementScore scores recent activity volume: min(events in the last
// 7 days / 100, 1).
func engagementScore(history []types.BehaviorEvent, now time.Time) float64 {
	cutoff := now.Add(-engagementWindow)
	recent := 0
	for _, event := range history {
		if event.Timestamp.After(cutoff) {
			recent++
		}
	}
	score := float64(recent) / engagementScale
	if score > 1 {
		score = 1
	}
	return score
}

// retentionScore scores the streak of consecutive active days ending at the
// most recent event: min(days / 30, 1).
func retentionScore(history []types.BehaviorEvent) float64 {
	if len(history) == 0 {
		return 0
	}

	seen := map[string]bool{}
	var days []time.Time
	for _, event := range history {
		day := event.Timestamp.UTC().Truncate(24 * time.Hour)
		key := day.Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	streak := 1
	for i := len(days) - 1; i > 0; i-- {
		if days[i].Sub(days[i-1]) != 24*time.Hour {
			break
		}
		streak++
	}

	score := float64(streak) / retentionScale
	if score > 1 {
		score = 1
	}
	return score
}
