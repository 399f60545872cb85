package engine

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/halcyon-app/halcyon/internal/classify"
	"github.com/halcyon-app/halcyon/internal/storage"
	"github.com/halcyon-app/halcyon/pkg/types"
)

// lockStripes is the number of per-user mutex stripes. Updates for the same
// user always serialize; updates for different users rarely contend.
const lockStripes = 64

// ProfileEngine orchestrates profile ingestion and the derived read views.
// At most one mutation per user is in flight at a time, and a read issued
// after a completed update observes that update.
type ProfileEngine struct {
	store      storage.ProfileStore
	classifier classify.Classifier
	vectors    storage.StateVectorStore
	config     Config

	cache   *lru.Cache[string, *types.Profile]
	stripes [lockStripes]sync.Mutex

	now func() time.Time
	log *logrus.Entry
}

// Option customizes a ProfileEngine.
type Option func(*ProfileEngine)

// WithClock replaces the engine clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *ProfileEngine) { e.now = now }
}

// WithStateVectors enables persistence of prediction feature vectors.
func WithStateVectors(vectors storage.StateVectorStore) Option {
	return func(e *ProfileEngine) { e.vectors = vectors }
}

// NewProfileEngine creates a profile engine.
func NewProfileEngine(store storage.ProfileStore, classifier classify.Classifier, config Config, opts ...Option) (*ProfileEngine, error) {
	if store == nil {
		return nil, fmt.Errorf("engine: profile store is required")
	}
	if classifier == nil {
		classifier = classify.NewHeuristicClassifier()
	}
	if config.CacheSize <= 0 {
		config.CacheSize = DefaultConfig().CacheSize
	}

	cache, err := lru.New[string, *types.Profile](config.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("engine: failed to create profile cache: %w", err)
	}

	e := &ProfileEngine{
		store:      store,
		classifier: classifier,
		config:     config,
		cache:      cache,
		now:        time.Now,
		log:        logrus.WithField("component", "profile_engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *ProfileEngine) stripe(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &e.stripes[h.Sum32()%lockStripes]
}

// UpdateProfile ingests one emotion record: appends it to the history, keeps
// the history chronological and bounded, recomputes every derived view, and
// persists the profile plus a stability snapshot.
func (e *ProfileEngine) UpdateProfile(ctx context.Context, record *types.EmotionRecord) (*types.Profile, error) {
	if record == nil || record.UserID == "" {
		return nil, fmt.Errorf("%w: record with user ID is required", storage.ErrInvalidInput)
	}
	if !types.IsValidEmotionType(record.Emotion) {
		return nil, fmt.Errorf("%w: unknown emotion type %q", storage.ErrInvalidInput, record.Emotion)
	}
	if record.Intensity < 0 || record.Intensity > 1 {
		return nil, fmt.Errorf("%w: intensity must be in [0, 1], got %f", storage.ErrInvalidInput, record.Intensity)
	}

	now := e.now()
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = now
	}

	mu := e.stripe(record.UserID)
	mu.Lock()
	defer mu.Unlock()

	profile, err := e.loadLocked(ctx, record.UserID, now)
	if err != nil {
		return nil, err
	}

	profile.History = append(profile.History, *record)
	sort.SliceStable(profile.History, func(i, j int) bool {
		return profile.History[i].Timestamp.Before(profile.History[j].Timestamp)
	})
	if e.config.MaxHistory > 0 && len(profile.History) > e.config.MaxHistory {
		profile.History = profile.History[len(profile.History)-e.config.MaxHistory:]
	}

	recordCopy := *record
	profile.CurrentEmotion = &recordCopy
	e.recompute(profile, now)

	if err := e.store.Save(ctx, profile); err != nil {
		e.cache.Remove(record.UserID)
		return nil, fmt.Errorf("failed to persist profile: %w", err)
	}
	if err := e.store.AppendStability(ctx, record.UserID, profile.EmotionalStability, now); err != nil {
		return nil, fmt.Errorf("failed to persist stability snapshot: %w", err)
	}

	e.cache.Add(record.UserID, profile)
	return cloneProfile(profile), nil
}

// recompute refreshes every derived view from the history.
func (e *ProfileEngine) recompute(profile *types.Profile, now time.Time) {
	daily, dailyDominant := AnalyzeDailyPattern(profile.History)
	weekly, weeklyDominant, bestDay, worstDay := AnalyzeWeeklyPattern(profile.History)

	profile.Pattern = types.EmotionPattern{
		DailyPattern:     daily,
		DailyDominant:    dailyDominant,
		WeeklyPattern:    weekly,
		WeeklyDominant:   weeklyDominant,
		BestDay:          bestDay,
		WorstDay:         worstDay,
		Triggers:         AnalyzeTriggers(profile.History),
		CopingStrategies: AnalyzeCopingStrategies(profile.History),
		LastUpdated:      now,
	}
	profile.Personality = AnalyzePersonality(profile.History, now)
	profile.Interests = AnalyzeInterests(profile.History, now)
	profile.EmotionalStability = ComputeStability(profile.History)
	profile.LastUpdated = now
}

// GetProfile returns a user's profile, creating and persisting a default one
// on first access.
func (e *ProfileEngine) GetProfile(ctx context.Context, userID string) (*types.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", storage.ErrInvalidInput)
	}

	mu := e.stripe(userID)
	mu.Lock()
	defer mu.Unlock()

	profile, err := e.loadLocked(ctx, userID, e.now())
	if err != nil {
		return nil, err
	}
	return cloneProfile(profile), nil
}

// loadLocked returns the cached or stored profile, creating a default one
// when none exists. The caller must hold the user's stripe.
func (e *ProfileEngine) loadLocked(ctx context.Context, userID string, now time.Time) (*types.Profile, error) {
	if profile, ok := e.cache.Get(userID); ok {
		return profile, nil
	}

	profile, err := e.store.Load(ctx, userID)
	if err == nil {
		e.cache.Add(userID, profile)
		return profile, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile = types.NewProfile(userID, now)
	if err := e.store.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to persist new profile: %w", err)
	}
	e.cache.Add(userID, profile)
	return profile, nil
}

// Predict runs the classifier over the user's current state and reports the
// verdict with the grouped factor weights. The feature vector is also pushed
// to the state vector store when one is configured.
func (e *ProfileEngine) Predict(ctx context.Context, userID string, context map[string]float64) (*types.Prediction, error) {
	profile, err := e.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	features := BuildFeatures(profile, context, now)
	result, err := e.classifier.Classify(ctx, &classify.Request{
		Features:       features,
		RecentEmotions: RecentEmotions(profile.History),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to classify emotional state: %w", err)
	}

	if e.vectors != nil {
		vec := make([]float32, len(features))
		for i, v := range features {
			vec[i] = float32(v)
		}
		if err := e.vectors.UpsertStateVector(ctx, userID, vec); err != nil {
			e.log.WithError(err).WithField("user_id", userID).Warn("failed to persist state vector")
		}
	}

	return &types.Prediction{
		Emotion:    result.Label,
		Confidence: result.Confidence,
		Factors:    PredictionFactors(result.Importances),
		Timestamp:  now,
	}, nil
}

// SimilarStates returns users whose latest state vector is closest to this
// user's current one. Requires a configured state vector store.
func (e *ProfileEngine) SimilarStates(ctx context.Context, userID string, context map[string]float64, limit int) ([]storage.StateNeighbor, error) {
	if e.vectors == nil {
		return nil, fmt.Errorf("state vector store not configured")
	}

	profile, err := e.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	features := BuildFeatures(profile, context, e.now())
	vec := make([]float32, len(features))
	for i, v := range features {
		vec[i] = float32(v)
	}
	return e.vectors.SimilarStates(ctx, vec, limit)
}

// Recommend returns the ranked recommendation list for a user.
func (e *ProfileEngine) Recommend(ctx context.Context, userID string, context map[string]interface{}) ([]types.Recommendation, error) {
	profile, err := e.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return GenerateRecommendations(profile, context, e.now()), nil
}

// cloneProfile copies the profile and its history slice so callers can read
// it without racing a later update. Nested maps are rebuilt on every
// recompute, never mutated in place, so a shallow copy of them is safe.
func cloneProfile(p *types.Profile) *types.Profile {
	clone := *p
	clone.History = append([]types.EmotionRecord(nil), p.History...)
	if p.CurrentEmotion != nil {
		current := *p.CurrentEmotion
		clone.CurrentEmotion = &current
	}
	return &clone
}
