package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/halcyon-app/halcyon/internal/storage"
	"github.com/halcyon-app/halcyon/pkg/types"
)

// ProfileEngine is the profile side of the API surface.
type ProfileEngine interface {
	UpdateProfile(ctx context.Context, record *types.EmotionRecord) (*types.Profile, error)
	GetProfile(ctx context.Context, userID string) (*types.Profile, error)
	Predict(ctx context.Context, userID string, context map[string]float64) (*types.Prediction, error)
	Recommend(ctx context.Context, userID string, context map[string]interface{}) ([]types.Recommendation, error)
	SimilarStates(ctx context.Context, userID string, context map[string]float64, limit int) ([]storage.StateNeighbor, error)
}

// SocialAnalyzer is the social analytics side of the API surface.
type SocialAnalyzer interface {
	Record(ctx context.Context, record *types.InteractionRecord) error
	Analyze(ctx context.Context, userID string) (*types.SocialEmotionAnalysis, error)
	Trend(ctx context.Context, userID string, period types.TrendPeriod) (*types.SocialEmotionTrend, error)
	Insight(ctx context.Context, userID string) (*types.SocialEmotionInsight, error)
}

// BehaviorAnalyzer is the behavior analytics side of the API surface.
type BehaviorAnalyzer interface {
	Record(ctx context.Context, event *types.BehaviorEvent) (*types.BehaviorProfile, error)
	Patterns(ctx context.Context, userID string) (*types.BehaviorPattern, error)
	Insights(ctx context.Context, userID string) (*types.BehaviorInsight, error)
}

// AlertService is the alert pipeline side of the API surface.
type AlertService interface {
	CheckAlerts(ctx context.Context, profile *types.Profile) ([]types.Alert, error)
	Resolve(ctx context.Context, id string) error
	Dismiss(ctx context.Context, id string) error
	History(ctx context.Context, userID string) (*types.AlertHistory, error)
}

// RuleSource exposes the live alert rule set.
type RuleSource interface {
	Snapshot() []types.AlertRule
}

// BreakerStateReporter reports the remote classifier circuit state for the
// health endpoint.
type BreakerStateReporter interface {
	BreakerState() string
}

// APIHandlers bundles the HTTP handlers over the domain services.
type APIHandlers struct {
	engine   ProfileEngine
	social   SocialAnalyzer
	behavior BehaviorAnalyzer
	alerts   AlertService
	rules    RuleSource
	breaker  BreakerStateReporter // nil when the heuristic classifier is used
}

// NewAPIHandlers creates the API handler set. breaker may be nil.
func NewAPIHandlers(engine ProfileEngine, social SocialAnalyzer, behavior BehaviorAnalyzer, alerts AlertService, rules RuleSource, breaker BreakerStateReporter) *APIHandlers {
	return &APIHandlers{
		engine:   engine,
		social:   social,
		behavior: behavior,
		alerts:   alerts,
		rules:    rules,
		breaker:  breaker,
	}
}

// errStatus maps domain errors to HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// emotionResponse is returned from emotion ingestion: the updated profile and
// any alerts the update triggered.
type emotionResponse struct {
	Profile *types.Profile `json:"profile"`
	Alerts  []types.Alert  `json:"alerts"`
}

// CreateEmotion handles POST /api/emotions: ingest one emotion record, then
// run the alert rules against the updated profile.
func (h *APIHandlers) CreateEmotion(w http.ResponseWriter, r *http.Request) {
	var record types.EmotionRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	profile, err := h.engine.UpdateProfile(r.Context(), &record)
	if err != nil {
		respondError(w, errStatus(err), "failed to update profile", err)
		return
	}

	fired, err := h.alerts.CheckAlerts(r.Context(), profile)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to evaluate alert rules", err)
		return
	}
	if fired == nil {
		fired = []types.Alert{}
	}

	respondJSON(w, http.StatusCreated, emotionResponse{Profile: profile, Alerts: fired})
}

// GetProfile handles GET /api/users/{id}/profile.
func (h *APIHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.engine.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, errStatus(err), "failed to load profile", err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// Predict handles POST /api/users/{id}/predict. The optional body carries
// named context features (time_of_day, day_of_week, weather_score).
func (h *APIHandlers) Predict(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Context map[string]float64 `json:"context"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "failed to parse request body", err)
			return
		}
	}

	prediction, err := h.engine.Predict(r.Context(), r.PathValue("id"), body.Context)
	if err != nil {
		respondError(w, errStatus(err), "failed to predict emotional state", err)
		return
	}
	respondJSON(w, http.StatusOK, prediction)
}

// GetRecommendations handles GET /api/users/{id}/recommendations. Optional
// risk_level and social_score query parameters feed the risk and social
// recommendation branches.
func (h *APIHandlers) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userContext := map[string]interface{}{}
	if riskLevel := r.URL.Query().Get("risk_level"); riskLevel != "" {
		userContext["risk_level"] = riskLevel
	}
	if score := r.URL.Query().Get("social_score"); score != "" {
		if v, err := strconv.ParseFloat(score, 64); err == nil {
			userContext["social_score"] = v
		}
	}

	recs, err := h.engine.Recommend(r.Context(), r.PathValue("id"), userContext)
	if err != nil {
		respondError(w, errStatus(err), "failed to build recommendations", err)
		return
	}
	respondJSON(w, http.StatusOK, recs)
}

// GetSimilarStates handles GET /api/users/{id}/similar?limit=n.
func (h *APIHandlers) GetSimilarStates(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = parsed
	}

	neighbors, err := h.engine.SimilarStates(r.Context(), r.PathValue("id"), nil, limit)
	if err != nil {
		respondError(w, errStatus(err), "failed to find similar states", err)
		return
	}
	if neighbors == nil {
		neighbors = []storage.StateNeighbor{}
	}
	respondJSON(w, http.StatusOK, neighbors)
}

// CreateInteraction handles POST /api/interactions.
func (h *APIHandlers) CreateInteraction(w http.ResponseWriter, r *http.Request) {
	var record types.InteractionRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	if err := h.social.Record(r.Context(), &record); err != nil {
		respondError(w, errStatus(err), "failed to record interaction", err)
		return
	}
	respondJSON(w, http.StatusCreated, record)
}

// GetSocialAnalysis handles GET /api/users/{id}/social/analysis.
func (h *APIHandlers) GetSocialAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.social.Analyze(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, errStatus(err), "failed to analyze interactions", err)
		return
	}
	respondJSON(w, http.StatusOK, analysis)
}

// GetSocialTrend handles GET /api/users/{id}/social/trend?period=daily.
func (h *APIHandlers) GetSocialTrend(w http.ResponseWriter, r *http.Request) {
	period := types.TrendPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = types.TrendDaily
	}

	trend, err := h.social.Trend(r.Context(), r.PathValue("id"), period)
	if err != nil {
		respondError(w, errStatus(err), "failed to compute trend", err)
		return
	}
	respondJSON(w, http.StatusOK, trend)
}

// GetSocialInsights handles GET /api/users/{id}/social/insights.
func (h *APIHandlers) GetSocialInsights(w http.ResponseWriter, r *http.Request) {
	insight, err := h.social.Insight(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, errStatus(err), "failed to compute insights", err)
		return
	}
	respondJSON(w, http.StatusOK, insight)
}

// CreateBehavior handles POST /api/behaviors.
func (h *APIHandlers) CreateBehavior(w http.ResponseWriter, r *http.Request) {
	var event types.BehaviorEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	profile, err := h.behavior.Record(r.Context(), &event)
	if err != nil {
		respondError(w, errStatus(err), "failed to record behavior", err)
		return
	}
	respondJSON(w, http.StatusCreated, profile)
}

// GetBehaviorPatterns handles GET /api/users/{id}/behavior/patterns.
func (h *APIHandlers) GetBehaviorPatterns(w http.ResponseWriter, r *http.Request) {
	pattern, err := h.behavior.Patterns(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, errStatus(err), "failed to load behavior patterns", err)
		return
	}
	respondJSON(w, http.StatusOK, pattern)
}

// GetBehaviorInsights handles GET /api/users/{id}/behavior/insights.
func (h *APIHandlers) GetBehaviorInsights(w http.ResponseWriter, r *http.Request) {
	insight, err := h.behavior.Insights(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, errStatus(err), "failed to load behavior insights", err)
		return
	}
	respondJSON(w, http.StatusOK, insight)
}

// GetAlerts handles GET /api/users/{id}/alerts.
func (h *APIHandlers) GetAlerts(w http.ResponseWriter, r *http.Request) {
	history, err := h.alerts.History(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, errStatus(err), "failed to load alerts", err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// ResolveAlert handles POST /api/alerts/{id}/resolve.
func (h *APIHandlers) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.alerts.Resolve(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, errStatus(err), "failed to resolve alert", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(types.AlertStatusResolved)})
}

// DismissAlert handles POST /api/alerts/{id}/dismiss.
func (h *APIHandlers) DismissAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.alerts.Dismiss(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, errStatus(err), "failed to dismiss alert", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(types.AlertStatusDismissed)})
}

// GetRules handles GET /api/rules.
func (h *APIHandlers) GetRules(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.rules.Snapshot())
}

// Health handles GET /api/health. Reports the classifier circuit state when
// a remote classifier is configured.
func (h *APIHandlers) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "healthy", "version": "1.0.0"}
	if h.breaker != nil {
		body["classifier_breaker"] = h.breaker.BreakerState()
	}
	respondJSON(w, http.StatusOK, body)
}
