// Package server provides HTTP server initialization and lifecycle management
// for the Halcyon API.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/halcyon-app/halcyon/internal/alerts"
	"github.com/halcyon-app/halcyon/internal/behavior"
	"github.com/halcyon-app/halcyon/internal/config"
	"github.com/halcyon-app/halcyon/internal/engine"
	"github.com/halcyon-app/halcyon/internal/notify"
	"github.com/halcyon-app/halcyon/internal/rules"
	"github.com/halcyon-app/halcyon/internal/social"
	"github.com/halcyon-app/halcyon/internal/storage"
	"github.com/halcyon-app/halcyon/web/handlers"
)

// Stores bundles the storage backends the server wires together. StateVectors
// may be nil (similarity lookups disabled).
type Stores struct {
	Profiles     storage.ProfileStore
	Behaviors    storage.BehaviorStore
	Interactions storage.InteractionStore
	Alerts       storage.AlertStore
	StateVectors storage.StateVectorStore
}

// Deps carries the pre-built domain services into the server. Breaker may be
// nil when the heuristic classifier is in use.
type Deps struct {
	Engine   *engine.ProfileEngine
	Social   *social.Analyzer
	Behavior *behavior.Analyzer
	Rules    *rules.Set
	Breaker  handlers.BreakerStateReporter
}

// securityHeadersMiddleware adds security headers to all HTTP responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// Start builds the alert pipeline, mounts all routes and starts the HTTP
// server. It returns the actual address being listened on (useful for tests
// with port 0) and the websocket hub carrying the live alert stream. The
// server shuts down gracefully when ctx is cancelled.
func Start(ctx context.Context, cfg *config.Config, stores Stores, deps Deps) (string, *handlers.WebSocketHub, error) {
	log := logrus.WithField("component", "server")

	wsHub := handlers.NewWebSocketHub([]string{
		fmt.Sprintf("localhost:%d", cfg.Server.Port),
		fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
	})
	go wsHub.Run()

	alertOpts := []alerts.Option{
		alerts.WithOnCreated(wsHub.BroadcastAlert),
	}
	if urls := cfg.Alerts.WebhookURLs(); len(urls) > 0 {
		alertOpts = append(alertOpts, alerts.WithNotifier(notify.NewWebhookNotifier(urls)))
	}
	alertService := alerts.NewService(stores.Alerts, alerts.NewEvaluator(stores.Profiles), deps.Rules, alertOpts...)

	api := handlers.NewAPIHandlers(deps.Engine, deps.Social, deps.Behavior, alertService, deps.Rules, deps.Breaker)

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("POST /api/emotions", api.CreateEmotion)
	apiMux.HandleFunc("GET /api/users/{id}/profile", api.GetProfile)
	apiMux.HandleFunc("POST /api/users/{id}/predict", api.Predict)
	apiMux.HandleFunc("GET /api/users/{id}/recommendations", api.GetRecommendations)
	apiMux.HandleFunc("GET /api/users/{id}/similar", api.GetSimilarStates)
	apiMux.HandleFunc("POST /api/interactions", api.CreateInteraction)
	apiMux.HandleFunc("GET /api/users/{id}/social/analysis", api.GetSocialAnalysis)
	apiMux.HandleFunc("GET /api/users/{id}/social/trend", api.GetSocialTrend)
	apiMux.HandleFunc("GET /api/users/{id}/social/insights", api.GetSocialInsights)
	apiMux.HandleFunc("POST /api/behaviors", api.CreateBehavior)
	apiMux.HandleFunc("GET /api/users/{id}/behavior/patterns", api.GetBehaviorPatterns)
	apiMux.HandleFunc("GET /api/users/{id}/behavior/insights", api.GetBehaviorInsights)
	apiMux.HandleFunc("GET /api/users/{id}/alerts", api.GetAlerts)
	apiMux.HandleFunc("POST /api/alerts/{id}/resolve", api.ResolveAlert)
	apiMux.HandleFunc("POST /api/alerts/{id}/dismiss", api.DismissAlert)
	apiMux.HandleFunc("GET /api/rules", api.GetRules)

	mux := http.NewServeMux()

	// Health endpoint stays unauthenticated for monitoring.
	mux.HandleFunc("GET /api/health", api.Health)

	// API routes require auth in production mode.
	mux.Handle("/api/", handlers.RequireAuth(apiMux, cfg))

	// WebSocket alert stream (origin validation handles security).
	mux.Handle("/ws", wsHub)

	rateLimiter := handlers.NewRateLimiter(float64(cfg.Security.RateLimitPerSecond), cfg.Security.RateLimitBurst)
	handler := handlers.RateLimitMiddleware(mux, rateLimiter)
	handler = securityHeadersMiddleware(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		wsHub.Stop()
		return "", nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	actualAddr := listener.Addr().String()

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown error")
		}
		wsHub.Stop()
	}()

	log.WithField("addr", actualAddr).Info("server listening")
	return actualAddr, wsHub, nil
}
