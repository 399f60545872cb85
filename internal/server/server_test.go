package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-app/halcyon/internal/behavior"
	"github.com/halcyon-app/halcyon/internal/config"
	"github.com/halcyon-app/halcyon/internal/engine"
	"github.com/halcyon-app/halcyon/internal/rules"
	"github.com/halcyon-app/halcyon/internal/social"
	"github.com/halcyon-app/halcyon/internal/storage/sqlite"
	"github.com/halcyon-app/halcyon/pkg/types"
)

func startTestServer(t *testing.T) string {
	t.Helper()

	store, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	profileEngine, err := engine.NewProfileEngine(store.Profiles(), nil, engine.DefaultConfig())
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Security.SecurityMode = "development"
	cfg.Security.RateLimitPerSecond = 100
	cfg.Security.RateLimitBurst = 100

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	addr, _, err := Start(ctx, cfg, Stores{
		Profiles:     store.Profiles(),
		Behaviors:    store.Behaviors(),
		Interactions: store.Interactions(),
		Alerts:       store.Alerts(),
	}, Deps{
		Engine:   profileEngine,
		Social:   social.NewAnalyzer(store.Interactions()),
		Behavior: behavior.NewAnalyzer(store.Behaviors()),
		Rules:    rules.NewSet(rules.DefaultRules()),
	})
	require.NoError(t, err)
	return "http://" + addr
}

func TestServerEndToEnd(t *testing.T) {
	base := startTestServer(t)

	resp, err := http.Get(base + "/api/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	resp.Body.Close()

	body := `{"user_id":"user-1","emotion_type":"happy","intensity":0.8,"context":"great chat with a friend"}`
	resp, err = http.Post(base+"/api/emotions", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(base + "/api/users/user-1/profile")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var profile types.Profile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, "user-1", profile.UserID)
	require.Len(t, profile.History, 1)
	assert.Equal(t, types.EmotionHappy, profile.History[0].Emotion)
}

func TestServerRejectsUnknownEmotion(t *testing.T) {
	base := startTestServer(t)

	body := `{"user_id":"user-1","emotion_type":"euphoric","intensity":0.8}`
	resp, err := http.Post(base+"/api/emotions", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServerProductionAuth(t *testing.T) {
	store, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	profileEngine, err := engine.NewProfileEngine(store.Profiles(), nil, engine.DefaultConfig())
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Security.SecurityMode = "production"
	cfg.Security.APIToken = "secret"
	cfg.Security.RateLimitPerSecond = 100
	cfg.Security.RateLimitBurst = 100

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	addr, _, err := Start(ctx, cfg, Stores{
		Profiles:     store.Profiles(),
		Behaviors:    store.Behaviors(),
		Interactions: store.Interactions(),
		Alerts:       store.Alerts(),
	}, Deps{
		Engine:   profileEngine,
		Social:   social.NewAnalyzer(store.Interactions()),
		Behavior: behavior.NewAnalyzer(store.Behaviors()),
		Rules:    rules.NewSet(rules.DefaultRules()),
	})
	require.NoError(t, err)
	base := "http://" + addr

	// Health stays open.
	resp, err := http.Get(base + "/api/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// API routes require the token.
	resp, err = http.Get(base + "/api/rules")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodGet, base+"/api/rules", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
