// Command halcyon-web runs the Halcyon HTTP API server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/halcyon-app/halcyon/internal/behavior"
	"github.com/halcyon-app/halcyon/internal/classify"
	"github.com/halcyon-app/halcyon/internal/config"
	"github.com/halcyon-app/halcyon/internal/engine"
	"github.com/halcyon-app/halcyon/internal/rules"
	"github.com/halcyon-app/halcyon/internal/server"
	"github.com/halcyon-app/halcyon/internal/social"
	"github.com/halcyon-app/halcyon/internal/storage/postgres"
	"github.com/halcyon-app/halcyon/internal/storage/sqlite"
	"github.com/halcyon-app/halcyon/web/handlers"
)

func main() {
	rulesPath := flag.String("rules", "", "Path to an alert rules YAML file (overrides built-in rules)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	if *rulesPath != "" {
		cfg.Alerts.RulesPath = *rulesPath
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, closeStores, err := openStores(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize storage")
	}
	defer closeStores()

	var classifier classify.Classifier
	var breaker handlers.BreakerStateReporter
	if cfg.Classifier.ServiceURL != "" {
		remote := classify.NewRemoteClassifier(classify.RemoteConfig{
			BaseURL: cfg.Classifier.ServiceURL,
			Timeout: time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second,
		}, classify.NewHeuristicClassifier())
		classifier = remote
		breaker = remote
	}

	engineCfg := engine.DefaultConfig()
	engineCfg.MaxHistory = cfg.Engine.MaxHistory
	engineCfg.CacheSize = cfg.Engine.CacheSize

	var engineOpts []engine.Option
	if stores.StateVectors != nil {
		engineOpts = append(engineOpts, engine.WithStateVectors(stores.StateVectors))
	}
	profileEngine, err := engine.NewProfileEngine(stores.Profiles, classifier, engineCfg, engineOpts...)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize profile engine")
	}

	ruleSet := rules.NewSet(rules.DefaultRules())
	if cfg.Alerts.RulesPath != "" {
		watcher := rules.NewWatcher(cfg.Alerts.RulesPath, ruleSet)
		if err := watcher.Start(); err != nil {
			logrus.WithError(err).Fatal("failed to watch rules file")
		}
		defer watcher.Stop()
	}

	addr, _, err := server.Start(ctx, cfg, stores, server.Deps{
		Engine:   profileEngine,
		Social:   social.NewAnalyzer(stores.Interactions),
		Behavior: behavior.NewAnalyzer(stores.Behaviors),
		Rules:    ruleSet,
		Breaker:  breaker,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
	logrus.WithField("addr", addr).Info("halcyon running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logrus.Info("shutting down gracefully")
	cancel()
	time.Sleep(1 * time.Second) // give in-flight connections time to close
}

// openStores builds the storage backends for the configured engine.
func openStores(cfg *config.Config) (server.Stores, func(), error) {
	switch cfg.Storage.StorageEngine {
	case "postgres":
		store, err := postgres.NewStore(cfg.Storage.PostgresDSN)
		if err != nil {
			return server.Stores{}, nil, err
		}
		stores := server.Stores{
			Profiles:     store.Profiles(),
			Behaviors:    store.Behaviors(),
			Interactions: store.Interactions(),
			Alerts:       store.Alerts(),
		}
		if vectors := store.StateVectors(); vectors != nil {
			stores.StateVectors = vectors
		}
		return stores, func() { store.Close() }, nil
	default:
		if err := os.MkdirAll(cfg.Storage.DataPath, 0o700); err != nil {
			return server.Stores{}, nil, err
		}
		store, err := sqlite.NewStore(filepath.Join(cfg.Storage.DataPath, "halcyon.db"))
		if err != nil {
			return server.Stores{}, nil, err
		}
		return server.Stores{
			Profiles:     store.Profiles(),
			Behaviors:    store.Behaviors(),
			Interactions: store.Interactions(),
			Alerts:       store.Alerts(),
		}, func() { store.Close() }, nil
	}
}
