// Command bombalarm watches the BIWAPP civil-defense feed for
// bomb-related alerts and posts each new one to a Discord webhook,
// with a rendered map of the affected area when one is available.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/apex/log"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saicode/bombalarm/internal/biwapp"
	"github.com/saicode/bombalarm/internal/config"
	"github.com/saicode/bombalarm/internal/discord"
	"github.com/saicode/bombalarm/internal/mapbox"
	"github.com/saicode/bombalarm/internal/pipeline"
	"github.com/saicode/bombalarm/internal/store"
)

const (
	sentFileName  = "sent_alerts.json"
	stateFileName = "poll_state.json"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		log.Fatalf("failed to create state directory %s: %v", cfg.StateDir, err)
	}

	sent, err := store.OpenSentStore(filepath.Join(cfg.StateDir, sentFileName))
	if err != nil {
		log.Warnf("sent-alert history unreadable, starting empty: %v", err)
	}
	state, err := store.OpenStateStore(filepath.Join(cfg.StateDir, stateFileName))
	if err != nil {
		log.Warnf("poll state unreadable, starting empty: %v", err)
	}

	processor := &pipeline.Processor{
		Webhook:       discord.NewWebhook(cfg.WebhookURL),
		Sent:          sent,
		StateDir:      cfg.StateDir,
		DeliveryDelay: cfg.DeliveryDelay,
	}
	if cfg.MapboxToken != "" {
		processor.Maps = mapbox.NewClient(cfg.MapboxToken)
	} else {
		log.Warn("MAPBOX_TOKEN not set, notifications will not include maps")
	}

	poller := &pipeline.Poller{
		Feed:      biwapp.NewClient(cfg.FeedURL, cfg.FeedLocation),
		Processor: processor,
		State:     state,
		Interval:  cfg.PollInterval,
	}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/api/v1/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(state.Snapshot()); err != nil {
			log.Errorf("failed to write status response: %v", err)
		}
	}).Methods(http.MethodGet)

	go func() {
		log.Infof("status server listening on %s", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
			log.Fatalf("status server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poller.Run(ctx)
	log.Info("shutdown complete")
}
