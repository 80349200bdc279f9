package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fluxtrack/internal/api"
	"github.com/2beens/fluxtrack/internal/config"
	"github.com/2beens/fluxtrack/internal/dailylog"
	"github.com/2beens/fluxtrack/internal/logging"
	"github.com/2beens/fluxtrack/internal/notification"
	"github.com/2beens/fluxtrack/internal/plan"
	"github.com/2beens/fluxtrack/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// app wires config -> logging -> transport -> stores, once per
// invocation. Stores are the only state holders; commands go through
// them, never through the api client directly (except for the profile,
// which has no store).
type app struct {
	client            *api.Client
	logStore          *dailylog.Store
	planStore         *plan.Store
	notificationStore *notification.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load(flagEnv, flagConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		Environment:   cfg.Environment,
		SentryEnabled: cfg.SentryEnabled,
		SentryDSN:     os.Getenv("FLUXTRACK_SENTRY_DSN"),
	})

	log.Debugf("using api base url: %s", cfg.ApiBaseURL)

	metricsManager := metrics.NewManager("fluxtrack", "client", prometheus.DefaultRegisterer)

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
	}
	client := api.NewClient(cfg.ApiBaseURL, cfg.ApiToken, httpClient, metricsManager)

	return &app{
		client:            client,
		logStore:          dailylog.NewStore(client, metricsManager),
		planStore:         plan.NewStore(client, metricsManager),
		notificationStore: notification.NewStore(client),
	}, nil
}

// parseSessions parses "run:30,lift:45" into planned sessions.
func parseSessions(spec string) ([]dailylog.PlannedSession, error) {
	if spec == "" {
		return nil, nil
	}

	var sessions []dailylog.PlannedSession
	for _, part := range strings.Split(spec, ",") {
		fields := strings.Split(part, ":")
		if len(fields) < 2 {
			return nil, fmt.Errorf("invalid session %q, want type:durationMin", part)
		}
		duration, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid duration in %q: %w", part, err)
		}
		session := dailylog.PlannedSession{
			Type:        fields[0],
			DurationMin: duration,
		}
		if len(fields) > 2 {
			session.Notes = fields[2]
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// parseActualSessions parses "run:30:7,lift:45:8" where the third field
// is the perceived intensity (1-10).
func parseActualSessions(spec string) ([]dailylog.ActualSession, error) {
	if spec == "" {
		return nil, nil
	}

	var sessions []dailylog.ActualSession
	for _, part := range strings.Split(spec, ",") {
		fields := strings.Split(part, ":")
		if len(fields) < 3 {
			return nil, fmt.Errorf("invalid session %q, want type:durationMin:intensity", part)
		}
		duration, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid duration in %q: %w", part, err)
		}
		intensity, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("invalid intensity in %q: %w", part, err)
		}
		sessions = append(sessions, dailylog.ActualSession{
			Type:               fields[0],
			DurationMin:        duration,
			PerceivedIntensity: intensity,
		})
	}
	return sessions, nil
}

func today() string {
	return time.Now().Format("2006-01-02")
}
