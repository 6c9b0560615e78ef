// Package scheduler
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	businessflow "github.com/oohgrid/oohgrid/business_flow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_status_refresh_runs_total",
			Help: "Total scheduled campaign status refresh runs, by outcome",
		},
		[]string{"outcome"},
	)

	refreshUpdatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campaign_status_refresh_updated_total",
			Help: "Total campaign rows whose status the scheduled refresh changed",
		},
	)
)

// StatusScheduler periodically reconciles every campaign's persisted status
// with wall-clock time via the status engine. Each run is idempotent, so an
// overlap with a read-triggered refresh only costs a redundant write.
type StatusScheduler struct {
	statusEngine businessflow.StatusEngine
	logger       *log.Logger
	interval     time.Duration

	logFile *os.File
}

// NewStatusScheduler creates a scheduler wrapping the status engine
func NewStatusScheduler(statusEngine businessflow.StatusEngine, interval time.Duration) *StatusScheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	s := &StatusScheduler{
		statusEngine: statusEngine,
		interval:     interval,
	}

	// Initialize scheduler-specific logger (to stdout and persistent file)
	if err := s.initSchedulerLogger(); err != nil {
		// Fallback to default stdout logger if file logger init fails
		s.logger = log.Default()
		s.logger.Printf("scheduler: failed to initialize file logger: %v", err)
	}

	return s
}

// initSchedulerLogger configures a logger that writes to both stdout and a persistent file under data/ (or /data)
func (s *StatusScheduler) initSchedulerLogger() error {
	// Prefer relative data/ then fallback to /data for containerized environments
	candidates := []string{
		filepath.Join("data"),
		"/data",
	}
	for _, dir := range candidates {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			continue
		}
		logPath := filepath.Join(dir, "status_scheduler.log")
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			continue
		}
		s.logFile = f
		mw := io.MultiWriter(os.Stdout, f)
		// log.Logger is goroutine-safe; include timestamps with microseconds and UTC
		s.logger = log.New(mw, "scheduler ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
		return nil
	}
	return fmt.Errorf("could not create scheduler log file in any candidate directory")
}

// Start launches the scheduler loop in a background goroutine and returns a stop function
func (s *StatusScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				s.close()
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (s *StatusScheduler) runOnce(ctx context.Context) {
	updated, err := s.statusEngine.RefreshAll(ctx)
	if err != nil {
		refreshRunsTotal.WithLabelValues("error").Inc()
		s.logger.Printf("scheduler: campaign status refresh failed: %v", err)
		return
	}

	refreshRunsTotal.WithLabelValues("ok").Inc()
	refreshUpdatedTotal.Add(float64(updated))
	s.logger.Printf("scheduler: campaign status refresh completed (updated=%d)", updated)
}

func (s *StatusScheduler) close() {
	if s.logFile != nil {
		_ = s.logFile.Close()
	}
}
