// Package monitor tracks the health of the primary review model and fails
// over to a configured fallback after repeated probe failures.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sentinel-sec/sentinel-cli/internal/audit"
	"github.com/sentinel-sec/sentinel-cli/internal/utils"
)

// DefaultPrimaryModel is the review model the suite is built around.
const DefaultPrimaryModel = "securereview-7"

// ErrNoFallback is returned when failover is requested with no fallback
// model configured.
var ErrNoFallback = errors.New("no fallback model configured")

// Config holds the monitor settings.
type Config struct {
	PrimaryModel      string
	FallbackModel     string
	Endpoints         map[string]string
	Interval          time.Duration
	FailoverThreshold int
	Timeout           time.Duration
}

// DefaultConfig returns the stock monitor configuration.
func DefaultConfig() Config {
	return Config{
		PrimaryModel: DefaultPrimaryModel,
		Endpoints: map[string]string{
			"securereview-7": "https://api.securereview.ai/v7/health",
			"deepseek-v3":    "https://api.deepseek.ai/v3/health",
		},
		Interval:          60 * time.Second,
		FailoverThreshold: 3,
		Timeout:           10 * time.Second,
	}
}

// Monitor drives health probes and the failover state machine. It is used
// from a single goroutine (one-shot command or watch loop).
type Monitor struct {
	cfg    Config
	client *http.Client
	logger *utils.Logger
	audit  *audit.Logger

	// designatedPrimary is the model restore returns to after a failover.
	designatedPrimary string
	primary           string
	fallback          string
	failureCount      int
}

// New creates a monitor. A nil audit logger disables the audit trail.
func New(cfg Config, logger *utils.Logger, auditLog *audit.Logger) *Monitor {
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	return &Monitor{
		cfg:               cfg,
		client:            &http.Client{Timeout: cfg.Timeout},
		logger:            logger.WithComponent("monitor"),
		audit:             auditLog,
		designatedPrimary: cfg.PrimaryModel,
		primary:           cfg.PrimaryModel,
		fallback:          cfg.FallbackModel,
	}
}

// Primary returns the currently active model.
func (m *Monitor) Primary() string { return m.primary }

// Fallback returns the currently configured fallback model.
func (m *Monitor) Fallback() string { return m.fallback }

// FailureCount returns the consecutive probe failures.
func (m *Monitor) FailureCount() int { return m.failureCount }

// CheckPrimary probes the active model's health endpoint. A 2xx response
// resets the failure counter; anything else increments it.
func (m *Monitor) CheckPrimary(ctx context.Context) bool {
	healthy := m.ping(ctx, m.primary)
	if healthy {
		m.failureCount = 0
	} else {
		m.failureCount++
	}

	m.audit.Emit(audit.Event{
		Event: audit.EventHealthCheck,
		Fields: map[string]any{
			"model":    m.primary,
			"healthy":  healthy,
			"failures": m.failureCount,
		},
	})

	return healthy
}

func (m *Monitor) ping(ctx context.Context, model string) bool {
	endpoint, ok := m.cfg.Endpoints[model]
	if !ok {
		m.logger.Warnf("No health endpoint configured for model %s", model)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}

	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.WithError(err).Debugf("Health probe failed for %s", model)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// ShouldFailover reports whether consecutive failures reached the threshold.
func (m *Monitor) ShouldFailover() bool {
	return m.failureCount >= m.cfg.FailoverThreshold
}

// ActivateFallback swaps the active model for the configured fallback.
func (m *Monitor) ActivateFallback() error {
	if m.fallback == "" {
		return ErrNoFallback
	}

	from, to := m.primary, m.fallback
	m.logger.Errorf("Activating fallback from %s to %s after %d failures", from, to, m.failureCount)

	m.audit.Emit(audit.Event{
		Event: audit.EventFailoverActivated,
		Fields: map[string]any{
			"from_model":    from,
			"to_model":      to,
			"failure_count": m.failureCount,
		},
	})

	m.primary, m.fallback = to, from
	m.failureCount = 0
	return nil
}

// RestorePrimary probes the designated primary and reinstates it when
// healthy, clearing the fallback and the failure counter.
func (m *Monitor) RestorePrimary(ctx context.Context) bool {
	if !m.ping(ctx, m.designatedPrimary) {
		return false
	}

	m.primary = m.designatedPrimary
	m.fallback = ""
	m.failureCount = 0

	m.audit.Emit(audit.Event{
		Event: audit.EventPrimaryRestored,
		Fields: map[string]any{
			"model": m.primary,
		},
	})

	m.logger.Infof("Primary model %s restored", m.primary)
	return true
}

// Watch probes the active model on the configured interval until the
// context is cancelled, failing over when the threshold is reached.
func (m *Monitor) Watch(ctx context.Context) error {
	interval := m.cfg.Interval
	if interval <= 0 {
		return fmt.Errorf("invalid probe interval: %v", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.logger.Infof("Watching %s every %v (failover after %d failures)", m.primary, interval, m.cfg.FailoverThreshold)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if m.CheckPrimary(ctx) {
				continue
			}
			m.logger.Warnf("Health check failed for %s (%d/%d)", m.primary, m.failureCount, m.cfg.FailoverThreshold)

			if m.ShouldFailover() {
				if err := m.ActivateFallback(); err != nil {
					m.logger.WithError(err).Error("Failover required but unavailable, system at risk")
				}
			}
		}
	}
}
