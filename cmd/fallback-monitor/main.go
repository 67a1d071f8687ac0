package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sentinel-sec/sentinel-cli/internal/audit"
	"github.com/sentinel-sec/sentinel-cli/internal/config"
	"github.com/sentinel-sec/sentinel-cli/internal/monitor"
	"github.com/sentinel-sec/sentinel-cli/internal/utils"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global flags
var (
	configFile string
	logLevel   string
	logFormat  string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fallback-monitor",
		Short: "Health and failover monitor for the primary review model",
		Long: `Monitors the health endpoint of the primary review model and fails over
to a configured fallback after repeated consecutive failures. Also reports
alerts for dangerous security-configuration states.

Examples:
  # One-shot health check
  fallback-monitor check

  # Continuous monitoring with failover
  fallback-monitor watch

  # Report configuration alerts
  fallback-monitor alerts`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logLevel = "debug"
			}
			logger := utils.NewLogger(utils.LoggerConfig{
				Level:  utils.LogLevel(logLevel),
				Format: utils.LogFormat(logFormat),
			})
			cmd.SetContext(utils.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./sentinel.yaml or $HOME/.sentinel/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newAlertsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildMonitor(cmd *cobra.Command, interval time.Duration) (*monitor.Monitor, *audit.Logger, error) {
	logger := utils.LoggerFromContext(cmd.Context())
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}

	settings := cfg.MonitorSettings()
	if interval > 0 {
		settings.Interval = interval
	}

	var auditLog *audit.Logger
	if cfg.AuditLog != "" {
		auditLog, err = audit.OpenFile(cfg.AuditLog)
		if err != nil {
			logger.WithError(err).Warn("Audit trail unavailable")
			auditLog = nil
		}
	}

	return monitor.New(settings, logger, auditLog), auditLog, nil
}

// newCheckCmd creates the check subcommand
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run a single health check against the primary model",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, auditLog, err := buildMonitor(cmd, 0)
			if err != nil {
				return err
			}
			defer auditLog.Close()

			if m.CheckPrimary(cmd.Context()) {
				pterm.Success.Printf("Primary model %s is healthy\n", m.Primary())
				return nil
			}

			pterm.Error.Printf("Primary model %s is unhealthy (%d consecutive failures)\n", m.Primary(), m.FailureCount())
			if m.ShouldFailover() {
				pterm.Warning.Println("Failover threshold reached, run `fallback-monitor watch` to activate failover")
			}
			return nil
		},
	}
}

// newWatchCmd creates the watch subcommand
func newWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously monitor the primary model and fail over when needed",
		Long: `Probe the primary model's health endpoint on an interval. After the
configured number of consecutive failures the monitor activates the fallback
model, if one is configured, and records the event in the audit trail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, auditLog, err := buildMonitor(cmd, interval)
			if err != nil {
				return err
			}
			defer auditLog.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = m.Watch(ctx)
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "override the probe interval from config (e.g. 30s)")

	return cmd
}

// newAlertsCmd creates the alerts subcommand
func newAlertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Report alerts for dangerous security-configuration states",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			alerts := monitor.EvaluateAlerts(cfg.SecurityState(), time.Now())
			if len(alerts) == 0 {
				pterm.Success.Println("No security configuration alerts.")
				return nil
			}

			data := [][]string{
				{"Level", "Message", "Timestamp"},
			}
			for _, a := range alerts {
				level := pterm.FgYellow.Sprint(string(a.Level))
				if a.Level == monitor.AlertCritical {
					level = pterm.FgRed.Sprint(string(a.Level))
				}
				data = append(data, []string{level, a.Message, a.Timestamp.Format(time.RFC3339)})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
}
