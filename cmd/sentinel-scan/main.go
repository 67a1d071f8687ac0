package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentinel-sec/sentinel-cli/internal/audit"
	"github.com/sentinel-sec/sentinel-cli/internal/codescan"
	"github.com/sentinel-sec/sentinel-cli/internal/config"
	"github.com/sentinel-sec/sentinel-cli/internal/report"
	"github.com/sentinel-sec/sentinel-cli/internal/scan"
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
		Use:   "sentinel-scan",
		Short: "Behavioral-signature scanner for automation pipeline logs",
		Long: `A command-line utility that classifies free-text execution logs from an
automation pipeline against a catalog of suspicious behavioral signatures,
producing a risk score, a risk level, and remediation recommendations.

Examples:
  sentinel-scan scan agent-run.log
  cat agent-run.log | sentinel-scan scan -
  sentinel-scan scan agent-run.log --format json
  sentinel-scan analyze patch.py`,
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
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (equivalent to --log-level debug)")

	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newAnalyzeCommand())

	// Show help when run without arguments
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		cmd.Help()
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newScanCommand creates the scan subcommand
func newScanCommand() *cobra.Command {
	var (
		outputFormat string
		outputDir    string
		rulesFile    string
		noArtifact   bool
		failOn       string
	)

	cmd := &cobra.Command{
		Use:   "scan <path|->",
		Short: "Scan a pipeline log for suspicious behavioral signatures",
		Long: `Scan the full text of an execution log against the behavioral signature
catalog and report the aggregate risk. Pass "-" to read standard input to
end-of-stream; the whole stream is buffered before matching.

The scan always exits 0 when a report was produced - the risk level is data,
not an error. Use --fail-on to turn a risk level into a CI gate.`,
		Example: `  # Scan a log file
  sentinel-scan scan agent-run.log

  # Scan from a pipe
  cat agent-run.log | sentinel-scan scan -

  # Machine-readable console output, no artifact file
  sentinel-scan scan agent-run.log --format json --no-artifact

  # Extend the catalog and gate CI on HIGH
  sentinel-scan scan agent-run.log --rules extra-rules.yaml --fail-on high`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0], outputFormat, outputDir, rulesFile, noArtifact, failOn)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "console output format (json, text)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for the JSON artifact (default from config, else .)")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML file with additional detection rules")
	cmd.Flags().BoolVar(&noArtifact, "no-artifact", false, "skip writing the JSON artifact file")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "exit non-zero when the risk level reaches this threshold (low, medium, high, critical)")

	return cmd
}

func runScan(cmd *cobra.Command, inputPath, outputFormat, outputDir, rulesFile string, noArtifact bool, failOn string) error {
	logger := utils.LoggerFromContext(cmd.Context())
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	if !isValidOutputFormat(outputFormat) {
		return fmt.Errorf("invalid output format: %s (supported: json, text)", outputFormat)
	}

	var failLevel scan.RiskLevel
	if failOn != "" {
		var err error
		failLevel, err = scan.ParseRiskLevel(failOn)
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if rulesFile == "" {
		rulesFile = cfg.RulesFile
	}
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}

	catalog := scan.DefaultCatalog()
	if rulesFile != "" {
		rf, err := scan.LoadRuleFile(rulesFile)
		if err != nil {
			return err
		}
		custom, err := rf.Compile()
		if err != nil {
			return err
		}
		catalog = append(catalog, custom...)
		logger.WithComponent("scan").Debugf("Loaded %d custom rules from %s", len(custom), rulesFile)
	}

	data, err := utils.ReadInput(inputPath)
	if err != nil {
		return err
	}

	logger.WithComponent("scan").Infof("Scanning %s (%d bytes) against %d rules", utils.InputName(inputPath), len(data), len(catalog))

	findings := scan.Scan(string(data), catalog)
	rep := scan.BuildReport(findings, time.Now())

	switch strings.ToLower(outputFormat) {
	case "json":
		if err := report.WriteJSON(os.Stdout, rep); err != nil {
			return fmt.Errorf("failed to output report: %w", err)
		}
	default:
		report.Print(rep)
	}

	artifactPath := ""
	if !noArtifact {
		artifactPath, err = report.WriteArtifact(rep, outputDir)
		if err != nil {
			return err
		}
		logger.WithComponent("scan").Infof("Report artifact written: %s", artifactPath)
	}

	if cfg.AuditLog != "" {
		auditLog, err := audit.OpenFile(cfg.AuditLog)
		if err != nil {
			logger.WithComponent("scan").WithError(err).Warn("Audit trail unavailable")
		} else {
			auditLog.Emit(audit.Event{
				Event: audit.EventScanCompleted,
				Fields: map[string]any{
					"input":    utils.InputName(inputPath),
					"score":    rep.RiskScore,
					"level":    string(rep.RiskLevel),
					"findings": len(rep.Findings),
					"artifact": artifactPath,
				},
			})
			auditLog.Close()
		}
	}

	if cfg.Notify.WebhookURL != "" {
		minLevel, err := scan.ParseRiskLevel(cfg.Notify.MinLevel)
		if err != nil {
			logger.WithComponent("notify").WithError(err).Warn("Invalid notify.min_level, using HIGH")
			minLevel = scan.RiskLevelHigh
		}
		notifier := report.NewSlackNotifier(cfg.Notify.WebhookURL, cfg.Notify.Channel, minLevel)
		if err := notifier.SendReport(rep); err != nil {
			logger.WithComponent("notify").WithError(err).Warn("Failed to send notification")
		}
	}

	if failOn != "" && rep.RiskLevel.AtLeast(failLevel) {
		logger.WithComponent("scan").Warnf("Risk level %s reached fail-on threshold %s", rep.RiskLevel, failLevel)
		os.Exit(1)
	}

	return nil
}

// newAnalyzeCommand creates the analyze subcommand
func newAnalyzeCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "analyze <path|->",
		Short: "Analyze source text for common vulnerability classes",
		Long: `Check source text for SQL injection, XSS and authentication-bypass
patterns plus signs of security-configuration tampering, and print the
recommended remediation for each finding.`,
		Example: `  # Analyze a changed file
  sentinel-scan analyze patch.py

  # Analyze a diff from a pipe, machine-readable
  git diff | sentinel-scan analyze - --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (json, text)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, inputPath, outputFormat string) error {
	logger := utils.LoggerFromContext(cmd.Context())
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	if !isValidOutputFormat(outputFormat) {
		return fmt.Errorf("invalid output format: %s (supported: json, text)", outputFormat)
	}

	data, err := utils.ReadInput(inputPath)
	if err != nil {
		return err
	}

	logger.WithComponent("analyze").Infof("Analyzing %s (%d bytes)", utils.InputName(inputPath), len(data))

	analysis := codescan.Analyze(string(data))

	if strings.ToLower(outputFormat) == "json" {
		return report.WriteAnalysisJSON(os.Stdout, analysis)
	}

	report.PrintAnalysis(analysis)
	return nil
}

// isValidOutputFormat checks if the output format is supported
func isValidOutputFormat(format string) bool {
	switch strings.ToLower(format) {
	case "json", "text":
		return true
	default:
		return false
	}
}
