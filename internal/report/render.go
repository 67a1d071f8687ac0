package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/sentinel-sec/sentinel-cli/internal/scan"
)

// FindingDetail returns the identifying detail of a finding for display:
// the pattern name, the command with its count, the file path, or the
// description, depending on the finding type.
func FindingDetail(f scan.Finding) string {
	switch f.Type {
	case scan.BehaviorSuspiciousPattern:
		return f.Pattern
	case scan.BehaviorAgentCommand:
		return fmt.Sprintf("%s (x%d)", f.Command, f.Count)
	case scan.BehaviorProtectedFileAccess:
		return f.File
	case scan.BehaviorVerdictManipulation:
		return f.Description
	default:
		return ""
	}
}

func severityCell(s scan.Severity) string {
	switch s {
	case scan.SeverityCritical, scan.SeverityHigh:
		return pterm.FgRed.Sprint(string(s))
	case scan.SeverityMedium:
		return pterm.FgYellow.Sprint(string(s))
	default:
		return pterm.FgBlue.Sprint(string(s))
	}
}

func levelBadge(l scan.RiskLevel) string {
	switch l {
	case scan.RiskLevelCritical, scan.RiskLevelHigh:
		return pterm.FgRed.Sprint(string(l))
	case scan.RiskLevelMedium:
		return pterm.FgYellow.Sprint(string(l))
	case scan.RiskLevelLow:
		return pterm.FgBlue.Sprint(string(l))
	default:
		return pterm.FgGreen.Sprint(string(l))
	}
}

// Print renders the human-readable console form of a report.
func Print(r *scan.ScanReport) {
	pterm.DefaultSection.Println("Behavioral Scan Report")

	pterm.Printf("Risk Score: %d\n", r.RiskScore)
	pterm.Printf("Risk Level: %s\n\n", levelBadge(r.RiskLevel))

	if len(r.Findings) == 0 {
		pterm.Success.Println("No suspicious behavior detected.")
		return
	}

	pterm.Warning.Printf("Detected %d suspicious behaviors:\n\n", len(r.Findings))

	data := [][]string{
		{"Type", "Severity", "Detail"},
	}
	for _, f := range r.Findings {
		data = append(data, []string{
			pterm.FgCyan.Sprint(string(f.Type)),
			severityCell(f.Severity),
			FindingDetail(f),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	if len(r.Recommendations) > 0 {
		pterm.Println()
		pterm.DefaultSection.WithLevel(2).Println("Recommendations")
		for _, rec := range r.Recommendations {
			pterm.Printf("  %s %s\n", pterm.FgRed.Sprint("•"), rec)
		}
	}
}

// WriteJSON renders the machine-readable form of a report to w.
func WriteJSON(w io.Writer, r *scan.ScanReport) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
