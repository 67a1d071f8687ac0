package report

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/sentinel-sec/sentinel-cli/internal/codescan"
)

// PrintAnalysis renders a code analysis result to the console.
func PrintAnalysis(a codescan.Analysis) {
	pterm.DefaultSection.Println("Code Analysis Report")

	pterm.Printf("Risk Score: %d\n", a.RiskScore)
	pterm.Printf("Requires Patch: %t\n\n", a.RequiresPatch)

	if len(a.Vulnerabilities) == 0 {
		pterm.Success.Println("No vulnerabilities detected.")
		return
	}

	pterm.Warning.Printf("Found %d vulnerabilities:\n\n", len(a.Vulnerabilities))

	data := [][]string{
		{"Type", "Severity", "Description", "Recommendation"},
	}
	for _, v := range a.Vulnerabilities {
		data = append(data, []string{
			pterm.FgCyan.Sprint(v.Type),
			strconv.Itoa(v.Severity),
			v.Description,
			v.Recommendation,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// WriteAnalysisJSON renders a code analysis result as JSON to w.
func WriteAnalysisJSON(w io.Writer, a codescan.Analysis) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(a)
}
