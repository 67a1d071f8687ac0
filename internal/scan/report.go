package scan

import "time"

// BuildReport assembles the immutable scan result. Score, level and
// recommendations are all derived from the findings here, once; the console
// and artifact renderings read the same value without recomputation.
func BuildReport(findings []Finding, at time.Time) *ScanReport {
	if findings == nil {
		findings = []Finding{}
	}

	score := TotalScore(findings)
	return &ScanReport{
		Timestamp:       at.UTC(),
		RiskScore:       score,
		RiskLevel:       LevelForScore(score),
		Findings:        findings,
		Recommendations: RecommendationsForScore(score),
	}
}
