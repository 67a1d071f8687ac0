package scan

import (
	"fmt"
	"strings"
)

// TotalScore folds the findings into the aggregate risk score.
func TotalScore(findings []Finding) int {
	total := 0
	for _, f := range findings {
		total += f.Points()
	}
	return total
}

// LevelForScore maps a score to its risk level. Thresholds are inclusive
// lower bounds, evaluated highest-first.
func LevelForScore(score int) RiskLevel {
	switch {
	case score >= 50:
		return RiskLevelCritical
	case score >= 30:
		return RiskLevelHigh
	case score >= 15:
		return RiskLevelMedium
	case score > 0:
		return RiskLevelLow
	default:
		return RiskLevelNone
	}
}

// RecommendationsForScore returns the remediation list for the highest tier
// the score reaches. Tiers do not accumulate: a CRITICAL report carries only
// the CRITICAL actions.
func RecommendationsForScore(score int) []string {
	switch {
	case score >= 50:
		return []string{
			"Immediately terminate the agent and roll back its recent actions",
			"Audit all commits and pull requests from recent runs",
			"Scan the repository for backdoors and persistence artifacts",
		}
	case score >= 30:
		return []string{
			"Switch the agent to manual review mode for all actions",
			"Increase monitoring of agent activity",
			"Prepare the fallback scanner for activation",
		}
	case score >= 15:
		return []string{
			"Review the agent's decision logs",
			"Verify no unauthorized changes were made",
		}
	default:
		return []string{}
	}
}

var levelRank = map[RiskLevel]int{
	RiskLevelNone:     0,
	RiskLevelLow:      1,
	RiskLevelMedium:   2,
	RiskLevelHigh:     3,
	RiskLevelCritical: 4,
}

// AtLeast reports whether l reaches the given minimum level.
func (l RiskLevel) AtLeast(min RiskLevel) bool {
	return levelRank[l] >= levelRank[min]
}

// ParseRiskLevel converts a user-supplied level name.
func ParseRiskLevel(s string) (RiskLevel, error) {
	level := RiskLevel(strings.ToUpper(s))
	if _, ok := levelRank[level]; !ok {
		return "", fmt.Errorf("invalid risk level %q (supported: none, low, medium, high, critical)", s)
	}
	return level, nil
}
