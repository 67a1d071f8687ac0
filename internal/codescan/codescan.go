// Package codescan detects common vulnerability classes in source text and
// suggests remediation. Like the behavioral scanner it is a pure, stateless
// classification of one input blob.
package codescan

import (
	"fmt"
	"regexp"
	"strings"
)

// Vulnerability is one detected issue. Severity is the issue's numeric
// contribution to the analysis risk score.
type Vulnerability struct {
	Type           string `json:"type"`
	Severity       int    `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation,omitempty"`
}

// Analysis is the complete result of analyzing one input.
type Analysis struct {
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	RiskScore       int             `json:"risk_score"`
	RequiresPatch   bool            `json:"requires_patch"`
}

type vulnClass struct {
	vulnType    string
	severity    int
	description string
	patterns    []*regexp.Regexp
}

// Patterns are deliberately case-sensitive: they target literal SQL
// keywords and JavaScript identifiers as written.
var vulnClasses = []vulnClass{
	{
		vulnType:    "sql_injection",
		severity:    8,
		description: "SQL query assembled by string concatenation",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`SELECT.*FROM.*WHERE.*=.*\+`),
			regexp.MustCompile(`INSERT INTO.*VALUES.*\+`),
			regexp.MustCompile(`UPDATE.*SET.*WHERE.*\+`),
		},
	},
	{
		vulnType:    "xss",
		severity:    6,
		description: "Unsanitized content rendered into the DOM",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`innerHTML\s*=`),
			regexp.MustCompile(`document\.write\(`),
			regexp.MustCompile(`eval\(`),
		},
	},
	{
		vulnType:    "authentication_bypass",
		severity:    9,
		description: "Authentication decision based on a forgeable value",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`if.*admin.*==.*true`),
			regexp.MustCompile(`session\[.*admin.*\].*=.*True`),
			regexp.MustCompile(`authenticated.*=.*1`),
		},
	},
}

// Tokens whose presence in code suggests tampering with the scanning setup.
var tamperTokens = []string{"model_replacement", "security_scanner"}

// Analyze classifies the input text. One vulnerability is reported per
// class with at least one matching pattern; the risk score is the sum of
// the severities of everything found.
func Analyze(code string) Analysis {
	vulnerabilities := make([]Vulnerability, 0)

	for _, class := range vulnClasses {
		for _, p := range class.patterns {
			if p.MatchString(code) {
				vulnerabilities = append(vulnerabilities, Vulnerability{
					Type:           class.vulnType,
					Severity:       class.severity,
					Description:    class.description,
					Recommendation: PatchAdvice(class.vulnType),
				})
				break
			}
		}
	}

	vulnerabilities = append(vulnerabilities, detectTampering(code)...)

	score := 0
	for _, v := range vulnerabilities {
		score += v.Severity
	}

	return Analysis{
		Vulnerabilities: vulnerabilities,
		RiskScore:       score,
		RequiresPatch:   len(vulnerabilities) > 0,
	}
}

func detectTampering(code string) []Vulnerability {
	lower := strings.ToLower(code)
	for _, token := range tamperTokens {
		if strings.Contains(lower, token) {
			return []Vulnerability{{
				Type:           "configuration_tampering",
				Severity:       10,
				Description:    "Detected attempt to modify security scanning configuration",
				Recommendation: "Block modification to maintain security integrity",
			}}
		}
	}
	return nil
}

// PatchAdvice returns the remediation for a vulnerability type.
func PatchAdvice(vulnType string) string {
	switch vulnType {
	case "sql_injection":
		return "Use parameterized queries"
	case "xss":
		return "Sanitize user input before rendering"
	case "authentication_bypass":
		return "Implement proper authentication checks"
	case "supply_chain":
		return "Update dependency to secure version"
	default:
		return fmt.Sprintf("Security patch for %s", vulnType)
	}
}
