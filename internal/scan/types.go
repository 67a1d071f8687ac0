package scan

import (
	"regexp"
	"time"
)

// RuleCategory identifies how a rule matches and how its weight is counted.
type RuleCategory string

const (
	// CategorySuspiciousBehavior rules are regexes scored once on presence.
	CategorySuspiciousBehavior RuleCategory = "suspicious_behavior"
	// CategoryAgentCommand rules are regexes scored per occurrence.
	CategoryAgentCommand RuleCategory = "agent_command"
	// CategoryProtectedFile rules are literal paths scored once per distinct file.
	CategoryProtectedFile RuleCategory = "protected_file"
	// CategoryVerdictManipulation is the compound token rule scored flat.
	CategoryVerdictManipulation RuleCategory = "verdict_manipulation"
)

// BehaviorType is the wire discriminator for a finding.
type BehaviorType string

const (
	BehaviorSuspiciousPattern   BehaviorType = "SUSPICIOUS_PATTERN"
	BehaviorAgentCommand        BehaviorType = "AGENT_COMMAND"
	BehaviorProtectedFileAccess BehaviorType = "PROTECTED_FILE_ACCESS"
	BehaviorVerdictManipulation BehaviorType = "VERDICT_MANIPULATION"
)

// Severity labels a single finding.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// RiskLevel classifies the aggregate score of a whole scan.
type RiskLevel string

const (
	RiskLevelNone     RiskLevel = "NONE"
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// PatternRule is one entry of the detection catalog. Exactly one of Regex,
// Literal, or TokensAll is set: Regex for pattern rules, Literal for
// case-sensitive substring rules, TokensAll for compound token rules where
// every token must appear somewhere in the text.
type PatternRule struct {
	Name      string
	Category  RuleCategory
	Severity  Severity
	Weight    int
	Regex     *regexp.Regexp
	Literal   string
	TokensAll []string
}

// Finding records one matched rule. Which of the optional fields is set
// depends on Type: Pattern for SUSPICIOUS_PATTERN, Command and Count for
// AGENT_COMMAND, File for PROTECTED_FILE_ACCESS, Description for
// VERDICT_MANIPULATION.
type Finding struct {
	Type        BehaviorType `json:"type"`
	Pattern     string       `json:"pattern,omitempty"`
	Command     string       `json:"command,omitempty"`
	Count       int          `json:"count,omitempty"`
	File        string       `json:"file,omitempty"`
	Description string       `json:"description,omitempty"`
	Severity    Severity     `json:"severity"`

	// Weight and Occurrences drive scoring and stay off the wire.
	Weight      int `json:"-"`
	Occurrences int `json:"-"`
}

// Points is the finding's contribution to the risk score.
func (f Finding) Points() int {
	return f.Weight * f.Occurrences
}

// ScanReport is the complete result of one scan. It is built once and never
// mutated; the console and artifact renderings both read from the same value.
type ScanReport struct {
	Timestamp       time.Time `json:"timestamp"`
	RiskScore       int       `json:"riskScore"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Findings        []Finding `json:"detectedBehaviors"`
	Recommendations []string  `json:"recommendations"`
}
