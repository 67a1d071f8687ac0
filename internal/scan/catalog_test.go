package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogShape(t *testing.T) {
	catalog := DefaultCatalog()

	counts := map[RuleCategory]int{}
	for _, rule := range catalog {
		counts[rule.Category]++
	}

	assert.Equal(t, 12, counts[CategorySuspiciousBehavior])
	assert.Equal(t, 4, counts[CategoryAgentCommand])
	assert.Equal(t, 5, counts[CategoryProtectedFile])
	assert.Equal(t, 1, counts[CategoryVerdictManipulation])

	// Evaluation order is part of the report contract.
	assert.Equal(t, CategorySuspiciousBehavior, catalog[0].Category)
	assert.Equal(t, CategoryVerdictManipulation, catalog[len(catalog)-1].Category)
}

func writeRuleFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRuleFileValid(t *testing.T) {
	path := writeRuleFile(t, `
rules:
  - name: crypto_mining
    category: suspicious_behavior
    pattern: "(?i)xmrig|minerd"
    severity: high
    weight: 10
  - name: delete_branch
    category: agent_command
    pattern: "(?i)action:\\s*delete_branch"
protected_files:
  - infrastructure/keys/signing.pem
`)

	rf, err := LoadRuleFile(path)
	require.NoError(t, err)

	custom, err := rf.Compile()
	require.NoError(t, err)
	require.Len(t, custom, 3)

	assert.Equal(t, "crypto_mining", custom[0].Name)
	assert.Equal(t, SeverityHigh, custom[0].Severity)
	assert.Equal(t, 10, custom[0].Weight)

	// Omitted weight and severity fall back to the category defaults.
	assert.Equal(t, 5, custom[1].Weight)
	assert.Equal(t, SeverityMedium, custom[1].Severity)

	assert.Equal(t, CategoryProtectedFile, custom[2].Category)
	assert.Equal(t, "infrastructure/keys/signing.pem", custom[2].Literal)
	assert.Equal(t, 20, custom[2].Weight)
}

func TestLoadRuleFileRejectsInvalidPattern(t *testing.T) {
	path := writeRuleFile(t, `
rules:
  - name: broken
    category: suspicious_behavior
    pattern: "["
`)

	_, err := LoadRuleFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestLoadRuleFileRejectsUnknownCategory(t *testing.T) {
	path := writeRuleFile(t, `
rules:
  - name: sneaky
    category: verdict_manipulation
    pattern: "BLOCK"
`)

	_, err := LoadRuleFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid category")
}

func TestLoadRuleFileRejectsDuplicateNames(t *testing.T) {
	path := writeRuleFile(t, `
rules:
  - name: twin
    category: suspicious_behavior
    pattern: "a"
  - name: twin
    category: suspicious_behavior
    pattern: "b"
`)

	_, err := LoadRuleFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate name")
}

func TestLoadRuleFileRejectsNegativeWeight(t *testing.T) {
	path := writeRuleFile(t, `
rules:
  - name: negative
    category: suspicious_behavior
    pattern: "a"
    weight: -5
`)

	_, err := LoadRuleFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight")
}

func TestLoadRuleFileRejectsBadSeverity(t *testing.T) {
	path := writeRuleFile(t, `
rules:
  - name: loud
    category: suspicious_behavior
    pattern: "a"
    severity: catastrophic
`)

	_, err := LoadRuleFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid severity")
}

func TestLoadRuleFileMissing(t *testing.T) {
	_, err := LoadRuleFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
