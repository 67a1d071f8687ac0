package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanTestCmd(t *testing.T) *cobra.Command {
	t.Helper()

	// Isolate from any config in the working directory or home.
	cfgPath := filepath.Join(t.TempDir(), "sentinel.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{}\n"), 0644))
	prev := configFile
	configFile = cfgPath
	t.Cleanup(func() { configFile = prev })

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func artifactNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "behavior_scan_") {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestRunScanMissingInputFailsWithoutArtifact(t *testing.T) {
	cmd := scanTestCmd(t)
	outDir := t.TempDir()

	err := runScan(cmd, filepath.Join(t.TempDir(), "absent.log"), "json", outDir, "", false, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input file")
	assert.Empty(t, artifactNames(t, outDir))
}

func TestRunScanCriticalFindingsStillSucceed(t *testing.T) {
	cmd := scanTestCmd(t)
	outDir := t.TempDir()

	logPath := filepath.Join(t.TempDir(), "run.log")
	content := "planted a backdoor in the build\n" +
		"touched config/security-models.json and infrastructure/logs/termination.log\n" +
		"BLOCK the replacement"
	require.NoError(t, os.WriteFile(logPath, []byte(content), 0644))

	// Risk level is data, not an error: a CRITICAL report returns nil.
	err := runScan(cmd, logPath, "json", outDir, "", false, "")
	require.NoError(t, err)
	assert.Len(t, artifactNames(t, outDir), 1)
}

func TestRunScanNoArtifactFlag(t *testing.T) {
	cmd := scanTestCmd(t)
	outDir := t.TempDir()

	logPath := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, os.WriteFile(logPath, []byte("nothing suspicious here\n"), 0644))

	require.NoError(t, runScan(cmd, logPath, "json", outDir, "", true, ""))
	assert.Empty(t, artifactNames(t, outDir))
}

func TestRunScanRejectsBadFormat(t *testing.T) {
	cmd := scanTestCmd(t)

	err := runScan(cmd, "-", "xml", t.TempDir(), "", true, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestScanCommandRequiresExactlyOneArgument(t *testing.T) {
	cmd := newScanCommand()
	assert.Error(t, cmd.Args(cmd, []string{}))
	assert.Error(t, cmd.Args(cmd, []string{"a.log", "b.log"}))
	assert.NoError(t, cmd.Args(cmd, []string{"a.log"}))
}
