package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"resumeready/internal/config"
	"resumeready/internal/errors"
	"resumeready/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			LogLevel:         "error",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "yaml", "text", "markdown"},
			MaxFileSize:      1 << 20,
		},
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rulesFiredOnly = false
		rulesConfig = rulesConfigDefault
		extractConfig = extractConfigDefault
	})
	err := Execute(context.Background(), testConfig(), errors.Discard())
	return out.String(), err
}

var (
	rulesConfigDefault   = rulesConfig
	extractConfigDefault = extractConfig
)

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "resumeready version "+Version)
}

func TestRulesCommand(t *testing.T) {
	t.Run("all rules", func(t *testing.T) {
		out, err := execute(t, "rules")
		require.NoError(t, err)

		var evaluations []rules.RuleEvaluation
		require.NoError(t, json.Unmarshal([]byte(out), &evaluations))
		assert.Len(t, evaluations, len(rules.AllRules()))
	})

	t.Run("fired only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "analysis.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"impact":{"score":30}}`), 0600))

		out, err := execute(t, "rules", path, "--fired", "--format", "text")
		require.NoError(t, err)
		assert.Contains(t, out, "impact-low-score-major-transform")
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := execute(t, "rules", "--format", "pdf")
		assert.ErrorContains(t, err, "unsupported output format")
	})
}

func TestExtractCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Ada Lovelace\nAnalyst"), 0600))

	out, err := execute(t, "extract", path)
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "text", res["format"])
	assert.Contains(t, res["text"], "Ada Lovelace")
}
