package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilchrisn/graph-inference-eval/pkg/models"
	"github.com/gilchrisn/graph-inference-eval/pkg/parser"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()

	settings, err := c.Settings()
	require.NoError(t, err)

	assert.Equal(t, parser.DefaultOptions(), settings.Parser)
	assert.GreaterOrEqual(t, settings.Workers, 1)
	assert.Equal(t, DefaultTimeFilePattern, settings.TimeFilePattern)
	assert.True(t, settings.WriteRecords)
	assert.Equal(t, "info", c.LogLevel())
}

func TestConfigSet(t *testing.T) {
	c := NewConfig()
	c.Set("evaluation.directed", false)
	c.Set("evaluation.self_edges", true)
	c.Set("input.delimiter", "tab")
	c.Set("performance.num_workers", 3)

	settings, err := c.Settings()
	require.NoError(t, err)
	assert.False(t, settings.Parser.Directed)
	assert.True(t, settings.Parser.SelfEdges)
	assert.Equal(t, "\t", settings.Parser.Delimiter)
	assert.Equal(t, 3, settings.Workers)
}

func TestConfigSequentialMode(t *testing.T) {
	c := NewConfig()
	c.Set("performance.parallel", false)
	c.Set("performance.num_workers", 8)

	settings, err := c.Settings()
	require.NoError(t, err)
	assert.Equal(t, 1, settings.Workers)
}

func TestConfigInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"delimiter", "input.delimiter", "::"},
		{"universe", "evaluation.node_universe", "everything"},
		{"template", "output.ranked_edges_template", "{{.OutputDir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfig()
			c.Set(tt.key, tt.value)
			_, err := c.Settings()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("BLEVAL_EVALUATION_ABS_SCORES", "true")
	t.Setenv("BLEVAL_EVALUATION_NODE_UNIVERSE", "reference")

	settings, err := NewConfig().Settings()
	require.NoError(t, err)
	assert.True(t, settings.Parser.AbsScores)
	assert.Equal(t, parser.UniverseReference, settings.Parser.Universe)
}

func TestConfigLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "evaluation:\n  directed: false\ninput:\n  header: false\nlogging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c := NewConfig()
	require.NoError(t, c.LoadFromFile(path))

	assert.False(t, c.Directed())
	assert.False(t, c.Header())
	assert.Equal(t, "debug", c.LogLevel())
	// untouched keys keep their defaults
	assert.False(t, c.SelfEdges())
}

func TestConfigLoadFromMissingFile(t *testing.T) {
	err := NewConfig().LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCreateLogger(t *testing.T) {
	c := NewConfig()
	c.Set("logging.json", true)
	c.Set("logging.level", "warn")

	var buf bytes.Buffer
	logger := c.createLogger(&buf)
	logger.Info().Msg("hidden")
	logger.Warn().Str("dataset", "GSD").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"service":"bleval"`)
	assert.Contains(t, out, `"dataset":"GSD"`)
}

func TestLayoutRankedEdgesPath(t *testing.T) {
	dataset := models.Dataset{Name: "GSD", OutputDir: filepath.Join("outputs", "example", "GSD")}

	tests := []struct {
		name     string
		template string
		combo    models.Combination
		expected string
	}{
		{
			name:     "default without params",
			combo:    models.Combination{Algorithm: "PIDC"},
			expected: filepath.Join("outputs", "example", "GSD", "PIDC", "rankedEdges.csv"),
		},
		{
			name:     "default with params",
			combo:    models.Combination{Algorithm: "GENIE3", Params: []models.Param{{Name: "trees", Value: "100"}}},
			expected: filepath.Join("outputs", "example", "GSD", "GENIE3", "trees-100", "rankedEdges.csv"),
		},
		{
			name:     "custom",
			template: "{{.OutputDir}}/{{.ID}}.tsv",
			combo:    models.Combination{Algorithm: "GENIE3", Params: []models.Param{{Name: "trees", Value: "100"}}},
			expected: filepath.Join("outputs", "example", "GSD", "GENIE3_trees-100.tsv"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := NewLayout(tt.template)
			require.NoError(t, err)

			path, err := layout.RankedEdgesPath(dataset, tt.combo)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, path)
		})
	}
}

func TestLayoutZeroValueUsesDefault(t *testing.T) {
	dataset := models.Dataset{Name: "GSD", OutputDir: "out"}
	dir, err := Layout{}.RunDir(dataset, models.Combination{Algorithm: "PIDC"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "PIDC"), dir)
}

func TestLayoutUnknownField(t *testing.T) {
	layout, err := NewLayout("{{.Nope}}/rankedEdges.csv")
	require.NoError(t, err)

	_, err = layout.RankedEdgesPath(models.Dataset{}, models.Combination{Algorithm: "A"})
	assert.Error(t, err)
}
