package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilchrisn/graph-inference-eval/pkg/models"
)

const experimentYAML = `
input_settings:
  input_dir: inputs
  dataset_dir: example
  datasets:
    - name: GSD
      exprData: ExpressionData.csv
      trueEdges: refNetwork.csv
    - name: HSC
  algorithms:
    - name: GENIE3
      params:
        should_run: [True]
        trees: [100, 500]
        depth: 5
    - name: PIDC
      params:
        should_run: [True]
    - name: SCODE
      params:
        should_run: [False]
        D: [4]
output_settings:
  output_dir: outputs
  output_prefix: GSD
`

func TestParseExperiment(t *testing.T) {
	exp, err := ParseExperiment([]byte(experimentYAML))
	require.NoError(t, err)

	assert.Equal(t, "inputs", exp.InputDir)
	assert.Equal(t, "example", exp.DatasetDir)
	assert.Equal(t, "outputs", exp.OutputDir)
	assert.Equal(t, "GSD", exp.OutputPrefix)
	require.Len(t, exp.Datasets, 2)
	require.Len(t, exp.Algorithms, 3)

	genie := exp.Algorithms[0]
	assert.Equal(t, "GENIE3", genie.Name)
	assert.Equal(t, []ParamGrid{
		{Name: "should_run", Values: []string{"True"}},
		{Name: "trees", Values: []string{"100", "500"}},
		{Name: "depth", Values: []string{"5"}},
	}, genie.Params, "params keep document order")
}

func TestParseExperimentParamOrderIsNotSorted(t *testing.T) {
	doc := `
input_settings:
  algorithms:
    - name: X
      params:
        zeta: [1]
        alpha: [2]
`
	exp, err := ParseExperiment([]byte(doc))
	require.NoError(t, err)
	require.Len(t, exp.Algorithms[0].Params, 2)
	assert.Equal(t, "zeta", exp.Algorithms[0].Params[0].Name)
	assert.Equal(t, "X_zeta-1_alpha-2", exp.Combinations()[0].ID())
}

func TestParseExperimentErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid yaml", "input_settings: [unclosed"},
		{"params list", "input_settings:\n  algorithms:\n    - name: X\n      params: [1, 2]\n"},
		{"nested values", "input_settings:\n  algorithms:\n    - name: X\n      params:\n        a: [[1]]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExperiment([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseExperimentWithoutParams(t *testing.T) {
	exp, err := ParseExperiment([]byte("input_settings:\n  algorithms:\n    - name: PPCOR\n    - name: SINCERITIES\n      params:\n"))
	require.NoError(t, err)

	combos := exp.Combinations()
	require.Len(t, combos, 2)
	assert.Equal(t, "PPCOR", combos[0].ID())
	assert.Equal(t, "SINCERITIES", combos[1].ID())
}

func TestResolveDatasets(t *testing.T) {
	exp, err := ParseExperiment([]byte(experimentYAML))
	require.NoError(t, err)

	datasets := exp.ResolveDatasets()
	require.Len(t, datasets, 2)

	assert.Equal(t, models.Dataset{
		Name:          "GSD",
		ReferencePath: filepath.Join("inputs", "example", "GSD", "refNetwork.csv"),
		OutputDir:     filepath.Join("outputs", "example", "GSD"),
	}, datasets[0])
	assert.Equal(t, filepath.Join("inputs", "example", "HSC", DefaultTrueEdges), datasets[1].ReferencePath)
}

func TestResultPath(t *testing.T) {
	exp := &Experiment{OutputDir: "outputs", DatasetDir: "example", OutputPrefix: "GSD"}
	assert.Equal(t, filepath.Join("outputs", "example", "GSD-AUPRC.csv"), exp.ResultPath("AUPRC.csv"))

	exp.OutputPrefix = ""
	assert.Equal(t, filepath.Join("outputs", "example", "AUPRC.csv"), exp.ResultPath("AUPRC.csv"))
}

func TestLoadExperiment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(experimentYAML), 0644))

	exp, err := LoadExperiment(path)
	require.NoError(t, err)
	assert.Len(t, exp.Datasets, 2)

	_, err = LoadExperiment(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, models.ErrFileAccess)
}

func TestCombinations(t *testing.T) {
	exp, err := ParseExperiment([]byte(experimentYAML))
	require.NoError(t, err)

	var ids []string
	for _, c := range exp.Combinations() {
		ids = append(ids, c.ID())
	}

	// SCODE is switched off and should_run is not part of the identity
	assert.Equal(t, []string{"GENIE3_trees-100_depth-5", "GENIE3_trees-500_depth-5", "PIDC"}, ids)
}

func TestComboIteratorCrossProduct(t *testing.T) {
	algorithms := []AlgorithmSpec{{
		Name: "A",
		Params: []ParamGrid{
			{Name: "x", Values: []string{"1", "2"}},
			{Name: "y", Values: []string{"a", "b", "c"}},
		},
	}}

	combos := Combinations(algorithms)
	require.Len(t, combos, 6)

	var slugs []string
	for _, c := range combos {
		slugs = append(slugs, c.Slug())
	}
	assert.Equal(t, []string{"x-1_y-a", "x-1_y-b", "x-1_y-c", "x-2_y-a", "x-2_y-b", "x-2_y-c"}, slugs)
}

func TestComboIteratorSkipsEmptyGrid(t *testing.T) {
	algorithms := []AlgorithmSpec{
		{Name: "A", Params: []ParamGrid{{Name: "x", Values: nil}}},
		{Name: "B"},
	}
	combos := Combinations(algorithms)
	require.Len(t, combos, 1)
	assert.Equal(t, "B", combos[0].ID())
}

func TestComboIteratorShouldRunMixed(t *testing.T) {
	algorithms := []AlgorithmSpec{{
		Name: "A",
		Params: []ParamGrid{
			{Name: "k", Values: []string{"1", "2"}},
			{Name: ShouldRunParam, Values: []string{"false", "true"}},
		},
	}}

	combos := Combinations(algorithms)
	require.Len(t, combos, 2)
	assert.Equal(t, "A_k-1", combos[0].ID())
	assert.Equal(t, "A_k-2", combos[1].ID())
}

func TestComboIteratorIsLazyAndRestartable(t *testing.T) {
	algorithms := []AlgorithmSpec{
		{Name: "A", Params: []ParamGrid{{Name: "x", Values: []string{"1", "2"}}}},
		{Name: "B"},
	}
	it := NewComboIterator(algorithms)

	first, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "A_x-1", first.ID())

	it.Reset()
	var ids []string
	for c, ok := it.Next(); ok; c, ok = it.Next() {
		ids = append(ids, c.ID())
	}
	assert.Equal(t, []string{"A_x-1", "A_x-2", "B"}, ids)

	_, ok = it.Next()
	assert.False(t, ok, "stays exhausted")
}
