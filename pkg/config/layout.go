package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/gilchrisn/graph-inference-eval/pkg/models"
)

const (
	// DefaultRankedEdgesTemplate is the output layout of the benchmark runner
	DefaultRankedEdgesTemplate = "{{.OutputDir}}/{{.Algorithm}}/{{.Combo}}/rankedEdges.csv"
	// DefaultTimeFilePattern matches the `time -v` reports of one combination
	DefaultTimeFilePattern = "time*.txt"
)

// PathData is the data a layout template is executed with
type PathData struct {
	Dataset   string // dataset name
	OutputDir string // dataset output directory
	Algorithm string
	Combo     string // parameter slug, empty without parameters
	ID        string // combination identifier
}

// Layout resolves where an algorithm run wrote its outputs
type Layout struct {
	tmpl *template.Template
}

// NewLayout parses a ranked edges path template
func NewLayout(text string) (Layout, error) {
	if text == "" {
		text = DefaultRankedEdgesTemplate
	}
	tmpl, err := template.New("ranked_edges").Option("missingkey=error").Parse(text)
	if err != nil {
		return Layout{}, fmt.Errorf("invalid path template: %w", err)
	}
	return Layout{tmpl: tmpl}, nil
}

// DefaultLayout returns the layout written by the benchmark runner
func DefaultLayout() Layout {
	layout, err := NewLayout(DefaultRankedEdgesTemplate)
	if err != nil {
		panic(err)
	}
	return layout
}

// RankedEdgesPath returns the ranked edges file of a combination on a dataset
func (l Layout) RankedEdgesPath(dataset models.Dataset, combo models.Combination) (string, error) {
	if l.tmpl == nil {
		l = DefaultLayout()
	}

	data := PathData{
		Dataset:   dataset.Name,
		OutputDir: dataset.OutputDir,
		Algorithm: combo.Algorithm,
		Combo:     combo.Slug(),
		ID:        combo.ID(),
	}

	var buf bytes.Buffer
	if err := l.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to resolve ranked edges path for %s: %w", combo.ID(), err)
	}
	return filepath.Clean(buf.String()), nil
}

// RunDir returns the directory holding all outputs of a combination on a dataset
func (l Layout) RunDir(dataset models.Dataset, combo models.Combination) (string, error) {
	path, err := l.RankedEdgesPath(dataset, combo)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}
