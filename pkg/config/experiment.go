package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gilchrisn/graph-inference-eval/pkg/models"
)

// DefaultTrueEdges is the reference file name used when a dataset names none
const DefaultTrueEdges = "refNetwork.csv"

// DatasetSpec is one dataset entry of an experiment file
type DatasetSpec struct {
	Name      string `yaml:"name"`
	TrueEdges string `yaml:"trueEdges"`
}

// ParamGrid is the list of values one parameter takes
type ParamGrid struct {
	Name   string
	Values []string
}

// AlgorithmSpec is one algorithm entry with its parameter grid. Params keep
// the order in which they appear in the file.
type AlgorithmSpec struct {
	Name   string
	Params []ParamGrid
}

// Experiment describes which datasets and algorithm runs to evaluate
type Experiment struct {
	InputDir     string
	DatasetDir   string
	Datasets     []DatasetSpec
	Algorithms   []AlgorithmSpec
	OutputDir    string
	OutputPrefix string
}

type experimentFile struct {
	Input struct {
		InputDir   string          `yaml:"input_dir"`
		DatasetDir string          `yaml:"dataset_dir"`
		Datasets   []DatasetSpec   `yaml:"datasets"`
		Algorithms []algorithmFile `yaml:"algorithms"`
	} `yaml:"input_settings"`
	Output struct {
		OutputDir    string `yaml:"output_dir"`
		OutputPrefix string `yaml:"output_prefix"`
	} `yaml:"output_settings"`
}

type algorithmFile struct {
	Name   string    `yaml:"name"`
	Params yaml.Node `yaml:"params"`
}

// LoadExperiment reads an experiment file
func LoadExperiment(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.FileAccessError{Path: path, Err: err}
	}

	exp, err := ParseExperiment(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return exp, nil
}

// ParseExperiment decodes an experiment document
func ParseExperiment(data []byte) (*Experiment, error) {
	var file experimentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse experiment: %w", err)
	}

	exp := &Experiment{
		InputDir:     file.Input.InputDir,
		DatasetDir:   file.Input.DatasetDir,
		Datasets:     file.Input.Datasets,
		OutputDir:    file.Output.OutputDir,
		OutputPrefix: file.Output.OutputPrefix,
	}

	for _, a := range file.Input.Algorithms {
		params, err := decodeParams(&a.Params)
		if err != nil {
			return nil, fmt.Errorf("algorithm %q: %w", a.Name, err)
		}
		exp.Algorithms = append(exp.Algorithms, AlgorithmSpec{Name: a.Name, Params: params})
	}

	return exp, nil
}

// decodeParams walks the params mapping in document order. A scalar value is
// a single-value grid.
func decodeParams(node *yaml.Node) ([]ParamGrid, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: params must be a mapping", node.Line)
	}

	grids := make([]ParamGrid, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		grid := ParamGrid{Name: key.Value}

		switch value.Kind {
		case yaml.ScalarNode:
			grid.Values = []string{value.Value}
		case yaml.SequenceNode:
			for _, item := range value.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("line %d: values of %q must be scalars", item.Line, key.Value)
				}
				grid.Values = append(grid.Values, item.Value)
			}
		default:
			return nil, fmt.Errorf("line %d: %q must be a scalar or a list", value.Line, key.Value)
		}

		grids = append(grids, grid)
	}
	return grids, nil
}

// ResolveDatasets turns the dataset entries into descriptors with their
// reference file and output directory
func (e *Experiment) ResolveDatasets() []models.Dataset {
	datasets := make([]models.Dataset, 0, len(e.Datasets))
	for _, d := range e.Datasets {
		trueEdges := d.TrueEdges
		if trueEdges == "" {
			trueEdges = DefaultTrueEdges
		}
		datasets = append(datasets, models.Dataset{
			Name:          d.Name,
			ReferencePath: filepath.Join(e.InputDir, e.DatasetDir, d.Name, trueEdges),
			OutputDir:     filepath.Join(e.OutputDir, e.DatasetDir, d.Name),
		})
	}
	return datasets
}

// Combinations enumerates every algorithm run of the experiment
func (e *Experiment) Combinations() []models.Combination {
	return Combinations(e.Algorithms)
}

// ResultDir returns the directory evaluation results are written to
func (e *Experiment) ResultDir() string {
	return filepath.Join(e.OutputDir, e.DatasetDir)
}

// ResultPath returns the path of an output file named by the output prefix
func (e *Experiment) ResultPath(suffix string) string {
	name := suffix
	if e.OutputPrefix != "" {
		name = e.OutputPrefix + "-" + suffix
	}
	return filepath.Join(e.ResultDir(), name)
}
