package validation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gilchrisn/graph-inference-eval/pkg/config"
	"github.com/gilchrisn/graph-inference-eval/pkg/models"
)

func validExperiment() *config.Experiment {
	return &config.Experiment{
		InputDir:   "inputs",
		DatasetDir: "example",
		Datasets: []config.DatasetSpec{
			{Name: "GSD", TrueEdges: "refNetwork.csv"},
			{Name: "HSC", TrueEdges: "refNetwork.csv"},
		},
		Algorithms: []config.AlgorithmSpec{
			{Name: "GENIE3", Params: []config.ParamGrid{{Name: "trees", Values: []string{"100"}}}},
			{Name: "PIDC"},
		},
		OutputDir: "outputs",
	}
}

// TestValidateExperiment tests various experiment validation scenarios
func TestValidateExperiment(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*config.Experiment)
		expectError bool
		errorField  string
	}{
		{
			name:        "valid experiment",
			modify:      func(*config.Experiment) {},
			expectError: false,
		},
		{
			name:        "no datasets",
			modify:      func(e *config.Experiment) { e.Datasets = nil },
			expectError: true,
			errorField:  "input_settings.datasets",
		},
		{
			name:        "empty dataset name",
			modify:      func(e *config.Experiment) { e.Datasets[1].Name = " " },
			expectError: true,
			errorField:  "input_settings.datasets[1].name",
		},
		{
			name:        "duplicate dataset name",
			modify:      func(e *config.Experiment) { e.Datasets[1].Name = "GSD" },
			expectError: true,
			errorField:  "input_settings.datasets[1].name",
		},
		{
			name:        "dataset name with separator",
			modify:      func(e *config.Experiment) { e.Datasets[0].Name = "a/b" },
			expectError: true,
			errorField:  "input_settings.datasets[0].name",
		},
		{
			name:        "no algorithms",
			modify:      func(e *config.Experiment) { e.Algorithms = nil },
			expectError: true,
			errorField:  "input_settings.algorithms",
		},
		{
			name:        "duplicate algorithm",
			modify:      func(e *config.Experiment) { e.Algorithms[1].Name = "GENIE3" },
			expectError: true,
			errorField:  "input_settings.algorithms[1].name",
		},
		{
			name: "empty parameter grid",
			modify: func(e *config.Experiment) {
				e.Algorithms[0].Params = append(e.Algorithms[0].Params, config.ParamGrid{Name: "depth"})
			},
			expectError: true,
			errorField:  "input_settings.algorithms[0].params.depth",
		},
		{
			name:        "no output directory",
			modify:      func(e *config.Experiment) { e.OutputDir = "" },
			expectError: true,
			errorField:  "output_settings.output_dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := validExperiment()
			tt.modify(exp)

			err := ValidateExperiment(exp)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if !hasField(err, tt.errorField) {
					t.Errorf("Expected error in field '%s', got: %v", tt.errorField, err)
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestValidateExperimentCollectsAllErrors(t *testing.T) {
	exp := validExperiment()
	exp.Datasets[1].Name = "GSD"
	exp.Algorithms[1].Name = ""
	exp.OutputDir = ""

	err := ValidateExperiment(exp)

	var ve models.ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationErrors, got %T", err)
	}
	if len(ve) != 3 {
		t.Errorf("Expected 3 validation errors, got %d: %v", len(ve), ve)
	}
}

func TestValidateInputs(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "refNetwork.csv")
	if err := os.WriteFile(present, []byte("Gene1,Gene2\nA,B\n"), 0644); err != nil {
		t.Fatal(err)
	}

	datasets := []models.Dataset{
		{Name: "present", ReferencePath: present},
		{Name: "missing", ReferencePath: filepath.Join(dir, "nope.csv")},
		{Name: "directory", ReferencePath: dir},
	}

	err := ValidateInputs(datasets)
	if err == nil {
		t.Fatal("Expected error for missing reference files")
	}

	if hasField(err, "present") {
		t.Errorf("Did not expect an error for an existing file: %v", err)
	}
	if !hasField(err, "missing") || !hasField(err, "directory") {
		t.Errorf("Expected errors for missing and directory references, got: %v", err)
	}

	if err := ValidateInputs(datasets[:1]); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestLoadAndValidateExperiment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := strings.Join([]string{
		"input_settings:",
		"  input_dir: inputs",
		"  dataset_dir: example",
		"  datasets:",
		"    - name: GSD",
		"  algorithms:",
		"    - name: PIDC",
		"output_settings:",
		"  output_dir: outputs",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	exp, err := LoadAndValidateExperiment(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(exp.Datasets) != 1 || exp.Datasets[0].Name != "GSD" {
		t.Errorf("Unexpected datasets: %+v", exp.Datasets)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("input_settings:\n  datasets: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAndValidateExperiment(invalid); err == nil {
		t.Error("Expected validation error for an empty experiment")
	}
}

func hasField(err error, field string) bool {
	var ve models.ValidationErrors
	if errors.As(err, &ve) {
		for _, e := range ve {
			if e.Field == field {
				return true
			}
		}
		return false
	}

	var single models.ValidationError
	if errors.As(err, &single) {
		return single.Field == field
	}
	return false
}
