package validation

import (
	"fmt"
	"os"
	"strings"

	"github.com/gilchrisn/graph-inference-eval/pkg/config"
	"github.com/gilchrisn/graph-inference-eval/pkg/models"
)

// LoadAndValidateExperiment loads an experiment file and validates its structure
func LoadAndValidateExperiment(filePath string) (*config.Experiment, error) {
	exp, err := config.LoadExperiment(filePath)
	if err != nil {
		return nil, err
	}

	if err := ValidateExperiment(exp); err != nil {
		return nil, fmt.Errorf("experiment validation failed: %w", err)
	}

	return exp, nil
}

// ValidateExperiment performs structural validation of an experiment
func ValidateExperiment(exp *config.Experiment) error {
	var errors models.ValidationErrors

	if exp == nil {
		return models.ValidationError{Field: "experiment", Message: "experiment cannot be nil"}
	}

	if err := validateDatasets(exp.Datasets); err != nil {
		errors = appendErrors(errors, "input_settings.datasets", err)
	}

	if err := validateAlgorithms(exp.Algorithms); err != nil {
		errors = appendErrors(errors, "input_settings.algorithms", err)
	}

	if strings.TrimSpace(exp.OutputDir) == "" {
		errors = append(errors, models.ValidationError{
			Field:   "output_settings.output_dir",
			Message: "output directory cannot be empty",
		})
	}

	if len(errors) > 0 {
		return errors
	}

	return nil
}

// validateDatasets checks dataset names for presence and uniqueness
func validateDatasets(datasets []config.DatasetSpec) error {
	var errors models.ValidationErrors

	if len(datasets) == 0 {
		return models.ValidationError{
			Field:   "input_settings.datasets",
			Message: "experiment must contain at least one dataset",
		}
	}

	seen := make(map[string]bool, len(datasets))
	for i, d := range datasets {
		field := fmt.Sprintf("input_settings.datasets[%d].name", i)
		name := strings.TrimSpace(d.Name)

		if name == "" {
			errors = append(errors, models.ValidationError{
				Field:   field,
				Message: "dataset name cannot be empty",
			})
			continue
		}

		if strings.ContainsAny(name, `/\`) {
			errors = append(errors, models.ValidationError{
				Field:   field,
				Message: "dataset name cannot contain path separators",
				Value:   name,
			})
		}

		if seen[name] {
			errors = append(errors, models.ValidationError{
				Field:   field,
				Message: "duplicate dataset name",
				Value:   name,
			})
		}
		seen[name] = true
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

// validateAlgorithms checks algorithm entries and their parameter grids
func validateAlgorithms(algorithms []config.AlgorithmSpec) error {
	var errors models.ValidationErrors

	if len(algorithms) == 0 {
		return models.ValidationError{
			Field:   "input_settings.algorithms",
			Message: "experiment must contain at least one algorithm",
		}
	}

	seen := make(map[string]bool, len(algorithms))
	for i, a := range algorithms {
		field := fmt.Sprintf("input_settings.algorithms[%d]", i)

		if strings.TrimSpace(a.Name) == "" {
			errors = append(errors, models.ValidationError{
				Field:   field + ".name",
				Message: "algorithm name cannot be empty",
			})
		} else if seen[a.Name] {
			errors = append(errors, models.ValidationError{
				Field:   field + ".name",
				Message: "duplicate algorithm name",
				Value:   a.Name,
			})
		}
		seen[a.Name] = true

		params := make(map[string]bool, len(a.Params))
		for _, p := range a.Params {
			paramField := fmt.Sprintf("%s.params.%s", field, p.Name)

			if params[p.Name] {
				errors = append(errors, models.ValidationError{
					Field:   paramField,
					Message: "duplicate parameter",
				})
			}
			params[p.Name] = true

			if len(p.Values) == 0 {
				errors = append(errors, models.ValidationError{
					Field:   paramField,
					Message: "parameter must have at least one value",
				})
			}
		}
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

// ValidateInputs checks that the reference file of every dataset is readable.
// Missing references do not stop a run; the affected cells stay empty.
func ValidateInputs(datasets []models.Dataset) error {
	var errors models.ValidationErrors

	for _, d := range datasets {
		info, err := os.Stat(d.ReferencePath)
		switch {
		case err != nil:
			errors = append(errors, models.ValidationError{
				Field:   d.Name,
				Message: "reference edges file is not accessible",
				Value:   d.ReferencePath,
			})
		case info.IsDir():
			errors = append(errors, models.ValidationError{
				Field:   d.Name,
				Message: "reference edges path is a directory",
				Value:   d.ReferencePath,
			})
		}
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func appendErrors(errors models.ValidationErrors, field string, err error) models.ValidationErrors {
	switch e := err.(type) {
	case models.ValidationErrors:
		return append(errors, e...)
	case models.ValidationError:
		return append(errors, e)
	default:
		return append(errors, models.ValidationError{Field: field, Message: err.Error()})
	}
}
