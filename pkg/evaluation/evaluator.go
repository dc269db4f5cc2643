package evaluation

import (
	"errors"
	"fmt"
	"math"

	"github.com/gilchrisn/graph-inference-eval/pkg/config"
	"github.com/gilchrisn/graph-inference-eval/pkg/curve"
	"github.com/gilchrisn/graph-inference-eval/pkg/models"
	"github.com/gilchrisn/graph-inference-eval/pkg/parser"
	"github.com/gilchrisn/graph-inference-eval/pkg/results"
	"github.com/gilchrisn/graph-inference-eval/pkg/scoring"
)

// Options controls how one combination is evaluated
type Options struct {
	Parser parser.Options
	Layout config.Layout
}

// DefaultOptions returns directed evaluation with the default output layout
func DefaultOptions() Options {
	return Options{
		Parser: parser.DefaultOptions(),
		Layout: config.DefaultLayout(),
	}
}

// OptionsFromSettings takes the evaluation options out of a settings snapshot
func OptionsFromSettings(settings config.Settings) Options {
	return Options{
		Parser: settings.Parser,
		Layout: settings.Layout,
	}
}

// Scores is the outcome of evaluating one combination on one dataset
type Scores struct {
	Dataset     string
	Combination models.Combination
	AUPRC       float64
	AUROC       float64
	Positives   int
	Negatives   int
	Scored      int // pairs that received a score from the ranking
	Dropped     int // predictions outside the node universe
	Curves      *curve.Result
}

// Evaluate computes AUPRC and AUROC of a combination's ranked edges against
// the dataset's reference network.
//
// When the pair universe has no positives or no negatives the undefined
// areas are NaN and the returned error matches models.ErrDegenerateInput.
// Scores are still returned in that case.
func Evaluate(dataset models.Dataset, combo models.Combination, opts Options) (Scores, error) {
	scores := Scores{
		Dataset:     dataset.Name,
		Combination: combo,
		AUPRC:       math.NaN(),
		AUROC:       math.NaN(),
	}

	rankedPath, err := opts.Layout.RankedEdgesPath(dataset, combo)
	if err != nil {
		return scores, err
	}

	scores, err = EvaluateFiles(dataset.ReferencePath, rankedPath, opts.Parser)
	scores.Dataset = dataset.Name
	scores.Combination = combo
	return scores, err
}

// EvaluateFiles computes AUPRC and AUROC of one ranked edges file against a
// reference network file. Errors are reported as by Evaluate.
func EvaluateFiles(referencePath, rankedPath string, opts parser.Options) (Scores, error) {
	scores := Scores{
		AUPRC: math.NaN(),
		AUROC: math.NaN(),
	}

	sets, err := parser.Load(referencePath, rankedPath, opts)
	if err != nil {
		return scores, err
	}
	scores.Dropped = sets.Dropped

	pairs, err := scoring.Build(sets)
	if err != nil {
		return scores, fmt.Errorf("failed to build pair universe: %w", err)
	}
	scores.Positives = pairs.Positives()
	scores.Negatives = pairs.Negatives()
	scores.Scored = pairs.Scored()

	if pairs.Len() == 0 {
		return scores, &models.DegenerateInputError{}
	}

	result, err := curve.Compute(pairs.Scores, pairs.Labels)
	if err != nil {
		return scores, fmt.Errorf("failed to compute curves: %w", err)
	}
	scores.Curves = result
	scores.AUPRC = result.AUPRC
	scores.AUROC = result.AUROC

	if result.Degenerate() {
		return scores, &models.DegenerateInputError{Positives: result.Positives, Negatives: result.Negatives}
	}
	return scores, nil
}

// DatasetResult holds the records of every combination on one dataset
type DatasetResult struct {
	Dataset models.Dataset
	Records []results.Record
}

// EvaluateDataset evaluates every combination on a dataset. A failing
// combination is recorded and does not stop the others.
func EvaluateDataset(dataset models.Dataset, combos []models.Combination, opts Options) DatasetResult {
	out := DatasetResult{
		Dataset: dataset,
		Records: make([]results.Record, 0, len(combos)),
	}
	for _, combo := range combos {
		scores, err := Evaluate(dataset, combo, opts)
		out.Records = append(out.Records, NewRecord(scores, err))
	}
	return out
}

// NewRecord converts the outcome of Evaluate into a long-format record
func NewRecord(scores Scores, err error) results.Record {
	record := results.Record{
		Dataset:     scores.Dataset,
		Combination: scores.Combination.ID(),
		Algorithm:   scores.Combination.Algorithm,
		Params:      scores.Combination.Slug(),
		AUPRC:       scores.AUPRC,
		AUROC:       scores.AUROC,
		Positives:   scores.Positives,
		Negatives:   scores.Negatives,
		Scored:      scores.Scored,
		Dropped:     scores.Dropped,
		Status:      results.StatusOK,
	}

	switch {
	case err == nil:
	case errors.Is(err, models.ErrDegenerateInput):
		record.Status = results.StatusDegenerate
		record.Error = err.Error()
	default:
		record.Status = results.StatusFailed
		record.Error = err.Error()
		record.AUPRC = math.NaN()
		record.AUROC = math.NaN()
	}
	return record
}
