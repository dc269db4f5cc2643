package evaluation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/gilchrisn/graph-inference-eval/pkg/models"
	"github.com/gilchrisn/graph-inference-eval/pkg/results"
	"github.com/gilchrisn/graph-inference-eval/pkg/timing"
)

// TimeReport holds the runtime of every (dataset, combination) run
type TimeReport struct {
	RunID     string
	Records   []results.TimeRecord
	Summaries []results.TimeSummary
	Failed    int
}

// CollectTime reads the `time -v` reports of a combination on a dataset
func CollectTime(dataset models.Dataset, combo models.Combination, opts Options, pattern string) (timing.Usage, error) {
	dir, err := opts.Layout.RunDir(dataset, combo)
	if err != nil {
		return timing.Usage{}, err
	}
	return timing.Collect(dir, pattern)
}

// Times collects runtimes of every combination on every dataset and
// summarizes them per combination
func (r *Runner) Times(ctx context.Context, datasets []models.Dataset, combos []models.Combination) (*TimeReport, error) {
	runID := uuid.New().String()
	logger := r.logger.With().Str("run_id", runID).Logger()
	start := time.Now()

	records := make([]results.TimeRecord, len(datasets)*len(combos))
	done := make([]bool, len(records))

	err := r.forEach(ctx, len(records), func(i int) {
		dataset := datasets[i/len(combos)]
		combo := combos[i%len(combos)]

		record := results.TimeRecord{
			Dataset:     dataset.Name,
			Combination: combo.ID(),
			Algorithm:   combo.Algorithm,
			Status:      results.StatusOK,
		}

		usage, err := CollectTime(dataset, combo, r.opts, r.timeFilePattern)
		if err != nil {
			record.Status = results.StatusFailed
			record.Error = err.Error()
			logger.Warn().
				Str("dataset", dataset.Name).
				Str("combo", combo.ID()).
				Err(err).
				Msg("No runtime available")
		} else {
			record.User = usage.User
			record.System = usage.System
			record.Wall = usage.Wall
			record.Files = usage.Files
		}

		records[i] = record
		done[i] = true
	})

	report := &TimeReport{RunID: runID}
	for i, record := range records {
		if !done[i] {
			continue
		}
		if record.Status == results.StatusFailed {
			report.Failed++
		}
		report.Records = append(report.Records, record)
	}
	report.Summaries = Summarize(combos, report.Records)

	logger.Info().
		Int("records", len(report.Records)).
		Int("failed", report.Failed).
		Dur("duration", time.Since(start)).
		Msg("Runtime collection finished")

	return report, err
}

// Summarize computes mean and standard deviation of CPU time per
// combination over the datasets it ran on
func Summarize(combos []models.Combination, records []results.TimeRecord) []results.TimeSummary {
	cpu := make(map[string][]float64, len(combos))
	wall := make(map[string][]float64, len(combos))
	for _, r := range records {
		if r.Status != results.StatusOK {
			continue
		}
		cpu[r.Combination] = append(cpu[r.Combination], r.User+r.System)
		wall[r.Combination] = append(wall[r.Combination], r.Wall)
	}

	summaries := make([]results.TimeSummary, 0, len(combos))
	for _, c := range combos {
		id := c.ID()
		values := cpu[id]
		if len(values) == 0 {
			continue
		}

		summary := results.TimeSummary{
			Combination: id,
			Datasets:    len(values),
			MeanWall:    stat.Mean(wall[id], nil),
		}
		if len(values) > 1 {
			summary.MeanCPU, summary.StdDevCPU = stat.MeanStdDev(values, nil)
		} else {
			summary.MeanCPU = values[0]
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
