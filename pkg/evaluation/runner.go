package evaluation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gilchrisn/graph-inference-eval/pkg/config"
	"github.com/gilchrisn/graph-inference-eval/pkg/models"
	"github.com/gilchrisn/graph-inference-eval/pkg/results"
)

// Report is the outcome of evaluating every combination on every dataset
type Report struct {
	RunID      string
	Records    []results.Record // completed jobs, dataset-major
	AUPRC      *results.AreaTable
	AUROC      *results.AreaTable
	Failed     int
	Degenerate int
	Duration   time.Duration
}

// Runner evaluates (dataset, combination) jobs on a bounded pool of workers
type Runner struct {
	opts            Options
	timeFilePattern string
	workers         chan struct{}
	logger          zerolog.Logger
}

// NewRunner creates a runner from a settings snapshot
func NewRunner(settings config.Settings, logger zerolog.Logger) *Runner {
	workers := settings.Workers
	if workers < 1 {
		workers = 1
	}
	pattern := settings.TimeFilePattern
	if pattern == "" {
		pattern = config.DefaultTimeFilePattern
	}

	return &Runner{
		opts:            OptionsFromSettings(settings),
		timeFilePattern: pattern,
		workers:         make(chan struct{}, workers),
		logger:          logger,
	}
}

// Run evaluates every combination on every dataset and fills the AUPRC and
// AUROC tables. Failed jobs leave absent cells; degenerate jobs NaN cells.
// Cancelling ctx stops scheduling new jobs; the report then holds the jobs
// that completed and ctx's error is returned with it.
func (r *Runner) Run(ctx context.Context, datasets []models.Dataset, combos []models.Combination) (*Report, error) {
	runID := uuid.New().String()
	logger := r.logger.With().Str("run_id", runID).Logger()
	start := time.Now()

	logger.Info().
		Int("datasets", len(datasets)).
		Int("combinations", len(combos)).
		Int("workers", cap(r.workers)).
		Msg("Evaluation started")

	records := make([]results.Record, len(datasets)*len(combos))
	done := make([]bool, len(records))

	err := r.forEach(ctx, len(records), func(i int) {
		dataset := datasets[i/len(combos)]
		combo := combos[i%len(combos)]

		scores, err := Evaluate(dataset, combo, r.opts)
		records[i] = NewRecord(scores, err)
		done[i] = true

		r.logOutcome(logger, records[i], err)
	})

	report := &Report{
		RunID: runID,
		AUPRC: results.NewAreaTable(results.MetricAUPRC),
		AUROC: results.NewAreaTable(results.MetricAUROC),
	}
	for _, d := range datasets {
		report.AUPRC.AddRow(d.Name)
		report.AUROC.AddRow(d.Name)
	}
	for _, c := range combos {
		report.AUPRC.AddColumn(c.ID())
		report.AUROC.AddColumn(c.ID())
	}

	for i, record := range records {
		if !done[i] {
			continue
		}
		report.Records = append(report.Records, record)
		switch record.Status {
		case results.StatusFailed:
			report.Failed++
		case results.StatusDegenerate:
			report.Degenerate++
		}
	}
	results.Fill(report.AUPRC, report.AUROC, report.Records)
	report.Duration = time.Since(start)

	logger.Info().
		Int("completed", len(report.Records)).
		Int("failed", report.Failed).
		Int("degenerate", report.Degenerate).
		Dur("duration", report.Duration).
		Msg("Evaluation finished")

	return report, err
}

func (r *Runner) logOutcome(logger zerolog.Logger, record results.Record, err error) {
	switch {
	case err == nil:
		logger.Debug().
			Str("dataset", record.Dataset).
			Str("combo", record.Combination).
			Float64("auprc", record.AUPRC).
			Float64("auroc", record.AUROC).
			Int("positives", record.Positives).
			Int("scored", record.Scored).
			Msg("Combination evaluated")
	case errors.Is(err, models.ErrDegenerateInput):
		logger.Warn().
			Str("dataset", record.Dataset).
			Str("combo", record.Combination).
			Err(err).
			Msg("Degenerate pair universe")
	default:
		logger.Error().
			Str("dataset", record.Dataset).
			Str("combo", record.Combination).
			Err(err).
			Msg("Combination failed")
	}
}

// forEach calls fn for 0..n-1 on the worker pool and waits for all started
// calls. It stops scheduling once ctx is done.
func (r *Runner) forEach(ctx context.Context, n int, fn func(i int)) error {
	var wg sync.WaitGroup
	var err error

schedule:
	for i := 0; i < n; i++ {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break schedule
		case r.workers <- struct{}{}:
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-r.workers }()
			fn(i)
		}(i)
	}

	wg.Wait()
	return err
}
