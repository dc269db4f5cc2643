package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gilchrisn/graph-inference-eval/pkg/config"
	"github.com/gilchrisn/graph-inference-eval/pkg/evaluation"
	"github.com/gilchrisn/graph-inference-eval/pkg/models"
	"github.com/gilchrisn/graph-inference-eval/pkg/parser"
	"github.com/gilchrisn/graph-inference-eval/pkg/results"
	"github.com/gilchrisn/graph-inference-eval/pkg/validation"
)

// app carries state shared by all commands
type app struct {
	cfg            *config.Config
	experimentFile string
	settingsFile   string
}

func main() {
	a := &app{cfg: config.NewConfig()}

	root := &cobra.Command{
		Use:           "bleval",
		Short:         "evaluate inferred networks against ground truth networks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.experimentFile, "config", "c", "config.yaml", "experiment file listing datasets and algorithms")
	flags.StringVar(&a.settingsFile, "settings", "", "evaluation settings file")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Int("workers", 0, "number of concurrent evaluations")
	flags.Bool("json-log", false, "write logs as JSON lines")
	fail(a.cfg.Viper().BindPFlag("logging.level", flags.Lookup("log-level")))
	fail(a.cfg.Viper().BindPFlag("performance.num_workers", flags.Lookup("workers")))
	fail(a.cfg.Viper().BindPFlag("logging.json", flags.Lookup("json-log")))

	root.AddCommand(aucCmd(a))
	root.AddCommand(timeCmd(a))
	root.AddCommand(combosCmd(a))
	root.AddCommand(scoreCmd(a))

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("bleval failed")
	}
}

func (a *app) setup() error {
	if a.settingsFile != "" {
		if err := a.cfg.LoadFromFile(a.settingsFile); err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
	}
	log.Logger = a.cfg.CreateLogger()
	return nil
}

// bindEvaluationFlags adds the flags that change how pairs are built
func (a *app) bindEvaluationFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Bool("undirected", false, "treat reference and predicted edges as undirected")
	flags.Bool("self-edges", false, "include self loops in the pair universe")
	flags.Bool("abs-scores", false, "rank predictions by absolute score")
	flags.String("universe", string(parser.UniverseUnion), "node universe (union or reference)")
}

// evaluationKeys maps evaluation flags onto settings keys
var evaluationKeys = map[string]string{
	"self-edges": "evaluation.self_edges",
	"abs-scores": "evaluation.abs_scores",
	"universe":   "evaluation.node_universe",
}

// settings binds the flags of the running command and takes a snapshot
func (a *app) settings(cmd *cobra.Command) (config.Settings, error) {
	for name, key := range evaluationKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.cfg.Viper().BindPFlag(key, f); err != nil {
				return config.Settings{}, err
			}
		}
	}

	if f := cmd.Flags().Lookup("undirected"); f != nil && f.Changed {
		undirected, err := cmd.Flags().GetBool("undirected")
		if err != nil {
			return config.Settings{}, err
		}
		a.cfg.Set("evaluation.directed", !undirected)
	}
	return a.cfg.Settings()
}

// loadExperiment loads and validates the experiment file
func (a *app) loadExperiment() (*config.Experiment, []models.Dataset, []models.Combination, error) {
	exp, err := validation.LoadAndValidateExperiment(a.experimentFile)
	if err != nil {
		return nil, nil, nil, err
	}

	datasets := exp.ResolveDatasets()
	if err := validation.ValidateInputs(datasets); err != nil {
		log.Warn().Err(err).Msg("Some reference networks are not accessible")
	}

	combos := exp.Combinations()
	if len(combos) == 0 {
		return nil, nil, nil, fmt.Errorf("no algorithm is enabled in %s", a.experimentFile)
	}

	log.Info().
		Str("experiment", a.experimentFile).
		Int("datasets", len(datasets)).
		Int("combinations", len(combos)).
		Msg("Experiment loaded")

	return exp, datasets, combos, nil
}

func aucCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auc",
		Short: "compute AUPRC and AUROC of every algorithm run on every dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := a.settings(cmd)
			if err != nil {
				return err
			}
			exp, datasets, combos, err := a.loadExperiment()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := evaluation.NewRunner(settings, log.Logger)
			report, runErr := runner.Run(ctx, datasets, combos)

			writer := results.NewFileWriter()
			if err := writer.WriteTables(report.AUPRC, report.AUROC, exp.ResultDir(), exp.OutputPrefix); err != nil {
				return err
			}
			if settings.WriteRecords {
				if err := writer.WriteRecords(report.Records, exp.ResultPath("Scores.csv")); err != nil {
					return err
				}
			}

			log.Info().
				Str("output_dir", exp.ResultDir()).
				Str("run_id", report.RunID).
				Msg("Results written")
			return runErr
		},
	}
	a.bindEvaluationFlags(cmd)
	return cmd
}

func timeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "time",
		Short: "collect runtimes of every algorithm run from its time reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := a.settings(cmd)
			if err != nil {
				return err
			}
			exp, datasets, combos, err := a.loadExperiment()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, runErr := evaluation.NewRunner(settings, log.Logger).Times(ctx, datasets, combos)
			if err := results.NewFileWriter().WriteTimes(report.Records, report.Summaries, exp.ResultDir(), exp.OutputPrefix); err != nil {
				return err
			}
			return runErr
		},
	}
}

func combosCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "combos",
		Short: "list algorithm runs and the ranked edges file each is read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := a.settings(cmd)
			if err != nil {
				return err
			}
			_, datasets, combos, err := a.loadExperiment()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATASET\tCOMBINATION\tRANKED EDGES")
			for _, d := range datasets {
				for _, c := range combos {
					path, err := settings.Layout.RankedEdgesPath(d, c)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, c.ID(), path)
				}
			}
			return w.Flush()
		},
	}
}

func scoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score REFERENCE RANKED_EDGES",
		Short: "compute AUPRC and AUROC of one ranked edges file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := a.settings(cmd)
			if err != nil {
				return err
			}

			scores, err := evaluation.EvaluateFiles(args[0], args[1], settings.Parser)
			switch {
			case errors.Is(err, models.ErrDegenerateInput):
				log.Warn().Err(err).Msg("Areas are undefined")
			case err != nil:
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "AUPRC\t%g\nAUROC\t%g\npositives\t%d\nnegatives\t%d\nscored\t%d\n",
				scores.AUPRC, scores.AUROC, scores.Positives, scores.Negatives, scores.Scored)
			return nil
		},
	}
	a.bindEvaluationFlags(cmd)
	return cmd
}

func fail(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("invalid command setup")
	}
}
