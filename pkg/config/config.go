package config

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/gilchrisn/graph-inference-eval/pkg/parser"
)

// Config manages evaluation settings using Viper
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults.
// Every key can be overridden by a BLEVAL_ environment variable, e.g.
// BLEVAL_EVALUATION_DIRECTED=false.
func NewConfig() *Config {
	v := viper.New()

	// Evaluation parameters
	v.SetDefault("evaluation.directed", true)
	v.SetDefault("evaluation.self_edges", false)
	v.SetDefault("evaluation.abs_scores", false)
	v.SetDefault("evaluation.node_universe", string(parser.UniverseUnion))

	// Input file format
	v.SetDefault("input.header", true)
	v.SetDefault("input.delimiter", parser.DelimiterAuto)

	// Performance parameters
	v.SetDefault("performance.parallel", true)
	v.SetDefault("performance.num_workers", runtime.NumCPU())

	// Logging parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.json", false)

	// Output layout
	v.SetDefault("output.ranked_edges_template", DefaultRankedEdgesTemplate)
	v.SetDefault("output.time_file_pattern", DefaultTimeFilePattern)
	v.SetDefault("output.write_records", true)

	v.SetEnvPrefix("BLEVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Viper exposes the underlying store for flag binding
func (c *Config) Viper() *viper.Viper { return c.v }

// Getters for evaluation parameters
func (c *Config) Directed() bool       { return c.v.GetBool("evaluation.directed") }
func (c *Config) SelfEdges() bool      { return c.v.GetBool("evaluation.self_edges") }
func (c *Config) AbsScores() bool      { return c.v.GetBool("evaluation.abs_scores") }
func (c *Config) NodeUniverse() string { return c.v.GetString("evaluation.node_universe") }

func (c *Config) Header() bool      { return c.v.GetBool("input.header") }
func (c *Config) Delimiter() string { return c.v.GetString("input.delimiter") }

func (c *Config) Parallel() bool  { return c.v.GetBool("performance.parallel") }
func (c *Config) NumWorkers() int { return c.v.GetInt("performance.num_workers") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }
func (c *Config) LogJSON() bool    { return c.v.GetBool("logging.json") }

func (c *Config) RankedEdgesTemplate() string { return c.v.GetString("output.ranked_edges_template") }
func (c *Config) TimeFilePattern() string     { return c.v.GetString("output.time_file_pattern") }
func (c *Config) WriteRecords() bool          { return c.v.GetBool("output.write_records") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// Settings is an immutable snapshot of the configuration
type Settings struct {
	Parser          parser.Options
	Workers         int
	Layout          Layout
	TimeFilePattern string
	WriteRecords    bool
}

// Settings validates the current configuration and returns a snapshot of it
func (c *Config) Settings() (Settings, error) {
	delimiter, err := parser.ParseDelimiter(c.Delimiter())
	if err != nil {
		return Settings{}, fmt.Errorf("input.delimiter: %w", err)
	}

	opts := parser.Options{
		Directed:  c.Directed(),
		SelfEdges: c.SelfEdges(),
		AbsScores: c.AbsScores(),
		Header:    c.Header(),
		Delimiter: delimiter,
		Universe:  parser.Universe(c.NodeUniverse()),
	}
	if err := opts.Validate(); err != nil {
		return Settings{}, fmt.Errorf("evaluation.node_universe: %w", err)
	}

	layout, err := NewLayout(c.RankedEdgesTemplate())
	if err != nil {
		return Settings{}, fmt.Errorf("output.ranked_edges_template: %w", err)
	}

	workers := c.NumWorkers()
	if !c.Parallel() || workers < 1 {
		workers = 1
	}

	return Settings{
		Parser:          opts,
		Workers:         workers,
		Layout:          layout,
		TimeFilePattern: c.TimeFilePattern(),
		WriteRecords:    c.WriteRecords(),
	}, nil
}

// CreateLogger creates a zerolog logger based on config
func (c *Config) CreateLogger() zerolog.Logger {
	return c.createLogger(os.Stderr)
}

func (c *Config) createLogger(out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	if !c.LogJSON() {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "bleval").Logger()
}
