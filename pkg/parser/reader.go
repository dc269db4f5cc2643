package parser

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gilchrisn/graph-inference-eval/pkg/models"
)

// RawEdge is one row of a reference edges file
type RawEdge struct {
	Source string
	Target string
}

// Prediction is one row of a ranked edges file
type Prediction struct {
	Source string
	Target string
	Score  float64
}

const maxLineBytes = 1024 * 1024

// LoadReference reads a ground truth edges file.
// Rows are "source target" with an optional third column that is ignored.
func LoadReference(path string, opts Options) ([]RawEdge, error) {
	var edges []RawEdge
	err := readRows(path, opts, func(line int, fields []string) error {
		if len(fields) != 2 && len(fields) != 3 {
			return &models.FormatError{Path: path, Line: line,
				Message: fmt.Sprintf("expected 2 or 3 columns, got %d", len(fields))}
		}
		edges = append(edges, RawEdge{Source: fields[0], Target: fields[1]})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edges, nil
}

// LoadPredictions reads a ranked edges file. Rows are "source target score"
// and the score must be a finite number.
func LoadPredictions(path string, opts Options) ([]Prediction, error) {
	var predictions []Prediction
	err := readRows(path, opts, func(line int, fields []string) error {
		if len(fields) != 3 {
			return &models.FormatError{Path: path, Line: line,
				Message: fmt.Sprintf("expected 3 columns, got %d", len(fields))}
		}
		score, err := strconv.ParseFloat(fields[2], 64)
		if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
			return &models.FormatError{Path: path, Line: line,
				Message: fmt.Sprintf("score %q is not a finite number", fields[2])}
		}
		predictions = append(predictions, Prediction{Source: fields[0], Target: fields[1], Score: score})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

// readRows calls fn for every data row of the file with 1-based line numbers.
// Blank lines and lines starting with '#' are skipped; the first remaining
// line is skipped too when opts.Header is set.
func readRows(path string, opts Options, fn func(line int, fields []string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return &models.FileAccessError{Path: path, Err: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	headerPending := opts.Header
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if headerPending {
			headerPending = false
			continue
		}

		fields := splitFields(line, opts.Delimiter)
		for i, f := range fields {
			if f == "" {
				return &models.FormatError{Path: path, Line: lineNum,
					Message: fmt.Sprintf("column %d is empty", i+1)}
			}
		}
		if err := fn(lineNum, fields); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return &models.FileAccessError{Path: path, Err: err}
	}
	return nil
}

// splitFields splits a row on the configured delimiter. With no delimiter
// configured a tab is preferred, then a comma, then any run of whitespace.
func splitFields(line, delimiter string) []string {
	var parts []string
	switch {
	case delimiter == " ":
		return strings.Fields(line)
	case delimiter != "" && delimiter != DelimiterAuto:
		parts = strings.Split(line, delimiter)
	case strings.Contains(line, "\t"):
		parts = strings.Split(line, "\t")
	case strings.Contains(line, ","):
		parts = strings.Split(line, ",")
	default:
		return strings.Fields(line)
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
