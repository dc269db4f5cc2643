package results

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// OutputWriter writes evaluation results
type OutputWriter interface {
	WriteTables(auprc, auroc *AreaTable, outputDir, prefix string) error
	WriteRecords(records []Record, path string) error
	WriteTimes(records []TimeRecord, summaries []TimeSummary, outputDir, prefix string) error
}

// FileWriter implements OutputWriter for file-based output
type FileWriter struct{}

// NewFileWriter creates a new file-based output writer
func NewFileWriter() OutputWriter {
	return &FileWriter{}
}

// FileName returns "<prefix>-<name>", or name alone without a prefix
func FileName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "-" + name
}

// WriteTables writes <prefix>-AUPRC.csv and <prefix>-AUROC.csv
func (fw *FileWriter) WriteTables(auprc, auroc *AreaTable, outputDir, prefix string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, table := range []*AreaTable{auprc, auroc} {
		path := filepath.Join(outputDir, FileName(prefix, table.Metric+".csv"))
		if err := writeFile(path, table.WriteCSV); err != nil {
			return fmt.Errorf("failed to write %s: %w", table.Metric, err)
		}
	}
	return nil
}

// WriteRecords writes the long-format score records
func (fw *FileWriter) WriteRecords(records []Record, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return writeFile(path, func(w io.Writer) error {
		return WriteRecords(w, records)
	})
}

// WriteTimes writes <prefix>-Times.csv and <prefix>-TimeSummary.csv
func (fw *FileWriter) WriteTimes(records []TimeRecord, summaries []TimeSummary, outputDir, prefix string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	timesPath := filepath.Join(outputDir, FileName(prefix, "Times.csv"))
	if err := writeFile(timesPath, func(w io.Writer) error {
		return WriteTimeRecords(w, records)
	}); err != nil {
		return err
	}

	summaryPath := filepath.Join(outputDir, FileName(prefix, "TimeSummary.csv"))
	return writeFile(summaryPath, func(w io.Writer) error {
		return WriteTimeSummaries(w, summaries)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
