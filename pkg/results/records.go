package results

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// Status of one (dataset, combination) evaluation
const (
	StatusOK         = "ok"
	StatusDegenerate = "degenerate"
	StatusFailed     = "failed"
)

// Metric names of the area tables
const (
	MetricAUPRC = "AUPRC"
	MetricAUROC = "AUROC"
)

// Record is the long-format result of one (dataset, combination) evaluation
type Record struct {
	Dataset     string  `csv:"dataset"`
	Combination string  `csv:"combination"`
	Algorithm   string  `csv:"algorithm"`
	Params      string  `csv:"params"`
	AUPRC       float64 `csv:"auprc"`
	AUROC       float64 `csv:"auroc"`
	Positives   int     `csv:"positives"`
	Negatives   int     `csv:"negatives"`
	Scored      int     `csv:"scored"`
	Dropped     int     `csv:"dropped"`
	Status      string  `csv:"status"`
	Error       string  `csv:"error"`
}

// TimeRecord is the runtime of one (dataset, combination) run
type TimeRecord struct {
	Dataset     string  `csv:"dataset"`
	Combination string  `csv:"combination"`
	Algorithm   string  `csv:"algorithm"`
	User        float64 `csv:"user_seconds"`
	System      float64 `csv:"system_seconds"`
	Wall        float64 `csv:"wall_seconds"`
	Files       int     `csv:"files"`
	Status      string  `csv:"status"`
	Error       string  `csv:"error"`
}

// TimeSummary aggregates the CPU time of a combination over datasets
type TimeSummary struct {
	Combination string  `csv:"combination"`
	Datasets    int     `csv:"datasets"`
	MeanCPU     float64 `csv:"mean_cpu_seconds"`
	StdDevCPU   float64 `csv:"stddev_cpu_seconds"`
	MeanWall    float64 `csv:"mean_wall_seconds"`
}

// WriteRecords writes records as CSV with a header row
func WriteRecords(w io.Writer, records []Record) error {
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("failed to write score records: %w", err)
	}
	return nil
}

// ReadRecords reads records written by WriteRecords
func ReadRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("failed to read score records: %w", err)
	}
	return records, nil
}

// WriteTimeRecords writes runtime records as CSV with a header row
func WriteTimeRecords(w io.Writer, records []TimeRecord) error {
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("failed to write time records: %w", err)
	}
	return nil
}

// WriteTimeSummaries writes per-combination runtime summaries
func WriteTimeSummaries(w io.Writer, summaries []TimeSummary) error {
	if err := gocsv.Marshal(&summaries, w); err != nil {
		return fmt.Errorf("failed to write time summaries: %w", err)
	}
	return nil
}

// Tables builds the AUPRC and AUROC tables from records. Degenerate records
// become NaN cells and failed records absent cells.
func Tables(records []Record) (auprc, auroc *AreaTable) {
	auprc = NewAreaTable(MetricAUPRC)
	auroc = NewAreaTable(MetricAUROC)
	Fill(auprc, auroc, records)
	return auprc, auroc
}

// Fill stores records into existing tables
func Fill(auprc, auroc *AreaTable, records []Record) {
	for _, r := range records {
		if r.Status == StatusFailed {
			auprc.SetMissing(r.Dataset, r.Combination)
			auroc.SetMissing(r.Dataset, r.Combination)
			continue
		}
		auprc.Set(r.Dataset, r.Combination, r.AUPRC)
		auroc.Set(r.Dataset, r.Combination, r.AUROC)
	}
}
