package curve

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

var (
	// ErrEmpty is returned when no scores are given
	ErrEmpty = errors.New("curve: no scores")
	// ErrLengthMismatch is returned when scores and labels differ in length
	ErrLengthMismatch = errors.New("curve: scores and labels differ in length")
)

// Point is one (x, y) point of a curve
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Curve is a sequence of points ordered by ascending x. Threshold[i] is the
// lowest score predicted positive at Points[i]; the anchor point has +Inf.
type Curve struct {
	Points    []Point   `json:"points"`
	Threshold []float64 `json:"threshold"`
}

// Len returns the number of points
func (c Curve) Len() int {
	return len(c.Points)
}

// XY returns the coordinates as separate slices
func (c Curve) XY() (x, y []float64) {
	x = make([]float64, len(c.Points))
	y = make([]float64, len(c.Points))
	for i, p := range c.Points {
		x[i] = p.X
		y[i] = p.Y
	}
	return x, y
}

// Area integrates the curve with the trapezoidal rule. It is NaN for curves
// with fewer than two points or with undefined coordinates.
func (c Curve) Area() float64 {
	if len(c.Points) < 2 {
		return math.NaN()
	}
	x, y := c.XY()
	if floats.HasNaN(x) || floats.HasNaN(y) {
		return math.NaN()
	}
	return integrate.Trapezoidal(x, y)
}

// Result holds both curves of one ranking and their areas
type Result struct {
	PR        Curve   `json:"pr"`  // x = recall, y = precision
	ROC       Curve   `json:"roc"` // x = false positive rate, y = true positive rate
	AUPRC     float64 `json:"auprc"`
	AUROC     float64 `json:"auroc"`
	Positives int     `json:"positives"`
	Negatives int     `json:"negatives"`
}

// Degenerate reports whether an area is undefined because one class is empty
func (r *Result) Degenerate() bool {
	return r.Positives == 0 || r.Negatives == 0
}

// Compute builds the precision-recall and ROC curves of scores against
// labels and integrates both.
//
// Pairs are ranked by descending score with ties kept in input order, and
// every distinct score value contributes one point to each curve. The PR
// curve starts at (0, 1): precision is taken as 1 while nothing has been
// predicted. The ROC curve starts at (0, 0). Without positives both curves
// and areas are NaN; without negatives the ROC curve and AUROC are NaN.
func Compute(scores []float64, labels []bool) (*Result, error) {
	if len(scores) != len(labels) {
		return nil, ErrLengthMismatch
	}
	if len(scores) == 0 {
		return nil, ErrEmpty
	}

	order := rank(scores)

	result := &Result{}
	for _, l := range labels {
		if l {
			result.Positives++
		}
	}
	result.Negatives = len(labels) - result.Positives

	pos := float64(result.Positives)
	neg := float64(result.Negatives)

	pr := Curve{
		Points:    make([]Point, 0, len(scores)+1),
		Threshold: make([]float64, 0, len(scores)+1),
	}
	roc := Curve{
		Points:    make([]Point, 0, len(scores)+1),
		Threshold: make([]float64, 0, len(scores)+1),
	}

	precision := 1.0
	pr.Points = append(pr.Points, Point{X: ratio(0, pos), Y: precision})
	pr.Threshold = append(pr.Threshold, math.Inf(1))
	roc.Points = append(roc.Points, Point{X: ratio(0, neg), Y: ratio(0, pos)})
	roc.Threshold = append(roc.Threshold, math.Inf(1))

	tp, fp := 0.0, 0.0
	for i := 0; i < len(order); {
		threshold := scores[order[i]]
		for ; i < len(order) && sameScore(scores[order[i]], threshold); i++ {
			if labels[order[i]] {
				tp++
			} else {
				fp++
			}
		}

		// tp+fp > 0 after every group; the guard keeps the last value otherwise
		if tp+fp > 0 {
			precision = tp / (tp + fp)
		}
		pr.Points = append(pr.Points, Point{X: ratio(tp, pos), Y: precision})
		pr.Threshold = append(pr.Threshold, threshold)
		roc.Points = append(roc.Points, Point{X: ratio(fp, neg), Y: ratio(tp, pos)})
		roc.Threshold = append(roc.Threshold, threshold)
	}

	result.PR = pr
	result.ROC = roc
	result.AUPRC = pr.Area()
	result.AUROC = roc.Area()
	return result, nil
}

// rank returns the indices of scores ordered by descending score, ties in
// input order. NaN scores rank last.
func rank(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		if math.IsNaN(sa) {
			return false
		}
		return math.IsNaN(sb) || sa > sb
	})
	return order
}

func sameScore(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// ratio returns num/den, or NaN when den is zero
func ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}
