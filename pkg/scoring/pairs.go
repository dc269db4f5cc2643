package scoring

import (
	"fmt"
	"math"

	"github.com/gilchrisn/graph-inference-eval/pkg/models"
	"github.com/gilchrisn/graph-inference-eval/pkg/parser"
)

// Unscored is the score given to pairs the ranking does not mention.
// Prediction scores are finite, so it ranks below all of them.
var Unscored = math.Inf(-1)

// Pairs is the scored and labeled pair universe, stored as parallel slices
type Pairs struct {
	Keys   []models.EdgeKey
	Scores []float64
	Labels []bool
}

// Len returns the number of pairs
func (p *Pairs) Len() int {
	return len(p.Keys)
}

// Positives returns the number of pairs labeled as ground truth edges
func (p *Pairs) Positives() int {
	n := 0
	for _, l := range p.Labels {
		if l {
			n++
		}
	}
	return n
}

// Negatives returns the number of pairs not in the ground truth
func (p *Pairs) Negatives() int {
	return p.Len() - p.Positives()
}

// Scored returns the number of pairs that received a score from the ranking
func (p *Pairs) Scored() int {
	n := 0
	for _, s := range p.Scores {
		if !math.IsInf(s, -1) {
			n++
		}
	}
	return n
}

// UniverseSize returns the number of candidate pairs over n nodes
func UniverseSize(n int, directed, selfEdges bool) int {
	switch {
	case directed && selfEdges:
		return n * n
	case directed:
		return n * (n - 1)
	case selfEdges:
		return n * (n + 1) / 2
	default:
		return n * (n - 1) / 2
	}
}

// Build enumerates the pair universe of sets and assigns every pair its
// score and label. Pairs are visited in node index order: row by row over
// the source node, and for undirected universes only pairs with From <= To.
func Build(sets *parser.EdgeSets) (*Pairs, error) {
	if sets == nil {
		return nil, fmt.Errorf("edge sets are nil")
	}

	n := sets.Nodes.Len()
	size := UniverseSize(n, sets.Directed, sets.SelfEdges)
	pairs := &Pairs{
		Keys:   make([]models.EdgeKey, 0, size),
		Scores: make([]float64, 0, size),
		Labels: make([]bool, 0, size),
	}

	for i := 0; i < n; i++ {
		start := 0
		if !sets.Directed {
			start = i
		}
		for j := start; j < n; j++ {
			if i == j && !sets.SelfEdges {
				continue
			}
			key := models.EdgeKey{From: i, To: j}

			score, ok := sets.Ranking.Scores[key]
			if !ok {
				score = Unscored
			}
			_, label := sets.Reference.Edges[key]

			pairs.Keys = append(pairs.Keys, key)
			pairs.Scores = append(pairs.Scores, score)
			pairs.Labels = append(pairs.Labels, label)
		}
	}

	if pairs.Len() != size {
		return nil, fmt.Errorf("pair universe has %d pairs, expected %d", pairs.Len(), size)
	}
	if pos := pairs.Positives(); pos != sets.Reference.NumEdges() {
		return nil, fmt.Errorf("pair universe has %d positives, reference has %d edges", pos, sets.Reference.NumEdges())
	}

	return pairs, nil
}
