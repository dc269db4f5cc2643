package parser

import (
	"fmt"
	"math"

	"github.com/gilchrisn/graph-inference-eval/pkg/models"
)

// ReferenceGraph is the ground truth edge set over a NodeIndex
type ReferenceGraph struct {
	Edges    map[models.EdgeKey]struct{}
	Directed bool
}

// HasEdge reports whether the pair is a ground truth edge. For undirected
// graphs the pair may be given in either orientation.
func (g *ReferenceGraph) HasEdge(key models.EdgeKey) bool {
	if !g.Directed {
		key = key.Canonical()
	}
	_, ok := g.Edges[key]
	return ok
}

// NumEdges returns |E| after canonicalization and deduplication
func (g *ReferenceGraph) NumEdges() int {
	return len(g.Edges)
}

// PredictionRanking holds the rows of a ranked edges file and the score
// resolved for each predicted pair
type PredictionRanking struct {
	Predictions []Prediction
	Scores      map[models.EdgeKey]float64
	Directed    bool
}

// Score returns the resolved score of a pair
func (r *PredictionRanking) Score(key models.EdgeKey) (float64, bool) {
	if !r.Directed {
		key = key.Canonical()
	}
	score, ok := r.Scores[key]
	return score, ok
}

// EdgeSets is a reference graph and a prediction ranking sharing one node space
type EdgeSets struct {
	Nodes     *NodeIndex
	Reference *ReferenceGraph
	Ranking   *PredictionRanking
	Directed  bool
	SelfEdges bool
	Dropped   int // predictions outside the node universe
}

// Load reads a reference edges file and a ranked edges file and normalizes
// them into EdgeSets
func Load(referencePath, predictionPath string, opts Options) (*EdgeSets, error) {
	reference, err := LoadReference(referencePath, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference edges: %w", err)
	}

	predictions, err := LoadPredictions(predictionPath, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranked edges: %w", err)
	}

	return Build(reference, predictions, opts)
}

// Build normalizes parsed rows into EdgeSets.
//
// Duplicate predictions of the same pair are resolved as follows: in directed
// mode the first row wins; in undirected mode the maximum score over both
// orientations wins.
func Build(reference []RawEdge, predictions []Prediction, opts Options) (*EdgeSets, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	names := make([]string, 0, 2*(len(reference)+len(predictions)))
	for _, e := range reference {
		names = append(names, e.Source, e.Target)
	}
	if opts.Universe != UniverseReference {
		for _, p := range predictions {
			names = append(names, p.Source, p.Target)
		}
	}
	nodes := NewNodeIndex(names)

	sets := &EdgeSets{
		Nodes: nodes,
		Reference: &ReferenceGraph{
			Edges:    make(map[models.EdgeKey]struct{}, len(reference)),
			Directed: opts.Directed,
		},
		Ranking: &PredictionRanking{
			Predictions: predictions,
			Scores:      make(map[models.EdgeKey]float64, len(predictions)),
			Directed:    opts.Directed,
		},
		Directed:  opts.Directed,
		SelfEdges: opts.SelfEdges,
	}

	for _, e := range reference {
		key, ok := sets.key(e.Source, e.Target)
		if !ok {
			continue
		}
		sets.Reference.Edges[key] = struct{}{}
	}

	for _, p := range predictions {
		key, ok := sets.key(p.Source, p.Target)
		if !ok {
			if _, known := nodes.GetNormalizedID(p.Source); !known {
				sets.Dropped++
			} else if _, known := nodes.GetNormalizedID(p.Target); !known {
				sets.Dropped++
			}
			continue
		}

		score := p.Score
		if opts.AbsScores {
			score = math.Abs(score)
		}

		prev, seen := sets.Ranking.Scores[key]
		switch {
		case !seen:
			sets.Ranking.Scores[key] = score
		case !opts.Directed && score > prev:
			sets.Ranking.Scores[key] = score
		}
	}

	return sets, nil
}

// key maps a pair of node names onto the normalized pair key. It reports
// false for pairs outside the pair universe.
func (s *EdgeSets) key(source, target string) (models.EdgeKey, bool) {
	from, ok := s.Nodes.GetNormalizedID(source)
	if !ok {
		return models.EdgeKey{}, false
	}
	to, ok := s.Nodes.GetNormalizedID(target)
	if !ok {
		return models.EdgeKey{}, false
	}

	key := models.EdgeKey{From: from, To: to}
	if key.IsSelf() && !s.SelfEdges {
		return models.EdgeKey{}, false
	}
	if !s.Directed {
		key = key.Canonical()
	}
	return key, true
}
