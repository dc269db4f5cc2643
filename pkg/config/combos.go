package config

import (
	"strings"

	"github.com/gilchrisn/graph-inference-eval/pkg/models"
)

// ShouldRunParam is the parameter that switches combinations on or off. It
// is not part of a combination's identity.
const ShouldRunParam = "should_run"

// ComboIterator walks the cross product of every algorithm's parameter grid.
// The last parameter varies fastest. It is lazy and can be restarted.
type ComboIterator struct {
	algorithms []AlgorithmSpec
	alg        int
	counters   []int
}

// NewComboIterator creates an iterator over algorithms
func NewComboIterator(algorithms []AlgorithmSpec) *ComboIterator {
	return &ComboIterator{algorithms: algorithms}
}

// Next returns the next enabled combination, or false when exhausted
func (it *ComboIterator) Next() (models.Combination, bool) {
	for it.alg < len(it.algorithms) {
		algo := it.algorithms[it.alg]

		if it.counters == nil {
			if hasEmptyGrid(algo) {
				it.alg++
				continue
			}
			it.counters = make([]int, len(algo.Params))
		} else if !it.advance(algo) {
			it.alg++
			it.counters = nil
			continue
		}

		combo, enabled := it.current(algo)
		if !enabled {
			continue
		}
		return combo, true
	}
	return models.Combination{}, false
}

// Reset restarts the iteration from the first algorithm
func (it *ComboIterator) Reset() {
	it.alg = 0
	it.counters = nil
}

// advance moves the odometer one step and reports false on overflow
func (it *ComboIterator) advance(algo AlgorithmSpec) bool {
	for k := len(it.counters) - 1; k >= 0; k-- {
		it.counters[k]++
		if it.counters[k] < len(algo.Params[k].Values) {
			return true
		}
		it.counters[k] = 0
	}
	return false
}

func (it *ComboIterator) current(algo AlgorithmSpec) (models.Combination, bool) {
	combo := models.Combination{Algorithm: algo.Name}
	for k, grid := range algo.Params {
		value := grid.Values[it.counters[k]]
		if grid.Name == ShouldRunParam {
			if !truthy(value) {
				return models.Combination{}, false
			}
			continue
		}
		combo.Params = append(combo.Params, models.Param{Name: grid.Name, Value: value})
	}
	return combo, true
}

func hasEmptyGrid(algo AlgorithmSpec) bool {
	for _, grid := range algo.Params {
		if len(grid.Values) == 0 {
			return true
		}
	}
	return false
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "false", "no", "off", "0", "n":
		return false
	}
	return true
}

// Combinations collects every enabled combination of algorithms
func Combinations(algorithms []AlgorithmSpec) []models.Combination {
	var combos []models.Combination
	it := NewComboIterator(algorithms)
	for combo, ok := it.Next(); ok; combo, ok = it.Next() {
		combos = append(combos, combo)
	}
	return combos
}
