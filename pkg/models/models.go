package models

import (
	"fmt"
	"strings"
)

// Dataset describes one dataset of an evaluation run
type Dataset struct {
	Name          string `json:"name" yaml:"name"`
	ReferencePath string `json:"reference_path" yaml:"reference_path"` // ground truth edges file
	OutputDir     string `json:"output_dir" yaml:"output_dir"`         // root of the algorithms' outputs for this dataset
}

// Param is one parameter assignment of an algorithm run
type Param struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Combination is an algorithm together with one assignment of its parameters.
// Params keep the order in which they were declared.
type Combination struct {
	Algorithm string  `json:"algorithm" yaml:"algorithm"`
	Params    []Param `json:"params,omitempty" yaml:"params,omitempty"`
}

// Slug serializes the parameter assignment, e.g. "trees-100_depth-5".
// It is empty when the algorithm takes no parameters.
func (c Combination) Slug() string {
	if len(c.Params) == 0 {
		return ""
	}
	parts := make([]string, len(c.Params))
	for i, p := range c.Params {
		parts[i] = fmt.Sprintf("%s-%s", p.Name, p.Value)
	}
	return strings.Join(parts, "_")
}

// ID identifies the combination in result tables
func (c Combination) ID() string {
	if slug := c.Slug(); slug != "" {
		return c.Algorithm + "_" + slug
	}
	return c.Algorithm
}

// Param returns the value of the named parameter
func (c Combination) Param(name string) (string, bool) {
	for _, p := range c.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

func (c Combination) String() string {
	return c.ID()
}

// EdgeKey identifies a node pair by dense node indices
type EdgeKey struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Canonical orders the endpoints so that From <= To
func (e EdgeKey) Canonical() EdgeKey {
	if e.From > e.To {
		return EdgeKey{From: e.To, To: e.From}
	}
	return e
}

// IsSelf reports whether both endpoints are the same node
func (e EdgeKey) IsSelf() bool {
	return e.From == e.To
}

func (e EdgeKey) String() string {
	return fmt.Sprintf("%d->%d", e.From, e.To)
}
