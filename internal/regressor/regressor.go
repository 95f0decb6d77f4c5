// ABOUTME: Loader for offline-trained wellness score models.
// ABOUTME: Reads linear or tree-ensemble models from JSON or YAML and serves predictions.
package regressor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/wellness/internal/engine"
	"gopkg.in/yaml.v3"
)

// Model kinds.
const (
	KindLinear = "linear"
	KindForest = "forest"
)

// Model is a trained regressor. Forest predictions are the mean of the
// tree outputs. A loaded Model is read-only and safe for concurrent use.
type Model struct {
	Kind         string    `json:"kind" yaml:"kind"`
	Version      string    `json:"version,omitempty" yaml:"version,omitempty"`
	Intercept    float64   `json:"intercept,omitempty" yaml:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty" yaml:"coefficients,omitempty"`
	Trees        []Tree    `json:"trees,omitempty" yaml:"trees,omitempty"`
}

// Tree is a binary regression tree stored as a flat node list; node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
}

// Node is either a split (feature <= threshold goes left) or a leaf.
type Node struct {
	Leaf      bool    `json:"leaf,omitempty" yaml:"leaf,omitempty"`
	Value     float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Feature   int     `json:"feature,omitempty" yaml:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Left      int     `json:"left,omitempty" yaml:"left,omitempty"`
	Right     int     `json:"right,omitempty" yaml:"right,omitempty"`
}

var _ engine.Regressor = (*Model)(nil)

// Load reads a model from path. The format follows the file extension:
// .json, .yaml or .yml.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var m Model
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("unsupported model format %q (use .json, .yaml or .yml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	return &m, nil
}

// LoadOptional loads the model at path, returning nil without error when
// path is empty or no file exists there.
func LoadOptional(path string) (*Model, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return Load(path)
}

// Validate checks the model structure so Predict never indexes out of range.
func (m *Model) Validate() error {
	switch m.Kind {
	case KindLinear:
		if len(m.Coefficients) != engine.NumFeatures {
			return fmt.Errorf("linear model needs %d coefficients, got %d", engine.NumFeatures, len(m.Coefficients))
		}
	case KindForest:
		if len(m.Trees) == 0 {
			return fmt.Errorf("forest has no trees")
		}
		for i, t := range m.Trees {
			if err := t.validate(); err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("unknown model kind %q", m.Kind)
	}
	return nil
}

// Predict returns the raw model output for fv.
func (m *Model) Predict(fv engine.FeatureVector) (float64, error) {
	switch m.Kind {
	case KindLinear:
		if len(m.Coefficients) != engine.NumFeatures {
			return 0, fmt.Errorf("linear model has %d coefficients", len(m.Coefficients))
		}
		out := m.Intercept
		for i, c := range m.Coefficients {
			out += c * fv[i]
		}
		return out, nil
	case KindForest:
		if len(m.Trees) == 0 {
			return 0, fmt.Errorf("forest has no trees")
		}
		var sum float64
		for i, t := range m.Trees {
			v, err := t.predict(fv)
			if err != nil {
				return 0, fmt.Errorf("tree %d: %w", i, err)
			}
			sum += v
		}
		return sum / float64(len(m.Trees)), nil
	default:
		return 0, fmt.Errorf("unknown model kind %q", m.Kind)
	}
}

func (t Tree) validate() error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= engine.NumFeatures {
			return fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: child index out of range", i)
		}
	}
	return nil
}

// predict walks from the root. Children always point forward, so the walk
// ends within len(Nodes) steps.
func (t Tree) predict(fv engine.FeatureVector) (float64, error) {
	i := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		if i < 0 || i >= len(t.Nodes) {
			return 0, fmt.Errorf("node index %d out of range", i)
		}
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value, nil
		}
		if n.Feature < 0 || n.Feature >= engine.NumFeatures {
			return 0, fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		if fv[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return 0, fmt.Errorf("tree walk did not reach a leaf")
}
