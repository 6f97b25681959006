package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"agripredict/internal/model"
)

// ModelArtifact is a trained gradient-boosted regression exported to JSON:
// an additive ensemble of binary decision trees plus the feature ordering
// it was trained with. It satisfies model.Predictor.
type ModelArtifact struct {
	Features  []string           `json:"feature_names"`
	Metrics   map[string]float64 `json:"metrics"`
	BaseScore float64            `json:"base_score"`
	Trees     []ArtifactTree     `json:"trees"`
}

type ArtifactTree struct {
	Nodes []ArtifactNode `json:"nodes"`
}

// ArtifactNode is one node of a decision tree. Leaf nodes have
// Left == -1 and carry Value; split nodes route on Feature < Threshold.
type ArtifactNode struct {
	Feature   string  `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// LoadModelArtifact loads the trained artifact at path. A missing file is
// a normal state and returns (nil, nil); a file that exists but can't be
// used is a BackendUnavailableError.
func LoadModelArtifact(path string) (*ModelArtifact, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, model.BackendUnavailableError{Model: "Gradient Boosted", Reason: err.Error()}
	}

	artifact := &ModelArtifact{}
	if err := json.Unmarshal(raw, artifact); err != nil {
		return nil, model.BackendUnavailableError{Model: "Gradient Boosted", Reason: fmt.Sprintf("malformed artifact %s: %v", path, err)}
	}
	if len(artifact.Features) == 0 || len(artifact.Trees) == 0 {
		return nil, model.BackendUnavailableError{Model: "Gradient Boosted", Reason: fmt.Sprintf("artifact %s has no trees or features", path)}
	}

	return artifact, nil
}

func (a *ModelArtifact) FeatureNames() []string {
	return a.Features
}

func (a *ModelArtifact) Predict(features map[string]float64) (float64, error) {
	sum := a.BaseScore
	for i, tree := range a.Trees {
		leaf, err := tree.eval(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += leaf
	}
	return sum, nil
}

func (t ArtifactTree) eval(features map[string]float64) (float64, error) {
	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("node index %d out of range", idx)
		}
		node := t.Nodes[idx]
		if node.Left < 0 {
			return node.Value, nil
		}
		if features[node.Feature] < node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return 0, fmt.Errorf("cycle detected in tree traversal")
}
