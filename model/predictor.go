package model

import (
	"fmt"

	"github.com/c360/heartserve/errors"
	"github.com/c360/heartserve/feature"
)

// Prediction is one classification outcome. Probability is the forest's
// averaged positive-class mass; Label is the forest's native decision
// (argmax of the averaged class distribution), not a re-thresholded value.
type Prediction struct {
	Label       int     `json:"prediction"`
	Probability float64 `json:"probability"`
}

// Predictor owns the loaded classifier. It is read-only after Load and
// safe for concurrent use from any number of request goroutines.
type Predictor struct {
	artifact *Artifact
}

// Load reads, validates, and decodes the artifact at path. Any failure is
// fatal: a missing, corrupt, or schema-drifted artifact must stop startup
// rather than serve wrong answers.
func Load(path string) (*Predictor, error) {
	artifact, err := readArtifact(path)
	if err != nil {
		return nil, err
	}

	if err := checkManifest(artifact.Features); err != nil {
		return nil, err
	}

	if err := validateForest(artifact.Trees); err != nil {
		return nil, err
	}

	return &Predictor{artifact: artifact}, nil
}

// ModelVersion returns the artifact's model version string.
func (p *Predictor) ModelVersion() string {
	return p.artifact.ModelVersion
}

// Accuracy returns the held-out accuracy recorded by the training pipeline.
func (p *Predictor) Accuracy() float64 {
	return p.artifact.Accuracy
}

// TreeCount returns the number of trees in the forest.
func (p *Predictor) TreeCount() int {
	return len(p.artifact.Trees)
}

// Classify scores one record. Deterministic for identical input within a
// process lifetime. An error here means the loaded forest disagrees with
// the record shape, which is a deployment bug, not a request condition.
func (p *Predictor) Classify(record feature.Record) (Prediction, error) {
	vector := record.Vector()

	var negative, positive float64
	for ti := range p.artifact.Trees {
		leaf, err := p.artifact.Trees[ti].walk(vector)
		if err != nil {
			return Prediction{}, errors.WrapFatal(
				fmt.Errorf("%w: tree %d: %v", errors.ErrInference, ti, err),
				"Predictor", "Classify", "walk tree")
		}

		total := leaf.Value[0] + leaf.Value[1]
		negative += leaf.Value[0] / total
		positive += leaf.Value[1] / total
	}

	trees := float64(len(p.artifact.Trees))
	prediction := Prediction{Probability: positive / trees}
	if positive > negative {
		prediction.Label = 1
	}
	return prediction, nil
}

// walk descends from the root to a leaf for the given feature vector.
func (t *Tree) walk(vector []float64) (Node, error) {
	idx := 0
	// Bounded by node count; a longer path means a cycle in the artifact.
	for steps := 0; steps <= len(t.Nodes); steps++ {
		node := t.Nodes[idx]
		if node.IsLeaf() {
			return node, nil
		}
		if vector[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return Node{}, fmt.Errorf("no leaf reached from root")
}
