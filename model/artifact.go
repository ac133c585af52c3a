// Package model loads the trained heart-disease classifier artifact and
// serves predictions from it.
//
// The artifact is a versioned JSON document produced by the offline training
// pipeline: a feature-name manifest plus a serialized decision forest. The
// manifest is checked against the canonical feature schema at load time so a
// drifted artifact fails startup instead of scoring garbage.
package model

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/c360/heartserve/errors"
	"github.com/c360/heartserve/feature"
)

// artifactSchema validates the artifact document shape before decoding.
// Structural tree invariants (index ranges, leaf masses) are checked after
// decode in validateForest.
const artifactSchema = `{
	"type": "object",
	"required": ["schema_version", "model_version", "features", "trees"],
	"properties": {
		"schema_version": {"type": "integer", "minimum": 1},
		"model_version": {"type": "string", "minLength": 1},
		"trained_at": {"type": "string"},
		"accuracy": {"type": "number", "minimum": 0, "maximum": 1},
		"features": {
			"type": "array",
			"items": {"type": "string"},
			"minItems": 1
		},
		"trees": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["nodes"],
				"properties": {
					"nodes": {
						"type": "array",
						"minItems": 1,
						"items": {
							"type": "object",
							"required": ["feature", "threshold", "left", "right", "value"],
							"properties": {
								"feature": {"type": "integer"},
								"threshold": {"type": "number"},
								"left": {"type": "integer"},
								"right": {"type": "integer"},
								"value": {
									"type": "array",
									"items": {"type": "number", "minimum": 0},
									"minItems": 2,
									"maxItems": 2
								}
							}
						}
					}
				}
			}
		}
	}
}`

// Node is one decision-tree node. Internal nodes route on
// vector[Feature] <= Threshold; leaves carry per-class sample counts in
// Value and have Left == Right == -1.
type Node struct {
	Feature   int        `json:"feature"`
	Threshold float64    `json:"threshold"`
	Left      int        `json:"left"`
	Right     int        `json:"right"`
	Value     [2]float64 `json:"value"`
}

// IsLeaf reports whether the node is a leaf.
func (n Node) IsLeaf() bool {
	return n.Left < 0 && n.Right < 0
}

// Tree is a single decision tree stored as a flat node array rooted at 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Artifact is the decoded training output.
type Artifact struct {
	SchemaVersion int      `json:"schema_version"`
	ModelVersion  string   `json:"model_version"`
	TrainedAt     string   `json:"trained_at"`
	Accuracy      float64  `json:"accuracy"`
	Features      []string `json:"features"`
	Trees         []Tree   `json:"trees"`
}

// readArtifact loads and validates the artifact document at path.
func readArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapFatal(
				fmt.Errorf("%s: %w", path, errors.ErrArtifactNotFound),
				"Predictor", "Load", "read artifact")
		}
		return nil, errors.WrapFatal(err, "Predictor", "Load", "read artifact")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(artifactSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, errors.WrapFatal(
			fmt.Errorf("%w: %v", errors.ErrArtifactCorrupt, err),
			"Predictor", "Load", "validate artifact document")
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, errors.WrapFatal(
			fmt.Errorf("%w: %s", errors.ErrArtifactCorrupt, strings.Join(details, "; ")),
			"Predictor", "Load", "validate artifact document")
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.WrapFatal(
			fmt.Errorf("%w: %v", errors.ErrArtifactCorrupt, err),
			"Predictor", "Load", "decode artifact")
	}

	return &artifact, nil
}

// checkManifest verifies the artifact feature manifest against the
// canonical schema, in both content and order.
func checkManifest(features []string) error {
	if len(features) != feature.Count {
		return errors.WrapFatal(
			fmt.Errorf("%w: artifact has %d features, schema has %d",
				errors.ErrSchemaMismatch, len(features), feature.Count),
			"Predictor", "Load", "check feature manifest")
	}
	for i, name := range feature.Names {
		if features[i] != name {
			return errors.WrapFatal(
				fmt.Errorf("%w: position %d is %q, schema expects %q",
					errors.ErrSchemaMismatch, i, features[i], name),
				"Predictor", "Load", "check feature manifest")
		}
	}
	return nil
}

// validateForest checks structural invariants the JSON Schema cannot
// express: node indices in range, leaves with positive sample mass, and
// internal nodes routing on a real feature.
func validateForest(trees []Tree) error {
	for ti, tree := range trees {
		for ni, node := range tree.Nodes {
			if node.IsLeaf() {
				if node.Value[0]+node.Value[1] <= 0 {
					return errors.WrapFatal(
						fmt.Errorf("%w: tree %d node %d leaf has no sample mass",
							errors.ErrArtifactCorrupt, ti, ni),
						"Predictor", "Load", "validate forest")
				}
				continue
			}
			if node.Feature < 0 || node.Feature >= feature.Count {
				return errors.WrapFatal(
					fmt.Errorf("%w: tree %d node %d routes on feature %d",
						errors.ErrArtifactCorrupt, ti, ni, node.Feature),
					"Predictor", "Load", "validate forest")
			}
			if node.Left < 0 || node.Left >= len(tree.Nodes) ||
				node.Right < 0 || node.Right >= len(tree.Nodes) {
				return errors.WrapFatal(
					fmt.Errorf("%w: tree %d node %d has child out of range",
						errors.ErrArtifactCorrupt, ti, ni),
					"Predictor", "Load", "validate forest")
			}
		}
	}
	return nil
}
