package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
)

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func LoadPreprocessor(path string) (*Preprocessor, error) {
	var p Preprocessor
	if err := readJSON(path, &p); err != nil {
		return nil, fmt.Errorf("failed to load preprocessor: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid preprocessor %s: %w", path, err)
	}
	return &p, nil
}

func LoadDecisionTree(path string) (*DecisionTree, error) {
	var t DecisionTree
	if err := readJSON(path, &t); err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	return &t, nil
}

// Load reads both artifacts and checks they fit together.
func Load(preprocessorPath, modelPath string) (*Pipeline, error) {
	pre, err := LoadPreprocessor(preprocessorPath)
	if err != nil {
		return nil, err
	}
	tree, err := LoadDecisionTree(modelPath)
	if err != nil {
		return nil, err
	}
	return New(pre, tree)
}
