package pipeline

import (
	"fmt"
)

const KindDecisionTree = "decision_tree"

const leaf = -1

// DecisionTree is a fitted regression tree in flat array layout.
// Node i is a leaf when ChildrenLeft[i] == -1.
type DecisionTree struct {
	Kind          string    `json:"kind"`
	NFeatures     int       `json:"n_features"`
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

func (t *DecisionTree) validate() error {
	if t.Kind != KindDecisionTree {
		return fmt.Errorf("unsupported model kind %q", t.Kind)
	}
	n := len(t.Value)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if t.NFeatures <= 0 {
		return fmt.Errorf("n_features must be positive")
	}
	if len(t.ChildrenLeft) != n || len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n {
		return fmt.Errorf("tree arrays must all have %d entries", n)
	}
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leaf {
			if r != leaf {
				return fmt.Errorf("node %d: leaf with a right child", i)
			}
			continue
		}
		// Children always follow their parent, so traversal terminates.
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d: child index out of range", i)
		}
		if f := t.Feature[i]; f < 0 || f >= t.NFeatures {
			return fmt.Errorf("node %d: feature index %d out of range", i, f)
		}
	}
	return nil
}

// Predict walks the tree for one feature vector.
func (t *DecisionTree) Predict(x []float64) (float64, error) {
	if len(x) != t.NFeatures {
		return 0, fmt.Errorf("model expects %d features, got %d", t.NFeatures, len(x))
	}
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node], nil
}

// Depth returns the length of the longest root-to-leaf path.
func (t *DecisionTree) Depth() int {
	var walk func(node int) int
	walk = func(node int) int {
		if t.ChildrenLeft[node] == leaf {
			return 0
		}
		return 1 + max(walk(t.ChildrenLeft[node]), walk(t.ChildrenRight[node]))
	}
	return walk(0)
}
