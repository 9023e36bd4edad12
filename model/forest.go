package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// TreeNode 决策树中的一个节点。
// Feature == -1 表示叶子节点，此时 Value 是该叶子的正类概率；
// 否则按 x[Feature] <= Threshold 走 Left，反之走 Right。
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree 以数组形式存储的二叉决策树，根节点下标为 0。
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Predict 从根节点迭代下行直到叶子。
func (t *Tree) Predict(features []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, fmt.Errorf("forest: empty tree")
	}
	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		n := t.Nodes[idx]
		if n.Feature < 0 {
			return n.Value, nil
		}
		if n.Feature >= len(features) {
			return 0, fmt.Errorf("forest: node refers to feature %d, vector dim %d", n.Feature, len(features))
		}
		if features[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("forest: child index %d out of range", idx)
		}
	}
	return 0, fmt.Errorf("forest: tree walk did not terminate")
}

// ForestClassifier 随机森林分类器，输出各树叶子概率的均值。
type ForestClassifier struct {
	name        string
	numFeatures int
	Trees       []Tree
}

var _ Classifier = (*ForestClassifier)(nil)

type forestArtifact struct {
	NumFeatures int    `json:"num_features"`
	Trees       []Tree `json:"trees"`
}

// NewForestClassifier 创建随机森林分类器。
func NewForestClassifier(name string, numFeatures int, trees []Tree) *ForestClassifier {
	return &ForestClassifier{name: name, numFeatures: numFeatures, Trees: trees}
}

// LoadForestFromFile 从 JSON 文件加载森林。
// 文件格式: {"num_features": 27, "trees": [{"nodes": [...]}, ...]}
func LoadForestFromFile(name, path string) (*ForestClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("forest: read %s: %w", path, err)
	}
	return LoadForest(name, data)
}

// LoadForest 从 JSON 字节加载森林。
func LoadForest(name string, data []byte) (*ForestClassifier, error) {
	var a forestArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("forest: parse model: %w", err)
	}
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("forest: model has no trees")
	}
	if a.NumFeatures <= 0 {
		return nil, fmt.Errorf("forest: invalid num_features %d", a.NumFeatures)
	}
	return &ForestClassifier{name: name, numFeatures: a.NumFeatures, Trees: a.Trees}, nil
}

func (m *ForestClassifier) Name() string {
	if m.name == "" {
		return "forest"
	}
	return m.name
}

// NumFeatures 返回期望的特征维度。
func (m *ForestClassifier) NumFeatures() int { return m.numFeatures }

// PredictProbability 返回所有树预测值的算术平均。
func (m *ForestClassifier) PredictProbability(features []float64) (float64, error) {
	if len(features) != m.numFeatures {
		return 0, fmt.Errorf("forest: feature dim %d, want %d", len(features), m.numFeatures)
	}
	sum := 0.0
	for i := range m.Trees {
		v, err := m.Trees[i].Predict(features)
		if err != nil {
			return 0, fmt.Errorf("forest: tree %d: %w", i, err)
		}
		sum += v
	}
	return sum / float64(len(m.Trees)), nil
}
