package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// LRClassifier 本地逻辑回归分类器。
// Weights 按特征列顺序对齐稠密向量，训练与在线使用同一份 Schema
// 才能保证下标一致。
type LRClassifier struct {
	name    string
	Bias    float64   `json:"bias"`
	Weights []float64 `json:"weights"`
}

var _ Classifier = (*LRClassifier)(nil)

// NewLRClassifier 创建逻辑回归分类器。
func NewLRClassifier(name string, bias float64, weights []float64) *LRClassifier {
	return &LRClassifier{name: name, Bias: bias, Weights: weights}
}

// LoadLRFromFile 从 JSON 文件加载权重。
// 文件格式: {"bias": 0.1, "weights": [0.2, -0.3, ...]}
func LoadLRFromFile(name, path string) (*LRClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lr: read %s: %w", path, err)
	}
	return LoadLR(name, data)
}

// LoadLR 从 JSON 字节加载权重。
func LoadLR(name string, data []byte) (*LRClassifier, error) {
	m := &LRClassifier{name: name}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("lr: parse model: %w", err)
	}
	if len(m.Weights) == 0 {
		return nil, fmt.Errorf("lr: model has no weights")
	}
	return m, nil
}

func (m *LRClassifier) Name() string {
	if m.name == "" {
		return "lr"
	}
	return m.name
}

// NumFeatures 返回期望的特征维度。
func (m *LRClassifier) NumFeatures() int { return len(m.Weights) }

// PredictProbability 计算 sigmoid(bias + w·x)。
func (m *LRClassifier) PredictProbability(features []float64) (float64, error) {
	if len(features) != len(m.Weights) {
		return 0, fmt.Errorf("lr: feature dim %d, want %d", len(features), len(m.Weights))
	}
	z := m.Bias
	for i, w := range m.Weights {
		z += w * features[i]
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
