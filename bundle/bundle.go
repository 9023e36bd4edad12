// Package bundle 定义模型部署产物（bundle）的加载与校验。
// 一个 bundle 把训练侧导出的 Schema Spec 与模型参数打包在一起，
// 在线加载时重建 Registry 并核对指纹，保证离线训练与在线打分
// 使用完全一致的特征列布局。
package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/model"
	"github.com/symbiolab/matchkit/schema"
)

// 模型类型常量
const (
	ModelTypeLR     = "lr"     // 逻辑回归
	ModelTypeForest = "forest" // 随机森林
	ModelTypeRemote = "remote" // 远程打分服务
)

// Artifact 是 bundle 的 JSON 序列化形态。
// Model.Params 按 Model.Type 对应的加载器解释。
type Artifact struct {
	Version   string      `json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	Schema    schema.Spec `json:"schema"`
	Model     ModelSpec   `json:"model"`
}

// ModelSpec 描述 bundle 内的模型。
type ModelSpec struct {
	Type   string          `json:"type"`
	Name   string          `json:"name,omitempty"`
	URL    string          `json:"url,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Bundle 加载完成的部署单元。
type Bundle struct {
	Version    string
	CreatedAt  time.Time
	Registry   *schema.Registry
	Classifier core.Classifier
}

// Fingerprint 返回 bundle 绑定的 Schema 指纹。
func (b *Bundle) Fingerprint() string { return b.Registry.Fingerprint() }

// LoadFile 从文件加载 bundle。
func LoadFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bundle: read %s: %w", path, err)
	}
	return Load(data)
}

// Load 从 JSON 字节加载 bundle。
// 加载即校验：Registry 必须能从词表重建出与 Spec 一致的列布局，
// 本地模型的输入维度必须等于 Registry 的列数。
func Load(data []byte) (*Bundle, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("bundle: parse artifact: %w", err)
	}

	registry, err := schema.FromSpec(a.Schema)
	if err != nil {
		return nil, fmt.Errorf("bundle: invalid schema spec: %w", err)
	}

	classifier, err := buildClassifier(a.Model)
	if err != nil {
		return nil, err
	}

	if n := classifier.NumFeatures(); n >= 0 && n != registry.NumColumns() {
		return nil, core.NewDomainError(core.ModuleSchema, core.ErrorCodeSchemaMismatch,
			fmt.Sprintf("model expects %d features, schema has %d columns", n, registry.NumColumns()))
	}

	return &Bundle{
		Version:    a.Version,
		CreatedAt:  a.CreatedAt,
		Registry:   registry,
		Classifier: classifier,
	}, nil
}

func buildClassifier(spec ModelSpec) (core.Classifier, error) {
	switch spec.Type {
	case ModelTypeLR:
		return model.LoadLR(spec.Name, spec.Params)
	case ModelTypeForest:
		return model.LoadForest(spec.Name, spec.Params)
	case ModelTypeRemote:
		if spec.URL == "" {
			return nil, fmt.Errorf("bundle: remote model requires url")
		}
		return model.NewRemoteClassifier(spec.Name, spec.URL), nil
	default:
		return nil, fmt.Errorf("bundle: unknown model type %q", spec.Type)
	}
}

// Save 将 bundle 产物序列化到文件，供训练侧导出使用。
func Save(path string, a Artifact) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("bundle: marshal artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("bundle: write %s: %w", path, err)
	}
	return nil
}
