package schema

import (
	"sort"

	"github.com/symbiolab/matchkit/core"
)

// Vector 是绑定到某个 Registry 的定宽特征向量。
//
// 列集合与列顺序完全由 Registry 决定；未被显式写入的列在读取时
// 返回类型对应的默认值（数值/布尔 0，类别空串），并记入默认填充清单。
// 默认填充只发生在 Extractor 与 Registry 之间，Extractor 之后的任何
// 边界（尤其是打分入口）都不允许再补齐或截断。
type Vector struct {
	registry *Registry
	numeric  []float64
	cats     []string
	computed []bool
}

// NewVector 创建一个空向量，所有列处于"未计算"状态。
func (r *Registry) NewVector() *Vector {
	return &Vector{
		registry: r,
		numeric:  make([]float64, len(r.columns)),
		cats:     make([]string, len(r.columns)),
		computed: make([]bool, len(r.columns)),
	}
}

// Registry 返回向量绑定的 Registry。
func (v *Vector) Registry() *Registry { return v.registry }

// Set 写入数值/布尔列。未知列或类别列返回 false（写入被忽略，
// 不会扩充向量宽度）。
func (v *Vector) Set(name string, value float64) bool {
	i, ok := v.registry.index[name]
	if !ok {
		return false
	}
	if v.registry.columns[i].Kind == KindCategorical {
		return false
	}
	v.numeric[i] = value
	v.computed[i] = true
	return true
}

// SetBool 写入布尔列的便捷形式。
func (v *Vector) SetBool(name string, value bool) bool {
	if value {
		return v.Set(name, 1)
	}
	return v.Set(name, 0)
}

// SetCategorical 写入类别列。未知列或非类别列返回 false。
func (v *Vector) SetCategorical(name, value string) bool {
	i, ok := v.registry.index[name]
	if !ok {
		return false
	}
	if v.registry.columns[i].Kind != KindCategorical {
		return false
	}
	v.cats[i] = value
	v.computed[i] = true
	return true
}

// Get 读取数值/布尔列。列存在即返回 ok=true，未计算的列返回默认值 0。
func (v *Vector) Get(name string) (float64, bool) {
	i, ok := v.registry.index[name]
	if !ok {
		return 0, false
	}
	if v.registry.columns[i].Kind == KindCategorical {
		return 0, false
	}
	return v.numeric[i], true
}

// GetCategorical 读取类别列的原始字符串值。
func (v *Vector) GetCategorical(name string) (string, bool) {
	i, ok := v.registry.index[name]
	if !ok {
		return "", false
	}
	if v.registry.columns[i].Kind != KindCategorical {
		return "", false
	}
	return v.cats[i], true
}

// ColumnNames 返回 registry 定义的列名（固定顺序）。
func (v *Vector) ColumnNames() []string {
	return v.registry.ColumnNames()
}

// Fingerprint 返回 registry 的列指纹。
func (v *Vector) Fingerprint() string {
	return v.registry.Fingerprint()
}

// Dense 按 registry 列顺序展开为模型输入。
// 类别列编码为其类目表中的索引；空值或类目之外的值回落到索引 0。
func (v *Vector) Dense() []float64 {
	out := make([]float64, len(v.registry.columns))
	for i, col := range v.registry.columns {
		if col.Kind == KindCategorical {
			out[i] = float64(categoryIndex(col.Categories, v.cats[i]))
			continue
		}
		out[i] = v.numeric[i]
	}
	return out
}

func categoryIndex(categories []string, value string) int {
	for i, cat := range categories {
		if cat == value {
			return i
		}
	}
	return 0
}

// DefaultedColumns 返回未被显式计算、按默认值兜底的列名（排序后返回，
// 便于比对与打标）。这是 schema 漂移的可观测入口：离线/在线两条路径
// 的形状不可能分叉，分叉只会体现为这里的列清单不同。
func (v *Vector) DefaultedColumns() []string {
	var defaulted []string
	for i := range v.registry.columns {
		if !v.computed[i] {
			defaulted = append(defaulted, v.registry.columns[i].Name)
		}
	}
	sort.Strings(defaulted)
	return defaulted
}

// 确保 Vector 实现了 core.FeatureVector 接口
var _ core.FeatureVector = (*Vector)(nil)
