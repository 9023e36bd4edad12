// Package rule 实现确定性的资格过滤：独立于模型的硬性通过/不通过判定。
package rule

// Thresholds 是规则过滤的阈值配置，均为非负。
type Thresholds struct {
	// MaxDistanceKM 地理距离上限（公里）
	MaxDistanceKM float64 `yaml:"max_distance_km" json:"max_distance_km"`

	// MinKeywordOverlap 最小共享关键词数
	MinKeywordOverlap float64 `yaml:"min_keyword_overlap" json:"min_keyword_overlap"`

	// MinJaccard 最小 Jaccard 相似度
	MinJaccard float64 `yaml:"min_jaccard" json:"min_jaccard"`
}

// DefaultThresholds 返回默认阈值。
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxDistanceKM:     2000,
		MinKeywordOverlap: 0,
		MinJaccard:        0,
	}
}

// Sanitize 将负值归零，保证阈值非负。
func (t Thresholds) Sanitize() Thresholds {
	if t.MaxDistanceKM < 0 {
		t.MaxDistanceKM = 0
	}
	if t.MinKeywordOverlap < 0 {
		t.MinKeywordOverlap = 0
	}
	if t.MinJaccard < 0 {
		t.MinJaccard = 0
	}
	return t
}
