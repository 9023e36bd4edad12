package core

import "github.com/symbiolab/matchkit/pkg/utils"

// FeatureVector 是特征向量的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由 schema 包实现
//   - 列集合与列顺序由 Schema Registry 固定；同一 registry 版本下
//     任意两个向量必须同列同序（模型输入可直接拼接）
//   - 规则过滤与打分都只依赖此接口，不感知底层实现
type FeatureVector interface {
	// Get 读取数值/布尔特征；列不存在时返回 (0, false)
	Get(name string) (float64, bool)

	// GetCategorical 读取类别特征的原始字符串值
	GetCategorical(name string) (string, bool)

	// ColumnNames 返回 registry 定义的列名（固定顺序）
	ColumnNames() []string

	// Dense 按列顺序展开为模型输入（类别列按 registry 持久化的类目索引编码）
	Dense() []float64

	// Fingerprint 返回列定义的指纹，用于打分前的 schema 一致性校验
	Fingerprint() string

	// DefaultedColumns 返回本次构建中未被显式计算、按默认值填充的列
	// （schema 漂移的可观测入口，填充只发生在 Extractor 与 Registry 之间）
	DefaultedColumns() []string
}

// MatchCandidate 是撮合链路中的统一承载结构：一对 offer/request、
// 派生特征、规则结果与（惰性计算的）模型分数。
// 每次评估临时创建，核心层不负责持久化。
type MatchCandidate struct {
	Offer   *Party
	Request *Party

	// Features 由 Extractor 填充，列形状由 Schema Registry 决定
	Features FeatureVector

	// Eligible 规则过滤结果（与模型分数相互独立）
	Eligible bool

	// Score 模型输出的匹配概率；Scored 为 false 时未计算
	Score  float64
	Scored bool

	// Err 批处理路径上单对失败的原因；失败不影响批次整体
	Err error

	// Labels 链路标签：过滤原因、默认填充列、模型名等，用于 explain / 观测
	Labels map[string]utils.Label
}

func NewMatchCandidate(offer, request *Party) *MatchCandidate {
	return &MatchCandidate{
		Offer:   offer,
		Request: request,
		Labels:  make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；同名 key 按默认 Merge 规则累积。
func (c *MatchCandidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// GetLabel 读取 Label。
func (c *MatchCandidate) GetLabel(key string) (utils.Label, bool) {
	if c.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := c.Labels[key]
	return lbl, ok
}

// Swapped 返回交换双方角色后的新候选（原候选不变）。
// 角色对称性：交换只改变 offer_* / request_* 前缀对应的值，列集合不变。
func (c *MatchCandidate) Swapped() *MatchCandidate {
	return NewMatchCandidate(c.Request, c.Offer)
}
