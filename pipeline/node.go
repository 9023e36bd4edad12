package pipeline

import (
	"context"

	"github.com/symbiolab/matchkit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindExtract Kind = "extract" // 特征抽取阶段：为候选填充特征向量
	KindFilter  Kind = "filter"  // 规则过滤阶段：剔除不满足硬性资格的候选
	KindEnrich  Kind = "enrich"  // 特征补充阶段：注入历史/信誉等外部特征
	KindScore   Kind = "score"   // 打分阶段：计算匹配概率
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 candidates -> 输出 candidates”的形态，方便抽取填充、
// 过滤截断、打分标注等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		mctx *core.MatchContext,
		candidates []*core.MatchCandidate,
	) ([]*core.MatchCandidate, error)
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(config map[string]interface{}) (Node, error)
