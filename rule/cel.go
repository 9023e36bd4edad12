package rule

import (
	"context"

	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/pkg/dsl"
)

// CELFilter 是表达式驱动的资格过滤器：在固定阈值规则之外，
// 用 CEL 表达式描述业务自定义的硬性条件。
//
// 表达式对"保留"取真，例如：
//   - features.location_distance < 500.0
//   - features.regulatory_allowed == 1.0 && features.offer_hazard_level <= 2.0
//   - candidate.offer_compound == candidate.request_compound
type CELFilter struct {
	// Expression CEL 表达式；空表达式恒保留
	Expression string
}

// NewCELFilter 创建表达式过滤器。
func NewCELFilter(expression string) *CELFilter {
	return &CELFilter{Expression: expression}
}

func (f *CELFilter) Name() string { return "rule.cel" }

func (f *CELFilter) ShouldFilter(
	_ context.Context,
	mctx *core.MatchContext,
	cand *core.MatchCandidate,
) (bool, error) {
	keep, err := dsl.NewEval(cand, mctx).Evaluate(f.Expression)
	if err != nil {
		return false, err
	}
	return !keep, nil
}

// 确保 CELFilter 实现了 Filter 接口
var _ Filter = (*CELFilter)(nil)
