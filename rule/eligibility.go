package rule

import (
	"context"

	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/schema"
)

// Filter 是资格过滤器的抽象接口，用于判断一个候选是否应该被过滤掉。
// 返回 true 表示不具备资格（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断候选是否应该被过滤
	ShouldFilter(ctx context.Context, mctx *core.MatchContext, cand *core.MatchCandidate) (bool, error)
}

// EligibilityFilter 实现规范的资格规则：
//
//	化合物完全一致 AND 距离 ≤ MaxDistanceKM AND
//	(overlap ≥ MinKeywordOverlap OR jaccard ≥ MinJaccard)
//
// overlap 与 jaccard 是"二选一即可"的并列充分条件。
// 纯谓词，只读取特征向量与候选双方的化合物字段。
type EligibilityFilter struct {
	Thresholds Thresholds
}

// NewEligibilityFilter 创建规则过滤器；阈值会先做非负归一。
func NewEligibilityFilter(t Thresholds) *EligibilityFilter {
	return &EligibilityFilter{Thresholds: t.Sanitize()}
}

func (f *EligibilityFilter) Name() string { return "rule.eligibility" }

// IsEligible 对已抽取的特征向量做资格判定。
func (f *EligibilityFilter) IsEligible(cand *core.MatchCandidate) bool {
	if cand == nil || cand.Features == nil || cand.Offer == nil || cand.Request == nil {
		return false
	}

	// 化合物不一致直接短路，其余条件不再考察
	if cand.Offer.Compound != cand.Request.Compound {
		return false
	}

	dist, _ := cand.Features.Get(schema.ColLocationDistance)
	if dist > f.Thresholds.MaxDistanceKM {
		return false
	}

	overlap, _ := cand.Features.Get(schema.ColKeywordOverlap)
	jaccard, _ := cand.Features.Get(schema.ColKeywordJaccard)
	return overlap >= f.Thresholds.MinKeywordOverlap || jaccard >= f.Thresholds.MinJaccard
}

func (f *EligibilityFilter) ShouldFilter(
	_ context.Context,
	_ *core.MatchContext,
	cand *core.MatchCandidate,
) (bool, error) {
	return !f.IsEligible(cand), nil
}

// 确保 EligibilityFilter 实现了 Filter 接口
var _ Filter = (*EligibilityFilter)(nil)
