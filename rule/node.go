package rule

import (
	"context"

	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/pipeline"
	"github.com/symbiolab/matchkit/pkg/utils"
)

// FilterNode 是规则过滤 Node，可以组合多个过滤器。
// 任何一个过滤器命中，候选即标记为不具备资格。
//
// 两种工作模式：
//   - Drop=true：不具备资格的候选从输出中移除（批处理物化路径）
//   - Drop=false：候选保留，仅标记 Eligible（资格与模型分数是相互
//     独立的信号，调用方可自行组合）
type FilterNode struct {
	Filters []Filter
	Drop    bool
}

func (n *FilterNode) Name() string        { return "rule.filter" }
func (n *FilterNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *FilterNode) Process(
	ctx context.Context,
	mctx *core.MatchContext,
	candidates []*core.MatchCandidate,
) ([]*core.MatchCandidate, error) {
	if len(n.Filters) == 0 || len(candidates) == 0 {
		return candidates, nil
	}

	out := make([]*core.MatchCandidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand == nil {
			continue
		}
		if cand.Err != nil {
			// 抽取失败的候选不参与资格判定，原样透传
			if !n.Drop {
				out = append(out, cand)
			}
			continue
		}

		filtered := false
		filterReason := ""
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, mctx, cand)
			if err != nil {
				// 过滤器错误时记录但不中断流程
				cand.PutLabel("filter_error", utils.Label{Value: err.Error(), Source: f.Name()})
				continue
			}
			if ok {
				filtered = true
				filterReason = f.Name()
				break
			}
		}

		cand.Eligible = !filtered
		if filtered {
			cand.PutLabel("filtered", utils.Label{Value: "true", Source: filterReason})
			if n.Drop {
				continue
			}
		}
		out = append(out, cand)
	}
	return out, nil
}
