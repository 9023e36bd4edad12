package feature

import (
	"context"

	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/pipeline"
	"github.com/symbiolab/matchkit/pkg/utils"
)

// ExtractNode 是特征抽取 Node：为每个候选填充特征向量。
//
// 单对失败（典型是 UNKNOWN_LOCATION）不会中断批次：失败原因记录在
// candidate.Err 与标签上，候选继续向下游传递，由调用方在物化时排除。
// 若向量出现默认填充列（schema 漂移的信号），写入 defaulted_columns
// 标签并上报给 Monitor。
type ExtractNode struct {
	Extractor *Extractor

	// Monitor 可选的漂移观测（nil 时不上报）
	Monitor *DriftMonitor
}

func (n *ExtractNode) Name() string        { return "feature.extract" }
func (n *ExtractNode) Kind() pipeline.Kind { return pipeline.KindExtract }

func (n *ExtractNode) Process(
	_ context.Context,
	_ *core.MatchContext,
	candidates []*core.MatchCandidate,
) ([]*core.MatchCandidate, error) {
	if n.Extractor == nil || len(candidates) == 0 {
		return candidates, nil
	}

	for _, cand := range candidates {
		if cand == nil || cand.Err != nil {
			continue
		}
		vec, err := n.Extractor.Extract(cand.Offer, cand.Request)
		if err != nil {
			cand.Err = err
			cand.PutLabel("extract_error", utils.Label{Value: err.Error(), Source: "extract"})
			continue
		}
		cand.Features = vec

		if defaulted := vec.DefaultedColumns(); len(defaulted) > 0 {
			cand.PutLabel("defaulted_columns", utils.Label{
				Value:  joinColumns(defaulted),
				Source: "extract",
			})
		}
		if n.Monitor != nil {
			n.Monitor.Observe(vec)
		}
	}
	return candidates, nil
}

func joinColumns(cols []string) string {
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ","
		}
		out += c
	}
	return out
}
