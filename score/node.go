package score

import (
	"context"

	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/pipeline"
	"github.com/symbiolab/matchkit/pkg/utils"
)

// ScoreNode 打分节点。只对通过规则过滤的候选打分，
// 打分失败的候选记录错误后原样保留，不中断整批。
type ScoreNode struct {
	Scorer *Scorer
	// OnlyEligible 为 true 时跳过未通过资格过滤的候选，默认开启。
	OnlyEligible bool
}

// NewScoreNode 创建打分节点。
func NewScoreNode(scorer *Scorer) *ScoreNode {
	return &ScoreNode{Scorer: scorer, OnlyEligible: true}
}

func (n *ScoreNode) Name() string        { return "score." + n.Scorer.Name() }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindScore }

var _ pipeline.Node = (*ScoreNode)(nil)

// Process 逐候选打分并写回 Score 与标签。
func (n *ScoreNode) Process(ctx context.Context, mctx *core.MatchContext, cands []*core.MatchCandidate) ([]*core.MatchCandidate, error) {
	for _, cand := range cands {
		if cand == nil || cand.Err != nil {
			continue
		}
		if n.OnlyEligible && !cand.Eligible {
			continue
		}
		p, err := n.Scorer.Score(ctx, cand)
		if err != nil {
			cand.Err = err
			cand.PutLabel("score_error", utils.Label{Value: err.Error(), Source: "score"})
			continue
		}
		cand.Score = p
		cand.Scored = true
		cand.PutLabel("score_model", utils.Label{Value: n.Scorer.Name(), Source: "score"})
	}
	return cands, nil
}
