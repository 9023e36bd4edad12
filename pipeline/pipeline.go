package pipeline

import (
	"context"

	"github.com/symbiolab/matchkit/core"
)

// Pipeline 是撮合链路的核心抽象：把评估逻辑拆成可组合的 Node 链
// （Extract → Filter → Enrich → Score）。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	mctx *core.MatchContext,
	candidates []*core.MatchCandidate,
) ([]*core.MatchCandidate, error) {
	cur := candidates
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, mctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
