package feature

import (
	"context"

	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/pipeline"
	"github.com/symbiolab/matchkit/pkg/utils"
	"github.com/symbiolab/matchkit/schema"
)

// EnrichNode 是特征补充节点：在打分之前，用外部特征服务的真实数据
// 覆盖核心抽取阶段固定为 0/透传的保留列（historical_match_freq、
// 双方 reputation）。
//
// 补充只改写 registry 中已有的列的取值，不改变向量形状——
// 因此发生在 Extractor 之后、打分之前是安全的。
// 特征服务失败时静默回退（保留核心值），不中断链路。
type EnrichNode struct {
	// FeatureService 企业侧特征服务（store 或 feast 实现）
	FeatureService core.PartyFeatureService
}

func (n *EnrichNode) Name() string        { return "feature.enrich" }
func (n *EnrichNode) Kind() pipeline.Kind { return pipeline.KindEnrich }

func (n *EnrichNode) Process(
	ctx context.Context,
	_ *core.MatchContext,
	candidates []*core.MatchCandidate,
) ([]*core.MatchCandidate, error) {
	if n.FeatureService == nil || len(candidates) == 0 {
		return candidates, nil
	}

	for _, cand := range candidates {
		if cand == nil || cand.Err != nil || cand.Features == nil {
			continue
		}
		vec, ok := cand.Features.(*schema.Vector)
		if !ok {
			continue
		}

		enriched := false
		if cand.Offer != nil {
			if feats, err := n.FeatureService.GetPartyFeatures(ctx, cand.Offer.Company); err == nil {
				if rep, ok := feats["reputation"]; ok {
					vec.Set(schema.ColOfferReputation, rep)
					enriched = true
				}
			}
		}
		if cand.Request != nil {
			if feats, err := n.FeatureService.GetPartyFeatures(ctx, cand.Request.Company); err == nil {
				if rep, ok := feats["reputation"]; ok {
					vec.Set(schema.ColReqReputation, rep)
					enriched = true
				}
			}
		}
		if cand.Offer != nil && cand.Request != nil {
			if feats, err := n.FeatureService.GetPairFeatures(ctx, cand.Offer.Company, cand.Request.Company); err == nil {
				if freq, ok := feats[schema.ColHistoricalFreq]; ok {
					vec.Set(schema.ColHistoricalFreq, freq)
					enriched = true
				}
			}
		}

		if enriched {
			cand.PutLabel("enriched_by", utils.Label{Value: n.FeatureService.Name(), Source: "enrich"})
		}
	}
	return candidates, nil
}
