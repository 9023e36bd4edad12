// Package batch 实现离线批量撮合。
// 对供给/需求集合做笛卡尔积或按既定配对逐对评估：特征抽取并行执行，
// 单对失败只记录不中断，输出保持输入顺序稳定。
package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/feature"
	"github.com/symbiolab/matchkit/rule"
	"github.com/symbiolab/matchkit/schema"
	"github.com/symbiolab/matchkit/score"
)

// Pair 一次待评估的供需配对。
type Pair struct {
	Offer   *core.Party
	Request *core.Party
}

// CrossProduct 生成全量配对，offers 外层、requests 内层，顺序确定。
func CrossProduct(offers, requests []*core.Party) []Pair {
	pairs := make([]Pair, 0, len(offers)*len(requests))
	for _, o := range offers {
		for _, r := range requests {
			pairs = append(pairs, Pair{Offer: o, Request: r})
		}
	}
	return pairs
}

// MatchRecord 是一条通过资格过滤的撮合结果投影。
type MatchRecord struct {
	OfferCompany     string  `json:"offer_company"`
	RequestCompany   string  `json:"request_company"`
	Compound         string  `json:"compound"`
	QuantityOffer    float64 `json:"quantity_offer"`
	QuantityRequest  float64 `json:"quantity_request"`
	LocationDistance float64 `json:"location_distance"`
	KeywordOverlap   float64 `json:"keyword_overlap"`
	KeywordJaccard   float64 `json:"keyword_jaccard"`
	Score            float64 `json:"score,omitempty"`
	Scored           bool    `json:"scored,omitempty"`
}

// Failure 记录一对候选的评估失败，批处理跳过该对继续执行。
type Failure struct {
	Index          int    `json:"index"`
	OfferCompany   string `json:"offer_company"`
	RequestCompany string `json:"request_company"`
	Err            error  `json:"-"`
	Message        string `json:"error"`
}

// Result 一次批量撮合的输出。Records 与 Failures 都按输入配对顺序排列。
type Result struct {
	Records  []MatchRecord `json:"records"`
	Failures []Failure     `json:"failures,omitempty"`
	// Evaluated 实际完成特征抽取的配对数
	Evaluated int `json:"evaluated"`
}

// Matcher 批量撮合器。Scorer 可为空，为空时只做规则过滤不打分。
type Matcher struct {
	extractor   *feature.Extractor
	filter      *rule.EligibilityFilter
	scorer      *score.Scorer
	concurrency int
}

// Option 批量撮合器配置项。
type Option func(*Matcher)

// WithScorer 启用延迟打分，只对通过过滤的配对计算概率。
func WithScorer(s *score.Scorer) Option {
	return func(m *Matcher) { m.scorer = s }
}

// WithConcurrency 设置特征抽取并行度，默认 8。
func WithConcurrency(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// NewMatcher 创建批量撮合器。
func NewMatcher(extractor *feature.Extractor, filter *rule.EligibilityFilter, opts ...Option) *Matcher {
	m := &Matcher{
		extractor:   extractor,
		filter:      filter,
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match 对 offers x requests 全量配对执行撮合。
func (m *Matcher) Match(ctx context.Context, offers, requests []*core.Party) (*Result, error) {
	return m.MatchPairs(ctx, CrossProduct(offers, requests))
}

// MatchPairs 对既定配对列表执行撮合。
// 特征抽取按并行度并发，输出顺序与输入配对顺序一致；
// 单对抽取失败记入 Failures，不影响其余配对。
func (m *Matcher) MatchPairs(ctx context.Context, pairs []Pair) (*Result, error) {
	cands := make([]*core.MatchCandidate, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cand := core.NewMatchCandidate(p.Offer, p.Request)
			vec, err := m.extractor.Extract(p.Offer, p.Request)
			if err != nil {
				cand.Err = err
			} else {
				cand.Features = vec
			}
			cands[i] = cand
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}

	result := &Result{}
	for i, cand := range cands {
		if cand.Err != nil {
			result.Failures = append(result.Failures, failureOf(i, cand))
			continue
		}
		result.Evaluated++
		if !m.filter.IsEligible(cand) {
			continue
		}
		cand.Eligible = true

		rec := m.projectRecord(cand)
		if m.scorer != nil {
			p, err := m.scorer.Score(ctx, cand)
			if err != nil {
				cand.Err = err
				result.Failures = append(result.Failures, failureOf(i, cand))
				continue
			}
			rec.Score = p
			rec.Scored = true
		}
		result.Records = append(result.Records, rec)
	}
	return result, nil
}

func (m *Matcher) projectRecord(cand *core.MatchCandidate) MatchRecord {
	rec := MatchRecord{
		OfferCompany:    cand.Offer.Company,
		RequestCompany:  cand.Request.Company,
		Compound:        cand.Offer.Compound,
		QuantityOffer:   cand.Offer.Quantity,
		QuantityRequest: cand.Request.Quantity,
	}
	rec.LocationDistance, _ = cand.Features.Get(schema.ColLocationDistance)
	rec.KeywordOverlap, _ = cand.Features.Get(schema.ColKeywordOverlap)
	rec.KeywordJaccard, _ = cand.Features.Get(schema.ColKeywordJaccard)
	return rec
}

func failureOf(idx int, cand *core.MatchCandidate) Failure {
	return Failure{
		Index:          idx,
		OfferCompany:   cand.Offer.Company,
		RequestCompany: cand.Request.Company,
		Err:            cand.Err,
		Message:        cand.Err.Error(),
	}
}
