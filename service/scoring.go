// Package service 提供在线打分的服务入口。
// ScoringService 在启动时加载一次模型 bundle，之后对每个供需对执行
// 校验、特征抽取、可选特征补充与概率打分。
//
// 资格过滤与模型分数是相互独立的信号：在线打分默认不做资格过滤，
// 需要组合信号时用 WithEligibilityCheck 显式开启。
package service

import (
	"context"
	"fmt"

	"github.com/symbiolab/matchkit/bundle"
	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/feature"
	"github.com/symbiolab/matchkit/pipeline"
	"github.com/symbiolab/matchkit/refdata"
	"github.com/symbiolab/matchkit/rule"
	"github.com/symbiolab/matchkit/score"
)

// MatchRequest 在线打分请求。
type MatchRequest struct {
	Offer   *core.Party `json:"offer"`
	Request *core.Party `json:"request"`
}

// MatchResponse 在线打分结果。
type MatchResponse struct {
	MatchScore float64 `json:"match_score"`
	Scored     bool    `json:"scored"`

	// Eligible 仅在开启资格过滤时有意义
	Eligible bool `json:"eligible"`

	SchemaVersion     string `json:"schema_version"`
	SchemaFingerprint string `json:"schema_fingerprint"`
	ModelName         string `json:"model_name"`

	// Labels 评估过程的解释信息（过滤原因、补充来源、默认填充列等）
	Labels map[string]string `json:"labels,omitempty"`
}

// ScoringService 在线打分服务。所有字段在 New 之后只读，可并发调用。
type ScoringService struct {
	bundle      *bundle.Bundle
	extractor   *feature.Extractor
	pipe        *pipeline.Pipeline
	scorer      *score.Scorer
	monitor     *feature.DriftMonitor
	checkFilter bool
}

// Option 打分服务配置项。
type Option func(*options)

type options struct {
	featureService core.PartyFeatureService
	monitor        *feature.DriftMonitor
	filters        []rule.Filter
}

// WithEligibilityCheck 在打分前先做资格过滤；不合格的配对不打分。
func WithEligibilityCheck(t rule.Thresholds) Option {
	return func(o *options) {
		o.filters = append([]rule.Filter{rule.NewEligibilityFilter(t)}, o.filters...)
	}
}

// WithFilters 追加业务过滤器（如 CEL 规则），隐含开启资格过滤链。
func WithFilters(filters ...rule.Filter) Option {
	return func(o *options) { o.filters = append(o.filters, filters...) }
}

// WithFeatureService 启用打分前的特征补充（store 或 feast 实现）。
func WithFeatureService(svc core.PartyFeatureService) Option {
	return func(o *options) { o.featureService = svc }
}

// WithDriftMonitor 启用特征漂移观测。
func WithDriftMonitor(m *feature.DriftMonitor) Option {
	return func(o *options) { o.monitor = m }
}

// New 创建在线打分服务。bundle 决定 schema 与模型，ref 提供参考数据。
func New(b *bundle.Bundle, ref *refdata.Tables, opts ...Option) *ScoringService {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	extractor := feature.NewExtractor(ref, b.Registry)
	scorer := score.NewScorer(b.Classifier, b.Registry.Fingerprint())

	nodes := []pipeline.Node{
		&feature.ExtractNode{Extractor: extractor, Monitor: o.monitor},
	}
	if o.featureService != nil {
		nodes = append(nodes, &feature.EnrichNode{FeatureService: o.featureService})
	}
	checkFilter := len(o.filters) > 0
	if checkFilter {
		nodes = append(nodes, &rule.FilterNode{Filters: o.filters})
	}
	scoreNode := score.NewScoreNode(scorer)
	scoreNode.OnlyEligible = checkFilter
	nodes = append(nodes, scoreNode)

	return &ScoringService{
		bundle:      b,
		extractor:   extractor,
		pipe:        &pipeline.Pipeline{Nodes: nodes},
		scorer:      scorer,
		monitor:     o.monitor,
		checkFilter: checkFilter,
	}
}

// Bundle 返回服务加载的部署单元。
func (s *ScoringService) Bundle() *bundle.Bundle { return s.bundle }

// Score 评估一个供需对。
// 输入校验失败或特征抽取失败（如未知地区）直接返回错误；
// 开启资格过滤且不合格时正常返回，Scored=false 且不含分数。
func (s *ScoringService) Score(ctx context.Context, req *MatchRequest) (*MatchResponse, error) {
	if req == nil || req.Offer == nil || req.Request == nil {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput, "offer and request are required")
	}
	if err := req.Offer.Validate("offer"); err != nil {
		return nil, err
	}
	if err := req.Request.Validate("request"); err != nil {
		return nil, err
	}

	mctx := &core.MatchContext{
		Scene:           "online",
		RegistryVersion: s.bundle.Registry.Version(),
	}
	cands := []*core.MatchCandidate{core.NewMatchCandidate(req.Offer, req.Request)}

	out, err := s.pipe.Run(ctx, mctx, cands)
	if err != nil {
		return nil, fmt.Errorf("service: pipeline: %w", err)
	}
	if len(out) != 1 {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInternalError, "pipeline dropped the candidate")
	}
	cand := out[0]
	if cand.Err != nil {
		return nil, cand.Err
	}

	resp := &MatchResponse{
		MatchScore:        cand.Score,
		Scored:            cand.Scored,
		Eligible:          cand.Eligible || !s.checkFilter,
		SchemaVersion:     s.bundle.Registry.Version(),
		SchemaFingerprint: s.bundle.Registry.Fingerprint(),
		ModelName:         s.scorer.Name(),
	}
	if len(cand.Labels) > 0 {
		resp.Labels = make(map[string]string, len(cand.Labels))
		for k, lbl := range cand.Labels {
			resp.Labels[k] = lbl.Value
		}
	}
	return resp, nil
}

// DriftReport 返回启用漂移观测时的累计报告。
func (s *ScoringService) DriftReport() (feature.DriftReport, bool) {
	if s.monitor == nil {
		return feature.DriftReport{}, false
	}
	return s.monitor.Snapshot(), true
}
