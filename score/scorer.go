// Package score 负责把特征向量送入分类器并产出匹配概率。
// 打分前强制校验向量指纹与模型训练时的 Schema 指纹一致，
// 不一致直接拒绝，避免离线在线特征错位导致的静默错判。
package score

import (
	"context"
	"fmt"

	"github.com/symbiolab/matchkit/core"
)

// Scorer 封装分类器与期望的 Schema 指纹。
type Scorer struct {
	classifier          core.Classifier
	expectedFingerprint string
}

// NewScorer 创建打分器。expectedFingerprint 取自模型 bundle 中
// 随模型一起持久化的 Schema 指纹。
func NewScorer(classifier core.Classifier, expectedFingerprint string) *Scorer {
	return &Scorer{classifier: classifier, expectedFingerprint: expectedFingerprint}
}

// Name 返回底层分类器名。
func (s *Scorer) Name() string { return s.classifier.Name() }

// ExpectedFingerprint 返回打分器绑定的 Schema 指纹。
func (s *Scorer) ExpectedFingerprint() string { return s.expectedFingerprint }

// Score 对单个候选打分。候选必须已完成特征抽取。
func (s *Scorer) Score(ctx context.Context, cand *core.MatchCandidate) (float64, error) {
	if cand.Features == nil {
		return 0, core.NewDomainError(core.ModuleScore, core.ErrorCodeInvalidInput, "candidate has no features")
	}
	if err := s.checkFingerprint(cand.Features.Fingerprint()); err != nil {
		return 0, err
	}
	dense := cand.Features.Dense()
	if n := s.classifier.NumFeatures(); n >= 0 && n != len(dense) {
		return 0, core.NewDomainError(core.ModuleScore, core.ErrorCodeSchemaMismatch,
			fmt.Sprintf("classifier expects %d features, vector has %d", n, len(dense)))
	}
	p, err := s.classifier.PredictProbability(dense)
	if err != nil {
		return 0, fmt.Errorf("score: %s: %w", s.classifier.Name(), err)
	}
	return p, nil
}

func (s *Scorer) checkFingerprint(got string) error {
	if s.expectedFingerprint == "" {
		return nil
	}
	if got != s.expectedFingerprint {
		return core.NewDomainError(core.ModuleScore, core.ErrorCodeSchemaMismatch,
			fmt.Sprintf("vector fingerprint %s does not match model fingerprint %s", got, s.expectedFingerprint))
	}
	return nil
}
