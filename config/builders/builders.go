// Package builders 注册内置 Node 的配置构建器。
// 入口处空导入本包即可启用配置驱动：
//
//	import _ "github.com/symbiolab/matchkit/config/builders"
package builders

import (
	"fmt"
	"time"

	"github.com/symbiolab/matchkit/bundle"
	"github.com/symbiolab/matchkit/config"
	"github.com/symbiolab/matchkit/feature"
	"github.com/symbiolab/matchkit/model"
	"github.com/symbiolab/matchkit/pipeline"
	"github.com/symbiolab/matchkit/pkg/conv"
	"github.com/symbiolab/matchkit/refdata"
	"github.com/symbiolab/matchkit/rule"
	"github.com/symbiolab/matchkit/schema"
	"github.com/symbiolab/matchkit/score"
	"github.com/symbiolab/matchkit/store"
)

func init() {
	config.Register("feature.extract", buildExtractNode)
	config.Register("feature.enrich", buildEnrichNode)
	config.Register("rule.filter", buildFilterNode)
	config.Register("rule.cel", buildCELNode)
	config.Register("score.bundle", buildBundleScoreNode)
	config.Register("score.lr", buildLRScoreNode)
	config.Register("score.remote", buildRemoteScoreNode)
}

// buildExtractNode 构建特征抽取节点。
// 配置：
//
//	bundle: bundle.json 的路径（优先，schema 来自 bundle）
//	vocabulary: 关键词词表（无 bundle 时用于构建 registry）
//	version: schema 版本号
//	refdata: 参考数据 YAML 路径（缺省用内置默认表）
func buildExtractNode(cfg map[string]interface{}) (pipeline.Node, error) {
	ref, err := loadRefdata(cfg)
	if err != nil {
		return nil, err
	}

	var registry *schema.Registry
	if path := conv.ConfigGet[string](cfg, "bundle", ""); path != "" {
		b, err := bundle.LoadFile(path)
		if err != nil {
			return nil, err
		}
		registry = b.Registry
	} else {
		vocab := conv.SliceAnyToString(cfg["vocabulary"])
		registry = schema.Build(vocab, schema.WithVersion(conv.ConfigGet[string](cfg, "version", "")))
	}

	return &feature.ExtractNode{
		Extractor: feature.NewExtractor(ref, registry),
	}, nil
}

// buildEnrichNode 构建特征补充节点。
// 配置：
//
//	backend: memory / redis
//	addr: redis 地址（backend=redis 时必填）
//	db: redis 库号
//	key_prefix: redis key 前缀（多部署共享实例时隔离用）
func buildEnrichNode(cfg map[string]interface{}) (pipeline.Node, error) {
	var svc *feature.StorePartyFeatureService
	switch backend := conv.ConfigGet[string](cfg, "backend", "memory"); backend {
	case "memory":
		svc = feature.NewStorePartyFeatureService(store.NewMemoryStore())
	case "redis":
		addr := conv.ConfigGet[string](cfg, "addr", "")
		if addr == "" {
			return nil, fmt.Errorf("redis backend requires addr")
		}
		redisOpts := []store.RedisOption{
			store.WithDB(int(conv.ConfigGetInt64(cfg, "db", 0))),
		}
		if prefix := conv.ConfigGet[string](cfg, "key_prefix", ""); prefix != "" {
			redisOpts = append(redisOpts, store.WithKeyPrefix(prefix))
		}
		rs, err := store.NewRedisStore(addr, redisOpts...)
		if err != nil {
			return nil, err
		}
		svc = feature.NewStorePartyFeatureService(rs)
	default:
		return nil, fmt.Errorf("unknown enrich backend: %s", backend)
	}
	return &feature.EnrichNode{FeatureService: svc}, nil
}

// buildFilterNode 构建资格过滤节点。
// 配置：
//
//	max_distance_km / min_keyword_overlap / min_jaccard: 阈值覆盖
//	drop: 是否直接移除不合格候选（默认 false，仅标记）
func buildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	t := rule.DefaultThresholds()
	t.MaxDistanceKM = conv.ConfigGetFloat64(cfg, "max_distance_km", t.MaxDistanceKM)
	t.MinKeywordOverlap = conv.ConfigGetFloat64(cfg, "min_keyword_overlap", t.MinKeywordOverlap)
	t.MinJaccard = conv.ConfigGetFloat64(cfg, "min_jaccard", t.MinJaccard)

	return &rule.FilterNode{
		Filters: []rule.Filter{rule.NewEligibilityFilter(t)},
		Drop:    conv.ConfigGet[bool](cfg, "drop", false),
	}, nil
}

// buildCELNode 构建 CEL 表达式过滤节点。
// 配置：
//
//	expression: CEL 表达式，求值为 true 表示候选保留
//	drop: 是否直接移除不合格候选
func buildCELNode(cfg map[string]interface{}) (pipeline.Node, error) {
	expr := conv.ConfigGet[string](cfg, "expression", "")
	if expr == "" {
		return nil, fmt.Errorf("expression is required")
	}
	return &rule.FilterNode{
		Filters: []rule.Filter{rule.NewCELFilter(expr)},
		Drop:    conv.ConfigGet[bool](cfg, "drop", false),
	}, nil
}

// buildBundleScoreNode 从 bundle 构建打分节点。
// 配置：
//
//	path: bundle.json 的路径
func buildBundleScoreNode(cfg map[string]interface{}) (pipeline.Node, error) {
	path := conv.ConfigGet[string](cfg, "path", "")
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	b, err := bundle.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return score.NewScoreNode(score.NewScorer(b.Classifier, b.Fingerprint())), nil
}

// buildLRScoreNode 构建内联权重的逻辑回归打分节点。
// 配置：
//
//	bias: 偏置
//	weights: 按特征列顺序排列的权重
//	fingerprint: 期望的 schema 指纹（可选，为空不校验）
func buildLRScoreNode(cfg map[string]interface{}) (pipeline.Node, error) {
	raw, ok := cfg["weights"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("weights not found")
	}
	weights := make([]float64, 0, len(raw))
	for _, v := range raw {
		f, ok := conv.ToFloat64(v)
		if !ok {
			return nil, fmt.Errorf("invalid weight %v", v)
		}
		weights = append(weights, f)
	}

	lr := model.NewLRClassifier(
		conv.ConfigGet[string](cfg, "name", "lr"),
		conv.ConfigGetFloat64(cfg, "bias", 0),
		weights,
	)
	fp := conv.ConfigGet[string](cfg, "fingerprint", "")
	return score.NewScoreNode(score.NewScorer(lr, fp)), nil
}

// buildRemoteScoreNode 构建远程打分节点。
// 配置：
//
//	endpoint: 打分服务地址
//	timeout: 超时秒数（默认 5）
//	auth_token: Bearer Token（可选）
//	fingerprint: 期望的 schema 指纹（可选）
func buildRemoteScoreNode(cfg map[string]interface{}) (pipeline.Node, error) {
	endpoint := conv.ConfigGet[string](cfg, "endpoint", "")
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	opts := []model.RemoteOption{}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		opts = append(opts, model.WithTimeout(time.Duration(sec)*time.Second))
	}
	if token := conv.ConfigGet[string](cfg, "auth_token", ""); token != "" {
		opts = append(opts, model.WithAuthToken(token))
	}
	remote := model.NewRemoteClassifier(
		conv.ConfigGet[string](cfg, "name", "remote"),
		endpoint,
		opts...,
	)
	fp := conv.ConfigGet[string](cfg, "fingerprint", "")
	return score.NewScoreNode(score.NewScorer(remote, fp)), nil
}

func loadRefdata(cfg map[string]interface{}) (*refdata.Tables, error) {
	if path := conv.ConfigGet[string](cfg, "refdata", ""); path != "" {
		return refdata.LoadFromYAML(path)
	}
	return refdata.Default(), nil
}
