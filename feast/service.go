package feast

import (
	"context"
	"fmt"
	"strings"

	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/pkg/conv"
)

// 默认的实体与特征命名，与训练侧 Feast 仓库的 feature view 定义对应。
const (
	DefaultCompanyEntity   = "company"
	DefaultPairEntity      = "company_pair"
	DefaultCompanyFeatures = "company_stats:reputation"
	DefaultPairFeatures    = "pair_stats:historical_match_freq"
)

// PartyFeatureService 把 Feast 在线特征封装为 core.PartyFeatureService。
// 企业实体按 company 名称查询，企业对实体按 "offer|request" 拼接查询。
type PartyFeatureService struct {
	client Client

	companyEntity   string
	pairEntity      string
	companyFeatures []string
	pairFeatures    []string
}

var _ core.PartyFeatureService = (*PartyFeatureService)(nil)

// ServiceOption 特征服务配置项。
type ServiceOption func(*PartyFeatureService)

// WithCompanyFeatures 覆盖企业侧特征列表。
func WithCompanyFeatures(features ...string) ServiceOption {
	return func(s *PartyFeatureService) { s.companyFeatures = features }
}

// WithPairFeatures 覆盖企业对特征列表。
func WithPairFeatures(features ...string) ServiceOption {
	return func(s *PartyFeatureService) { s.pairFeatures = features }
}

// NewPartyFeatureService 创建 Feast 特征服务适配器。
func NewPartyFeatureService(client Client, opts ...ServiceOption) *PartyFeatureService {
	s := &PartyFeatureService{
		client:          client,
		companyEntity:   DefaultCompanyEntity,
		pairEntity:      DefaultPairEntity,
		companyFeatures: []string{DefaultCompanyFeatures},
		pairFeatures:    []string{DefaultPairFeatures},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PartyFeatureService) Name() string { return "feast" }

// GetPartyFeatures 获取单个企业的特征。
// 返回的 key 去掉 feature view 前缀，如 "company_stats:reputation" -> "reputation"。
func (s *PartyFeatureService) GetPartyFeatures(ctx context.Context, company string) (map[string]float64, error) {
	all, err := s.BatchGetPartyFeatures(ctx, []string{company})
	if err != nil {
		return nil, err
	}
	if features, ok := all[company]; ok {
		return features, nil
	}
	return map[string]float64{}, nil
}

// BatchGetPartyFeatures 批量获取企业特征，一次网络往返。
func (s *PartyFeatureService) BatchGetPartyFeatures(ctx context.Context, companies []string) (map[string]map[string]float64, error) {
	if len(companies) == 0 {
		return map[string]map[string]float64{}, nil
	}

	entityRows := make([]map[string]interface{}, len(companies))
	for i, company := range companies {
		entityRows[i] = map[string]interface{}{s.companyEntity: company}
	}

	resp, err := s.client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   s.companyFeatures,
		EntityRows: entityRows,
	})
	if err != nil {
		return nil, fmt.Errorf("feast: party features: %w", err)
	}

	result := make(map[string]map[string]float64, len(companies))
	for i, vec := range resp.FeatureVectors {
		result[companies[i]] = stripPrefixes(vec.Values)
	}
	return result, nil
}

// GetPairFeatures 获取企业对的历史特征。
func (s *PartyFeatureService) GetPairFeatures(ctx context.Context, offerCompany, requestCompany string) (map[string]float64, error) {
	pairKey := offerCompany + "|" + requestCompany
	resp, err := s.client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   s.pairFeatures,
		EntityRows: []map[string]interface{}{{s.pairEntity: pairKey}},
	})
	if err != nil {
		return nil, fmt.Errorf("feast: pair features: %w", err)
	}
	if len(resp.FeatureVectors) == 0 {
		return map[string]float64{}, nil
	}
	return stripPrefixes(resp.FeatureVectors[0].Values), nil
}

// Close 关闭底层 Feast 客户端。
func (s *PartyFeatureService) Close(ctx context.Context) error {
	return s.client.Close()
}

// stripPrefixes 去掉 "view:feature" 中的 view 前缀并转为 float64。
func stripPrefixes(values map[string]interface{}) map[string]float64 {
	out := make(map[string]float64, len(values))
	for name, v := range values {
		key := name
		if idx := strings.LastIndex(name, ":"); idx >= 0 {
			key = name[idx+1:]
		}
		f, ok := conv.ToFloat64(v)
		if !ok {
			continue
		}
		out[key] = f
	}
	return out
}
