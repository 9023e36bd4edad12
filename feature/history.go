package feature

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/schema"
)

// StorePartyFeatureService 是基于 KeyValueStore 的企业侧特征服务实现，
// 采用适配器模式将 core.KeyValueStore 适配为 core.PartyFeatureService。
//
// 数据布局：
//   - 企业特征：<partyPrefix><company> → JSON map（含 "reputation" 等）
//   - 成交历史：有序集合 <historyKey>，member 为 "<offer>|<request>"，
//     score 为累计成交次数
type StorePartyFeatureService struct {
	store       core.KeyValueStore
	partyPrefix string
	historyKey  string
}

// NewStorePartyFeatureService 创建基于 Store 的企业侧特征服务。
func NewStorePartyFeatureService(store core.KeyValueStore) *StorePartyFeatureService {
	return &StorePartyFeatureService{
		store:       store,
		partyPrefix: "party:features:",
		historyKey:  "match:history",
	}
}

func (s *StorePartyFeatureService) Name() string { return "store" }

// GetPartyFeatures 获取单个企业的特征；key 不存在时返回空 map，不报错。
func (s *StorePartyFeatureService) GetPartyFeatures(ctx context.Context, company string) (map[string]float64, error) {
	data, err := s.store.Get(ctx, s.partyPrefix+company)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return map[string]float64{}, nil
		}
		return nil, fmt.Errorf("get party features: %w", err)
	}
	var features map[string]float64
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, fmt.Errorf("decode party features: %w", err)
	}
	return features, nil
}

// BatchGetPartyFeatures 批量获取企业特征。
func (s *StorePartyFeatureService) BatchGetPartyFeatures(ctx context.Context, companies []string) (map[string]map[string]float64, error) {
	keys := make([]string, len(companies))
	for i, c := range companies {
		keys[i] = s.partyPrefix + c
	}
	raw, err := s.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("batch get party features: %w", err)
	}
	out := make(map[string]map[string]float64, len(companies))
	for i, c := range companies {
		data, ok := raw[keys[i]]
		if !ok {
			out[c] = map[string]float64{}
			continue
		}
		var features map[string]float64
		if err := json.Unmarshal(data, &features); err != nil {
			return nil, fmt.Errorf("decode party features for %s: %w", c, err)
		}
		out[c] = features
	}
	return out, nil
}

// GetPairFeatures 获取企业对的历史成交频次；无记录时频次为 0。
func (s *StorePartyFeatureService) GetPairFeatures(ctx context.Context, offerCompany, requestCompany string) (map[string]float64, error) {
	freq, err := s.store.ZScore(ctx, s.historyKey, pairMember(offerCompany, requestCompany))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return map[string]float64{schema.ColHistoricalFreq: 0}, nil
		}
		return nil, fmt.Errorf("get pair history: %w", err)
	}
	return map[string]float64{schema.ColHistoricalFreq: freq}, nil
}

// RecordMatch 累加一次成交记录（供外部协作方在撮合成功后回写）。
func (s *StorePartyFeatureService) RecordMatch(ctx context.Context, offerCompany, requestCompany string) error {
	member := pairMember(offerCompany, requestCompany)
	freq, err := s.store.ZScore(ctx, s.historyKey, member)
	if err != nil && !core.IsStoreNotFound(err) {
		return fmt.Errorf("read pair history: %w", err)
	}
	return s.store.ZAdd(ctx, s.historyKey, freq+1, member)
}

// SetPartyFeatures 写入企业特征（供外部协作方维护）。
func (s *StorePartyFeatureService) SetPartyFeatures(ctx context.Context, company string, features map[string]float64) error {
	data, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("encode party features: %w", err)
	}
	return s.store.Set(ctx, s.partyPrefix+company, data)
}

func (s *StorePartyFeatureService) Close(ctx context.Context) error {
	return s.store.Close()
}

func pairMember(offerCompany, requestCompany string) string {
	return offerCompany + "|" + requestCompany
}

// 确保 StorePartyFeatureService 实现了 core.PartyFeatureService 接口
var _ core.PartyFeatureService = (*StorePartyFeatureService)(nil)
