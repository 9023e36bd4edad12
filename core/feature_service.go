package core

import "context"

// PartyFeatureService 是企业侧特征服务的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（feature、feast）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 使用场景：
//   - 企业信誉分（reputation）
//   - 历史成交频次（historical_match_freq）
//
// 注意：核心 Extractor 永远不直接调用此服务——这两个特征在核心中
// 固定为 0 / 透传，只有可选的 Enricher 会在打分前用真实数据覆盖。
type PartyFeatureService interface {
	// Name 返回特征服务名称（用于标签/观测）
	Name() string

	// GetPartyFeatures 获取单个企业的特征（如 {"reputation": 4.2}）
	GetPartyFeatures(ctx context.Context, company string) (map[string]float64, error)

	// BatchGetPartyFeatures 批量获取企业特征（减少网络往返）
	BatchGetPartyFeatures(ctx context.Context, companies []string) (map[string]map[string]float64, error)

	// GetPairFeatures 获取企业对的历史特征（如 {"historical_match_freq": 3}）
	GetPairFeatures(ctx context.Context, offerCompany, requestCompany string) (map[string]float64, error)

	// Close 关闭特征服务，释放资源
	Close(ctx context.Context) error
}
