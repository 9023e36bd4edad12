// Package feast 提供基于 Feast Feature Store 的企业特征服务实现。
//
// Feast 是一个开源的 Feature Store：离线存储供训练，在线存储供
// 实时预测。本包把 Feast 在线特征封装为 core.PartyFeatureService，
// 为打分前的 Enricher 提供企业信誉与历史成交特征。
//
// 参考：https://github.com/feast-dev/feast
package feast

import (
	"context"
	"time"
)

// Client 是 Feast Feature Server 的客户端接口。
// 领域层只依赖此接口，gRPC 实现在基础设施层（grpc_client.go）。
type Client interface {
	// GetOnlineFeatures 获取在线特征（用于实时预测）。
	// features 形如 ["company_stats:reputation"]，
	// entityRows 形如 [{"company": "GreenChem"}]。
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表，例如 ["company_stats:reputation"]
	Features []string

	// EntityRows 实体行，例如 [{"company": "GreenChem"}]
	EntityRows []map[string]interface{}

	// Project 项目名称（可选，为空用客户端默认值）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，每个元素对应一个实体行
	FeatureVectors []FeatureVector
}

// FeatureVector 单个实体行的特征值集合
type FeatureVector struct {
	// Values key 为特征名称
	Values map[string]interface{}

	// EntityRow 对应的实体行
	EntityRow map[string]interface{}
}

// ClientOption 客户端配置选项
type ClientOption func(*ClientConfig)

// ClientConfig 客户端配置
type ClientConfig struct {
	Timeout time.Duration
	Auth    *AuthConfig
}

// AuthConfig 认证配置。Type 目前支持 "static"（静态 Token）。
type AuthConfig struct {
	Type  string
	Token string
}

// WithTimeout 设置请求超时，默认 30s。
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) { c.Timeout = timeout }
}

// WithAuth 设置认证信息。
func WithAuth(auth *AuthConfig) ClientOption {
	return func(c *ClientConfig) { c.Auth = auth }
}
