package feast

import (
	"context"
	"errors"
	"testing"
)

// fakeClient 记录请求并返回预置响应，用于测试适配层的转换逻辑。
type fakeClient struct {
	lastReq *GetOnlineFeaturesRequest
	resp    *GetOnlineFeaturesResponse
	err     error
}

func (f *fakeClient) GetOnlineFeatures(_ context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeClient) Close() error { return nil }

func TestPartyFeatureService_GetPartyFeatures(t *testing.T) {
	fake := &fakeClient{
		resp: &GetOnlineFeaturesResponse{
			FeatureVectors: []FeatureVector{
				{Values: map[string]interface{}{"company_stats:reputation": 4.2}},
			},
		},
	}
	svc := NewPartyFeatureService(fake)

	features, err := svc.GetPartyFeatures(context.Background(), "AcmeChem")
	if err != nil {
		t.Fatalf("GetPartyFeatures() error = %v", err)
	}
	// view 前缀被去掉
	if features["reputation"] != 4.2 {
		t.Errorf("features = %v, want reputation 4.2", features)
	}

	if fake.lastReq.EntityRows[0][DefaultCompanyEntity] != "AcmeChem" {
		t.Errorf("entity row = %v", fake.lastReq.EntityRows[0])
	}
	if fake.lastReq.Features[0] != DefaultCompanyFeatures {
		t.Errorf("features requested = %v", fake.lastReq.Features)
	}
}

func TestPartyFeatureService_GetPairFeatures(t *testing.T) {
	fake := &fakeClient{
		resp: &GetOnlineFeaturesResponse{
			FeatureVectors: []FeatureVector{
				{Values: map[string]interface{}{"pair_stats:historical_match_freq": int64(7)}},
			},
		},
	}
	svc := NewPartyFeatureService(fake)

	features, err := svc.GetPairFeatures(context.Background(), "AcmeChem", "GreenPoly")
	if err != nil {
		t.Fatalf("GetPairFeatures() error = %v", err)
	}
	if features["historical_match_freq"] != 7 {
		t.Errorf("features = %v, want historical_match_freq 7", features)
	}
	// 企业对实体键按 "offer|request" 拼接
	if fake.lastReq.EntityRows[0][DefaultPairEntity] != "AcmeChem|GreenPoly" {
		t.Errorf("entity row = %v", fake.lastReq.EntityRows[0])
	}
}

func TestPartyFeatureService_BatchAndErrors(t *testing.T) {
	fake := &fakeClient{
		resp: &GetOnlineFeaturesResponse{
			FeatureVectors: []FeatureVector{
				{Values: map[string]interface{}{"company_stats:reputation": 4.0}},
				{Values: map[string]interface{}{"company_stats:reputation": "not-a-number"}},
			},
		},
	}
	svc := NewPartyFeatureService(fake)

	all, err := svc.BatchGetPartyFeatures(context.Background(), []string{"A", "B"})
	if err != nil {
		t.Fatalf("BatchGetPartyFeatures() error = %v", err)
	}
	if all["A"]["reputation"] != 4.0 {
		t.Errorf("A = %v", all["A"])
	}
	// 无法转成数值的特征被丢弃
	if _, ok := all["B"]["reputation"]; ok {
		t.Errorf("B = %v, want reputation dropped", all["B"])
	}

	fake.err = errors.New("connection refused")
	if _, err := svc.GetPartyFeatures(context.Background(), "A"); err == nil {
		t.Error("GetPartyFeatures() error = nil, want wrapped client error")
	}

	empty, err := svc.BatchGetPartyFeatures(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("BatchGetPartyFeatures(nil) = %v, %v", empty, err)
	}
}

func TestPartyFeatureService_CustomFeatures(t *testing.T) {
	fake := &fakeClient{resp: &GetOnlineFeaturesResponse{}}
	svc := NewPartyFeatureService(fake,
		WithCompanyFeatures("company_stats:reputation", "company_stats:match_rate"),
		WithPairFeatures("pair_stats:historical_match_freq", "pair_stats:dispute_count"),
	)

	if _, err := svc.GetPairFeatures(context.Background(), "A", "B"); err != nil {
		t.Fatal(err)
	}
	if len(fake.lastReq.Features) != 2 {
		t.Errorf("pair features requested = %v", fake.lastReq.Features)
	}
}

// TestGrpcClient_GetOnlineFeatures 测试 gRPC 客户端的基本功能
// 注意：这是一个示例测试，实际使用时需要连接真实的 Feast 服务器
func TestGrpcClient_GetOnlineFeatures(t *testing.T) {
	t.Skip("需要连接真实的 Feast 服务器才能运行")

	ctx := context.Background()

	client, err := NewGrpcClient("localhost", 6565, "symbiosis")
	if err != nil {
		t.Fatalf("创建客户端失败: %v", err)
	}
	defer client.Close()

	resp, err := client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features: []string{
			DefaultCompanyFeatures,
		},
		EntityRows: []map[string]interface{}{
			{DefaultCompanyEntity: "AcmeChem"},
			{DefaultCompanyEntity: "GreenPoly"},
		},
	})
	if err != nil {
		t.Fatalf("获取特征失败: %v", err)
	}

	if len(resp.FeatureVectors) != 2 {
		t.Errorf("期望 2 个特征向量，实际得到 %d 个", len(resp.FeatureVectors))
	}
	for i, fv := range resp.FeatureVectors {
		t.Logf("特征向量 %d: %+v", i, fv.Values)
	}
}

func TestFromSDKValue(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  interface{}
	}{
		{"nil", nil, nil},
		{"float64", 3.14, 3.14},
		{"int64", int64(100), float64(100)},
		{"bool_true", true, float64(1)},
		{"bool_false", false, float64(0)},
		{"string", "east", "east"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fromSDKValue(tt.input); got != tt.want {
				t.Errorf("fromSDKValue(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
