package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RemoteClassifier 调用外部 HTTP 打分服务的分类器。
// 请求体: {"features_list": [[...], ...]}
// 响应体: {"scores": [0.73, ...]}
type RemoteClassifier struct {
	name      string
	url       string
	timeout   time.Duration
	authToken string
	client    *http.Client
}

var _ Classifier = (*RemoteClassifier)(nil)

// RemoteOption 远程分类器配置项。
type RemoteOption func(*RemoteClassifier)

// WithTimeout 设置请求超时，默认 5s。
func WithTimeout(d time.Duration) RemoteOption {
	return func(m *RemoteClassifier) { m.timeout = d }
}

// WithHTTPClient 替换默认 http.Client。
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(m *RemoteClassifier) { m.client = c }
}

// WithAuthToken 设置 Bearer Token 认证。
func WithAuthToken(token string) RemoteOption {
	return func(m *RemoteClassifier) { m.authToken = token }
}

// NewRemoteClassifier 创建远程分类器。
func NewRemoteClassifier(name, url string, opts ...RemoteOption) *RemoteClassifier {
	m := &RemoteClassifier{
		name:    name,
		url:     url,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.client == nil {
		m.client = &http.Client{Timeout: m.timeout}
	}
	return m
}

func (m *RemoteClassifier) Name() string {
	if m.name == "" {
		return "remote"
	}
	return m.name
}

// NumFeatures 返回 -1，维度校验交给远端服务。
func (m *RemoteClassifier) NumFeatures() int { return -1 }

// PredictProbability 单条打分，内部走批量接口。
func (m *RemoteClassifier) PredictProbability(features []float64) (float64, error) {
	scores, err := m.PredictBatch(context.Background(), [][]float64{features})
	if err != nil {
		return 0, err
	}
	return scores[0], nil
}

// PredictBatch 批量请求远端服务。
func (m *RemoteClassifier) PredictBatch(ctx context.Context, featuresList [][]float64) ([]float64, error) {
	reqBody := map[string]any{"features_list": featuresList}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("remote: marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+m.authToken)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: request %s: %w", m.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote: %s returned status %d", m.url, resp.StatusCode)
	}

	var out struct {
		Scores []float64 `json:"scores"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("remote: decode response: %w", err)
	}
	if len(out.Scores) != len(featuresList) {
		return nil, fmt.Errorf("remote: got %d scores for %d inputs", len(out.Scores), len(featuresList))
	}
	return out.Scores, nil
}
