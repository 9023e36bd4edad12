// Package source 提供批量撮合的供给/需求数据来源。
// Source 抽象一份 Party 列表的来源（内存、KV 存储等），
// Fanout 并发拉取多个来源并合并，供 batch.Matcher 消费。
package source

import (
	"context"

	"github.com/symbiolab/matchkit/core"
)

// Source 是一份 Party 列表的来源。
type Source interface {
	// Name 来源名称（用于观测与失败记录）
	Name() string

	// Load 拉取全部 Party
	Load(ctx context.Context) ([]*core.Party, error)
}

// Static 固定列表来源，用于测试与小规模场景。
type Static struct {
	SourceName string
	Parties    []*core.Party
}

var _ Source = (*Static)(nil)

func (s *Static) Name() string {
	if s.SourceName == "" {
		return "static"
	}
	return s.SourceName
}

func (s *Static) Load(_ context.Context) ([]*core.Party, error) {
	return s.Parties, nil
}
