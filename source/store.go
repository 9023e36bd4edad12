package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/symbiolab/matchkit/core"
)

// StoreSource 从 KeyValueStore 拉取 Party 列表。
// 索引键是一个 JSON 字符串数组（Party 键列表），每个 Party 键存
// 一条 JSON 编码的 core.Party。
type StoreSource struct {
	Store    core.KeyValueStore
	IndexKey string
}

var _ Source = (*StoreSource)(nil)

func (s *StoreSource) Name() string { return "store:" + s.IndexKey }

func (s *StoreSource) Load(ctx context.Context) ([]*core.Party, error) {
	raw, err := s.Store.Get(ctx, s.IndexKey)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("source: load index %s: %w", s.IndexKey, err)
	}

	var keys []string
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, fmt.Errorf("source: parse index %s: %w", s.IndexKey, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := s.Store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("source: batch get parties: %w", err)
	}

	parties := make([]*core.Party, 0, len(keys))
	for _, key := range keys {
		data, ok := values[key]
		if !ok {
			continue
		}
		var p core.Party
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("source: parse party %s: %w", key, err)
		}
		parties = append(parties, &p)
	}
	return parties, nil
}
