package source

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/symbiolab/matchkit/core"
)

// Fanout 并发拉取多个来源并合并结果。
// 支持超时、限流、按 Company 去重（保留 Sources 顺序中先出现的）。
type Fanout struct {
	Sources       []Source
	Dedup         bool
	Timeout       time.Duration // 每个来源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
}

// Load 拉取并合并所有来源。
// 单个来源失败只跳过，不中断其余来源；合并顺序与 Sources 顺序一致。
func (f *Fanout) Load(ctx context.Context) ([]*core.Party, error) {
	if len(f.Sources) == 0 {
		return nil, nil
	}

	results := make([][]*core.Party, len(f.Sources))

	eg, egctx := errgroup.WithContext(ctx)
	if f.MaxConcurrent > 0 {
		eg.SetLimit(f.MaxConcurrent)
	}

	for i, src := range f.Sources {
		i, src := i, src
		eg.Go(func() error {
			loadCtx := egctx
			if f.Timeout > 0 {
				var cancel context.CancelFunc
				loadCtx, cancel = context.WithTimeout(egctx, f.Timeout)
				defer cancel()
			}

			parties, err := src.Load(loadCtx)
			if err != nil {
				// 超时或错误时跳过该来源，不中断其他来源
				return nil
			}
			results[i] = parties
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []*core.Party
	seen := make(map[string]struct{})
	for _, parties := range results {
		for _, p := range parties {
			if p == nil {
				continue
			}
			if f.Dedup {
				if _, ok := seen[p.Company]; ok {
					continue
				}
				seen[p.Company] = struct{}{}
			}
			all = append(all, p)
		}
	}
	return all, nil
}
