package core

import "github.com/symbiolab/matchkit/pkg/utils"

// MatchContext 承载一次撮合评估的场景信息，贯穿整个 Pipeline 透传。
type MatchContext struct {
	// Scene 场景标识（batch / online 等，用于观测与策略）
	Scene string

	// RegistryVersion 本次评估使用的 schema registry 版本（来自加载的 bundle）
	RegistryVersion string

	// Labels 请求级标签，可驱动 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (mctx *MatchContext) PutLabel(key string, lbl utils.Label) {
	if mctx.Labels == nil {
		mctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := mctx.Labels[key]; ok {
		mctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	mctx.Labels[key] = lbl
}

// GetLabel 读取请求级 Label。
func (mctx *MatchContext) GetLabel(key string) (utils.Label, bool) {
	if mctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := mctx.Labels[key]
	return lbl, ok
}
