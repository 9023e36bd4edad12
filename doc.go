// Package matchkit 是一个产业共生撮合工具包（Industrial-Symbiosis Match Kit）。
//
// 设计要点：
// - Pipeline-first: 撮合评估通过 Node 串联（Extract → Filter → Enrich → Score）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - Schema-first: 特征列布局由 Registry 决定，离线训练与在线打分共用同一份
//   指纹校验的 schema，杜绝特征错位
// - Node 可扩展: 自定义 Node 即可插拔扩展（本地或远程模型均可）
package matchkit

import "github.com/symbiolab/matchkit/pipeline"

// 轻量 facade：便于用户直接 import "matchkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindExtract = pipeline.KindExtract
	KindFilter  = pipeline.KindFilter
	KindEnrich  = pipeline.KindEnrich
	KindScore   = pipeline.KindScore
)
