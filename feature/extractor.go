// Package feature 实现 offer/request 对的特征抽取。
//
// Extractor 是纯函数：无 I/O、无随机性，同一输入在离线批处理与在线
// 服务两条路径上产出逐位一致的特征向量。输出形状完全由 Schema
// Registry 决定，两条路径不可能在列集合/列顺序上分叉。
package feature

import (
	"fmt"
	"math"

	"github.com/symbiolab/matchkit/core"
	"github.com/symbiolab/matchkit/refdata"
	"github.com/symbiolab/matchkit/schema"
)

// Extractor 把一对 offer/request 映射为 registry 形状的特征向量。
// 构建后只读，可被多个 goroutine 并发调用。
type Extractor struct {
	ref      *refdata.Tables
	registry *schema.Registry
}

// NewExtractor 创建特征抽取器。参考数据与 registry 在服务启动时
// 一次性注入，之后视为不可变。
func NewExtractor(ref *refdata.Tables, registry *schema.Registry) *Extractor {
	return &Extractor{ref: ref, registry: registry}
}

// Registry 返回抽取器绑定的 registry。
func (e *Extractor) Registry() *schema.Registry { return e.registry }

// Extract 计算一对 offer/request 的全部特征。
//
// 地区编码无法解析时返回 UNKNOWN_LOCATION（距离没有安全默认值）；
// 其余缺失输入一律安全降级：未知化合物按未分类处理，缺失日期的
// 时间特征为 0，缺失信誉为 0。
func (e *Extractor) Extract(offer, request *core.Party) (*schema.Vector, error) {
	dist, ok := e.ref.Distance(offer.Location, request.Location)
	if !ok {
		return nil, unknownLocationError(e.ref, offer.Location, request.Location)
	}

	vec := e.registry.NewVector()
	vec.Set(schema.ColLocationDistance, dist)
	vec.Set(schema.ColQuantityDiff, math.Abs(offer.Quantity-request.Quantity))

	offerKW := offer.KeywordSet()
	requestKW := request.KeywordSet()
	vec.Set(schema.ColKeywordOverlap, float64(OverlapCount(offerKW, requestKW)))
	vec.Set(schema.ColKeywordJaccard, Jaccard(offerKW, requestKW))

	for name, val := range e.registry.EncodeKeywords(offerKW, schema.KeywordPrefixOffer) {
		vec.Set(name, val)
	}
	for name, val := range e.registry.EncodeKeywords(requestKW, schema.KeywordPrefixRequest) {
		vec.Set(name, val)
	}

	offerClass := e.ref.CompoundClass(offer.Compound)
	requestClass := e.ref.CompoundClass(request.Compound)
	vec.SetCategorical(schema.ColOfferCompoundClass, offerClass)
	vec.SetCategorical(schema.ColReqCompoundClass, requestClass)
	vec.SetBool(schema.ColChemicalCompatible, offerClass == requestClass)

	vec.Set(schema.ColOfferHazardLevel, float64(e.ref.HazardLevel(offer.Compound)))
	vec.Set(schema.ColReqHazardLevel, float64(e.ref.HazardLevel(request.Compound)))
	vec.SetBool(schema.ColCanTransform, e.ref.CanTransform(offer.Compound, request.Compound))

	// 任一化合物在己方地区被禁用即视为监管不通过
	allowed := !e.ref.IsBanned(offer.Location, offer.Compound) &&
		!e.ref.IsBanned(request.Location, request.Compound)
	vec.SetBool(schema.ColRegulatoryAllowed, allowed)

	// 时间特征只在双方日期都存在时生效，否则整体退化为 0
	if offer.HasDate() && request.HasDate() {
		vec.Set(schema.ColOfferMonth, float64(offer.Date.Month()))
		vec.Set(schema.ColRequestMonth, float64(request.Date.Month()))
		days := request.Date.Sub(offer.Date).Hours() / 24
		vec.Set(schema.ColRecencyDays, math.Abs(days))
	} else {
		vec.Set(schema.ColOfferMonth, 0)
		vec.Set(schema.ColRequestMonth, 0)
		vec.Set(schema.ColRecencyDays, 0)
	}

	vec.Set(schema.ColOfferReputation, offer.Reputation)
	vec.Set(schema.ColReqReputation, request.Reputation)

	// 保留扩展位：核心中恒为 0，只有 Enricher 会在打分前用真实数据覆盖
	vec.Set(schema.ColHistoricalFreq, 0)

	return vec, nil
}

func unknownLocationError(ref *refdata.Tables, locations ...string) error {
	for _, loc := range locations {
		if _, ok := ref.LookupCoord(loc); !ok {
			return core.NewDomainError(core.ModuleRefData, core.ErrorCodeUnknownLocation,
				fmt.Sprintf("refdata: unknown location code %q", loc))
		}
	}
	return core.NewDomainError(core.ModuleRefData, core.ErrorCodeUnknownLocation, "refdata: unknown location code")
}
