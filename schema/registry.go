// Package schema 定义特征列的唯一事实来源：Schema Registry。
//
// Registry 在训练期特征工程时由关键词词表构建一次，随模型一起持久化，
// 服务期加载后只读。所有下游组件（Extractor、规则过滤、打分）都消费
// 同一个 Registry，任何一方都不得独立重定义列集合或列顺序——
// 这是离线/在线特征语义逐位一致的唯一保证。
package schema

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"

	"github.com/symbiolab/matchkit/refdata"
)

// Kind 是特征列的取值类型。
type Kind string

const (
	KindNumeric     Kind = "numeric"     // 数值特征
	KindBoolean     Kind = "boolean"     // 0/1 指示特征
	KindCategorical Kind = "categorical" // 类别透传特征
)

// Column 是一个特征列的定义。
type Column struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`

	// Categories 类别列的类目表（持久化在 registry 中，Dense 编码按
	// 此处的索引进行，保证模型输入可以只凭 artifact 复现）
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// 关键词指示列的前缀。
const (
	KeywordPrefixOffer   = "offer_kw"
	KeywordPrefixRequest = "request_kw"
)

// 固定基础列的列名。
const (
	ColLocationDistance   = "location_distance"
	ColQuantityDiff       = "quantity_diff"
	ColKeywordOverlap     = "keyword_overlap"
	ColKeywordJaccard     = "keyword_jaccard"
	ColOfferCompoundClass = "offer_compound_class"
	ColReqCompoundClass   = "request_compound_class"
	ColChemicalCompatible = "chemical_compatible"
	ColOfferHazardLevel   = "offer_hazard_level"
	ColReqHazardLevel     = "request_hazard_level"
	ColCanTransform       = "can_transform"
	ColRegulatoryAllowed  = "regulatory_allowed"
	ColHistoricalFreq     = "historical_match_freq"
	ColOfferMonth         = "offer_month"
	ColRequestMonth       = "request_month"
	ColRecencyDays        = "recency_days"
	ColOfferReputation    = "offer_company_reputation"
	ColReqReputation      = "request_company_reputation"
)

// classCategories 是化合物类别列的固定类目表。
// 索引 0 是 other，未知类别编码回落到 0。
var classCategories = []string{refdata.ClassOther, refdata.ClassPlastic, refdata.ClassSolvent}

// Registry 是不可变的特征 schema：列名、类型与顺序。
// 构建完成后不再修改，可被多个 goroutine 并发读取。
type Registry struct {
	version     string
	vocabulary  []string
	columns     []Column
	index       map[string]int
	vocabSet    map[string]struct{}
	fingerprint string
}

// Option 是 Build 的配置选项。
type Option func(*builderOpts)

type builderOpts struct {
	version string
}

// WithVersion 设置 registry 版本号（随 bundle 持久化）。
func WithVersion(version string) Option {
	return func(o *builderOpts) {
		o.version = version
	}
}

// Build 从关键词词表构建 Registry。
//
// 确定性是此处的正确性关键：词表先去重再排序，之后才分配列顺序，
// 因此同一个集合无论以什么插入顺序出现，两次构建的列顺序完全一致。
// 空词表合法，产出零个关键词列。
func Build(vocabulary []string, opts ...Option) *Registry {
	o := &builderOpts{version: "v1"}
	for _, opt := range opts {
		opt(o)
	}

	vocabSet := make(map[string]struct{}, len(vocabulary))
	for _, term := range vocabulary {
		if term == "" {
			continue
		}
		vocabSet[term] = struct{}{}
	}
	vocab := make([]string, 0, len(vocabSet))
	for term := range vocabSet {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	columns := baseColumns()
	for _, term := range vocab {
		columns = append(columns,
			Column{Name: KeywordPrefixOffer + "_" + term, Kind: KindBoolean},
			Column{Name: KeywordPrefixRequest + "_" + term, Kind: KindBoolean},
		)
	}

	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col.Name] = i
	}

	return &Registry{
		version:     o.version,
		vocabulary:  vocab,
		columns:     columns,
		index:       index,
		vocabSet:    vocabSet,
		fingerprint: fingerprintColumns(columns),
	}
}

func baseColumns() []Column {
	return []Column{
		{Name: ColLocationDistance, Kind: KindNumeric},
		{Name: ColQuantityDiff, Kind: KindNumeric},
		{Name: ColKeywordOverlap, Kind: KindNumeric},
		{Name: ColKeywordJaccard, Kind: KindNumeric},
		{Name: ColOfferCompoundClass, Kind: KindCategorical, Categories: classCategories},
		{Name: ColReqCompoundClass, Kind: KindCategorical, Categories: classCategories},
		{Name: ColChemicalCompatible, Kind: KindBoolean},
		{Name: ColOfferHazardLevel, Kind: KindNumeric},
		{Name: ColReqHazardLevel, Kind: KindNumeric},
		{Name: ColCanTransform, Kind: KindBoolean},
		{Name: ColRegulatoryAllowed, Kind: KindBoolean},
		{Name: ColHistoricalFreq, Kind: KindNumeric},
		{Name: ColOfferMonth, Kind: KindNumeric},
		{Name: ColRequestMonth, Kind: KindNumeric},
		{Name: ColRecencyDays, Kind: KindNumeric},
		{Name: ColOfferReputation, Kind: KindNumeric},
		{Name: ColReqReputation, Kind: KindNumeric},
	}
}

func fingerprintColumns(columns []Column) string {
	h := fnv.New64a()
	for _, col := range columns {
		h.Write([]byte(col.Name))
		h.Write([]byte{'|'})
		h.Write([]byte(col.Kind))
		for _, cat := range col.Categories {
			h.Write([]byte{'|'})
			h.Write([]byte(cat))
		}
		h.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Version 返回 registry 版本号。
func (r *Registry) Version() string { return r.version }

// Vocabulary 返回规范化（去重排序）后的词表。
func (r *Registry) Vocabulary() []string {
	out := make([]string, len(r.vocabulary))
	copy(out, r.vocabulary)
	return out
}

// Columns 返回固定顺序的列定义。
func (r *Registry) Columns() []Column {
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

// ColumnNames 返回固定顺序的列名。
func (r *Registry) ColumnNames() []string {
	names := make([]string, len(r.columns))
	for i, col := range r.columns {
		names[i] = col.Name
	}
	return names
}

// NumColumns 返回列数。
func (r *Registry) NumColumns() int { return len(r.columns) }

// HasColumn 判断列是否存在。
func (r *Registry) HasColumn(name string) bool {
	_, ok := r.index[name]
	return ok
}

// InVocabulary 判断关键词是否在词表中。
func (r *Registry) InVocabulary(term string) bool {
	_, ok := r.vocabSet[term]
	return ok
}

// Fingerprint 返回列定义的指纹。打分器用它校验向量与模型训练时的
// schema 是否一致（SCHEMA_MISMATCH 的判定依据）。
func (r *Registry) Fingerprint() string { return r.fingerprint }

// EncodeKeywords 为词表中的每个词生成 "<prefix>_<term>" → 0|1 指示特征。
// 词表之外的输入词不产生列（保持向量定宽），它们只参与 overlap/jaccard 统计。
func (r *Registry) EncodeKeywords(keywords map[string]struct{}, prefix string) map[string]float64 {
	encoded := make(map[string]float64, len(r.vocabulary))
	for _, term := range r.vocabulary {
		name := prefix + "_" + term
		if _, ok := keywords[term]; ok {
			encoded[name] = 1.0
		} else {
			encoded[name] = 0.0
		}
	}
	return encoded
}

// Spec 是 Registry 的可序列化形式，随模型一起持久化。
type Spec struct {
	Version    string   `json:"version"`
	Vocabulary []string `json:"vocabulary"`
	Columns    []Column `json:"feature_columns"`
}

// Spec 导出当前 Registry 的可序列化形式。
func (r *Registry) Spec() Spec {
	return Spec{
		Version:    r.version,
		Vocabulary: r.Vocabulary(),
		Columns:    r.Columns(),
	}
}

// FromSpec 从持久化形式重建 Registry，并做防御性校验：
// 用 spec 中的词表重新构建，若列集合/顺序与 spec 记录的不一致则拒绝加载
// （schema 不允许从文件形状"顺带"推导，只能由词表确定性再生）。
func FromSpec(spec Spec) (*Registry, error) {
	r := Build(spec.Vocabulary, WithVersion(spec.Version))
	if len(spec.Columns) != len(r.columns) {
		return nil, fmt.Errorf("schema: spec has %d columns, vocabulary reproduces %d", len(spec.Columns), len(r.columns))
	}
	for i, col := range spec.Columns {
		got := r.columns[i]
		if col.Name != got.Name || col.Kind != got.Kind {
			return nil, fmt.Errorf("schema: column %s mismatch: spec %s/%s, rebuilt %s/%s",
				strconv.Itoa(i), col.Name, col.Kind, got.Name, got.Kind)
		}
	}
	return r, nil
}
