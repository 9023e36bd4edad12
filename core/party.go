package core

import "time"

// Party 是撮合中的一方：废料供给（offer）或原料需求（request）。
// 两种角色结构完全对称，角色只体现为特征列的前缀（offer_* / request_*），
// 校验逻辑对两侧一视同仁。
type Party struct {
	// Company 公司标识（不透明字符串，核心层不做唯一性约束）
	Company string `json:"company" yaml:"company"`

	// Location 地区编码（封闭枚举，必须能在参考数据中解析）
	Location string `json:"location" yaml:"location"`

	// Compound 化合物名称（自由文本；不在参考表中时按"未分类"处理，不报错）
	Compound string `json:"compound" yaml:"compound"`

	// Quantity 数量（非负）
	Quantity float64 `json:"quantity" yaml:"quantity"`

	// Keywords 关键词集合（重复项折叠，顺序无关）
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Date 可选日期；零值表示缺失，时间特征退化为 0，不报错
	Date time.Time `json:"date,omitempty" yaml:"date,omitempty"`

	// Reputation 可选信誉分；缺失默认为 0
	Reputation float64 `json:"reputation,omitempty" yaml:"reputation,omitempty"`
}

// KeywordSet 返回去重后的关键词集合。
func (p *Party) KeywordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Keywords))
	for _, kw := range p.Keywords {
		if kw == "" {
			continue
		}
		set[kw] = struct{}{}
	}
	return set
}

// HasDate 判断日期是否存在（零值视为缺失）。
func (p *Party) HasDate() bool {
	return !p.Date.IsZero()
}

// Validate 校验必填字段。缺失 location 或数量为负时返回 INVALID_INPUT，
// 供服务层在特征抽取之前拒绝请求。
func (p *Party) Validate(role string) error {
	if p == nil {
		return NewDomainError(ModuleService, ErrorCodeInvalidInput, role+": party is required")
	}
	if p.Location == "" {
		return NewDomainError(ModuleService, ErrorCodeInvalidInput, role+": location is required")
	}
	if p.Quantity < 0 {
		return NewDomainError(ModuleService, ErrorCodeInvalidInput, role+": quantity must be non-negative")
	}
	return nil
}
