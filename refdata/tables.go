// Package refdata 提供撮合所需的静态参考数据：地区坐标、化合物危险等级、
// 化合物类别、地区禁用清单与可转化对。
//
// 查询永不失败：未知 key 一律返回安全默认值（危险等级 0、类别 "other"、
// 空禁用清单、不可转化）。唯一的例外是地区坐标——距离无法安全降级，
// 未知地区编码由上层（Extractor）报 UNKNOWN_LOCATION。
package refdata

// Coord 地区坐标（十进制度）。
type Coord struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lon float64 `yaml:"lon" json:"lon"`
}

// 化合物类别标签。
const (
	ClassPlastic = "plastic"
	ClassSolvent = "solvent"
	ClassOther   = "other"
)

// TransformPair 表示 offer 化合物可被转化为 request 化合物。
type TransformPair struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Tables 是一组只读参考表。构建/加载完成后不再修改，
// 可被多个 goroutine 并发读取。
type Tables struct {
	// LocationCoords 地区编码 → 坐标
	LocationCoords map[string]Coord `yaml:"locations"`

	// HazardLevels 化合物 → 危险等级（≥0；未知化合物为 0）
	HazardLevels map[string]int `yaml:"hazard_levels"`

	// CompoundClasses 化合物 → 类别（plastic/solvent；未列出为 other）
	CompoundClasses map[string]string `yaml:"compound_classes"`

	// RegionBans 地区编码 → 禁用化合物清单（空清单 = 无限制）
	RegionBans map[string][]string `yaml:"region_bans"`

	// Transforms 可转化对白名单（默认不可转化，除非列出）
	Transforms []TransformPair `yaml:"transforms"`
}

// Default 返回内置参考表。
func Default() *Tables {
	return &Tables{
		LocationCoords: map[string]Coord{
			"NY":  {Lat: 40.7128, Lon: -74.0060},
			"LA":  {Lat: 34.0522, Lon: -118.2437},
			"CHI": {Lat: 41.8781, Lon: -87.6298},
			"HOU": {Lat: 29.7604, Lon: -95.3698},
			"PHI": {Lat: 39.9526, Lon: -75.1652},
		},
		HazardLevels: map[string]int{
			"Polyethylene":  1,
			"Polypropylene": 1,
			"PVC":           2,
			"Acetone":       3,
			"Ethanol":       2,
		},
		CompoundClasses: map[string]string{
			"Polyethylene":  ClassPlastic,
			"Polypropylene": ClassPlastic,
			"PVC":           ClassPlastic,
			"Acetone":       ClassSolvent,
			"Ethanol":       ClassSolvent,
		},
		RegionBans: map[string][]string{
			"NY":  {"Acetone"},
			"LA":  {},
			"CHI": {"PVC"},
			"HOU": {},
			"PHI": {"Ethanol"},
		},
		Transforms: []TransformPair{
			{From: "Polyethylene", To: "Polypropylene"},
		},
	}
}

// LookupCoord 查询地区坐标；未知地区返回 ok=false。
func (t *Tables) LookupCoord(location string) (Coord, bool) {
	c, ok := t.LocationCoords[location]
	return c, ok
}

// HazardLevel 查询化合物危险等级；未知化合物返回 0。
func (t *Tables) HazardLevel(compound string) int {
	return t.HazardLevels[compound]
}

// CompoundClass 查询化合物类别；未列出的化合物归为 other。
func (t *Tables) CompoundClass(compound string) string {
	if class, ok := t.CompoundClasses[compound]; ok {
		return class
	}
	return ClassOther
}

// IsBanned 判断化合物在该地区是否被禁用。
func (t *Tables) IsBanned(location, compound string) bool {
	for _, banned := range t.RegionBans[location] {
		if banned == compound {
			return true
		}
	}
	return false
}

// CanTransform 判断 offer 化合物能否转化为 request 化合物（白名单语义）。
func (t *Tables) CanTransform(from, to string) bool {
	for _, p := range t.Transforms {
		if p.From == from && p.To == to {
			return true
		}
	}
	return false
}
