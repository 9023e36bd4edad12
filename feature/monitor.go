package feature

import (
	"sort"
	"sync"

	"github.com/symbiolab/matchkit/schema"
)

// DriftMonitor 是内存中的 schema 漂移观测器：统计每个特征列被显式
// 计算与被默认填充的次数。默认填充本身是合法的前向兼容行为，
// 但必须可观测——被填充比例异常升高通常意味着抽取逻辑与 registry
// 版本已经脱节。生产环境可将 Snapshot 定期导出到外部监控系统。
type DriftMonitor struct {
	mu        sync.RWMutex
	vectors   int64
	computed  map[string]int64
	defaulted map[string]int64
}

// NewDriftMonitor 创建漂移观测器。
func NewDriftMonitor() *DriftMonitor {
	return &DriftMonitor{
		computed:  make(map[string]int64),
		defaulted: make(map[string]int64),
	}
}

// Observe 上报一个抽取完成的向量。
func (m *DriftMonitor) Observe(vec *schema.Vector) {
	if vec == nil {
		return
	}
	defaultedCols := vec.DefaultedColumns()
	defaultedSet := make(map[string]struct{}, len(defaultedCols))
	for _, c := range defaultedCols {
		defaultedSet[c] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors++
	for _, name := range vec.ColumnNames() {
		if _, ok := defaultedSet[name]; ok {
			m.defaulted[name]++
		} else {
			m.computed[name]++
		}
	}
}

// ColumnDrift 是单列的观测结果。
type ColumnDrift struct {
	Name      string
	Computed  int64
	Defaulted int64
}

// DriftReport 是一次快照。
type DriftReport struct {
	Vectors int64
	Columns []ColumnDrift
}

// Snapshot 返回当前统计的快照（按列名排序，便于比对）。
func (m *DriftMonitor) Snapshot() DriftReport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make(map[string]struct{}, len(m.computed)+len(m.defaulted))
	for name := range m.computed {
		names[name] = struct{}{}
	}
	for name := range m.defaulted {
		names[name] = struct{}{}
	}

	report := DriftReport{Vectors: m.vectors}
	for name := range names {
		report.Columns = append(report.Columns, ColumnDrift{
			Name:      name,
			Computed:  m.computed[name],
			Defaulted: m.defaulted[name],
		})
	}
	sort.Slice(report.Columns, func(i, j int) bool {
		return report.Columns[i].Name < report.Columns[j].Name
	})
	return report
}

// DefaultedRate 返回某列被默认填充的比例；该列从未出现时返回 0。
func (m *DriftMonitor) DefaultedRate(name string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := m.computed[name] + m.defaulted[name]
	if total == 0 {
		return 0
	}
	return float64(m.defaulted[name]) / float64(total)
}
