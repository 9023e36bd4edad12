package feature

// OverlapCount 返回两个关键词集合的交集大小。
func OverlapCount(a, b map[string]struct{}) int {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	count := 0
	for kw := range small {
		if _, ok := large[kw]; ok {
			count++
		}
	}
	return count
}

// Jaccard 返回两个关键词集合的 Jaccard 相似度。
// 约定：双方都为空时返回 0，而不是 0/0。
func Jaccard(a, b map[string]struct{}) float64 {
	union := len(a)
	for kw := range b {
		if _, ok := a[kw]; !ok {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(OverlapCount(a, b)) / float64(union)
}
