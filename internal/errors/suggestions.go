package errors

import (
	"sort"
	"strings"

	"github.com/tangzhangming/jpy/internal/i18n"
)

// ============================================================================
// 修复建议
// ============================================================================

// Hints 返回错误码的默认修复建议，args 用于填充建议中的占位符
func Hints(code string, args ...interface{}) []string {
	info, ok := codeTable[code]
	if !ok || info.HintID == "" {
		return nil
	}
	return []string{i18n.T(info.HintID, args...)}
}

// DidYouMean 在候选名字中查找与 name 相近的一个，生成 "did you mean" 提示
//
// 没有足够相近的候选时返回空串。
func DidYouMean(name string, candidates []string) string {
	limit := 2
	if len(name) <= 3 {
		limit = 1
	}
	similar := FindSimilar(name, candidates, limit)
	if similar == "" {
		return ""
	}
	return i18n.T(i18n.HintDidYouMean, similar)
}

// ============================================================================
// 相似名称查找
// ============================================================================

// FindSimilar 查找相似的名称，距离相同时取字典序最小者
func FindSimilar(name string, candidates []string, maxDistance int) string {
	if len(candidates) == 0 {
		return ""
	}

	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	bestMatch := ""
	bestDistance := maxDistance + 1
	for _, candidate := range sorted {
		if candidate == name {
			continue
		}
		distance := levenshteinDistance(name, candidate)
		if distance < bestDistance {
			bestDistance = distance
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshteinDistance 计算忽略大小写的编辑距离
func levenshteinDistance(s1, s2 string) int {
	a := []rune(strings.ToLower(s1))
	b := []rune(strings.ToLower(s2))
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // 删除
				curr[j-1]+1,    // 插入
				prev[j-1]+cost, // 替换
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
