package file

import (
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ResolveColumns 按候选名为每个列角色找到表中的实际列名
// 比较时忽略首尾空白和大小写；同一角色取第一个命中的候选名
func ResolveColumns(names []string, mapping map[string][]string) map[string]string {
	index := make(map[string]string, len(names))
	for _, n := range names {
		key := normalizeHeader(n)
		if _, ok := index[key]; !ok {
			index[key] = n
		}
	}

	resolved := make(map[string]string, len(mapping))
	for role, candidates := range mapping {
		for _, c := range candidates {
			if actual, ok := index[normalizeHeader(c)]; ok {
				resolved[role] = actual
				break
			}
		}
	}
	return resolved
}

// missingRoles 返回 required 中未能解析的角色（已排序）
func missingRoles(resolved map[string]string, required []string) []string {
	var missing []string
	for _, role := range required {
		if _, ok := resolved[role]; !ok {
			missing = append(missing, role)
		}
	}
	sort.Strings(missing)
	return missing
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// HasColumn 判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// StringValues 取出一列的文本值，NA 记为空串，其余去掉首尾空白
func StringValues(s series.Series) []string {
	values := make([]string, s.Len())
	for i := 0; i < s.Len(); i++ {
		el := s.Elem(i)
		if el.IsNA() {
			continue
		}
		values[i] = strings.TrimSpace(el.String())
	}
	return values
}
