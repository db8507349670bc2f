package file

import (
	"os"
	"strings"

	"FlightDelayInsight/src/config"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"
)

// ReferenceSource 描述一张参考表（代码 -> 名称）
type ReferenceSource struct {
	Table     string              // 表名，仅用于日志
	Columns   map[string][]string // 列角色 -> 候选列名
	Delimiter rune
	Encoding  string
	Country   string // 非空时只保留该国家的行（机场表）
}

// LoadReferenceTable 读取参考表，返回代码到显示名称的映射
// 文件缺失或无法读取时返回空映射，不会返回错误；重复代码以第一次出现为准
func LoadReferenceTable(path string, src ReferenceSource, logger *zap.Logger) map[string]string {
	refs := map[string]string{}
	log := logger.With(zap.String("table", src.Table), zap.String("path", path))

	if path == "" {
		log.Warn("参考表未配置，使用原始代码")
		return refs
	}
	if _, err := os.Stat(path); err != nil {
		log.Warn("参考表文件不存在，使用原始代码", zap.Error(err))
		return refs
	}

	df, err := ReadTable(path, ReadOptions{Delimiter: src.Delimiter, Encoding: src.Encoding})
	if err != nil {
		log.Warn("参考表读取失败，使用原始代码", zap.Error(err))
		return refs
	}

	idCol, nameCol, ok := resolveIdentity(df.Names(), src.Columns)
	if !ok {
		log.Warn("参考表列数不足，无法确定代码与名称列", zap.Strings("columns", df.Names()))
		return refs
	}

	if src.Country != "" {
		df = filterCountry(df, src, log)
	}

	codes := StringValues(df.Col(idCol))
	names := StringValues(df.Col(nameCol))
	for i, code := range codes {
		if code == "" || names[i] == "" {
			continue
		}
		if _, exists := refs[code]; !exists {
			refs[code] = names[i]
		}
	}

	log.Info("参考表加载完成", zap.Int("rows", df.Nrow()), zap.Int("codes", len(refs)))
	return refs
}

// resolveIdentity 找到代码列和名称列
// 标准列名缺失时按位置回退：第一列为代码，第二列为名称
func resolveIdentity(names []string, mapping map[string][]string) (string, string, bool) {
	resolved := ResolveColumns(names, mapping)
	idCol, hasID := resolved[config.RoleIdentity]
	nameCol, hasName := resolved[config.RoleName]
	if hasID && hasName && idCol != nameCol {
		return idCol, nameCol, true
	}
	if len(names) < 2 {
		return "", "", false
	}
	return names[0], names[1], true
}

func filterCountry(df dataframe.DataFrame, src ReferenceSource, log *zap.Logger) dataframe.DataFrame {
	resolved := ResolveColumns(df.Names(), src.Columns)
	countryCol, ok := resolved[config.RoleCountry]
	if !ok {
		log.Warn("参考表缺少国家列，保留全部行", zap.String("country", src.Country))
		return df
	}

	return df.Filter(dataframe.F{
		Colname:    countryCol,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return !el.IsNA() && strings.EqualFold(strings.TrimSpace(el.String()), src.Country)
		},
	})
}
