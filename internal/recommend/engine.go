package recommend

// Generate 为观众生成完整的推荐列表：构建画像、排除已看、逐片打分、排序。
// 同样的输入与配置总是得到同样的得分与顺序。
func Generate(viewer User, catalog Catalog, s Settings) []RankedMovie {
	idx := indexCatalog(catalog)
	profile := buildProfile(viewer, idx, s)
	watched := watchedSet(viewer, idx)

	result := make([]RankedMovie, 0, len(catalog.Movies))
	for _, m := range catalog.Movies {
		if _, ok := watched[m.ID]; ok {
			continue
		}
		result = append(result, Score(m, profile, s))
	}

	Rank(result)
	return result
}
