package recommend

// similarSettings 相似电影的打分配置：类型为主，影人次之，评分只用来拉开差距
var similarSettings = Settings{
	UseRating:        true,
	UseGenres:        true,
	UsePeople:        true,
	RatingWeight:     0.1,
	GenreWeight:      4,
	PeopleWeight:     2.5,
	MinRatingForLike: 1,
}

// similarViewerID 虚拟观众，不会与真实用户冲突
const similarViewerID = -1

// Similar 返回与 movieID 相似的电影（至少共享类型或一位影人），按得分降序，最多 limit 部。
// 电影不在 movies 中时 ok 为 false。
func Similar(movieID int, movies []Movie, limit int) (list []RankedMovie, ok bool) {
	found := false
	for i := range movies {
		if movies[i].ID == movieID {
			found = true
			break
		}
	}
	if !found {
		return nil, false
	}
	if limit <= 0 {
		return []RankedMovie{}, true
	}

	// 把源电影当作虚拟观众唯一的高分评价，复用同一条画像与打分流程
	catalog := Catalog{
		Movies:  movies,
		Reviews: []Review{{UserID: similarViewerID, MovieID: movieID, Rating: 10}},
	}
	ranked := Generate(User{ID: similarViewerID}, catalog, similarSettings)

	list = make([]RankedMovie, 0, limit)
	for _, r := range ranked {
		if len(list) >= limit {
			break
		}
		if r.Breakdown.Genre == 0 && r.Breakdown.People == 0 {
			continue
		}
		list = append(list, r)
	}
	return list, true
}
