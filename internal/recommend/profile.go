package recommend

// Profile 口味画像，每次打分重新构建，不持久化
type Profile struct {
	LikedGenres       map[string]struct{}
	LikedPeople       map[int]struct{}
	FriendLikedGenres map[string]struct{}
	FriendLikedPeople map[int]struct{}
}

func newProfile() Profile {
	return Profile{
		LikedGenres:       make(map[string]struct{}),
		LikedPeople:       make(map[int]struct{}),
		FriendLikedGenres: make(map[string]struct{}),
		FriendLikedPeople: make(map[int]struct{}),
	}
}

// BuildProfile 根据观众的高分评价、喜欢列表以及好友数据构建口味画像。
// 不修改任何输入；找不到的电影直接跳过。
func BuildProfile(viewer User, catalog Catalog, s Settings) Profile {
	return buildProfile(viewer, indexCatalog(catalog), s)
}

func buildProfile(viewer User, idx catalogIndex, s Settings) Profile {
	p := newProfile()

	// 1. 自己的高分评价
	for _, r := range idx.reviewsByUser[viewer.ID] {
		if r.Rating < s.MinRatingForLike {
			continue
		}
		addMovie(idx.movies[r.MovieID], p.LikedGenres, p.LikedPeople)
	}

	// 2. 喜欢列表（与评价是两条独立的贡献路径）
	if s.UseSelectedMovies {
		for _, id := range viewer.LikedMovieIDs {
			addMovie(idx.movies[id], p.LikedGenres, p.LikedPeople)
		}
	}

	// 3. 好友
	if s.UseFriends {
		for _, friend := range resolveFriends(viewer, idx) {
			for _, id := range friend.LikedMovieIDs {
				addMovie(idx.movies[id], p.FriendLikedGenres, p.FriendLikedPeople)
			}
			for _, r := range idx.reviewsByUser[friend.ID] {
				if r.Rating >= FriendLikeThreshold {
					addMovie(idx.movies[r.MovieID], p.FriendLikedGenres, p.FriendLikedPeople)
				}
			}
		}
	}

	return p
}

// WatchedSet 已看过的电影：自己评价过的以及喜欢列表中的，始终从候选中排除
func WatchedSet(viewer User, catalog Catalog) map[int]struct{} {
	return watchedSet(viewer, indexCatalog(catalog))
}

func watchedSet(viewer User, idx catalogIndex) map[int]struct{} {
	watched := make(map[int]struct{}, len(viewer.LikedMovieIDs))
	for _, r := range idx.reviewsByUser[viewer.ID] {
		watched[r.MovieID] = struct{}{}
	}
	for _, id := range viewer.LikedMovieIDs {
		watched[id] = struct{}{}
	}
	return watched
}

func resolveFriends(viewer User, idx catalogIndex) []User {
	if viewer.Friends != nil {
		return viewer.Friends
	}
	friends := make([]User, 0, len(viewer.FriendIDs))
	for _, id := range viewer.FriendIDs {
		if u, ok := idx.users[id]; ok {
			friends = append(friends, *u)
		}
	}
	return friends
}

func addMovie(m *Movie, genres map[string]struct{}, people map[int]struct{}) {
	if m == nil {
		return
	}
	if m.Genre != "" {
		genres[m.Genre] = struct{}{}
	}
	for _, id := range m.CastAndCrewIDs {
		people[id] = struct{}{}
	}
}
