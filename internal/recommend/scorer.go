package recommend

import "sort"

// Score 计算单部电影的得分，纯函数
func Score(m Movie, p Profile, s Settings) RankedMovie {
	var b Breakdown

	_, genreMatch := p.LikedGenres[m.Genre]
	genreMatch = genreMatch && m.Genre != ""
	_, friendGenreMatch := p.FriendLikedGenres[m.Genre]
	friendGenreMatch = friendGenreMatch && m.Genre != ""

	overlap := overlapIDs(m.CastAndCrewIDs, p.LikedPeople)
	friendOverlap := overlapIDs(m.CastAndCrewIDs, p.FriendLikedPeople)

	if s.UseRating && m.AggregateRating != nil {
		b.Rating = *m.AggregateRating * s.RatingWeight
	}
	if s.UseGenres && genreMatch {
		b.Genre = s.GenreWeight
	}
	if s.UsePeople {
		b.People = float64(len(overlap)) * s.PeopleWeight
	}

	fromSelected := false
	if s.UseSelectedMovies {
		if genreMatch {
			b.SelectedMovies += selectedGenreFactor * s.SelectedMoviesWeight
		}
		b.SelectedMovies += selectedPeopleFactor * s.SelectedMoviesWeight * float64(len(overlap))
		fromSelected = genreMatch || len(overlap) > 0
	}

	fromFriends := false
	if s.UseFriends {
		if friendGenreMatch {
			b.Friends += friendGenreFactor * s.FriendsWeight
		}
		b.Friends += friendPeopleFactor * s.FriendsWeight * float64(len(friendOverlap))
		fromFriends = friendGenreMatch || len(friendOverlap) > 0
	}

	matchedGenres := []string{}
	if s.UseGenres && genreMatch {
		matchedGenres = []string{m.Genre}
	}
	matchedPeople := []int{}
	if s.UsePeople {
		matchedPeople = overlap
	}

	return RankedMovie{
		Movie:              m,
		Score:              b.Total(),
		Breakdown:          b,
		MatchedGenres:      matchedGenres,
		MatchedPeopleIDs:   matchedPeople,
		FromSelectedMovies: fromSelected,
		FromFriends:        fromFriends,
	}
}

// overlapIDs 返回 ids 中出现在 set 里的去重 ID（升序）
func overlapIDs(ids []int, set map[int]struct{}) []int {
	res := []int{}
	if len(set) == 0 {
		return res
	}
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	sort.Ints(res)
	return res
}
