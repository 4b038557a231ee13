package recommend

import "testing"

func profileOf(genres []string, people []int, friendGenres []string, friendPeople []int) Profile {
	p := newProfile()
	for _, g := range genres {
		p.LikedGenres[g] = struct{}{}
	}
	for _, id := range people {
		p.LikedPeople[id] = struct{}{}
	}
	for _, g := range friendGenres {
		p.FriendLikedGenres[g] = struct{}{}
	}
	for _, id := range friendPeople {
		p.FriendLikedPeople[id] = struct{}{}
	}
	return p
}

func TestScore(t *testing.T) {
	movie := Movie{ID: 10, Genre: "Sci-Fi", CastAndCrewIDs: []int{1, 2, 3, 2}, AggregateRating: ptr(7)}
	profile := profileOf([]string{"Sci-Fi"}, []int{2, 3}, []string{"Sci-Fi"}, []int{1})

	tests := []struct {
		name        string
		movie       Movie
		modify      func(*Settings)
		want        Breakdown
		wantPeople  []int
		wantGenres  []string
		wantFromSel bool
		wantFromFr  bool
	}{
		{
			name:   "all signals with defaults",
			movie:  movie,
			modify: func(*Settings) {},
			want: Breakdown{
				Rating:         7,
				Genre:          5,
				People:         6,
				SelectedMovies: 0.5*4 + 0.3*4*2,
				Friends:        0.6*3 + 0.4*3*1,
			},
			wantPeople:  []int{2, 3},
			wantGenres:  []string{"Sci-Fi"},
			wantFromSel: true,
			wantFromFr:  true,
		},
		{
			name:   "genres off keeps favorites genre part",
			movie:  movie,
			modify: func(s *Settings) { s.UseGenres = false },
			want: Breakdown{
				Rating:         7,
				People:         6,
				SelectedMovies: 0.5*4 + 0.3*4*2,
				Friends:        0.6*3 + 0.4*3*1,
			},
			wantPeople:  []int{2, 3},
			wantGenres:  []string{},
			wantFromSel: true,
			wantFromFr:  true,
		},
		{
			name:   "absent rating counts as zero",
			movie:  Movie{ID: 11, Genre: "Western", CastAndCrewIDs: []int{9}},
			modify: func(*Settings) {},
			want:   Breakdown{},
			// 无任何匹配
			wantPeople: []int{},
			wantGenres: []string{},
		},
		{
			name:   "negative weight penalizes",
			movie:  movie,
			modify: func(s *Settings) { *s = Settings{UseGenres: true, GenreWeight: -2} },
			want:   Breakdown{Genre: -2},
			// people 关闭时不返回重合列表
			wantPeople: []int{},
			wantGenres: []string{"Sci-Fi"},
		},
		{
			name:   "empty genre never matches",
			movie:  Movie{ID: 12, Genre: "", CastAndCrewIDs: []int{2}},
			modify: func(*Settings) {},
			want: Breakdown{
				People:         3,
				SelectedMovies: 0.3 * 4,
			},
			wantPeople:  []int{2},
			wantGenres:  []string{},
			wantFromSel: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			got := Score(tt.movie, profile, s)

			pairs := []struct {
				field     string
				got, want float64
			}{
				{"Rating", got.Breakdown.Rating, tt.want.Rating},
				{"Genre", got.Breakdown.Genre, tt.want.Genre},
				{"People", got.Breakdown.People, tt.want.People},
				{"SelectedMovies", got.Breakdown.SelectedMovies, tt.want.SelectedMovies},
				{"Friends", got.Breakdown.Friends, tt.want.Friends},
				{"Score", got.Score, tt.want.Total()},
			}
			for _, p := range pairs {
				if !almostEqual(p.got, p.want) {
					t.Errorf("%s = %v, want %v", p.field, p.got, p.want)
				}
			}

			if len(got.MatchedPeopleIDs) != len(tt.wantPeople) {
				t.Errorf("MatchedPeopleIDs = %v, want %v", got.MatchedPeopleIDs, tt.wantPeople)
			} else {
				for i := range tt.wantPeople {
					if got.MatchedPeopleIDs[i] != tt.wantPeople[i] {
						t.Errorf("MatchedPeopleIDs = %v, want %v", got.MatchedPeopleIDs, tt.wantPeople)
						break
					}
				}
			}
			if len(got.MatchedGenres) != len(tt.wantGenres) {
				t.Errorf("MatchedGenres = %v, want %v", got.MatchedGenres, tt.wantGenres)
			}
			if got.FromSelectedMovies != tt.wantFromSel {
				t.Errorf("FromSelectedMovies = %v, want %v", got.FromSelectedMovies, tt.wantFromSel)
			}
			if got.FromFriends != tt.wantFromFr {
				t.Errorf("FromFriends = %v, want %v", got.FromFriends, tt.wantFromFr)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if !s.UseRating || !s.UseGenres || !s.UsePeople || !s.UseSelectedMovies || !s.UseFriends {
		t.Errorf("DefaultSettings() toggles = %+v, want all true", s)
	}
	weights := []struct {
		name      string
		got, want float64
	}{
		{"RatingWeight", s.RatingWeight, 1},
		{"GenreWeight", s.GenreWeight, 5},
		{"PeopleWeight", s.PeopleWeight, 3},
		{"SelectedMoviesWeight", s.SelectedMoviesWeight, 4},
		{"FriendsWeight", s.FriendsWeight, 3},
	}
	for _, w := range weights {
		if w.got != w.want {
			t.Errorf("%s = %v, want %v", w.name, w.got, w.want)
		}
	}
	if s.MinRatingForLike != 7 {
		t.Errorf("MinRatingForLike = %d, want 7", s.MinRatingForLike)
	}
	if s.AllDisabled() {
		t.Error("AllDisabled() = true, want false")
	}
}
