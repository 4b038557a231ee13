package recommend

import "testing"

func TestExplain(t *testing.T) {
	names := map[int]string{7: "王家卫", 9: "梁朝伟", 11: "张曼玉"}

	tests := []struct {
		name     string
		movie    RankedMovie
		wantKind string
		wantText string
	}{
		{
			name:     "shared people first",
			movie:    RankedMovie{MatchedPeopleIDs: []int{7}, MatchedGenres: []string{"Drama"}, FromFriends: true, Breakdown: Breakdown{Friends: 1}},
			wantKind: ReasonPeople,
			wantText: "你喜欢的 王家卫 参与了这部电影",
		},
		{
			name:     "more than two people",
			movie:    RankedMovie{MatchedPeopleIDs: []int{7, 9, 11}},
			wantKind: ReasonPeople,
			wantText: "你喜欢的 王家卫、梁朝伟 等 参与了这部电影",
		},
		{
			name:     "unknown names fall through",
			movie:    RankedMovie{MatchedPeopleIDs: []int{42}, MatchedGenres: []string{"Drama"}},
			wantKind: ReasonGenre,
			wantText: "属于你偏爱的Drama类型",
		},
		{
			name:     "friends before genre",
			movie:    RankedMovie{MatchedGenres: []string{"Drama"}, FromFriends: true, Breakdown: Breakdown{Friends: 1.8}},
			wantKind: ReasonFriends,
		},
		{
			name:     "negative friend weight is not a reason",
			movie:    RankedMovie{MatchedGenres: []string{"Drama"}, FromFriends: true, Breakdown: Breakdown{Friends: -1.8}},
			wantKind: ReasonGenre,
		},
		{
			name:     "selected movies",
			movie:    RankedMovie{FromSelectedMovies: true, Breakdown: Breakdown{SelectedMovies: 2}},
			wantKind: ReasonSelected,
		},
		{
			name:     "high rating",
			movie:    RankedMovie{Movie: Movie{AggregateRating: ptr(8.5)}},
			wantKind: ReasonRating,
			wantText: "高分佳作（8.5 分）",
		},
		{
			name:     "fallback",
			movie:    RankedMovie{Movie: Movie{AggregateRating: ptr(6)}},
			wantKind: ReasonGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Explain(tt.movie, names)
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if tt.wantText != "" && got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
		})
	}
}

func TestExplainSimilar_IgnoresViewerSignals(t *testing.T) {
	r := RankedMovie{FromFriends: true, FromSelectedMovies: true, Breakdown: Breakdown{Friends: 1, SelectedMovies: 1}}
	if got := ExplainSimilar(r, nil); got.Kind != ReasonGeneral {
		t.Errorf("Kind = %q, want %q", got.Kind, ReasonGeneral)
	}

	r = RankedMovie{MatchedGenres: []string{"Comedy"}}
	if got := ExplainSimilar(r, nil); got.Text != "同属Comedy类型" {
		t.Errorf("Text = %q", got.Text)
	}
}
