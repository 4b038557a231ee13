package recommend

// FriendLikeThreshold 好友评分达到该值即视为“喜欢”。
// 与观众自己的 MinRatingForLike 相互独立，保持固定值。
const FriendLikeThreshold = 7

// 各复合信号内部的固定系数
const (
	selectedGenreFactor  = 0.5
	selectedPeopleFactor = 0.3
	friendGenreFactor    = 0.6
	friendPeopleFactor   = 0.4
)

// Settings 推荐打分配置，每次打分由调用方传入
type Settings struct {
	UseRating         bool `json:"use_rating"`
	UseGenres         bool `json:"use_genres"`
	UsePeople         bool `json:"use_people"`
	UseSelectedMovies bool `json:"use_selected_movies"`
	UseFriends        bool `json:"use_friends"`

	// 权重允许为负数（表示惩罚）
	RatingWeight         float64 `json:"rating_weight"`
	GenreWeight          float64 `json:"genre_weight"`
	PeopleWeight         float64 `json:"people_weight"`
	SelectedMoviesWeight float64 `json:"selected_movies_weight"`
	FriendsWeight        float64 `json:"friends_weight"`

	// MinRatingForLike 观众自己的评分达到该值才计入口味画像
	MinRatingForLike int `json:"min_rating_for_like" validate:"min=1,max=10"`
}

// DefaultSettings 默认配置
func DefaultSettings() Settings {
	return Settings{
		UseRating:            true,
		UseGenres:            true,
		UsePeople:            true,
		UseSelectedMovies:    true,
		UseFriends:           true,
		RatingWeight:         1,
		GenreWeight:          5,
		PeopleWeight:         3,
		SelectedMoviesWeight: 4,
		FriendsWeight:        3,
		MinRatingForLike:     7,
	}
}

// AllDisabled 是否所有信号都已关闭
func (s Settings) AllDisabled() bool {
	return !s.UseRating && !s.UseGenres && !s.UsePeople && !s.UseSelectedMovies && !s.UseFriends
}
