// Package recommend 基于内容的推荐打分流水线：口味画像构建、逐片打分、排序与分页。
//
// 本包只做纯计算，不访问数据库也不打日志；所有数据由调用方一次性拉取成快照后传入。
package recommend

import "time"

// Movie 参与打分的电影（仅包含打分需要的字段）
type Movie struct {
	ID              int      `json:"id"`
	Title           string   `json:"title,omitempty"`
	Genre           string   `json:"genre,omitempty"` // 空字符串表示无类型
	CastAndCrewIDs  []int    `json:"cast_and_crew_ids"`
	AggregateRating *float64 `json:"aggregate_rating"` // 0-10 分制，nil 表示暂无评分
}

// Review 用户评分
type Review struct {
	UserID    int       `json:"user_id"`
	MovieID   int       `json:"movie_id"`
	Rating    int       `json:"rating"` // 1-10
	CreatedAt time.Time `json:"created_at"`
}

// User 观众或其好友
type User struct {
	ID            int    `json:"id"`
	LikedMovieIDs []int  `json:"liked_movie_ids"`
	FriendIDs     []int  `json:"friend_ids"`
	Friends       []User `json:"-"` // 已解析的好友；为 nil 时按 FriendIDs 从快照中解析
}

// Catalog 单次打分使用的只读数据快照
type Catalog struct {
	Movies  []Movie
	Reviews []Review
	Users   []User
}

// Breakdown 各信号的得分贡献，仅用于展示推荐理由
type Breakdown struct {
	Rating         float64 `json:"rating"`
	Genre          float64 `json:"genre"`
	People         float64 `json:"people"`
	SelectedMovies float64 `json:"selected_movies"`
	Friends        float64 `json:"friends"`
}

// Total 各项贡献之和
func (b Breakdown) Total() float64 {
	return b.Rating + b.Genre + b.People + b.SelectedMovies + b.Friends
}

// RankedMovie 带得分的候选电影
type RankedMovie struct {
	Movie
	Score              float64   `json:"score"`
	Breakdown          Breakdown `json:"breakdown"`
	MatchedGenres      []string  `json:"matched_genres"`
	MatchedPeopleIDs   []int     `json:"matched_people_ids"`
	FromSelectedMovies bool      `json:"from_selected_movies"`
	FromFriends        bool      `json:"from_friends"`
}

// catalogIndex 快照索引
type catalogIndex struct {
	movies        map[int]*Movie
	users         map[int]*User
	reviewsByUser map[int][]Review
}

func indexCatalog(c Catalog) catalogIndex {
	idx := catalogIndex{
		movies:        make(map[int]*Movie, len(c.Movies)),
		users:         make(map[int]*User, len(c.Users)),
		reviewsByUser: make(map[int][]Review),
	}
	for i := range c.Movies {
		idx.movies[c.Movies[i].ID] = &c.Movies[i]
	}
	for i := range c.Users {
		idx.users[c.Users[i].ID] = &c.Users[i]
	}
	for _, r := range c.Reviews {
		idx.reviewsByUser[r.UserID] = append(idx.reviewsByUser[r.UserID], r)
	}
	return idx
}
