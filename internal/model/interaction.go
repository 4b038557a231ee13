package model

import (
	"time"
)

// 评分范围
const (
	MinReviewRating = 1
	MaxReviewRating = 10
)

// Review 影评（每个用户对每部电影只保留一条）
type Review struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_review_user_movie"`
	MovieID   int       `json:"movie_id" db:"movie_id" gorm:"uniqueIndex:idx_review_user_movie;index"`
	Rating    int       `json:"rating" db:"rating"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	User      *User     `json:"user,omitempty"`
	Movie     *Movie    `json:"movie,omitempty"`
}

// 好友关系状态
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipRejected = "rejected"
)

// Friendship 好友关系（由 Requester 发起）
type Friendship struct {
	ID          int       `json:"id" db:"id"`
	RequesterID int       `json:"requester_id" db:"requester_id" gorm:"uniqueIndex:idx_friendship_pair"`
	AddresseeID int       `json:"addressee_id" db:"addressee_id" gorm:"uniqueIndex:idx_friendship_pair;index"`
	Status      string    `json:"status" db:"status" gorm:"index"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	Requester   *User     `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Addressee   *User     `json:"addressee,omitempty" gorm:"foreignKey:AddresseeID"`
}

// Other 返回关系中的另一方
func (f *Friendship) Other(userID int) int {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

// Involves 是否涉及该用户
func (f *Friendship) Involves(userID int) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}

// RecommendationSettings 用户保存的推荐打分配置
type RecommendationSettings struct {
	UserID               int       `json:"user_id" db:"user_id" gorm:"primaryKey;autoIncrement:false"`
	UseRating            bool      `json:"use_rating" db:"use_rating"`
	UseGenres            bool      `json:"use_genres" db:"use_genres"`
	UsePeople            bool      `json:"use_people" db:"use_people"`
	UseSelectedMovies    bool      `json:"use_selected_movies" db:"use_selected_movies"`
	UseFriends           bool      `json:"use_friends" db:"use_friends"`
	RatingWeight         float64   `json:"rating_weight" db:"rating_weight"`
	GenreWeight          float64   `json:"genre_weight" db:"genre_weight"`
	PeopleWeight         float64   `json:"people_weight" db:"people_weight"`
	SelectedMoviesWeight float64   `json:"selected_movies_weight" db:"selected_movies_weight"`
	FriendsWeight        float64   `json:"friends_weight" db:"friends_weight"`
	MinRatingForLike     int       `json:"min_rating_for_like" db:"min_rating_for_like"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}
