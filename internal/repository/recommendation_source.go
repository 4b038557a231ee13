package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/user/reelcircle/internal/model"
	"github.com/user/reelcircle/internal/recommend"
	"gorm.io/gorm"
)

// RecommendationSource 为推荐打分提供整库快照
type RecommendationSource struct {
	db *gorm.DB
}

func NewRecommendationSource(db *gorm.DB) *RecommendationSource {
	return &RecommendationSource{db: db}
}

// ListMovies 所有电影及其演职员 ID
func (s *RecommendationSource) ListMovies(ctx context.Context) ([]recommend.Movie, error) {
	rows, err := s.db.WithContext(ctx).Raw(`
		SELECT m.id, m.title, m.genre, m.aggregate_rating,
		       COALESCE(array_agg(DISTINCT c.person_id) FILTER (WHERE c.person_id IS NOT NULL), '{}') AS people
		FROM movies m
		LEFT JOIN movie_credits c ON c.movie_id = m.id
		GROUP BY m.id
		ORDER BY m.id
	`).Rows()
	if err != nil {
		return nil, fmt.Errorf("查询电影失败: %w", err)
	}
	defer rows.Close()

	var movies []recommend.Movie
	for rows.Next() {
		var (
			m      recommend.Movie
			rating sql.NullFloat64
			people []int64
		)
		if err := rows.Scan(&m.ID, &m.Title, &m.Genre, &rating, pq.Array(&people)); err != nil {
			return nil, fmt.Errorf("读取电影失败: %w", err)
		}
		if rating.Valid {
			v := rating.Float64
			m.AggregateRating = &v
		}
		m.CastAndCrewIDs = make([]int, len(people))
		for i, id := range people {
			m.CastAndCrewIDs[i] = int(id)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// ListReviews 所有评分
func (s *RecommendationSource) ListReviews(ctx context.Context) ([]recommend.Review, error) {
	var reviews []recommend.Review
	err := s.db.WithContext(ctx).Model(&model.Review{}).
		Select("user_id", "movie_id", "rating", "created_at").
		Order("id ASC").
		Scan(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("查询影评失败: %w", err)
	}
	return reviews, nil
}

// ListUsers 所有用户，附带喜欢列表与已接受的好友 ID
func (s *RecommendationSource) ListUsers(ctx context.Context) ([]recommend.User, error) {
	db := s.db.WithContext(ctx)

	var ids []int
	if err := db.Model(&model.User{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	var likes []model.MovieLike
	if err := db.Select("user_id", "movie_id").Order("id ASC").Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("查询喜欢列表失败: %w", err)
	}

	var friendships []model.Friendship
	err := db.Select("requester_id", "addressee_id").
		Where("status = ?", model.FriendshipAccepted).
		Order("id ASC").
		Find(&friendships).Error
	if err != nil {
		return nil, fmt.Errorf("查询好友关系失败: %w", err)
	}

	return assembleUsers(ids, likes, friendships), nil
}

// PersonNames 按 ID 查询影人姓名
func (s *RecommendationSource) PersonNames(ctx context.Context, ids []int) (map[int]string, error) {
	var people []model.Person
	err := s.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("查询影人姓名失败: %w", err)
	}
	names := make(map[int]string, len(people))
	for _, p := range people {
		names[p.ID] = p.Name
	}
	return names, nil
}

// assembleUsers 把喜欢与好友关系按用户归并
func assembleUsers(ids []int, likes []model.MovieLike, friendships []model.Friendship) []recommend.User {
	users := make([]recommend.User, len(ids))
	pos := make(map[int]int, len(ids))
	for i, id := range ids {
		users[i] = recommend.User{ID: id, LikedMovieIDs: []int{}, FriendIDs: []int{}}
		pos[id] = i
	}

	for _, l := range likes {
		if i, ok := pos[l.UserID]; ok {
			users[i].LikedMovieIDs = append(users[i].LikedMovieIDs, l.MovieID)
		}
	}

	for _, f := range friendships {
		if i, ok := pos[f.RequesterID]; ok {
			users[i].FriendIDs = append(users[i].FriendIDs, f.AddresseeID)
		}
		if i, ok := pos[f.AddresseeID]; ok {
			users[i].FriendIDs = append(users[i].FriendIDs, f.RequesterID)
		}
	}
	return users
}
