package repository

import (
	"time"

	"github.com/user/reelcircle/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Add 标记喜欢（重复标记不报错）
func (r *LikeRepository) Add(userID, movieID int) error {
	like := &model.MovieLike{
		UserID:    userID,
		MovieID:   movieID,
		CreatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}

// Remove 取消喜欢
func (r *LikeRepository) Remove(userID, movieID int) error {
	return r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&model.MovieLike{}).Error
}

// IsLiked 检查是否已喜欢
func (r *LikeRepository) IsLiked(userID, movieID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.MovieLike{}).Where("user_id = ? AND movie_id = ?", userID, movieID).Count(&count).Error
	return count > 0, err
}

// ListByUser 获取用户喜欢的电影
func (r *LikeRepository) ListByUser(userID, limit, offset int) ([]*model.MovieLike, error) {
	var likes []*model.MovieLike
	err := r.db.Preload("Movie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&likes).Error
	return likes, err
}

// CountByUser 统计用户喜欢数量
func (r *LikeRepository) CountByUser(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.MovieLike{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}
