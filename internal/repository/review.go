package repository

import (
	"errors"
	"time"

	"github.com/user/reelcircle/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Upsert 发表或修改影评，并在同一事务内刷新电影平均分
func (r *ReviewRepository) Upsert(review *model.Review) error {
	now := time.Now()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.UpdatedAt = now

	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "body", "updated_at"}),
		}).Create(review).Error
		if err != nil {
			return err
		}
		return recomputeRating(tx, review.MovieID)
	})
}

// Delete 删除影评，返回是否确实删除了记录
func (r *ReviewRepository) Delete(userID, movieID int) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&model.Review{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return recomputeRating(tx, movieID)
	})
	return deleted, err
}

// FindByUserAndMovie 查找某用户对某电影的影评
func (r *ReviewRepository) FindByUserAndMovie(userID, movieID int) (*model.Review, error) {
	var rec model.Review
	err := r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByMovie 电影下的影评，最新在前
func (r *ReviewRepository) ListByMovie(movieID, limit, offset int) ([]*model.Review, int64, error) {
	var total int64
	if err := r.db.Model(&model.Review{}).Where("movie_id = ?", movieID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*model.Review
	err := r.db.Preload("User", publicUserColumns).
		Where("movie_id = ?", movieID).
		Order("updated_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, total, err
}

// ListByUser 用户的影评，最新在前
func (r *ReviewRepository) ListByUser(userID, limit, offset int) ([]*model.Review, int64, error) {
	var total int64
	if err := r.db.Model(&model.Review{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*model.Review
	err := r.db.Preload("Movie").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, total, err
}

// CountByUser 统计用户影评数量
func (r *ReviewRepository) CountByUser(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.Review{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

// Count 影评总数
func (r *ReviewRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Review{}).Count(&count).Error
	return count, err
}
