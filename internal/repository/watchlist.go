package repository

import (
	"time"

	"github.com/user/reelcircle/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Upsert 加入待看（已存在则更新备注）
func (r *WatchlistRepository) Upsert(userID, movieID int, note string) error {
	item := &model.WatchlistItem{
		UserID:    userID,
		MovieID:   movieID,
		Note:      note,
		CreatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"note"}),
	}).Create(item).Error
}

// Remove 移出待看
func (r *WatchlistRepository) Remove(userID, movieID int) error {
	return r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&model.WatchlistItem{}).Error
}

// Contains 是否在待看清单中
func (r *WatchlistRepository) Contains(userID, movieID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.WatchlistItem{}).Where("user_id = ? AND movie_id = ?", userID, movieID).Count(&count).Error
	return count > 0, err
}

// ListByUser 获取用户待看清单
func (r *WatchlistRepository) ListByUser(userID, limit, offset int) ([]*model.WatchlistItem, error) {
	var items []*model.WatchlistItem
	err := r.db.Preload("Movie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

// CountByUser 统计待看数量
func (r *WatchlistRepository) CountByUser(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.WatchlistItem{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}
