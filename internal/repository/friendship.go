package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/reelcircle/internal/model"
	"gorm.io/gorm"
)

type FriendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

func (r *FriendshipRepository) first(q *gorm.DB) (*model.Friendship, error) {
	var f model.Friendship
	err := q.First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FindByID 根据 ID 查找
func (r *FriendshipRepository) FindByID(ctx context.Context, id int) (*model.Friendship, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindBetween 查找两人之间的关系（不区分发起方向）
func (r *FriendshipRepository) FindBetween(ctx context.Context, a, b int) (*model.Friendship, error) {
	return r.first(r.db.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)", a, b, b, a))
}

// Create 创建好友申请
func (r *FriendshipRepository) Create(ctx context.Context, f *model.Friendship) error {
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now
	return r.db.WithContext(ctx).Create(f).Error
}

// Reopen 重新发起一条已被拒绝的申请（可能交换发起方向）
func (r *FriendshipRepository) Reopen(ctx context.Context, id, requesterID, addresseeID int) error {
	return r.db.WithContext(ctx).Model(&model.Friendship{}).Where("id = ?", id).Updates(map[string]interface{}{
		"requester_id": requesterID,
		"addressee_id": addresseeID,
		"status":       model.FriendshipPending,
		"updated_at":   time.Now(),
	}).Error
}

// UpdateStatus 更新状态
func (r *FriendshipRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	return r.db.WithContext(ctx).Model(&model.Friendship{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}).Error
}

// Delete 删除
func (r *FriendshipRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Delete(&model.Friendship{}, id).Error
}

// ListAccepted 已成为好友的关系
func (r *FriendshipRepository) ListAccepted(ctx context.Context, userID int) ([]*model.Friendship, error) {
	var list []*model.Friendship
	err := r.db.WithContext(ctx).
		Preload("Requester", publicUserColumns).
		Preload("Addressee", publicUserColumns).
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)", model.FriendshipAccepted, userID, userID).
		Order("updated_at DESC").
		Find(&list).Error
	return list, err
}

// ListPending 待处理的申请：incoming 为别人发给我的，outgoing 为我发出的
func (r *FriendshipRepository) ListPending(ctx context.Context, userID int) (incoming, outgoing []*model.Friendship, err error) {
	err = r.db.WithContext(ctx).
		Preload("Requester", publicUserColumns).
		Where("status = ? AND addressee_id = ?", model.FriendshipPending, userID).
		Order("created_at DESC").
		Find(&incoming).Error
	if err != nil {
		return nil, nil, err
	}
	err = r.db.WithContext(ctx).
		Preload("Addressee", publicUserColumns).
		Where("status = ? AND requester_id = ?", model.FriendshipPending, userID).
		Order("created_at DESC").
		Find(&outgoing).Error
	if err != nil {
		return nil, nil, err
	}
	return incoming, outgoing, nil
}

// CountAccepted 好友数量
func (r *FriendshipRepository) CountAccepted(ctx context.Context, userID int) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Friendship{}).
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)", model.FriendshipAccepted, userID, userID).
		Count(&count).Error
	return int(count), err
}

// DeleteStale 删除指定状态下早于 before 未再变化的记录
func (r *FriendshipRepository) DeleteStale(ctx context.Context, status string, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", status, before).
		Delete(&model.Friendship{})
	return res.RowsAffected, res.Error
}
