package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/user/reelcircle/internal/logging"
	"github.com/user/reelcircle/internal/model"
)

// 过期好友申请的保留时长
const (
	rejectedRequestTTL = 30 * 24 * time.Hour
	pendingRequestTTL  = 90 * 24 * time.Hour
)

// StaleFriendshipPruner 删除长期未变化的好友申请
type StaleFriendshipPruner interface {
	DeleteStale(ctx context.Context, status string, before time.Time) (int64, error)
}

// CleanupService 清理服务
type CleanupService struct {
	friendships StaleFriendshipPruner
	interval    time.Duration
	now         func() time.Time
	log         zerolog.Logger
	stop        chan struct{}
	done        chan struct{}
}

// NewCleanupService 创建清理服务
func NewCleanupService(friendships StaleFriendshipPruner, interval time.Duration) *CleanupService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &CleanupService{
		friendships: friendships,
		interval:    interval,
		now:         time.Now,
		log:         logging.Component("cleanup"),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start 启动定时清理任务（启动时先运行一次）
func (s *CleanupService) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.RunOnce(context.Background())
		for {
			select {
			case <-ticker.C:
				s.RunOnce(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop 停止定时任务并等待当前一轮结束
func (s *CleanupService) Stop() {
	close(s.stop)
	<-s.done
}

// RunOnce 执行一轮清理
func (s *CleanupService) RunOnce(ctx context.Context) {
	s.log.Info().Msg("开始清理过期数据")

	now := s.now()

	// 1. 被拒绝超过 30 天的申请
	n, err := s.friendships.DeleteStale(ctx, model.FriendshipRejected, now.Add(-rejectedRequestTTL))
	if err != nil {
		s.log.Error().Err(err).Msg("清理被拒绝的好友申请失败")
	} else if n > 0 {
		s.log.Info().Int64("count", n).Msg("已清理被拒绝的好友申请")
	}

	// 2. 超过 90 天无人处理的申请
	n, err = s.friendships.DeleteStale(ctx, model.FriendshipPending, now.Add(-pendingRequestTTL))
	if err != nil {
		s.log.Error().Err(err).Msg("清理过期的好友申请失败")
	} else if n > 0 {
		s.log.Info().Int64("count", n).Msg("已清理过期的好友申请")
	}
}
