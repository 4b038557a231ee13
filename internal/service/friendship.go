package service

import (
	"context"
	"fmt"

	"github.com/user/reelcircle/internal/model"
)

// FriendshipStore 好友关系持久化
type FriendshipStore interface {
	FindByID(ctx context.Context, id int) (*model.Friendship, error)
	FindBetween(ctx context.Context, a, b int) (*model.Friendship, error)
	Create(ctx context.Context, f *model.Friendship) error
	Reopen(ctx context.Context, id, requesterID, addresseeID int) error
	UpdateStatus(ctx context.Context, id int, status string) error
	Delete(ctx context.Context, id int) error
	ListAccepted(ctx context.Context, userID int) ([]*model.Friendship, error)
	ListPending(ctx context.Context, userID int) (incoming, outgoing []*model.Friendship, err error)
}

// UserFinder 按 ID 查找用户，不存在返回 (nil, nil)
type UserFinder interface {
	FindByID(id int) (*model.User, error)
}

// FriendRequests 待处理的好友申请
type FriendRequests struct {
	Incoming []*model.Friendship `json:"incoming"`
	Outgoing []*model.Friendship `json:"outgoing"`
}

// FriendshipService 好友申请状态机：pending -> accepted | rejected
type FriendshipService struct {
	store    FriendshipStore
	users    UserFinder
	onChange func()
}

// NewFriendshipService onChange 在好友集合变化时调用（可为 nil）
func NewFriendshipService(store FriendshipStore, users UserFinder, onChange func()) *FriendshipService {
	if onChange == nil {
		onChange = func() {}
	}
	return &FriendshipService{store: store, users: users, onChange: onChange}
}

// Request 发起好友申请。
// 对方已向我发起申请时直接成为好友；之前被拒绝的申请可以重新发起。
func (s *FriendshipService) Request(ctx context.Context, fromID, toID int) (*model.Friendship, error) {
	if fromID == toID {
		return nil, ErrSelfFriendship
	}

	target, err := s.users.FindByID(toID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("用户 %d: %w", toID, ErrNotFound)
	}

	existing, err := s.store.FindBetween(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		f := &model.Friendship{
			RequesterID: fromID,
			AddresseeID: toID,
			Status:      model.FriendshipPending,
		}
		if err := s.store.Create(ctx, f); err != nil {
			return nil, err
		}
		return f, nil
	}

	switch existing.Status {
	case model.FriendshipAccepted:
		return nil, ErrFriendshipExists
	case model.FriendshipPending:
		if existing.RequesterID == fromID {
			return nil, ErrFriendshipExists
		}
		if err := s.store.UpdateStatus(ctx, existing.ID, model.FriendshipAccepted); err != nil {
			return nil, err
		}
		existing.Status = model.FriendshipAccepted
		s.onChange()
		return existing, nil
	default:
		if err := s.store.Reopen(ctx, existing.ID, fromID, toID); err != nil {
			return nil, err
		}
		existing.RequesterID = fromID
		existing.AddresseeID = toID
		existing.Status = model.FriendshipPending
		return existing, nil
	}
}

// pendingFor 取出发给 userID 的待处理申请
func (s *FriendshipService) pendingFor(ctx context.Context, userID, requestID int, asAddressee bool) (*model.Friendship, error) {
	f, err := s.store.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if f == nil || !f.Involves(userID) {
		return nil, fmt.Errorf("好友申请 %d: %w", requestID, ErrNotFound)
	}
	if asAddressee && f.AddresseeID != userID {
		return nil, ErrForbidden
	}
	if !asAddressee && f.RequesterID != userID {
		return nil, ErrForbidden
	}
	if f.Status != model.FriendshipPending {
		return nil, ErrInvalidTransition
	}
	return f, nil
}

// Accept 接受申请（只有被申请人可以操作）
func (s *FriendshipService) Accept(ctx context.Context, userID, requestID int) (*model.Friendship, error) {
	f, err := s.pendingFor(ctx, userID, requestID, true)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateStatus(ctx, f.ID, model.FriendshipAccepted); err != nil {
		return nil, err
	}
	f.Status = model.FriendshipAccepted
	s.onChange()
	return f, nil
}

// Reject 拒绝申请
func (s *FriendshipService) Reject(ctx context.Context, userID, requestID int) (*model.Friendship, error) {
	f, err := s.pendingFor(ctx, userID, requestID, true)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateStatus(ctx, f.ID, model.FriendshipRejected); err != nil {
		return nil, err
	}
	f.Status = model.FriendshipRejected
	return f, nil
}

// Cancel 撤回自己发出的申请
func (s *FriendshipService) Cancel(ctx context.Context, userID, requestID int) error {
	f, err := s.pendingFor(ctx, userID, requestID, false)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, f.ID)
}

// Unfriend 解除好友关系
func (s *FriendshipService) Unfriend(ctx context.Context, userID, friendID int) error {
	f, err := s.store.FindBetween(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if f == nil || f.Status != model.FriendshipAccepted {
		return fmt.Errorf("好友 %d: %w", friendID, ErrNotFound)
	}
	if err := s.store.Delete(ctx, f.ID); err != nil {
		return err
	}
	s.onChange()
	return nil
}

// Friends 好友列表
func (s *FriendshipService) Friends(ctx context.Context, userID int) ([]model.PublicUser, error) {
	list, err := s.store.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := make([]model.PublicUser, 0, len(list))
	for _, f := range list {
		other := f.Requester
		if f.RequesterID == userID {
			other = f.Addressee
		}
		if other == nil {
			continue
		}
		friends = append(friends, other.Public())
	}
	return friends, nil
}

// Requests 待处理的好友申请
func (s *FriendshipService) Requests(ctx context.Context, userID int) (*FriendRequests, error) {
	incoming, outgoing, err := s.store.ListPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	if incoming == nil {
		incoming = []*model.Friendship{}
	}
	if outgoing == nil {
		outgoing = []*model.Friendship{}
	}
	return &FriendRequests{Incoming: incoming, Outgoing: outgoing}, nil
}
