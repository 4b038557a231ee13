package service

import (
	"context"
	"errors"
	"testing"

	"github.com/user/reelcircle/internal/model"
)

type memoryFriendships struct {
	nextID int
	rows   map[int]*model.Friendship
}

func newMemoryFriendships() *memoryFriendships {
	return &memoryFriendships{rows: map[int]*model.Friendship{}}
}

func (m *memoryFriendships) FindByID(ctx context.Context, id int) (*model.Friendship, error) {
	f, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (m *memoryFriendships) FindBetween(ctx context.Context, a, b int) (*model.Friendship, error) {
	for _, f := range m.rows {
		if (f.RequesterID == a && f.AddresseeID == b) || (f.RequesterID == b && f.AddresseeID == a) {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryFriendships) Create(ctx context.Context, f *model.Friendship) error {
	m.nextID++
	f.ID = m.nextID
	cp := *f
	m.rows[f.ID] = &cp
	return nil
}

func (m *memoryFriendships) Reopen(ctx context.Context, id, requesterID, addresseeID int) error {
	f := m.rows[id]
	f.RequesterID, f.AddresseeID, f.Status = requesterID, addresseeID, model.FriendshipPending
	return nil
}

func (m *memoryFriendships) UpdateStatus(ctx context.Context, id int, status string) error {
	m.rows[id].Status = status
	return nil
}

func (m *memoryFriendships) Delete(ctx context.Context, id int) error {
	delete(m.rows, id)
	return nil
}

func (m *memoryFriendships) ListAccepted(ctx context.Context, userID int) ([]*model.Friendship, error) {
	var out []*model.Friendship
	for _, f := range m.rows {
		if f.Status == model.FriendshipAccepted && f.Involves(userID) {
			cp := *f
			cp.Requester = &model.User{ID: f.RequesterID, Username: "u"}
			cp.Addressee = &model.User{ID: f.AddresseeID, Username: "u"}
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memoryFriendships) ListPending(ctx context.Context, userID int) (incoming, outgoing []*model.Friendship, err error) {
	for _, f := range m.rows {
		if f.Status != model.FriendshipPending {
			continue
		}
		cp := *f
		if f.AddresseeID == userID {
			incoming = append(incoming, &cp)
		}
		if f.RequesterID == userID {
			outgoing = append(outgoing, &cp)
		}
	}
	return incoming, outgoing, nil
}

type knownUsers map[int]bool

func (k knownUsers) FindByID(id int) (*model.User, error) {
	if !k[id] {
		return nil, nil
	}
	return &model.User{ID: id}, nil
}

func newFriendshipFixture() (*FriendshipService, *memoryFriendships, *int) {
	store := newMemoryFriendships()
	changes := 0
	svc := NewFriendshipService(store, knownUsers{1: true, 2: true, 3: true}, func() { changes++ })
	return svc, store, &changes
}

func TestFriendship_RequestAndAccept(t *testing.T) {
	svc, _, changes := newFriendshipFixture()
	ctx := context.Background()

	req, err := svc.Request(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if req.Status != model.FriendshipPending {
		t.Errorf("Status = %q, want pending", req.Status)
	}

	if _, err := svc.Accept(ctx, 1, req.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("requester Accept() error = %v, want ErrForbidden", err)
	}
	if _, err := svc.Accept(ctx, 3, req.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("outsider Accept() error = %v, want ErrNotFound", err)
	}

	got, err := svc.Accept(ctx, 2, req.ID)
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if got.Status != model.FriendshipAccepted {
		t.Errorf("Status = %q, want accepted", got.Status)
	}
	if *changes != 1 {
		t.Errorf("onChange calls = %d, want 1", *changes)
	}

	if _, err := svc.Accept(ctx, 2, req.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Accept() error = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.Request(ctx, 2, 1); !errors.Is(err, ErrFriendshipExists) {
		t.Errorf("Request() between friends error = %v, want ErrFriendshipExists", err)
	}

	friends, err := svc.Friends(ctx, 1)
	if err != nil {
		t.Fatalf("Friends() error = %v", err)
	}
	if len(friends) != 1 || friends[0].ID != 2 {
		t.Errorf("Friends(1) = %+v, want [user 2]", friends)
	}
}

func TestFriendship_RequestErrors(t *testing.T) {
	svc, _, _ := newFriendshipFixture()
	ctx := context.Background()

	tests := []struct {
		name    string
		from    int
		to      int
		wantErr error
	}{
		{name: "self", from: 1, to: 1, wantErr: ErrSelfFriendship},
		{name: "unknown user", from: 1, to: 42, wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Request(ctx, tt.from, tt.to); !errors.Is(err, tt.wantErr) {
				t.Errorf("Request(%d, %d) error = %v, want %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}

	if _, err := svc.Request(ctx, 1, 2); err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if _, err := svc.Request(ctx, 1, 2); !errors.Is(err, ErrFriendshipExists) {
		t.Errorf("duplicate Request() error = %v, want ErrFriendshipExists", err)
	}
}

func TestFriendship_MutualRequestAccepts(t *testing.T) {
	svc, _, changes := newFriendshipFixture()
	ctx := context.Background()

	if _, err := svc.Request(ctx, 1, 2); err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	f, err := svc.Request(ctx, 2, 1)
	if err != nil {
		t.Fatalf("reverse Request() error = %v", err)
	}
	if f.Status != model.FriendshipAccepted {
		t.Errorf("Status = %q, want accepted", f.Status)
	}
	if *changes != 1 {
		t.Errorf("onChange calls = %d, want 1", *changes)
	}
}

func TestFriendship_RejectThenRequestAgain(t *testing.T) {
	svc, _, _ := newFriendshipFixture()
	ctx := context.Background()

	req, _ := svc.Request(ctx, 1, 2)
	if _, err := svc.Reject(ctx, 2, req.ID); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if _, err := svc.Reject(ctx, 2, req.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Reject() error = %v, want ErrInvalidTransition", err)
	}

	again, err := svc.Request(ctx, 2, 1)
	if err != nil {
		t.Fatalf("Request() after reject error = %v", err)
	}
	if again.Status != model.FriendshipPending || again.RequesterID != 2 || again.AddresseeID != 1 {
		t.Errorf("reopened request = %+v, want pending 2 -> 1", again)
	}
}

func TestFriendship_CancelAndUnfriend(t *testing.T) {
	svc, store, changes := newFriendshipFixture()
	ctx := context.Background()

	req, _ := svc.Request(ctx, 1, 3)
	if err := svc.Cancel(ctx, 3, req.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("addressee Cancel() error = %v, want ErrForbidden", err)
	}
	if err := svc.Cancel(ctx, 1, req.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if len(store.rows) != 0 {
		t.Errorf("rows after cancel = %d, want 0", len(store.rows))
	}

	if err := svc.Unfriend(ctx, 1, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("Unfriend() non-friend error = %v, want ErrNotFound", err)
	}

	req, _ = svc.Request(ctx, 1, 2)
	_, _ = svc.Accept(ctx, 2, req.ID)
	if err := svc.Unfriend(ctx, 2, 1); err != nil {
		t.Fatalf("Unfriend() error = %v", err)
	}
	if *changes != 2 {
		t.Errorf("onChange calls = %d, want 2", *changes)
	}
}

func TestFriendship_Requests(t *testing.T) {
	svc, _, _ := newFriendshipFixture()
	ctx := context.Background()

	got, err := svc.Requests(ctx, 1)
	if err != nil {
		t.Fatalf("Requests() error = %v", err)
	}
	if got.Incoming == nil || got.Outgoing == nil {
		t.Errorf("Requests() returned nil slices")
	}

	_, _ = svc.Request(ctx, 2, 1)
	_, _ = svc.Request(ctx, 1, 3)
	got, _ = svc.Requests(ctx, 1)
	if len(got.Incoming) != 1 || len(got.Outgoing) != 1 {
		t.Errorf("Requests() = %d incoming, %d outgoing; want 1, 1", len(got.Incoming), len(got.Outgoing))
	}
}
