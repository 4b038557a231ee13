package repository

import (
	"reflect"
	"testing"

	"github.com/user/reelcircle/internal/model"
	"github.com/user/reelcircle/internal/recommend"
)

func TestAssembleUsers(t *testing.T) {
	ids := []int{1, 2, 3}
	likes := []model.MovieLike{
		{UserID: 1, MovieID: 10},
		{UserID: 1, MovieID: 11},
		{UserID: 3, MovieID: 10},
		{UserID: 99, MovieID: 12}, // 用户已不存在
	}
	friendships := []model.Friendship{
		{RequesterID: 1, AddresseeID: 2},
		{RequesterID: 3, AddresseeID: 1},
	}

	got := assembleUsers(ids, likes, friendships)
	want := []recommend.User{
		{ID: 1, LikedMovieIDs: []int{10, 11}, FriendIDs: []int{2, 3}},
		{ID: 2, LikedMovieIDs: []int{}, FriendIDs: []int{1}},
		{ID: 3, LikedMovieIDs: []int{10}, FriendIDs: []int{1}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("assembleUsers() = %+v, want %+v", got, want)
	}
}

func TestAssembleUsers_Empty(t *testing.T) {
	got := assembleUsers(nil, nil, nil)
	if len(got) != 0 {
		t.Errorf("len(assembleUsers(nil)) = %d, want 0", len(got))
	}
}

func TestSettingsConversion(t *testing.T) {
	s := recommend.DefaultSettings()
	s.UseFriends = false
	s.GenreWeight = -2.5
	s.MinRatingForLike = 9

	row := fromSettings(42, s)
	if row.UserID != 42 {
		t.Errorf("UserID = %d, want 42", row.UserID)
	}
	if got := toSettings(row); got != s {
		t.Errorf("toSettings(fromSettings(s)) = %+v, want %+v", got, s)
	}
}
