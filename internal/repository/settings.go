package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/reelcircle/internal/model"
	"github.com/user/reelcircle/internal/recommend"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository 用户推荐配置
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get 读取用户保存的配置，未保存过返回 nil
func (r *SettingsRepository) Get(ctx context.Context, userID int) (*recommend.Settings, error) {
	var row model.RecommendationSettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s := toSettings(row)
	return &s, nil
}

// Save 保存配置（覆盖）
func (r *SettingsRepository) Save(ctx context.Context, userID int, s recommend.Settings) error {
	row := fromSettings(userID, s)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"use_rating", "use_genres", "use_people", "use_selected_movies", "use_friends",
			"rating_weight", "genre_weight", "people_weight", "selected_movies_weight", "friends_weight",
			"min_rating_for_like", "updated_at",
		}),
	}).Create(&row).Error
}

// Delete 删除配置（恢复默认）
func (r *SettingsRepository) Delete(ctx context.Context, userID int) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RecommendationSettings{}).Error
}

func toSettings(row model.RecommendationSettings) recommend.Settings {
	return recommend.Settings{
		UseRating:            row.UseRating,
		UseGenres:            row.UseGenres,
		UsePeople:            row.UsePeople,
		UseSelectedMovies:    row.UseSelectedMovies,
		UseFriends:           row.UseFriends,
		RatingWeight:         row.RatingWeight,
		GenreWeight:          row.GenreWeight,
		PeopleWeight:         row.PeopleWeight,
		SelectedMoviesWeight: row.SelectedMoviesWeight,
		FriendsWeight:        row.FriendsWeight,
		MinRatingForLike:     row.MinRatingForLike,
	}
}

func fromSettings(userID int, s recommend.Settings) model.RecommendationSettings {
	return model.RecommendationSettings{
		UserID:               userID,
		UseRating:            s.UseRating,
		UseGenres:            s.UseGenres,
		UsePeople:            s.UsePeople,
		UseSelectedMovies:    s.UseSelectedMovies,
		UseFriends:           s.UseFriends,
		RatingWeight:         s.RatingWeight,
		GenreWeight:          s.GenreWeight,
		PeopleWeight:         s.PeopleWeight,
		SelectedMoviesWeight: s.SelectedMoviesWeight,
		FriendsWeight:        s.FriendsWeight,
		MinRatingForLike:     s.MinRatingForLike,
		UpdatedAt:            time.Now(),
	}
}
