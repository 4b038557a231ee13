package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/user/reelcircle/internal/model"
	"gorm.io/gorm"
)

// MovieFilter 电影列表筛选条件
type MovieFilter struct {
	Genre  string
	Query  string
	Limit  int
	Offset int
}

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) filtered(f MovieFilter) *gorm.DB {
	q := r.db.Model(&model.Movie{})
	if f.Genre != "" {
		q = q.Where("genre = ?", f.Genre)
	}
	if kw := strings.TrimSpace(f.Query); kw != "" {
		q = q.Where("title ILIKE ?", "%"+kw+"%")
	}
	return q
}

// List 分页列出电影，按评分从高到低，未评分的排在最后
func (r *MovieRepository) List(f MovieFilter) ([]*model.Movie, int64, error) {
	var total int64
	if err := r.filtered(f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movies []*model.Movie
	err := r.filtered(f).
		Order("aggregate_rating DESC NULLS LAST").
		Order("id ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&movies).Error
	return movies, total, err
}

// FindByID 根据 ID 查找电影（含演职员）
func (r *MovieRepository) FindByID(id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Preload("Credits", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("Credits.Person").First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// Exists 电影是否存在
func (r *MovieRepository) Exists(id int) (bool, error) {
	var count int64
	err := r.db.Model(&model.Movie{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create 创建电影及其演职员
func (r *MovieRepository) Create(movie *model.Movie) error {
	now := time.Now()
	movie.CreatedAt = now
	movie.UpdatedAt = now
	// 评分只由影评汇总得出
	movie.AggregateRating = nil
	movie.RatingCount = 0
	return r.db.Create(movie).Error
}

// Update 更新电影基础信息并整体替换演职员
func (r *MovieRepository) Update(movie *model.Movie) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Movie{}).Where("id = ?", movie.ID).Updates(map[string]interface{}{
			"title":      movie.Title,
			"year":       movie.Year,
			"genre":      movie.Genre,
			"overview":   movie.Overview,
			"poster_url": movie.PosterURL,
			"updated_at": time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("movie_id = ?", movie.ID).Delete(&model.MovieCredit{}).Error; err != nil {
			return err
		}
		if len(movie.Credits) == 0 {
			return nil
		}
		for i := range movie.Credits {
			movie.Credits[i].ID = 0
			movie.Credits[i].MovieID = movie.ID
		}
		return tx.Create(&movie.Credits).Error
	})
}

// Delete 删除电影（演职员、影评、喜欢、待看一并删除）
func (r *MovieRepository) Delete(id int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&model.MovieCredit{}, &model.Review{}, &model.MovieLike{}, &model.WatchlistItem{}} {
			if err := tx.Where("movie_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&model.Movie{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Genres 所有出现过的类型
func (r *MovieRepository) Genres() ([]string, error) {
	var genres []string
	err := r.db.Model(&model.Movie{}).
		Where("genre <> ''").
		Distinct("genre").
		Order("genre ASC").
		Pluck("genre", &genres).Error
	return genres, err
}

// ListByPerson 人物作品列表
func (r *MovieRepository) ListByPerson(personID int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.
		Where("id IN (?)", r.db.Model(&model.MovieCredit{}).Select("movie_id").Where("person_id = ?", personID)).
		Order("year DESC").
		Order("id ASC").
		Find(&movies).Error
	return movies, err
}

// Count 电影总数
func (r *MovieRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Movie{}).Count(&count).Error
	return count, err
}

// recomputeRating 按影评重新计算平均分（0-10），无影评时为 NULL
func recomputeRating(tx *gorm.DB, movieID int) error {
	return tx.Exec(`
		UPDATE movies SET
			aggregate_rating = (SELECT AVG(rating)::double precision FROM reviews WHERE movie_id = ?),
			rating_count = (SELECT COUNT(*) FROM reviews WHERE movie_id = ?),
			updated_at = ?
		WHERE id = ?
	`, movieID, movieID, time.Now(), movieID).Error
}
