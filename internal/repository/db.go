package repository

import (
	"fmt"
	"time"

	"github.com/user/reelcircle/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		// 唯一约束冲突统一转换为 gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取连接池失败: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// AutoMigrate 建表（仅用于本地与首次部署）
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Movie{},
		&model.Person{},
		&model.MovieCredit{},
		&model.Review{},
		&model.MovieLike{},
		&model.WatchlistItem{},
		&model.Friendship{},
		&model.RecommendationSettings{},
	)
}

// Repositories 仓库集合
type Repositories struct {
	DB             *gorm.DB
	User           *UserRepository
	Movie          *MovieRepository
	Person         *PersonRepository
	Review         *ReviewRepository
	Like           *LikeRepository
	Watchlist      *WatchlistRepository
	Friendship     *FriendshipRepository
	Settings       *SettingsRepository
	Recommendation *RecommendationSource
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:             db,
		User:           NewUserRepository(db),
		Movie:          NewMovieRepository(db),
		Person:         NewPersonRepository(db),
		Review:         NewReviewRepository(db),
		Like:           NewLikeRepository(db),
		Watchlist:      NewWatchlistRepository(db),
		Friendship:     NewFriendshipRepository(db),
		Settings:       NewSettingsRepository(db),
		Recommendation: NewRecommendationSource(db),
	}
}
