package service

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/user/reelcircle/internal/logging"
	"github.com/user/reelcircle/internal/metrics"
	"github.com/user/reelcircle/internal/recommend"
	"github.com/user/reelcircle/internal/utils"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// CatalogSource 推荐所需的整库快照来源
type CatalogSource interface {
	ListMovies(ctx context.Context) ([]recommend.Movie, error)
	ListReviews(ctx context.Context) ([]recommend.Review, error)
	ListUsers(ctx context.Context) ([]recommend.User, error)
}

// SettingsStore 用户推荐配置的持久化
type SettingsStore interface {
	Get(ctx context.Context, userID int) (*recommend.Settings, error)
	Save(ctx context.Context, userID int, s recommend.Settings) error
	Delete(ctx context.Context, userID int) error
}

// PersonNamer 可选：解析影人姓名用于推荐理由，来源未实现时理由中不出现姓名
type PersonNamer interface {
	PersonNames(ctx context.Context, ids []int) (map[int]string, error)
}

// Recommendation 带推荐理由的候选电影
type Recommendation struct {
	recommend.RankedMovie
	Reason recommend.Reason `json:"reason"`
}

// RecommendationPage 一页推荐结果
type RecommendationPage struct {
	Items []Recommendation `json:"items"`
	recommend.PageInfo
	Settings recommend.Settings `json:"settings"`
}

// snapshotTimeout 单次快照拉取与打分的上限
const snapshotTimeout = 30 * time.Second

// RecommendationService 推荐服务：拉取快照、打分、缓存
type RecommendationService struct {
	source   CatalogSource
	settings SettingsStore
	cache    *utils.TTLCache[[]recommend.RankedMovie]
	sf       singleflight.Group
	// generation 每次相关数据写入后递增，旧代的缓存不再命中
	generation atomic.Uint64
	log        zerolog.Logger
}

// NewRecommendationService 创建推荐服务
func NewRecommendationService(source CatalogSource, settings SettingsStore, cacheSize int, cacheTTL time.Duration) *RecommendationService {
	return &RecommendationService{
		source:   source,
		settings: settings,
		cache:    utils.NewTTLCache[[]recommend.RankedMovie](cacheSize, cacheTTL),
		log:      logging.Component("recommend"),
	}
}

// Invalidate 影评、喜欢、好友或片库变化后调用
func (s *RecommendationService) Invalidate() {
	s.generation.Add(1)
	s.cache.Clear()
}

// ValidateSettings 校验配置
func ValidateSettings(st recommend.Settings) error {
	if err := utils.ValidateStruct(st); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	for _, w := range []float64{st.RatingWeight, st.GenreWeight, st.PeopleWeight, st.SelectedMoviesWeight, st.FriendsWeight} {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: 权重必须是有限数值", ErrInvalidSettings)
		}
	}
	return nil
}

func cacheKey(gen uint64, viewerID int, st recommend.Settings) (string, error) {
	b, err := json.Marshal(st)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%d:%s", gen, viewerID, b), nil
}

// Generate 生成完整的排序推荐列表。返回的切片在调用方之间共享，只读。
func (s *RecommendationService) Generate(ctx context.Context, viewerID int, st recommend.Settings) ([]recommend.RankedMovie, error) {
	if err := ValidateSettings(st); err != nil {
		return nil, err
	}

	gen := s.generation.Load()
	key, err := cacheKey(gen, viewerID, st)
	if err != nil {
		return nil, err
	}

	if list, ok := s.cache.Get(key); ok {
		metrics.RecommendationCacheHits.Inc()
		return list, nil
	}
	metrics.RecommendationCacheMisses.Inc()

	return s.flight(ctx, key, func(fctx context.Context) ([]recommend.RankedMovie, error) {
		start := time.Now()

		catalog, err := s.snapshot(fctx)
		if err != nil {
			metrics.RecommendationErrors.Inc()
			return nil, err
		}

		viewer := findUser(catalog.Users, viewerID)
		if viewer == nil {
			return nil, fmt.Errorf("用户 %d: %w", viewerID, ErrNotFound)
		}

		list := recommend.Generate(*viewer, catalog, st)
		elapsed := time.Since(start)
		metrics.RecordRecommendation(len(catalog.Movies), elapsed)

		// 计算期间数据已变化则不缓存
		if s.generation.Load() == gen {
			s.cache.Set(key, list)
		}

		s.log.Debug().
			Int("viewer_id", viewerID).
			Int("candidates", len(list)).
			Dur("elapsed", elapsed).
			Msg("recommendations generated")
		return list, nil
	})
}

// flight 合并相同 key 的并发计算。
// 计算使用与调用方取消无关的 context（带超时），某个调用方断开不会影响其他等待者；
// 断开的调用方立即返回 ctx.Err()。
func (s *RecommendationService) flight(ctx context.Context, key string, fn func(context.Context) ([]recommend.RankedMovie, error)) ([]recommend.RankedMovie, error) {
	ch := s.sf.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotTimeout)
		defer cancel()
		return fn(fctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.log.Debug().Str("key", key).Msg("recommendation request coalesced")
		}
		return res.Val.([]recommend.RankedMovie), nil
	}
}

// Page 生成并返回指定页
func (s *RecommendationService) Page(ctx context.Context, viewerID int, st recommend.Settings, page, size int) (*RecommendationPage, error) {
	list, err := s.Generate(ctx, viewerID, st)
	if err != nil {
		return nil, err
	}

	items, info, err := recommend.Paginate(list, page, size)
	if err != nil {
		return nil, err
	}
	return &RecommendationPage{
		Items:    s.explain(ctx, items, recommend.Explain),
		PageInfo: info,
		Settings: st,
	}, nil
}

// Similar 与指定电影相似的电影，不依赖观众
func (s *RecommendationService) Similar(ctx context.Context, movieID, limit int) ([]Recommendation, error) {
	gen := s.generation.Load()
	key := fmt.Sprintf("similar:%d:%d:%d", gen, movieID, limit)

	list, ok := s.cache.Get(key)
	if !ok {
		var err error
		list, err = s.flight(ctx, key, func(fctx context.Context) ([]recommend.RankedMovie, error) {
			movies, err := s.source.ListMovies(fctx)
			if err != nil {
				metrics.RecommendationErrors.Inc()
				s.log.Error().Err(err).Int("movie_id", movieID).Msg("similar movies snapshot failed")
				return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
			}

			// 电影不存在时缓存 nil，找到时结果总是非 nil 切片
			similar, _ := recommend.Similar(movieID, movies, limit)
			if s.generation.Load() == gen {
				s.cache.Set(key, similar)
			}
			return similar, nil
		})
		if err != nil {
			return nil, err
		}
	}
	if list == nil {
		return nil, fmt.Errorf("电影 %d: %w", movieID, ErrNotFound)
	}
	return s.explain(ctx, list, recommend.ExplainSimilar), nil
}

// explain 为每条结果附上理由；姓名查询失败时降级为不带姓名的理由
func (s *RecommendationService) explain(ctx context.Context, list []recommend.RankedMovie, fn func(recommend.RankedMovie, map[int]string) recommend.Reason) []Recommendation {
	var names map[int]string
	if namer, ok := s.source.(PersonNamer); ok {
		var ids []int
		for _, r := range list {
			ids = append(ids, r.MatchedPeopleIDs...)
		}
		if len(ids) > 0 {
			var err error
			if names, err = namer.PersonNames(ctx, ids); err != nil {
				s.log.Warn().Err(err).Msg("resolve person names failed")
			}
		}
	}

	out := make([]Recommendation, len(list))
	for i, r := range list {
		out[i] = Recommendation{RankedMovie: r, Reason: fn(r, names)}
	}
	return out
}

// snapshot 并发拉取电影、评分与用户，任一失败则整体失败
func (s *RecommendationService) snapshot(ctx context.Context) (recommend.Catalog, error) {
	var c recommend.Catalog
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		movies, err := s.source.ListMovies(gctx)
		c.Movies = movies
		return err
	})
	g.Go(func() error {
		reviews, err := s.source.ListReviews(gctx)
		c.Reviews = reviews
		return err
	})
	g.Go(func() error {
		users, err := s.source.ListUsers(gctx)
		c.Users = users
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error().Err(err).Msg("catalog snapshot failed")
		return recommend.Catalog{}, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	return c, nil
}

func findUser(users []recommend.User, id int) *recommend.User {
	for i := range users {
		if users[i].ID == id {
			return &users[i]
		}
	}
	return nil
}

// Settings 读取用户配置，未保存过时返回默认值；custom 表示是否为用户自定义
func (s *RecommendationService) Settings(ctx context.Context, userID int) (st recommend.Settings, custom bool, err error) {
	stored, err := s.settings.Get(ctx, userID)
	if err != nil {
		return recommend.Settings{}, false, err
	}
	if stored == nil {
		return recommend.DefaultSettings(), false, nil
	}
	return *stored, true, nil
}

// SaveSettings 校验并保存用户配置
func (s *RecommendationService) SaveSettings(ctx context.Context, userID int, st recommend.Settings) error {
	if err := ValidateSettings(st); err != nil {
		return err
	}
	return s.settings.Save(ctx, userID, st)
}

// ResetSettings 恢复默认配置
func (s *RecommendationService) ResetSettings(ctx context.Context, userID int) error {
	return s.settings.Delete(ctx, userID)
}
