package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/reelcircle/internal/model"
	"github.com/user/reelcircle/internal/recommend"
	"github.com/user/reelcircle/internal/repository"
	"github.com/user/reelcircle/internal/utils"
)

const (
	genresCacheKey     = "genres"
	movieCachePrefix   = "movie:"
	movieCacheTTL      = 5 * time.Minute
	movieRecentReviews = 5

	defaultSimilarLimit = 8
	maxSimilarLimit     = 50
)

func movieCacheKey(id int) string {
	return fmt.Sprintf("%s%d", movieCachePrefix, id)
}

// movieDetail 电影详情（公共部分可缓存）
type movieDetail struct {
	Movie         *model.Movie    `json:"movie"`
	RecentReviews []*model.Review `json:"recent_reviews"`
}

// viewerState 当前登录用户与该电影的关系
type viewerState struct {
	Liked       bool          `json:"liked"`
	InWatchlist bool          `json:"in_watchlist"`
	MyReview    *model.Review `json:"my_review"`
}

// ==================== 电影 ====================

// ListMovies 电影列表，支持类型筛选与标题搜索
func (h *Handler) ListMovies(c *gin.Context) {
	page, size, err := parsePaging(c, recommend.DefaultListPageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	movies, total, err := h.Repos.Movie.List(repository.MovieFilter{
		Genre:  c.Query("genre"),
		Query:  c.Query("q"),
		Limit:  size,
		Offset: offset(page, size),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := pageData(movies, page, size, total)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, data)
}

// GetMovie 电影详情，登录用户额外返回喜欢/待看/我的影评
func (h *Handler) GetMovie(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	detail, err := h.loadMovieDetail(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if detail == nil {
		utils.NotFound(c, "电影不存在")
		return
	}

	res := gin.H{
		"movie":          detail.Movie,
		"recent_reviews": detail.RecentReviews,
	}

	if userID := currentUserID(c); userID > 0 {
		state := viewerState{}
		state.Liked, _ = h.Repos.Like.IsLiked(userID, id)
		state.InWatchlist, _ = h.Repos.Watchlist.Contains(userID, id)
		state.MyReview, _ = h.Repos.Review.FindByUserAndMovie(userID, id)
		res["viewer"] = state
	}

	utils.Success(c, res)
}

func (h *Handler) loadMovieDetail(id int) (*movieDetail, error) {
	key := movieCacheKey(id)
	if v, ok := utils.CacheGet(key); ok {
		return v.(*movieDetail), nil
	}

	movie, err := h.Repos.Movie.FindByID(id)
	if err != nil || movie == nil {
		return nil, err
	}
	reviews, _, err := h.Repos.Review.ListByMovie(id, movieRecentReviews, 0)
	if err != nil {
		return nil, err
	}

	detail := &movieDetail{Movie: movie, RecentReviews: reviews}
	utils.CacheSet(key, detail, movieCacheTTL)
	return detail, nil
}

// MovieReviews 电影影评列表
func (h *Handler) MovieReviews(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, size, err := parsePaging(c, recommend.DefaultListPageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	exists, err := h.Repos.Movie.Exists(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		utils.NotFound(c, "电影不存在")
		return
	}

	reviews, total, err := h.Repos.Review.ListByMovie(id, size, offset(page, size))
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := pageData(reviews, page, size, total)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, data)
}

// SimilarMovies 相似电影（带推荐理由）
func (h *Handler) SimilarMovies(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	limit := defaultSimilarLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			utils.BadRequest(c, "limit 必须是正整数")
			return
		}
		limit = min(n, maxSimilarLimit)
	}

	list, err := h.Recommend.Similar(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, list)
}

// Genres 所有类型
func (h *Handler) Genres(c *gin.Context) {
	if v, ok := utils.CacheGet(genresCacheKey); ok {
		utils.Success(c, v)
		return
	}

	genres, err := h.Repos.Movie.Genres()
	if err != nil {
		respondError(c, err)
		return
	}
	if genres == nil {
		genres = []string{}
	}
	utils.CacheSet(genresCacheKey, genres, 10*time.Minute)
	utils.Success(c, genres)
}

// invalidateMovie 电影数据变化后清理缓存
func (h *Handler) invalidateMovie(id int) {
	utils.CacheDelete(movieCacheKey(id))
	h.invalidateRecommendations()
}
