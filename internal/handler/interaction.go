package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/reelcircle/internal/model"
	"github.com/user/reelcircle/internal/recommend"
	"github.com/user/reelcircle/internal/utils"
)

type reviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=10"`
	Body   string `json:"body" binding:"max=5000"`
}

type watchlistRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// requireMovie 校验电影存在
func (h *Handler) requireMovie(c *gin.Context) (int, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return 0, false
	}
	exists, err := h.Repos.Movie.Exists(id)
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	if !exists {
		utils.NotFound(c, "电影不存在")
		return 0, false
	}
	return id, true
}

// ==================== 影评 ====================

// PutReview 发表或修改影评（每人每部电影一条）
func (h *Handler) PutReview(c *gin.Context) {
	movieID, ok := h.requireMovie(c)
	if !ok {
		return
	}
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review := &model.Review{
		UserID:  currentUserID(c),
		MovieID: movieID,
		Rating:  req.Rating,
		Body:    req.Body,
	}
	if err := h.Repos.Review.Upsert(review); err != nil {
		respondError(c, err)
		return
	}
	h.invalidateMovie(movieID)

	saved, err := h.Repos.Review.FindByUserAndMovie(review.UserID, movieID)
	if err != nil || saved == nil {
		saved = review
	}
	utils.Success(c, saved)
}

// DeleteReview 删除自己的影评
func (h *Handler) DeleteReview(c *gin.Context) {
	movieID, ok := paramID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.Repos.Review.Delete(currentUserID(c), movieID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		utils.NotFound(c, "影评不存在")
		return
	}
	h.invalidateMovie(movieID)
	utils.SuccessWithMessage(c, "影评已删除", nil)
}

// ==================== 喜欢 ====================

// LikeMovie 标记喜欢
func (h *Handler) LikeMovie(c *gin.Context) {
	movieID, ok := h.requireMovie(c)
	if !ok {
		return
	}
	if err := h.Repos.Like.Add(currentUserID(c), movieID); err != nil {
		respondError(c, err)
		return
	}
	h.invalidateRecommendations()
	utils.Success(c, gin.H{"liked": true})
}

// UnlikeMovie 取消喜欢
func (h *Handler) UnlikeMovie(c *gin.Context) {
	movieID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Repos.Like.Remove(currentUserID(c), movieID); err != nil {
		respondError(c, err)
		return
	}
	h.invalidateRecommendations()
	utils.Success(c, gin.H{"liked": false})
}

// MyLikes 我喜欢的电影
func (h *Handler) MyLikes(c *gin.Context) {
	page, size, err := parsePaging(c, recommend.DefaultListPageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	userID := currentUserID(c)
	total, err := h.Repos.Like.CountByUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	likes, err := h.Repos.Like.ListByUser(userID, size, offset(page, size))
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := pageData(likes, page, size, int64(total))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, data)
}

// ==================== 待看 ====================

// AddToWatchlist 加入待看
func (h *Handler) AddToWatchlist(c *gin.Context) {
	movieID, ok := h.requireMovie(c)
	if !ok {
		return
	}
	var req watchlistRequest
	// 请求体可省略
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	if err := h.Repos.Watchlist.Upsert(currentUserID(c), movieID, req.Note); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"in_watchlist": true})
}

// RemoveFromWatchlist 移出待看
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	movieID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Repos.Watchlist.Remove(currentUserID(c), movieID); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"in_watchlist": false})
}

// MyWatchlist 我的待看清单
func (h *Handler) MyWatchlist(c *gin.Context) {
	page, size, err := parsePaging(c, recommend.DefaultListPageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	userID := currentUserID(c)
	total, err := h.Repos.Watchlist.CountByUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	items, err := h.Repos.Watchlist.ListByUser(userID, size, offset(page, size))
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := pageData(items, page, size, int64(total))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, data)
}
