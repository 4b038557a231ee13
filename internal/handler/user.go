package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/reelcircle/internal/recommend"
	"github.com/user/reelcircle/internal/utils"
)

// GetUser 用户公开主页
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.Repos.User.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		utils.NotFound(c, "用户不存在")
		return
	}

	reviewCount, _ := h.Repos.Review.CountByUser(id)
	likeCount, _ := h.Repos.Like.CountByUser(id)
	friendCount, _ := h.Repos.Friendship.CountAccepted(c.Request.Context(), id)

	utils.Success(c, gin.H{
		"user":         user.Public(),
		"review_count": reviewCount,
		"like_count":   likeCount,
		"friend_count": friendCount,
	})
}

// UserReviews 用户的影评
func (h *Handler) UserReviews(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, size, err := parsePaging(c, recommend.DefaultListPageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.Repos.User.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		utils.NotFound(c, "用户不存在")
		return
	}

	reviews, total, err := h.Repos.Review.ListByUser(id, size, offset(page, size))
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
