package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/reelcircle/internal/recommend"
	"github.com/user/reelcircle/internal/utils"
)

// settingsResponse 推荐配置
type settingsResponse struct {
	Settings recommend.Settings `json:"settings"`
	Custom   bool               `json:"custom"` // false 表示使用默认配置
}

// ==================== 推荐 ====================

// Recommendations 按已保存的配置返回一页推荐
func (h *Handler) Recommendations(c *gin.Context) {
	page, size, err := parsePaging(c, recommend.DefaultRecommendationPageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	st, _, err := h.Recommend.Settings(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.Recommend.Page(ctx, userID, st, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, result)
}

// PreviewRecommendations 用临时配置试算（不保存），请求体中未给出的字段沿用已保存的配置
func (h *Handler) PreviewRecommendations(c *gin.Context) {
	page, size, err := parsePaging(c, recommend.DefaultRecommendationPageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	st, _, err := h.Recommend.Settings(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !bindJSON(c, &st) {
		return
	}

	result, err := h.Recommend.Page(ctx, userID, st, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, result)
}

// GetRecommendationSettings 读取推荐配置
func (h *Handler) GetRecommendationSettings(c *gin.Context) {
	st, custom, err := h.Recommend.Settings(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, settingsResponse{Settings: st, Custom: custom})
}

// UpdateRecommendationSettings 保存配置并返回新配置下的第一页
func (h *Handler) UpdateRecommendationSettings(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	st, _, err := h.Recommend.Settings(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !bindJSON(c, &st) {
		return
	}

	if err := h.Recommend.SaveSettings(ctx, userID, st); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.Recommend.Page(ctx, userID, st, 1, recommend.DefaultRecommendationPageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, result)
}

// ResetRecommendationSettings 恢复默认配置
func (h *Handler) ResetRecommendationSettings(c *gin.Context) {
	if err := h.Recommend.ResetSettings(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, settingsResponse{Settings: recommend.DefaultSettings(), Custom: false})
}
