package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/reelcircle/internal/config"
	"github.com/user/reelcircle/internal/logging"
	"github.com/user/reelcircle/internal/middleware"
	"github.com/user/reelcircle/internal/model"
	"github.com/user/reelcircle/internal/recommend"
	"github.com/user/reelcircle/internal/repository"
	"github.com/user/reelcircle/internal/service"
	"github.com/user/reelcircle/internal/utils"
	"gorm.io/gorm"
)

// sessionKey Session 中保存用户信息的键
const sessionKey = "userinfo"

// Handler HTTP 处理器
type Handler struct {
	Repos     *repository.Repositories
	Config    *config.Config
	Recommend *service.RecommendationService
	Friends   *service.FriendshipService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config, rec *service.RecommendationService, friends *service.FriendshipService) *Handler {
	return &Handler{
		Repos:     repos,
		Config:    cfg,
		Recommend: rec,
		Friends:   friends,
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
	}

	// 注入用户信息
	if su, ok := currentSessionUser(c); ok {
		res["UserInfo"] = su
	}

	for k, v := range data {
		res[k] = v
	}
	return res
}

// ==================== 页面 ====================

// Index 前端外壳页面，具体内容由前端调用 API 渲染
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.RenderData(c, gin.H{
		"Title": h.Config.SiteName,
	}))
}

// NotFound 404：页面请求返回 HTML，其余返回 JSON
func (h *Handler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		!strings.Contains(c.GetHeader("Accept"), "text/html") {
		utils.NotFound(c, "")
		return
	}
	c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
		"Title": "页面不存在 - " + h.Config.SiteName,
	}))
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	if h.Repos != nil && h.Repos.DB != nil {
		if sqlDB, err := h.Repos.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{"status": status})
}

// ==================== 辅助函数 ====================

// currentSessionUser 读取 Session 中的用户信息
func currentSessionUser(c *gin.Context) (model.SessionUser, bool) {
	session := sessions.Default(c)
	if userinfo := session.Get(sessionKey); userinfo != nil {
		if su, ok := userinfo.(model.SessionUser); ok {
			return su, true
		}
	}
	return model.SessionUser{}, false
}

// saveSessionUser 登录或资料变更后刷新 Session
func saveSessionUser(c *gin.Context, user *model.User) {
	session := sessions.Default(c)
	session.Set(sessionKey, model.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	})
	if err := session.Save(); err != nil {
		logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("保存 Session 失败")
	}
}

// paramID 解析路径中的数字 ID
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		utils.BadRequest(c, "无效的 ID")
		return 0, false
	}
	return id, true
}

// parsePaging 解析 page / page_size 查询参数
func parsePaging(c *gin.Context, defaultSize int) (page, size int, err error) {
	page, size = 1, defaultSize
	if v := c.Query("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return 0, 0, recommend.ErrInvalidPage
		}
	}
	if v := c.Query("page_size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil {
			return 0, 0, recommend.ErrInvalidPageSize
		}
	}
	if page < 1 {
		return 0, 0, recommend.ErrInvalidPage
	}
	if size < 1 {
		return 0, 0, recommend.ErrInvalidPageSize
	}
	if size > recommend.MaxPageSize {
		size = recommend.MaxPageSize
	}
	return page, size, nil
}

// offset 对应页的偏移量
func offset(page, size int) int {
	return (page - 1) * size
}

// pageData 组装分页结果；页码超出总页数时报错
func pageData(items interface{}, page, size int, total int64) (utils.PageData, error) {
	if page > recommend.TotalPages(int(total), size) {
		return utils.PageData{}, recommend.ErrInvalidPage
	}
	return utils.NewPageData(items, page, size, int(total)), nil
}

// statusClientClosedRequest 客户端已断开，响应不会被读取
const statusClientClosedRequest = 499

// respondError 把业务错误映射为统一响应
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		logging.Ctx(c.Request.Context()).Debug().Str("path", c.FullPath()).Msg("客户端已断开")
		c.AbortWithStatus(statusClientClosedRequest)
	case errors.Is(err, recommend.ErrInvalidPage):
		utils.BadRequest(c, "页码无效")
	case errors.Is(err, recommend.ErrInvalidPageSize):
		utils.BadRequest(c, "每页条数无效")
	case errors.Is(err, service.ErrInvalidSettings):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrSelfFriendship):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		utils.NotFound(c, "")
	case errors.Is(err, service.ErrForbidden):
		utils.Forbidden(c, "")
	case errors.Is(err, service.ErrFriendshipExists), errors.Is(err, service.ErrInvalidTransition):
		utils.Conflict(c, err.Error())
	case errors.Is(err, gorm.ErrDuplicatedKey):
		utils.Conflict(c, "数据已存在")
	case errors.Is(err, service.ErrDataUnavailable):
		utils.ServiceUnavailable(c, "推荐数据暂不可用，请稍后再试")
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("请求处理失败")
		utils.InternalServerError(c, "")
	}
}

// bindJSON 解析并校验请求体
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.BadRequest(c, "请求参数错误: "+err.Error())
		return false
	}
	return true
}

// currentUserID 当前登录用户
func currentUserID(c *gin.Context) int {
	return middleware.GetUserID(c)
}

// invalidateRecommendations 相关数据写入后使推荐缓存失效
func (h *Handler) invalidateRecommendations() {
	if h.Recommend != nil {
		h.Recommend.Invalidate()
	}
}
