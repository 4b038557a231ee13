package handler

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/reelcircle/internal/middleware"
	"github.com/user/reelcircle/internal/model"
	"github.com/user/reelcircle/internal/utils"
	"gorm.io/gorm"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Username string `json:"username" binding:"omitempty,min=2,max=20"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	Username  string `json:"username" binding:"required,min=2,max=20"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url,max=512"`
	Bio       string `json:"bio" binding:"max=500"`
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=72"`
}

// authResponse 登录/注册成功后的返回
type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// ==================== 认证 ====================

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	// 默认截取邮箱 @ 符号前的内容作为用户名
	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = req.Email
		if parts := strings.Split(req.Email, "@"); len(parts) > 0 {
			username = parts[0]
		}
	}

	user, err := h.Repos.User.Create(req.Email, username, req.Password)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		utils.Conflict(c, "该邮箱或用户名已被注册")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	h.issueLogin(c, user)
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Repos.User.FindByEmail(req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil || !h.Repos.User.CheckPassword(user, req.Password) {
		utils.Unauthorized(c, "邮箱或密码错误")
		return
	}

	h.issueLogin(c, user)
}

// issueLogin 签发 JWT，写入 Cookie 与 Session
func (h *Handler) issueLogin(c *gin.Context, user *model.User) {
	token, err := middleware.GenerateToken(user.ID, user.Email, user.Role, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetTokenCookie(c, token, h.Config.JWTExpiry)
	saveSessionUser(c, user)

	utils.Success(c, authResponse{Token: token, User: user})
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c)

	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()

	utils.SuccessWithMessage(c, "已退出登录", nil)
}

// Me 当前登录用户
func (h *Handler) Me(c *gin.Context) {
	user, err := h.Repos.User.FindByID(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		utils.Unauthorized(c, "")
		return
	}
	utils.Success(c, user)
}

// UpdateProfile 修改个人资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := currentUserID(c)
	err := h.Repos.User.UpdateProfile(userID, req.Username, req.AvatarURL, req.Bio)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		utils.Conflict(c, "用户名已被占用")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.Repos.User.FindByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		utils.Unauthorized(c, "")
		return
	}
	saveSessionUser(c, user)
	utils.Success(c, user)
}

// UpdatePassword 修改密码
func (h *Handler) UpdatePassword(c *gin.Context) {
	var req passwordRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := currentUserID(c)
	user, err := h.Repos.User.FindByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		utils.Unauthorized(c, "")
		return
	}

	if !h.Repos.User.CheckPassword(user, req.CurrentPassword) {
		utils.BadRequest(c, "当前密码错误")
		return
	}

	if err := h.Repos.User.UpdatePassword(userID, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "密码已更新", nil)
}
