package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/reelcircle/internal/utils"
)

// ==================== 好友 ====================

// MyFriends 我的好友
func (h *Handler) MyFriends(c *gin.Context) {
	friends, err := h.Friends.Friends(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, friends)
}

// MyFriendRequests 待处理的好友申请
func (h *Handler) MyFriendRequests(c *gin.Context) {
	reqs, err := h.Friends.Requests(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, reqs)
}

// SendFriendRequest 向用户发起好友申请
func (h *Handler) SendFriendRequest(c *gin.Context) {
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}
	f, err := h.Friends.Request(c.Request.Context(), currentUserID(c), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, f)
}

// AcceptFriendRequest 接受申请
func (h *Handler) AcceptFriendRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	f, err := h.Friends.Accept(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, f)
}

// RejectFriendRequest 拒绝申请
func (h *Handler) RejectFriendRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	f, err := h.Friends.Reject(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, f)
}

// CancelFriendRequest 撤回申请
func (h *Handler) CancelFriendRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Friends.Cancel(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "申请已撤回", nil)
}

// Unfriend 解除好友
func (h *Handler) Unfriend(c *gin.Context) {
	friendID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Friends.Unfriend(c.Request.Context(), currentUserID(c), friendID); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "已解除好友关系", nil)
}
