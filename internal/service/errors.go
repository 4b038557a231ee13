package service

import "errors"

// 业务错误，handler 层用 errors.Is 映射为 HTTP 状态码
var (
	ErrNotFound          = errors.New("资源不存在")
	ErrForbidden         = errors.New("没有权限")
	ErrSelfFriendship    = errors.New("不能添加自己为好友")
	ErrFriendshipExists  = errors.New("好友关系已存在")
	ErrInvalidTransition = errors.New("当前状态不允许该操作")
	ErrInvalidSettings   = errors.New("推荐配置无效")
	ErrDataUnavailable   = errors.New("推荐数据暂不可用")
)
