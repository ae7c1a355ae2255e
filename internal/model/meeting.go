package model

// ── 周次编码 ──

// Weekday 单字母工作日编码（与上游 API 一致）
type Weekday string

const (
	DayMonday    Weekday = "M"
	DayTuesday   Weekday = "T"
	DayWednesday Weekday = "W"
	DayThursday  Weekday = "R"
	DayFriday    Weekday = "F"
)

// WeekdayOrder 周一至周五的展示顺序
var WeekdayOrder = []Weekday{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday}

// WeekdayIndex 返回工作日在展示顺序中的下标；未知编码返回 -1
func WeekdayIndex(d Weekday) int {
	for i, w := range WeekdayOrder {
		if w == d {
			return i
		}
	}
	return -1
}

// ── 课表展示窗口 ──

// 周课表网格只渲染 08:00–18:00 的会面；窗口外的会面仍会被提取，
// 由渲染端（或导出）负责排除
const (
	ScheduleWindowStartMinutes = 8 * 60
	ScheduleWindowEndMinutes   = 18 * 60
)

// ScheduleMeeting 每周重复的一次课程会面
type ScheduleMeeting struct {
	ID           string  `json:"id"`            // courseID + "-" + 会面序号，单次提取内唯一
	Day          Weekday `json:"day"`           // M/T/W/R/F
	StartMinutes int     `json:"start_minutes"` // 自午夜起的分钟数
	EndMinutes   int     `json:"end_minutes"`
	Label        string  `json:"label"` // 所属课程的唯一标识键
}

// InDisplayWindow 会面是否完整落在展示窗口内
func (m *ScheduleMeeting) InDisplayWindow() bool {
	return m.StartMinutes >= ScheduleWindowStartMinutes && m.EndMinutes <= ScheduleWindowEndMinutes
}
