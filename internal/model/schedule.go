package model

import "time"

// ScheduleSnapshot 某会话当前购物车对应的聚合课表快照
//
// 每次购物车成员或顺序变化都会整体重算；Generation 单调递增，
// 迟到的刷新结果若与当前代数不符则被丢弃（陈旧结果永不覆盖新状态）
type ScheduleSnapshot struct {
	SessionID  string            `json:"session_id"`
	Generation uint64            `json:"generation"`
	Meetings   []ScheduleMeeting `json:"meetings"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Clone 深拷贝
func (s *ScheduleSnapshot) Clone() *ScheduleSnapshot {
	dup := *s
	dup.Meetings = append([]ScheduleMeeting(nil), s.Meetings...)
	return &dup
}
