package model

import "time"

// Cart 购物车 — 有序、去重、容量受限的课程标识键序列
// 随会话创建为空，随会话过期销毁，不做跨会话持久化
type Cart struct {
	SessionID string    `json:"session_id"`
	CourseIDs []string  `json:"course_ids"`
	Notice    string    `json:"notice,omitempty"` // 最近一次操作产生的用户可见提示（如"购物车已满"）
	UpdatedAt time.Time `json:"updated_at"`
}

// Contains 课程是否已在购物车中
func (c *Cart) Contains(courseID string) bool {
	for _, id := range c.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// Clone 深拷贝（存储层返回副本，避免调用方持有共享切片）
func (c *Cart) Clone() *Cart {
	dup := *c
	dup.CourseIDs = append([]string(nil), c.CourseIDs...)
	return &dup
}
