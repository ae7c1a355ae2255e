package service

import (
	"context"
	"encoding/json"
	"sync"

	"course-cart/backend/internal/model"
	apperrors "course-cart/backend/pkg/errors"
)

// ── Mock UpstreamRepository ──

type mockUpstreamRepo struct {
	mu sync.Mutex

	catalog    []json.RawMessage
	catalogErr error

	details    map[string]json.RawMessage // courseID → 详情记录
	detailErr  map[string]error           // courseID → 错误
	detailGate chan struct{}              // 非 nil 时每次详情拉取先等待放行（用于时序测试）

	detailCalls []string // 详情拉取的调用顺序
}

func newMockUpstreamRepo() *mockUpstreamRepo {
	return &mockUpstreamRepo{
		details:   make(map[string]json.RawMessage),
		detailErr: make(map[string]error),
	}
}

func (m *mockUpstreamRepo) FetchTermCatalog(_ context.Context, _ string) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.catalogErr != nil {
		return nil, m.catalogErr
	}
	return m.catalog, nil
}

func (m *mockUpstreamRepo) FetchCourseDetail(_ context.Context, _ string, courseID string) (json.RawMessage, error) {
	if m.detailGate != nil {
		<-m.detailGate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailCalls = append(m.detailCalls, courseID)

	if err, ok := m.detailErr[courseID]; ok {
		return nil, err
	}
	if d, ok := m.details[courseID]; ok {
		return d, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUpstreamRepo) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.detailCalls))
	copy(out, m.detailCalls)
	return out
}

// ── Mock BundledRepository ──

type mockBundledRepo struct {
	courses []model.Course
}

func (m *mockBundledRepo) List() []model.Course {
	return m.courses
}

// ── Mock CartRepository ──

type mockCartRepo struct {
	mu    sync.Mutex
	carts map[string]*model.Cart
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]*model.Cart)}
}

func (m *mockCartRepo) Get(_ context.Context, sessionID string) (*model.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[sessionID]; ok {
		return c.Clone(), nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCartRepo) Save(_ context.Context, cart *model.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.SessionID] = cart.Clone()
	return nil
}

func (m *mockCartRepo) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	mu    sync.Mutex
	snaps map[string]*model.ScheduleSnapshot
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{snaps: make(map[string]*model.ScheduleSnapshot)}
}

func (m *mockScheduleRepo) Get(_ context.Context, sessionID string) (*model.ScheduleSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.snaps[sessionID]; ok {
		return s.Clone(), nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockScheduleRepo) Save(_ context.Context, snap *model.ScheduleSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.SessionID] = snap.Clone()
	return nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, sessionID)
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
