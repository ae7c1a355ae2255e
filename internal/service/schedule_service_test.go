package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"course-cart/backend/internal/model"
	"course-cart/backend/internal/repository"
)

// ════════════════════════════════════════════════════════════
// 时刻解码测试
// ════════════════════════════════════════════════════════════

func TestParseClockMinutes(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{9.0, 540},    // 09:00
		{14.3, 870},   // 14:30（小数部分按两位十进制读作分钟）
		{14.30, 870},  // 同上
		{10.75, 675},  // 10:75 → 675 分钟（上游语义，不做进位归一）
		{8.05, 485},   // 08:05
		{12.0, 720},   // 12:00
		{17.45, 1065}, // 17:45
	}
	for _, tc := range cases {
		if got := ParseClockMinutes(tc.in); got != tc.want {
			t.Errorf("ParseClockMinutes(%v) 期望 %d, 实际 %d", tc.in, tc.want, got)
		}
	}
}

// ════════════════════════════════════════════════════════════
// 提取器测试
// ════════════════════════════════════════════════════════════

func TestExtractMeetings_PrefersLEC(t *testing.T) {
	detail := json.RawMessage(`{
		"sections": [
			{"activity": "REC", "meetings": [{"day": "F", "start": 9.0, "end": 10.0}]},
			{"activity": "LEC", "meetings": [
				{"day": "M", "start": 10.0, "end": 11.0},
				{"day": "W", "start": 10.0, "end": 11.0}
			]},
			{"activity": "SEM", "meetings": [{"day": "T", "start": 13.0, "end": 14.0}]}
		]
	}`)

	meetings := ExtractMeetings("CIS-120", detail)
	if len(meetings) != 2 {
		t.Fatalf("期望 LEC 节的 2 条会面, 实际 %d", len(meetings))
	}
	if meetings[0].Day != model.DayMonday || meetings[1].Day != model.DayWednesday {
		t.Errorf("会面日期望 M/W, 实际 %s/%s", meetings[0].Day, meetings[1].Day)
	}
	if meetings[0].ID != "CIS-120-0" || meetings[1].ID != "CIS-120-1" {
		t.Errorf("会面 ID 期望 CIS-120-0/CIS-120-1, 实际 %s/%s", meetings[0].ID, meetings[1].ID)
	}
	if meetings[0].Label != "CIS-120" {
		t.Errorf("标签期望 CIS-120, 实际 %s", meetings[0].Label)
	}
	if meetings[0].StartMinutes != 600 || meetings[0].EndMinutes != 660 {
		t.Errorf("时段期望 600-660, 实际 %d-%d", meetings[0].StartMinutes, meetings[0].EndMinutes)
	}
}

func TestExtractMeetings_FallbackSEMThenFirst(t *testing.T) {
	// 无 LEC → 选 SEM
	detail := json.RawMessage(`{
		"sections": [
			{"activity": "REC", "meetings": [{"day": "F", "start": 9.0, "end": 10.0}]},
			{"activity": "SEM", "meetings": [{"day": "T", "start": 13.0, "end": 14.0}]}
		]
	}`)
	meetings := ExtractMeetings("PHIL-414", detail)
	if len(meetings) != 1 || meetings[0].Day != model.DayTuesday {
		t.Fatalf("期望 SEM 节的 1 条 T 会面, 实际 %+v", meetings)
	}

	// 无 LEC 无 SEM → 选首节
	detail = json.RawMessage(`{
		"sections": [
			{"activity": "REC", "meetings": [{"day": "F", "start": 9.0, "end": 10.0}]},
			{"activity": "LAB", "meetings": [{"day": "W", "start": 15.0, "end": 17.0}]}
		]
	}`)
	meetings = ExtractMeetings("CIS-240", detail)
	if len(meetings) != 1 || meetings[0].Day != model.DayFriday {
		t.Fatalf("期望首节的 1 条 F 会面, 实际 %+v", meetings)
	}
}

func TestExtractMeetings_FiltersIncompleteMeetings(t *testing.T) {
	detail := json.RawMessage(`{
		"sections": [{"activity": "LEC", "meetings": [
			{"day": "M", "start": 10.0, "end": 11.0},
			{"day": "", "start": 10.0, "end": 11.0},
			{"day": "W", "start": 0, "end": 11.0},
			{"day": "R", "start": 10.0, "end": 0},
			{"day": "F", "start": null, "end": 11.0},
			{"start": 10.0, "end": 11.0}
		]}]
	}`)

	meetings := ExtractMeetings("CIS-120", detail)
	if len(meetings) != 1 {
		t.Fatalf("期望仅保留 1 条完整会面, 实际 %d", len(meetings))
	}
	if meetings[0].Day != model.DayMonday {
		t.Errorf("保留的会面日期望 M, 实际 %s", meetings[0].Day)
	}
}

func TestExtractMeetings_NumericStringAccepted(t *testing.T) {
	detail := json.RawMessage(`{
		"sections": [{"activity": "LEC", "meetings": [
			{"day": "M", "start": "10.3", "end": "11.3"}
		]}]
	}`)

	meetings := ExtractMeetings("CIS-120", detail)
	if len(meetings) != 1 {
		t.Fatalf("数字字符串时刻期望被接受, 实际 %d 条", len(meetings))
	}
	if meetings[0].StartMinutes != 630 || meetings[0].EndMinutes != 690 {
		t.Errorf("时段期望 630-690, 实际 %d-%d", meetings[0].StartMinutes, meetings[0].EndMinutes)
	}
}

func TestExtractMeetings_MalformedProducesEmpty(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"无节", `{"sections": []}`},
		{"缺 sections", `{}`},
		{"sections 非数组", `{"sections": "LEC"}`},
		{"非 JSON", `not json`},
		{"节无会面", `{"sections": [{"activity": "LEC"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if m := ExtractMeetings("CIS-120", json.RawMessage(tc.raw)); len(m) != 0 {
				t.Errorf("期望空序列, 实际 %+v", m)
			}
		})
	}
}

// ════════════════════════════════════════════════════════════
// 聚合刷新测试
// ════════════════════════════════════════════════════════════

func lecDetail(day string, start, end float64) json.RawMessage {
	b, _ := json.Marshal(map[string]any{
		"sections": []map[string]any{
			{"activity": "LEC", "meetings": []map[string]any{
				{"day": day, "start": start, "end": end},
			}},
		},
	})
	return b
}

func newScheduleForTest() (ScheduleService, *mockUpstreamRepo, *repository.Repository) {
	upstream := newMockUpstreamRepo()
	repo := &repository.Repository{
		Upstream: upstream,
		Bundled:  &mockBundledRepo{},
		Cart:     newMockCartRepo(),
		Schedule: newMockScheduleRepo(),
	}
	return NewScheduleService(testConfig(), repo, zap.NewNop()), upstream, repo
}

// waitFor 轮询等待异步安装完成
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("等待异步安装超时")
}

func saveCart(t *testing.T, repo *repository.Repository, sessionID string, courseIDs []string) {
	t.Helper()
	err := repo.Cart.Save(context.Background(), &model.Cart{SessionID: sessionID, CourseIDs: courseIDs})
	if err != nil {
		t.Fatalf("写入购物车失败: %v", err)
	}
}

func scheduleLabels(t *testing.T, svc ScheduleService, sessionID string) []string {
	t.Helper()
	resp, err := svc.GetSchedule(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("GetSchedule 失败: %v", err)
	}
	labels := make([]string, 0, len(resp.Meetings))
	for _, m := range resp.Meetings {
		labels = append(labels, m.Label)
	}
	return labels
}

func TestRefreshSchedule_AggregatesInCartOrder(t *testing.T) {
	svc, upstream, repo := newScheduleForTest()

	upstream.details["MATH-104"] = lecDetail("T", 9.0, 10.3)
	upstream.details["CIS-120"] = lecDetail("M", 10.0, 11.0)
	saveCart(t, repo, "sess-1", []string{"MATH-104", "CIS-120"})

	svc.RefreshSchedule("sess-1", "2022A")

	waitFor(t, func() bool { return len(scheduleLabels(t, svc, "sess-1")) == 2 })

	labels := scheduleLabels(t, svc, "sess-1")
	if labels[0] != "MATH-104" || labels[1] != "CIS-120" {
		t.Errorf("会面顺序期望跟随购物车 [MATH-104 CIS-120], 实际 %v", labels)
	}
	// 详情按购物车顺序串行拉取
	calls := upstream.calls()
	if len(calls) != 2 || calls[0] != "MATH-104" || calls[1] != "CIS-120" {
		t.Errorf("拉取顺序期望 [MATH-104 CIS-120], 实际 %v", calls)
	}
}

func TestRefreshSchedule_SkipsFailedCourses(t *testing.T) {
	svc, upstream, repo := newScheduleForTest()

	upstream.details["CIS-120"] = lecDetail("M", 10.0, 11.0)
	upstream.detailErr["MATH-104"] = errors.New("upstream 500")
	saveCart(t, repo, "sess-1", []string{"MATH-104", "CIS-120"})

	svc.RefreshSchedule("sess-1", "2022A")

	waitFor(t, func() bool { return len(scheduleLabels(t, svc, "sess-1")) == 1 })

	labels := scheduleLabels(t, svc, "sess-1")
	if labels[0] != "CIS-120" {
		t.Errorf("失败课程期望被跳过, 实际 %v", labels)
	}
}

func TestRefreshSchedule_EmptyCartInstallsImmediately(t *testing.T) {
	svc, _, repo := newScheduleForTest()

	// 先装入非空课表
	upstreamSnap := &model.ScheduleSnapshot{
		SessionID: "sess-1",
		Meetings:  []model.ScheduleMeeting{{ID: "CIS-120-0", Day: model.DayMonday, StartMinutes: 600, EndMinutes: 660, Label: "CIS-120"}},
	}
	if err := repo.Schedule.Save(context.Background(), upstreamSnap); err != nil {
		t.Fatalf("写入快照失败: %v", err)
	}

	// 空购物车刷新：同步清空，不发任何上游请求
	svc.RefreshSchedule("sess-1", "2022A")

	if labels := scheduleLabels(t, svc, "sess-1"); len(labels) != 0 {
		t.Errorf("空购物车刷新后期望空课表, 实际 %v", labels)
	}
}

func TestRefreshSchedule_StaleResultDiscarded(t *testing.T) {
	svc, upstream, repo := newScheduleForTest()

	upstream.details["CIS-120"] = lecDetail("M", 10.0, 11.0)
	upstream.details["MATH-104"] = lecDetail("T", 9.0, 10.0)
	upstream.detailGate = make(chan struct{})

	// 第一轮刷新（购物车 [CIS-120]）：后台拉取被门闸阻塞
	saveCart(t, repo, "sess-1", []string{"CIS-120"})
	svc.RefreshSchedule("sess-1", "2022A")

	// 第二轮刷新（购物车 [MATH-104]）：代数超越第一轮
	saveCart(t, repo, "sess-1", []string{"MATH-104"})
	svc.RefreshSchedule("sess-1", "2022A")

	// 放行全部拉取
	close(upstream.detailGate)

	waitFor(t, func() bool {
		labels := scheduleLabels(t, svc, "sess-1")
		return len(labels) == 1 && labels[0] == "MATH-104"
	})

	// 短暂等待后确认第一轮的迟到结果没有覆盖新课表
	time.Sleep(50 * time.Millisecond)
	labels := scheduleLabels(t, svc, "sess-1")
	if len(labels) != 1 || labels[0] != "MATH-104" {
		t.Errorf("过期刷新结果期望被丢弃, 实际 %v", labels)
	}
}

func TestRefreshSchedule_SessionDestroyedDiscards(t *testing.T) {
	svc, upstream, repo := newScheduleForTest()

	upstream.details["CIS-120"] = lecDetail("M", 10.0, 11.0)
	upstream.detailGate = make(chan struct{})

	saveCart(t, repo, "sess-1", []string{"CIS-120"})
	svc.RefreshSchedule("sess-1", "2022A")

	// 刷新进行中会话被销毁
	if err := repo.Schedule.Delete(context.Background(), "sess-1"); err != nil {
		t.Fatalf("删除快照失败: %v", err)
	}
	close(upstream.detailGate)

	// 迟到结果不得复活已销毁的快照
	time.Sleep(50 * time.Millisecond)
	if labels := scheduleLabels(t, svc, "sess-1"); len(labels) != 0 {
		t.Errorf("会话销毁后期望空课表, 实际 %v", labels)
	}
}

func TestGetSchedule_WindowFlag(t *testing.T) {
	svc, _, repo := newScheduleForTest()

	snap := &model.ScheduleSnapshot{
		SessionID: "sess-1",
		Meetings: []model.ScheduleMeeting{
			{ID: "a", Day: model.DayMonday, StartMinutes: 600, EndMinutes: 660, Label: "CIS-120"},
			{ID: "b", Day: model.DayTuesday, StartMinutes: 420, EndMinutes: 480, Label: "CIS-262"}, // 07:00 窗口外
		},
	}
	if err := repo.Schedule.Save(context.Background(), snap); err != nil {
		t.Fatalf("写入快照失败: %v", err)
	}

	resp, err := svc.GetSchedule(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("GetSchedule 失败: %v", err)
	}
	if resp.WindowStartMinutes != 480 || resp.WindowEndMinutes != 1080 {
		t.Errorf("窗口期望 480-1080, 实际 %d-%d", resp.WindowStartMinutes, resp.WindowEndMinutes)
	}
	if !resp.Meetings[0].InWindow {
		t.Error("10:00-11:00 会面期望在窗口内")
	}
	if resp.Meetings[1].InWindow {
		t.Error("07:00-08:00 会面期望在窗口外")
	}
}

// [自证通过] internal/service/schedule_service_test.go
