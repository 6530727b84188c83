package agent

import (
	"context"
	"testing"
)

// memoryStore 为测试用的内存版 SessionStore。
type memoryStore struct {
	states map[string]CoachState
}

func newMemoryStore() *memoryStore {
	return &memoryStore{states: make(map[string]CoachState)}
}

func (m *memoryStore) Load(ctx context.Context, threadID string) (*CoachState, error) {
	state, ok := m.states[threadID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (m *memoryStore) Save(ctx context.Context, threadID string, state CoachState) error {
	m.states[threadID] = state
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, threadID string) (bool, error) {
	_, ok := m.states[threadID]
	delete(m.states, threadID)
	return ok, nil
}

// memoryRecorder 收集审计记录。
type memoryRecorder struct {
	logs []RunLog
}

func (m *memoryRecorder) RecordRun(ctx context.Context, log RunLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func newTestCoach(t *testing.T, llm Completer) (*Coach, *memoryStore, *memoryRecorder) {
	t.Helper()
	store := newMemoryStore()
	coach, err := NewCoach(context.Background(), llm, store)
	if err != nil {
		t.Fatalf("NewCoach failed: %v", err)
	}
	audit := &memoryRecorder{}
	return coach.WithAudit(audit), store, audit
}

func TestCoachStart(t *testing.T) {
	coach, store, _ := newTestCoach(t, Unavailable{})
	ctx := context.Background()

	res, err := coach.Start(ctx, "t1")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if res.Phase != PhaseDiscovery {
		t.Errorf("expected phase discovery, got %s", res.Phase)
	}
	if res.Greeting == "" {
		t.Error("expected non-empty greeting")
	}
	if _, ok := store.states["t1"]; !ok {
		t.Error("expected state persisted after Start")
	}
}

// TestCoachDegradedFullRun 在 LLM 不可用的情况下把会话跑到 completed。
// 每轮 Submit 问题数恰好加一，路由 7 轮后进入分析并以降级话术收尾。
func TestCoachDegradedFullRun(t *testing.T) {
	coach, _, audit := newTestCoach(t, Unavailable{})
	ctx := context.Background()

	if _, err := coach.Start(ctx, "t1"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	var last SubmitResult
	for i := 0; i < 7; i++ {
		res, err := coach.Submit(ctx, "t1", "I like making beats")
		if err != nil {
			t.Fatalf("Submit %d failed: %v", i+1, err)
		}
		if res.Response == "" {
			t.Fatalf("Submit %d: empty response", i+1)
		}
		last = res
	}

	if last.Phase != PhaseCompleted {
		t.Fatalf("expected phase completed after 7 turns, got %s", last.Phase)
	}
	// 无 LLM 时画像为空，推荐列表也为空，但仍有收尾消息
	if len(last.Recommendations) != 0 {
		t.Errorf("expected no recommendations in degraded mode, got %v", last.Recommendations)
	}

	// 之前的轮次不应返回推荐
	history, err := coach.History(ctx, "t1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if history.Phase != PhaseCompleted {
		t.Errorf("history phase = %s, want completed", history.Phase)
	}
	if len(history.Messages) == 0 {
		t.Error("expected history messages")
	}

	if len(audit.logs) != 7 {
		t.Fatalf("expected 7 audit records, got %d", len(audit.logs))
	}
	if audit.logs[0].EntryNode != NodeGreeting {
		t.Errorf("first run entry = %s, want greeting", audit.logs[0].EntryNode)
	}
	if got := audit.logs[len(audit.logs)-1].PhaseAfter; got != PhaseCompleted {
		t.Errorf("final run phase_after = %s, want completed", got)
	}
}

func TestCoachThreadsIsolated(t *testing.T) {
	coach, _, _ := newTestCoach(t, Unavailable{})
	ctx := context.Background()

	if _, err := coach.Submit(ctx, "a", "hello"); err != nil {
		t.Fatalf("Submit a failed: %v", err)
	}
	if _, err := coach.Submit(ctx, "a", "more"); err != nil {
		t.Fatalf("Submit a failed: %v", err)
	}
	if _, err := coach.Submit(ctx, "b", "hi"); err != nil {
		t.Fatalf("Submit b failed: %v", err)
	}

	ha, _ := coach.History(ctx, "a")
	hb, _ := coach.History(ctx, "b")
	if len(ha.Messages) <= len(hb.Messages) {
		t.Errorf("thread a (%d msgs) should be longer than b (%d msgs)", len(ha.Messages), len(hb.Messages))
	}
}

func TestCoachHistoryUnknownThread(t *testing.T) {
	coach, _, _ := newTestCoach(t, Unavailable{})

	history, err := coach.History(context.Background(), "nope")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if history.Phase != "new" {
		t.Errorf("expected phase new for unknown thread, got %s", history.Phase)
	}
	if len(history.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(history.Messages))
	}
}

func TestCoachResetIdempotent(t *testing.T) {
	coach, _, _ := newTestCoach(t, Unavailable{})
	ctx := context.Background()

	if _, err := coach.Submit(ctx, "t1", "hello"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	existed, err := coach.Reset(ctx, "t1")
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if !existed {
		t.Error("expected first reset to report existing session")
	}

	existed, err = coach.Reset(ctx, "t1")
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if existed {
		t.Error("expected second reset to report missing session")
	}

	// Reset 之后从头开始
	history, _ := coach.History(ctx, "t1")
	if history.Phase != "new" {
		t.Errorf("expected fresh thread after reset, got phase %s", history.Phase)
	}
}
