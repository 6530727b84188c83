package agent

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
)

// SessionStore 抽象会话状态的持久化，thread 未知时 Load 返回 (nil, nil)。
type SessionStore interface {
	Load(ctx context.Context, threadID string) (*CoachState, error)
	Save(ctx context.Context, threadID string, state CoachState) error
	Delete(ctx context.Context, threadID string) (bool, error)
}

// RunLog 记录一次 Graph 运行的审计信息。
type RunLog struct {
	TraceID      string
	ThreadID     string
	EntryNode    string
	PhaseBefore  string
	PhaseAfter   string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// RunRecorder 接收运行审计记录，写入失败不影响对话。
type RunRecorder interface {
	RecordRun(ctx context.Context, log RunLog) error
}

// Coach 驱动整个教练会话：加载状态、执行 Graph、持久化结果。
// 同一 thread 上的执行互斥，不同 thread 相互独立。
type Coach struct {
	graph compose.Runnable[CoachState, CoachState]
	store SessionStore
	audit RunRecorder

	// threadID -> *sync.Mutex
	locks sync.Map
}

// NewCoach 编译 Graph 并返回可用的教练实例。
func NewCoach(ctx context.Context, llm Completer, store SessionStore) (*Coach, error) {
	graph, err := BuildGraph(ctx, llm)
	if err != nil {
		return nil, err
	}
	return &Coach{graph: graph, store: store}, nil
}

// WithAudit 挂载运行审计记录器。
func (c *Coach) WithAudit(audit RunRecorder) *Coach {
	c.audit = audit
	return c
}

// StartResult 为 Start 的返回值。
type StartResult struct {
	Greeting string
	Phase    string
}

// SubmitResult 为 Submit 的返回值。
// Response 是本轮新产生的全部助手消息拼接，Recommendations 仅在会话完成后非空。
type SubmitResult struct {
	Response        string
	Phase           string
	Recommendations []CareerMatch
}

// HistoryResult 为 History 的返回值，未知 thread 的 Phase 为 "new"。
type HistoryResult struct {
	Messages        []Turn
	Profile         UserProfile
	Recommendations []CareerMatch
	Phase           string
	Completeness    float64
}

// Turn 是对外暴露的一条对话消息。
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *Coach) lock(threadID string) *sync.Mutex {
	mu, _ := c.locks.LoadOrStore(threadID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Start 开始或恢复一段会话，直接执行 Greeting 节点并持久化。
// 对老用户会带上之前聊过的兴趣点。
func (c *Coach) Start(ctx context.Context, threadID string) (StartResult, error) {
	mu := c.lock(threadID)
	mu.Lock()
	defer mu.Unlock()

	state, err := c.loadOrNew(ctx, threadID)
	if err != nil {
		return StartResult{}, err
	}

	next, err := GreetingNode(ctx, state)
	if err != nil {
		return StartResult{}, err
	}
	if err := c.store.Save(ctx, threadID, next); err != nil {
		return StartResult{}, err
	}

	greeting := ""
	if n := len(next.Messages); n > 0 {
		greeting = next.Messages[n-1].Content
	}
	return StartResult{Greeting: greeting, Phase: next.Phase}, nil
}

// Submit 处理一条用户消息，执行一轮 Graph 并持久化结果。
// Graph 执行失败时保留运行前的状态（用户消息在内），返回道歉话术。
func (c *Coach) Submit(ctx context.Context, threadID, message string) (SubmitResult, error) {
	mu := c.lock(threadID)
	mu.Lock()
	defer mu.Unlock()

	traceID := uuid.NewString()
	ctx = WithTraceID(WithThreadID(ctx, threadID), traceID)

	state, err := c.loadOrNew(ctx, threadID)
	if err != nil {
		return SubmitResult{}, err
	}

	state.Messages = append(state.Messages, schema.UserMessage(message))
	before := len(state.Messages)

	log := RunLog{
		TraceID:     traceID,
		ThreadID:    threadID,
		EntryNode:   entryTarget(state),
		PhaseBefore: state.Phase,
		StartedAt:   time.Now(),
	}

	final, runErr := c.graph.Invoke(ctx, state)
	if runErr != nil {
		// 保留用户消息，丢弃半成品状态，下一轮从运行前的位置重试
		if err := c.store.Save(ctx, threadID, state); err != nil {
			return SubmitResult{}, err
		}
		log.PhaseAfter = PhaseError
		log.ErrorMessage = runErr.Error()
		log.FinishedAt = time.Now()
		c.record(ctx, log)
		return SubmitResult{Response: fallbackTurnApology, Phase: PhaseError}, nil
	}

	if err := c.store.Save(ctx, threadID, final); err != nil {
		return SubmitResult{}, err
	}

	log.PhaseAfter = final.Phase
	log.FinishedAt = time.Now()
	c.record(ctx, log)

	result := SubmitResult{
		Response: joinAssistantReplies(final.Messages, before),
		Phase:    final.Phase,
	}
	if final.Phase == PhaseCompleted {
		result.Recommendations = final.TopRecommendations
	}
	return result, nil
}

// History 返回一个 thread 的完整对话和画像，未知 thread 的 Phase 为 "new"。
func (c *Coach) History(ctx context.Context, threadID string) (HistoryResult, error) {
	state, err := c.store.Load(ctx, threadID)
	if err != nil {
		return HistoryResult{}, err
	}
	if state == nil {
		return HistoryResult{Phase: "new"}, nil
	}

	turns := make([]Turn, 0, len(state.Messages))
	for _, msg := range state.Messages {
		turns = append(turns, Turn{Role: string(msg.Role), Content: msg.Content})
	}
	return HistoryResult{
		Messages:        turns,
		Profile:         state.UserProfile,
		Recommendations: state.TopRecommendations,
		Phase:           state.Phase,
		Completeness:    state.ProfileCompleteness,
	}, nil
}

// Reset 删除一个 thread 的会话状态，返回是否确实存在过。
// 幂等，重复调用返回 false 而非错误。
func (c *Coach) Reset(ctx context.Context, threadID string) (bool, error) {
	mu := c.lock(threadID)
	mu.Lock()
	defer mu.Unlock()

	return c.store.Delete(ctx, threadID)
}

func (c *Coach) loadOrNew(ctx context.Context, threadID string) (CoachState, error) {
	state, err := c.store.Load(ctx, threadID)
	if err != nil {
		return CoachState{}, err
	}
	if state == nil {
		return NewState(), nil
	}
	return *state, nil
}

func (c *Coach) record(ctx context.Context, log RunLog) {
	if c.audit == nil {
		return
	}
	// 审计写失败不阻断对话
	_ = c.audit.RecordRun(ctx, log)
}

// joinAssistantReplies 拼接下标 from 之后新追加的助手消息。
func joinAssistantReplies(messages []*schema.Message, from int) string {
	var parts []string
	for _, msg := range messages[min(from, len(messages)):] {
		if msg.Role == schema.Assistant && msg.Content != "" {
			parts = append(parts, msg.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}
