package ui

import (
	"context"

	"github.com/nlook/sparkcoach/internal/agent"
)

// CoachBackend 抽象对话后端，console 和 tui 共用。
type CoachBackend interface {
	Start(ctx context.Context, threadID string) (agent.StartResult, error)
	Submit(ctx context.Context, threadID, message string) (agent.SubmitResult, error)
}

type ChatUI interface {
	Run(ctx context.Context, backend CoachBackend, opts ChatOptions) error
}

type ChatOptions struct {
	// ThreadID 为会话线程标识，留空时由调用方生成。
	ThreadID string
}
