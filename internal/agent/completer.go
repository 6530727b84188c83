package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ArkConfig 为 Ark ChatModel 的连接配置。
type ArkConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	ModelID string        `mapstructure:"model_id"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Completer 是 LLM 完成能力的端口：给定 system 指令和 user 指令，返回生成文本。
// 能力可能不可用（无凭证）或调用失败，调用方必须准备降级路径。
type Completer interface {
	Complete(ctx context.Context, system string, user string) (string, error)
}

// Unavailable 是 Completer 的降级实现：所有调用都以 ErrLLMUnavailable 失败。
// 在测试中注入它即可覆盖全部 fallback 路径。
type Unavailable struct{}

func (Unavailable) Complete(context.Context, string, string) (string, error) {
	return "", ErrLLMUnavailable
}

// NewCompleter 根据配置初始化 LLM 完成能力。
// 凭证缺失时返回 Unavailable 而不是报错：agent 必须能在无 LLM 时降级运行。
func NewCompleter(ctx context.Context, cfg ArkConfig) (Completer, error) {
	if cfg.APIKey == "" || cfg.ModelID == "" {
		return Unavailable{}, nil
	}

	cm, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.ModelID,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model failed: %w", err)
	}

	return &arkCompleter{cm: cm, timeout: cfg.Timeout}, nil
}

// arkCompleter 用 Ark ChatModel 实现 Completer。
type arkCompleter struct {
	cm      model.BaseChatModel
	timeout time.Duration
}

// Complete 同步调用 ChatModel。单次调用有界等待，失败不重试：
// 任何错误统一归为 ErrLLMCall，由节点侧选择降级输出。
func (c *arkCompleter) Complete(ctx context.Context, system string, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}

	out, err := c.cm.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLLMCall, err)
	}
	return strings.TrimSpace(out.Content), nil
}
