package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nlook/sparkcoach/internal/agent"
	"github.com/nlook/sparkcoach/internal/session"
	"github.com/nlook/sparkcoach/internal/tui"
	"github.com/nlook/sparkcoach/internal/ui"
)

var (
	chatUI     string
	chatThread string
	chatNoLLM  bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "进入交互式对话模式",
	Long: `进入职业探索对话。教练会通过提问了解你的兴趣、能力和工作偏好，
然后给出职业匹配推荐和行动计划。会话按 thread 持久化，可随时继续。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		store, err := session.Open(ctx, cfg.Session)
		if err != nil {
			return fmt.Errorf("打开会话存储失败: %w", err)
		}
		defer store.Close()

		var llm agent.Completer = agent.Unavailable{}
		if !chatNoLLM && !cfg.Degraded() {
			llm, err = agent.NewCompleter(ctx, cfg.Ark)
			if err != nil {
				return fmt.Errorf("初始化 LLM 失败: %w", err)
			}
		}

		coach, err := agent.NewCoach(ctx, llm, store)
		if err != nil {
			return fmt.Errorf("构建教练 Graph 失败: %w", err)
		}
		coach.WithAudit(store)

		var uiImpl ui.ChatUI
		switch chatUI {
		case "console", "":
			uiImpl = &ui.ConsoleChatUI{In: os.Stdin, Out: os.Stdout}
		case "tui":
			uiImpl = &tui.ChatUI{}
		default:
			return fmt.Errorf("未知 ui 类型: %s (支持: console, tui)", chatUI)
		}

		return uiImpl.Run(ctx, coach, ui.ChatOptions{ThreadID: chatThread})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatUI, "ui", "console", "交互界面类型: console/tui")
	chatCmd.Flags().StringVar(&chatThread, "thread", "", "会话线程 ID，留空时新建")
	chatCmd.Flags().BoolVar(&chatNoLLM, "no-llm", false, "不调用 LLM，以降级模式运行")
}
