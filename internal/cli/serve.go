package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nlook/sparkcoach/internal/agent"
	"github.com/nlook/sparkcoach/internal/roadmap"
	"github.com/nlook/sparkcoach/internal/server"
	"github.com/nlook/sparkcoach/internal/session"
)

// serveCmd 代表 serve 命令
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 SparkCoach HTTP 服务",
	Long: `启动 HTTP 服务，提供对话、历史查询和职业路线图生成接口，
并在后台定期清理过期会话。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: parseLogLevel(cfg.LogLevel),
		}))
		slog.SetDefault(logger)

		// 1. 初始化会话存储
		store, err := session.Open(ctx, cfg.Session)
		if err != nil {
			return fmt.Errorf("打开会话存储失败: %w", err)
		}
		defer store.Close()
		slog.Info("session store ready", "path", cfg.Session.Path)

		// 2. 初始化 LLM，未配置凭证时降级运行
		llm, err := agent.NewCompleter(ctx, cfg.Ark)
		if err != nil {
			return fmt.Errorf("初始化 LLM 失败: %w", err)
		}
		if cfg.Degraded() {
			slog.Warn("running in degraded mode, LLM credentials not configured")
		}

		// 3. 构建教练和路线图生成器
		coach, err := agent.NewCoach(ctx, llm, store)
		if err != nil {
			return fmt.Errorf("构建教练 Graph 失败: %w", err)
		}
		coach.WithAudit(store)

		handler := server.NewHandler(coach, roadmap.NewGenerator(llm))
		srv := server.New(cfg.Server, handler)

		// 4. 启动后台清理
		retCfg := cfg.Retention
		retCfg.OnError = func(err error) {
			slog.Error("retention task failed", "error", err)
		}
		ret, err := session.NewRetention(store, retCfg)
		if err != nil {
			return fmt.Errorf("创建清理任务失败: %w", err)
		}
		go func() {
			if err := ret.Run(ctx); err != nil {
				slog.Error("retention loop exited", "error", err)
			}
		}()

		// 5. 启动 HTTP 服务
		go func() {
			slog.Info("server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("server failed", "error", err)
				cancel()
			}
		}()

		// 6. 等待信号，优雅关闭
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigChan:
			slog.Info("shutting down", "signal", sig.String())
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("关闭服务失败: %w", err)
		}
		return nil
	},
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
