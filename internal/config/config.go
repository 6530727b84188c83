package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nlook/sparkcoach/internal/agent"
	"github.com/nlook/sparkcoach/internal/session"
)

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// AllowedOrigins 为允许跨域访问的前端地址。
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Config struct {
	Session   session.Config          `mapstructure:"session"`
	Retention session.RetentionConfig `mapstructure:"retention"`
	Server    ServerConfig            `mapstructure:"server"`
	Ark       agent.ArkConfig         `mapstructure:"ark"`
	LogLevel  string                  `mapstructure:"log_level"`
}

func Load(cfgFile string) (*Config, error) {
	// 1. 初始化 Viper
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// 默认搜索路径
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.sparkcoach")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("SPARKCOACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Viper 的 Unmarshal 只处理它“知道”的 key（来自配置文件、Defaults 或显式 Bind），
	// 所以所有 key 先在 setDefaults 里注册一遍。
	setDefaults(v)

	// 2. 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件未找到，使用默认值
	}

	// 3. 反序列化 (文件/环境变量 覆盖 默认值)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// 4. 验证关键配置
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	// Ark 凭证可以缺省：此时运行在降级模式，所有 LLM 节点走兜底话术。
	// 但只配一半属于配置错误，直接报出来。
	if (c.Ark.APIKey == "") != (c.Ark.ModelID == "") {
		return fmt.Errorf("ark.api_key and ark.model_id must be set together (or both left empty for degraded mode)")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if !c.Session.InMemory && c.Session.Path == "" {
		return fmt.Errorf("session.path is required when session.in_memory is false")
	}
	return nil
}

// Degraded 表示是否未配置 LLM 凭证，运行在降级模式。
func (c *Config) Degraded() bool {
	return c.Ark.APIKey == "" || c.Ark.ModelID == ""
}

func setDefaults(v *viper.Viper) {
	// -------------------------------------------------------------------------
	// Global Defaults (全局默认值)
	// -------------------------------------------------------------------------
	v.SetDefault("log_level", "info")

	// -------------------------------------------------------------------------
	// Session Defaults (会话存储默认值)
	// -------------------------------------------------------------------------
	v.SetDefault("session.path", "sparkcoach.db")
	v.SetDefault("session.in_memory", false)
	v.SetDefault("session.enable_wal", true)
	v.SetDefault("session.busy_timeout", 5*time.Second)

	// -------------------------------------------------------------------------
	// Retention Defaults (数据清理默认值)
	// -------------------------------------------------------------------------
	v.SetDefault("retention.interval", time.Hour)
	v.SetDefault("retention.keep_completed", 30*24*time.Hour)
	v.SetDefault("retention.keep_idle", 90*24*time.Hour)
	v.SetDefault("retention.keep_runs", 14*24*time.Hour)
	v.SetDefault("retention.batch_rows", 500)
	v.SetDefault("retention.idle_sleep", 50*time.Millisecond)

	// -------------------------------------------------------------------------
	// Server Defaults (HTTP 服务默认值)
	// -------------------------------------------------------------------------
	v.SetDefault("server.addr", "127.0.0.1:8000")
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// -------------------------------------------------------------------------
	// Ark AI Defaults (AI 模型默认值)
	// -------------------------------------------------------------------------
	v.SetDefault("ark.api_key", "")
	v.SetDefault("ark.model_id", "")
	v.SetDefault("ark.base_url", "https://ark.cn-beijing.volces.com/api/v3")
	v.SetDefault("ark.timeout", 60*time.Second)

	v.BindEnv("ark.api_key", "ARK_API_KEY")
	v.BindEnv("ark.model_id", "ARK_MODEL_ID")
	v.BindEnv("ark.base_url", "ARK_BASE_URL")
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Session: session.Config{
			Path:        "sparkcoach.db",
			EnableWAL:   true,
			BusyTimeout: 5 * time.Second,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Ark: agent.ArkConfig{
			BaseURL: "https://ark.cn-beijing.volces.com/api/v3",
			Timeout: 60 * time.Second,
		},
	}
}
