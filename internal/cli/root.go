package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nlook/sparkcoach/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd 是没有子命令时调用的基础命令
var rootCmd = &cobra.Command{
	Use:   "sparkcoach",
	Short: "SparkCoach 是一个娱乐行业职业探索教练",
	Long: `SparkCoach 通过自然对话帮助年轻人发现自己在娱乐行业的
兴趣方向，给出职业匹配推荐和可执行的行动计划。`,
}

// Execute 将所有子命令添加到根命令并适当设置标志。
// 这由 main.main() 调用。它只需要对 rootCmd 调用一次。
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件（默认按 ./config.yaml、$HOME/.sparkcoach/config.yaml 搜索）")
}

// initConfig 读取配置文件和环境变量（如果已设置）。
func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
}
