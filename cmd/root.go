// Package cmd 命令行入口：serve 启动服务，seed 导入数据，validate 校验数据文件
package cmd

import (
	"context"
	"os"

	"github.com/BerniceZTT/airlab_end/config"
	"github.com/BerniceZTT/airlab_end/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var (
	// debug 覆盖 GIN_MODE 的日志级别
	debug bool
	// dataDir 覆盖 DATA_DIR
	dataDir string

	rootCmd = &cobra.Command{
		Use:           "airlab",
		Short:         "AIR Lab website content service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 不带子命令时启动服务
			return runServe(cmd, args)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "fixture directory (overrides DATA_DIR)")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newValidateCommand())
}

// Execute 运行根命令
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// loadConfig 读取配置并应用命令行覆盖，同时初始化日志
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	if debug {
		cfg.Debug = true
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	utils.InitLogger(cfg.Debug)
	// 设置Gin模式
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	return cfg
}

// ExitCode 打印错误并返回进程退出码
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	utils.Logger.Error().Err(err).Msg("命令执行失败")
	os.Stderr.WriteString(err.Error() + "\n")
	return 1
}
