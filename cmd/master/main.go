/*
 * @author: sun977
 * @date: 2025.09.05
 * @description: 主程序入口
 * @func: 解析命令行、初始化应用、启动服务器、等待中断信号
 */

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"neoadmin/internal/app/master"
	systemHandler "neoadmin/internal/handler/system"

	"github.com/spf13/cobra"
)

var opts master.Options

// rootCmd 默认直接启动服务
var rootCmd = &cobra.Command{
	Use:   "neoadmin",
	Short: "neoadmin 后台管理服务",
	Long: `neoadmin 提供用户、角色、菜单、API、部门的管理与基于角色的接口权限控制.

示例:
  1.使用默认配置目录启动
	neoadmin
  2.指定配置目录与环境, 并监听配置变化
	neoadmin --config ./configs --env production --watch
`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("build_time: %s\ngit_commit: %s\ngo_version: %s\n",
			systemHandler.BuildTime, systemHandler.GitCommit, runtime.Version())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "配置文件目录 (默认: ./configs)")
	rootCmd.PersistentFlags().StringVar(&opts.Env, "env", "", "环境标识 (development, test, production)")
	rootCmd.Flags().BoolVar(&opts.Watch, "watch", false, "监听配置文件变化并热更新日志与敏感词")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve() error {
	app, err := master.NewApp(opts)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-quit:
	}

	// 给服务器5秒钟的时间来完成现有请求
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
