package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/apperr"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/config"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/engine"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/logger"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/storage"
)

// app 命令共享的依赖，在 PersistentPreRunE 中初始化
type app struct {
	cfgPath string
	cfg     *config.Config
	kv      storage.KV
	engine  *engine.Engine
}

func (a *app) init(ctx context.Context) error {
	cfg, err := config.LoadConfig(a.cfgPath)
	if err != nil {
		return fmt.Errorf("无法加载配置文件: %w", err)
	}
	a.cfg = cfg

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}

	kv, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("无法打开存储 [%s]: %w", cfg.Storage.Driver, err)
	}
	a.kv = kv

	e, err := engine.NewEngine(ctx, cfg, kv)
	if err != nil {
		return err
	}
	a.engine = e
	return nil
}

func (a *app) close() {
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			logger.Log.Warnf("关闭存储失败: %v", err)
		}
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "insight",
		Short:         "新华洞察：新闻抓取、关键词统计与多视角解读",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "configs/config.yaml", "配置文件路径")

	root.AddCommand(
		newCrawlCmd(a),
		newSnapshotCmd(a),
		newPersonasCmd(),
		newAnalyzeCmd(a),
		newDeepCmd(a),
		newBatchCmd(a),
		newDossierCmd(a),
		newConfigCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, apperr.ErrConfigMissing) {
			fmt.Fprintln(os.Stderr, "尚未配置模型接入，请先运行: insight config set --provider <openai|deepseek|ollama> --api-key <key> --model <id>")
		} else {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
