package main

import (
	"context"
	"flag"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/robfig/cron/v3"

	"github.com/iWorld-y/xinhua_insight/app/display/internal/conf"
	"github.com/iWorld-y/xinhua_insight/app/display/internal/data"
	"github.com/iWorld-y/xinhua_insight/app/display/internal/server"
	"github.com/iWorld-y/xinhua_insight/app/display/internal/service"
	"github.com/iWorld-y/xinhua_insight/app/display/internal/usecase"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/engine"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "insight-display"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "app/display/configs/config.yaml", "config path, eg: -conf config.yaml")
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}

// initApp 手动组装各层依赖
func initApp(bc *conf.Bootstrap, logger log.Logger) (*kratos.App, func(), error) {
	cfg := server.InsightConfig(bc.Insight)
	eng, cleanupEngine, err := server.NewInsightEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	dossier := usecase.NewDossierUseCase(data.NewDossierRepo(eng, logger), logger)
	batch := usecase.NewBatchUseCase(eng, logger)
	svc := service.NewInsightService(eng, dossier, batch, logger)
	hs := server.NewHTTPServer(bc.Server, svc, logger)

	stopCron, err := scheduleCrawl(cfg.Schedule.Crawl, eng, logger)
	if err != nil {
		batch.Close()
		cleanupEngine()
		return nil, nil, err
	}

	cleanup := func() {
		stopCron()
		batch.Close()
		cleanupEngine()
	}
	return newApp(logger, hs), cleanup, nil
}

// scheduleCrawl 按 cron 表达式定时抓取首页，表达式为空时不启动
func scheduleCrawl(spec string, eng *engine.Engine, logger log.Logger) (func(), error) {
	if spec == "" {
		return func() {}, nil
	}
	helper := log.NewHelper(logger)

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if !eng.CrawlNews(context.Background()) {
			helper.Warn("scheduled crawl failed")
		}
	}); err != nil {
		return nil, err
	}
	c.Start()
	helper.Infof("scheduled crawl enabled: %s", spec)

	return func() {
		<-c.Stop().Done()
	}, nil
}

func main() {
	flag.Parse()
	// 初始化日志记录器，包含时间戳、调用者信息、服务ID等上下文
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	// 初始化配置加载器
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	// 扫描配置到 Bootstrap 结构体
	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}

	app, cleanup, err := initApp(&bc, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		panic(err)
	}
}
