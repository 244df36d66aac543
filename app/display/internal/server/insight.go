package server

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/xinhua_insight/app/display/internal/conf"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/config"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/engine"
	insightLogger "github.com/iWorld-y/xinhua_insight/app/insight/pkg/logger"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/storage"
)

// InsightConfig 将 internal/conf.Insight 转换为 pkg/config.Config，并应用环境变量与默认值
func InsightConfig(c *conf.Insight) *config.Config {
	cfg := &config.Config{}
	if c == nil {
		out := cfg.WithDefaults()
		return &out
	}

	if c.Source != nil {
		cfg.Source.TargetURL = c.Source.TargetUrl
	}
	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{
			Provider: c.Llm.Provider,
			BaseURL:  c.Llm.BaseUrl,
			APIKey:   c.Llm.ApiKey,
			Model:    c.Llm.Model,
			Timeout:  parseDuration(c.Llm.Timeout),
		}
	}
	cfg.Proxies = c.Proxies
	if c.Fetch != nil {
		cfg.Fetch.Timeout = parseDuration(c.Fetch.Timeout)
	}
	if c.Extract != nil {
		cfg.Extract.ReadabilityFallback = c.Extract.ReadabilityFallback
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{
			QPS: int(c.Concurrency.Qps),
			RPM: int(c.Concurrency.Rpm),
		}
	}
	if s := c.Storage; s != nil {
		cfg.Storage.Driver = s.Driver
		cfg.Storage.Path = s.Path
		cfg.Storage.DSN = s.Dsn
		if s.Db != nil {
			cfg.Storage.DB = config.DBConfig{
				Host:     s.Db.Host,
				Port:     int(s.Db.Port),
				User:     s.Db.User,
				Password: s.Db.Password,
				Name:     s.Db.Name,
			}
		}
		if s.Redis != nil {
			cfg.Storage.Redis = config.RedisConfig{
				Addr:     s.Redis.Addr,
				Password: s.Redis.Password,
				DB:       int(s.Redis.Db),
			}
		}
	}
	if c.Schedule != nil {
		cfg.Schedule.Crawl = c.Schedule.Crawl
	}

	cfg.ApplyEnv()
	out := cfg.WithDefaults()
	return &out
}

func parseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// NewInsightEngine 初始化洞察引擎，cleanup 负责关闭存储
func NewInsightEngine(cfg *config.Config, logger log.Logger) (*engine.Engine, func(), error) {
	helper := log.NewHelper(logger)

	// 初始化日志
	if err := insightLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init insight logger: %v", err)
		_ = insightLogger.InitLogger("info", "") // 降级处理
	}

	// 初始化存储层
	kv, err := storage.Open(cfg.Storage)
	if err != nil {
		helper.Errorf("Failed to init storage for engine: %v", err)
		return nil, nil, err
	}

	// 初始化核心引擎
	eng, err := engine.NewEngine(context.Background(), cfg, kv)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		_ = kv.Close()
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("Closing insight storage")
		if err := kv.Close(); err != nil {
			helper.Errorf("Failed to close storage: %v", err)
		}
	}
	return eng, cleanup, nil
}
