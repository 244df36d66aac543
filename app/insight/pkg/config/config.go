package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

// DefaultTargetURL 默认抓取的新闻首页
const DefaultTargetURL = "https://m.news.cn/"

const (
	defaultFetchTimeout = 20 * time.Second
	defaultLLMTimeout   = 120 * time.Second
	defaultLogLevel     = "info"
	defaultStorage      = "sqlite"
	defaultSQLitePath   = "data/xinhua_insight.db"
)

// Config 项目配置结构体
type Config struct {
	Source      SourceConfig      `yaml:"source"`
	LLM         LLMConfig         `yaml:"llm"`
	Proxies     []string          `yaml:"proxies"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Extract     ExtractConfig     `yaml:"extract"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Storage     StorageConfig     `yaml:"storage"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
}

// SourceConfig 新闻源配置
type SourceConfig struct {
	TargetURL string `yaml:"target_url"`
}

// LLMConfig 模型接入的初始配置，仅在存储中没有配置时写入
type LLMConfig struct {
	Provider string        `yaml:"provider"`
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// FetchConfig 中继抓取配置
type FetchConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// ExtractConfig 正文提取配置
type ExtractConfig struct {
	ReadabilityFallback bool `yaml:"readability_fallback"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig LLM 调用节流配置，RPM 为 0 表示不限速
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// StorageConfig 键值存储配置
type StorageConfig struct {
	Driver string      `yaml:"driver"` // sqlite | postgres | redis | memory
	Path   string      `yaml:"path"`   // sqlite 文件路径
	DSN    string      `yaml:"dsn"`    // postgres 连接串，优先于 DB
	DB     DBConfig    `yaml:"db"`
	Redis  RedisConfig `yaml:"redis"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ScheduleConfig 定时任务配置，Crawl 为 cron 表达式，空表示不定时抓取
type ScheduleConfig struct {
	Crawl string `yaml:"crawl"`
}

// LoadConfig 从指定路径加载配置；文件不存在时使用默认配置。
// 随后读取 .env 与环境变量覆盖。
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	cfg.ApplyEnv()

	out := cfg.WithDefaults()
	return &out, nil
}

// ApplyEnv 读取 .env 与 INSIGHT_* 环境变量覆盖对应字段
func (c *Config) ApplyEnv() {
	// .env 不存在不是错误
	_ = godotenv.Load()

	if v := os.Getenv("INSIGHT_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("INSIGHT_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("INSIGHT_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("INSIGHT_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("INSIGHT_STORAGE_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("INSIGHT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("INSIGHT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency.RPM = n
		}
	}
}

// WithDefaults 返回填充默认值后的副本
func (c Config) WithDefaults() Config {
	if c.Source.TargetURL == "" {
		c.Source.TargetURL = DefaultTargetURL
	}
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = defaultFetchTimeout
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = defaultLLMTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = defaultStorage
	}
	if c.Storage.Driver == "sqlite" && c.Storage.Path == "" {
		c.Storage.Path = defaultSQLitePath
	}
	if c.Concurrency.RPM > 0 && c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	return c
}

// SeedAPIConfig 由 llm 段生成初始 APIConfig；未设置 api_key 时返回 nil
func (c *Config) SeedAPIConfig() *model.APIConfig {
	if c.LLM.APIKey == "" {
		return nil
	}
	provider := model.Provider(c.LLM.Provider)
	if !provider.Valid() {
		provider = model.ProviderOpenAI
	}
	return &model.APIConfig{
		Provider:      provider,
		APIKey:        c.LLM.APIKey,
		BaseURL:       c.LLM.BaseURL,
		ModelID:       c.LLM.Model,
		CustomProxies: c.Proxies,
	}
}
