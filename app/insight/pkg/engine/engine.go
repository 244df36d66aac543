// Package engine 串联中继获取、内容提取、关键词统计与报告生成，维护快照与档案。
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/apperr"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/config"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/extract"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/keyword"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/logger"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/metrics"
	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/proxy"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/report"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/storage"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/store"
)

// MaxSnapshotArticles 快照中保留的最大文章数
const MaxSnapshotArticles = 50

// Fetcher 页面获取接口
type Fetcher interface {
	Fetch(ctx context.Context, target string) (string, error)
}

// FetcherFactory 按中继模板创建获取器，templates 为空表示使用内置模板
type FetcherFactory func(templates []string) Fetcher

// Engine 核心处理引擎：抓取首页、提取正文、生成报告并维护快照与档案
type Engine struct {
	cfg        *config.Config
	newFetcher FetcherFactory
	extractor  *extract.Extractor
	keywords   *keyword.Extractor
	normalizer *report.Normalizer

	configs   *store.ConfigStore
	snapshots *store.SnapshotStore
	archive   *store.Archive
	batch     *batchTracker

	now   func() time.Time
	newID func() string
}

// Option 引擎选项
type Option func(*Engine)

// WithFetcherFactory 替换页面获取器
func WithFetcherFactory(f FetcherFactory) Option {
	return func(e *Engine) {
		e.newFetcher = f
	}
}

// WithNormalizer 替换报告生成器
func WithNormalizer(n *report.Normalizer) Option {
	return func(e *Engine) {
		e.normalizer = n
	}
}

// WithKeywordExtractor 替换关键词提取器
func WithKeywordExtractor(k *keyword.Extractor) Option {
	return func(e *Engine) {
		e.keywords = k
	}
}

// WithClock 指定当前时间
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine 创建引擎实例。配置文件中的 llm 段仅在存储中没有接入配置时写入。
func NewEngine(ctx context.Context, cfg *config.Config, kv storage.KV, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:       cfg,
		configs:   store.NewConfigStore(kv),
		snapshots: store.NewSnapshotStore(kv),
		archive:   store.NewArchive(kv),
		batch:     &batchTracker{},
		now:       time.Now,
		newID:     uuid.NewString,
	}
	e.newFetcher = func(templates []string) Fetcher {
		return proxy.NewFetcher(templates, cfg.Fetch.Timeout)
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.normalizer == nil {
		e.normalizer = report.NewNormalizer(
			report.WithRateLimit(cfg.Concurrency.RPM, cfg.Concurrency.QPS),
			report.WithTimeout(cfg.LLM.Timeout),
		)
	}
	if e.keywords == nil {
		e.keywords = keyword.New(nil)
	}
	e.extractor = extract.New(
		extract.WithReadability(cfg.Extract.ReadabilityFallback),
		extract.WithClock(e.now),
	)

	if seed := cfg.SeedAPIConfig(); seed != nil {
		seeded, err := e.configs.SeedIfEmpty(ctx, *seed)
		if err != nil {
			return nil, fmt.Errorf("写入初始接入配置失败: %w", err)
		}
		if seeded {
			logger.Log.Infof("已从配置文件写入接入配置: provider=%s model=%s", seed.Provider, seed.ModelID)
		}
	}

	return e, nil
}

// fetcher 接入配置中的自定义中继优先，其次是配置文件中的中继，最后是内置中继
func (e *Engine) fetcher(ctx context.Context) Fetcher {
	templates := e.cfg.Proxies
	if api, err := e.configs.Get(ctx); err == nil && api != nil && len(api.CustomProxies) > 0 {
		templates = api.CustomProxies
	}
	return e.newFetcher(templates)
}

// CrawlNews 抓取首页并整体替换快照，获取失败时返回 false
func (e *Engine) CrawlNews(ctx context.Context) bool {
	target := e.cfg.Source.TargetURL
	html, err := e.fetcher(ctx).Fetch(ctx, target)
	if err != nil {
		metrics.Crawls.WithLabelValues(metrics.OutcomeError).Inc()
		logger.Log.Errorf("抓取首页失败: %v", err)
		return false
	}

	articles := e.extractor.ArticleList(html, target)
	titles := make([]string, 0, len(articles))
	for _, a := range articles {
		titles = append(titles, a.Title)
	}

	now := e.now()
	kept := articles
	if len(kept) > MaxSnapshotArticles {
		kept = kept[:MaxSnapshotArticles]
	}
	if kept == nil {
		kept = []dm.Article{}
	}
	snap := dm.DashboardSnapshot{
		Stats: &dm.Stats{
			Date:          now.Format(time.DateOnly),
			TotalArticles: len(articles),
			LastUpdated:   now.Format(time.TimeOnly),
			TopKeywords:   e.keywords.Extract(titles),
		},
		Articles: kept,
	}

	if err := e.snapshots.Replace(ctx, snap); err != nil {
		metrics.Crawls.WithLabelValues(metrics.OutcomeError).Inc()
		logger.Log.Errorf("保存快照失败: %v", err)
		return false
	}

	metrics.Crawls.WithLabelValues(metrics.OutcomeOK).Inc()
	logger.Log.Infof("首页抓取完成: %d 篇文章", len(articles))
	return true
}

// LatestSnapshot 当前快照，未抓取过时返回 nil
func (e *Engine) LatestSnapshot(ctx context.Context) (*dm.DashboardSnapshot, error) {
	return e.snapshots.Get(ctx)
}

// EnsureSnapshot 没有快照时先抓取一次
func (e *Engine) EnsureSnapshot(ctx context.Context) (*dm.DashboardSnapshot, error) {
	snap, err := e.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	if snap != nil && snap.Stats != nil {
		return snap, nil
	}
	if !e.CrawlNews(ctx) {
		return snap, nil
	}
	return e.snapshots.Get(ctx)
}

// CrawlArticleContent 获取单篇正文，获取失败或正文为空时 ok 为 false
func (e *Engine) CrawlArticleContent(ctx context.Context, url string) (string, bool) {
	html, err := e.fetcher(ctx).Fetch(ctx, url)
	if err != nil {
		logger.Log.Warnf("获取正文失败 [%s]: %v", url, err)
		return "", false
	}
	body := e.extractor.ArticleBody(html, url)
	return body, body != ""
}

// requireConfig 需要凭据的操作在配置存在之前调用时返回 ErrConfigMissing
func (e *Engine) requireConfig(ctx context.Context) (*dm.APIConfig, error) {
	cfg, err := e.configs.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil || cfg.APIKey == "" {
		return nil, apperr.ErrConfigMissing
	}
	return cfg, nil
}

// AnalyzeOverview 对当前快照的标题生成总体分析
func (e *Engine) AnalyzeOverview(ctx context.Context, persona dm.Persona) (*dm.AnalysisReport, error) {
	cfg, err := e.requireConfig(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := e.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil || len(snap.Articles) == 0 {
		return nil, fmt.Errorf("no articles to analyze: %w", apperr.ErrNotFound)
	}
	return e.normalizer.Overview(ctx, persona, snap.Articles, cfg)
}

// AnalyzeArticle 获取正文并生成单篇深度研判
func (e *Engine) AnalyzeArticle(ctx context.Context, persona dm.Persona, article dm.Article) (*dm.DeepReport, error) {
	cfg, err := e.requireConfig(ctx)
	if err != nil {
		return nil, err
	}
	content, ok := e.CrawlArticleContent(ctx, article.URL)
	if !ok {
		return nil, fmt.Errorf("failed to fetch article content %s: %w", article.URL, apperr.ErrAcquisitionExhausted)
	}
	return e.normalizer.Deep(ctx, persona, article, content, cfg)
}

// ConfigStatus 接入配置状态
func (e *Engine) ConfigStatus(ctx context.Context) (dm.ConfigStatus, error) {
	return e.configs.Status(ctx)
}

// APIConfig 当前接入配置，未配置时返回 nil
func (e *Engine) APIConfig(ctx context.Context) (*dm.APIConfig, error) {
	return e.configs.Get(ctx)
}

// UpdateConfig 整体替换接入配置
func (e *Engine) UpdateConfig(ctx context.Context, cfg dm.APIConfig) error {
	if !cfg.Provider.Valid() {
		return fmt.Errorf("%w: unknown provider %q", apperr.ErrInvalidConfig, cfg.Provider)
	}
	for _, tpl := range cfg.CustomProxies {
		if !proxy.ValidTemplate(tpl) {
			return fmt.Errorf("%w: proxy template %q has no ${url} placeholder", apperr.ErrInvalidConfig, tpl)
		}
	}
	return e.configs.Replace(ctx, cfg)
}

// ValidateConfig 校验接入配置的连通性
func (e *Engine) ValidateConfig(ctx context.Context, cfg dm.APIConfig) dm.ValidationResult {
	return e.normalizer.Validate(ctx, cfg)
}

// SaveReport 保存深度研判到档案，同一 (url, persona) 覆盖旧条目
func (e *Engine) SaveReport(ctx context.Context, article dm.Article, rep dm.DeepReport, persona dm.Persona) (dm.SavedReport, error) {
	item := dm.SavedReport{
		ID:        e.newID(),
		Article:   article,
		Report:    rep,
		Timestamp: dm.Millis(e.now()),
		Persona:   persona,
	}
	if _, err := e.archive.Save(ctx, item); err != nil {
		return dm.SavedReport{}, err
	}
	return item, nil
}

// Dossier 档案全部条目
func (e *Engine) Dossier(ctx context.Context) ([]dm.SavedReport, error) {
	return e.archive.List(ctx)
}

// FindReport 按 (url, persona) 查找档案
func (e *Engine) FindReport(ctx context.Context, url string, persona dm.Persona) (*dm.SavedReport, error) {
	return e.archive.Find(ctx, url, persona)
}

// DeleteReport 按 id 删除档案
func (e *Engine) DeleteReport(ctx context.Context, id string) ([]dm.SavedReport, error) {
	return e.archive.Delete(ctx, id)
}
