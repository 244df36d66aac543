package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/apperr"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/logger"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/metrics"
	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/report"
)

// MaxBatchSize 单次批量解读的文章上限
const MaxBatchSize = 5

// BatchState 批量任务状态
type BatchState string

const (
	BatchIdle      BatchState = "idle"
	BatchRunning   BatchState = "running"
	BatchCompleted BatchState = "completed"
)

// BatchStatus 批量任务进度
type BatchStatus struct {
	State   BatchState `json:"state"`
	Current int        `json:"current"`
	Total   int        `json:"total"`
	Persona dm.Persona `json:"persona,omitempty"`
}

// BatchSummary 一次批量任务的结果
type BatchSummary struct {
	Total   int              `json:"total"`
	Skipped int              `json:"skipped"`
	Failed  int              `json:"failed"`
	Saved   []dm.SavedReport `json:"saved"`
}

// ProgressFunc 每篇文章开始处理前同步回调，current 从 1 开始
type ProgressFunc func(current, total int)

type batchTracker struct {
	mu     sync.Mutex
	status BatchStatus
}

func (b *batchTracker) begin(total int, persona dm.Persona) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status.State == BatchRunning {
		return false
	}
	b.status = BatchStatus{State: BatchRunning, Total: total, Persona: persona}
	return true
}

func (b *batchTracker) advance(current int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status.Current = current
}

func (b *batchTracker) finish(state BatchState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if state == BatchIdle {
		b.status = BatchStatus{State: BatchIdle}
		return
	}
	b.status.State = state
}

func (b *batchTracker) get() BatchStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status.State == "" {
		return BatchStatus{State: BatchIdle}
	}
	return b.status
}

// BatchStatus 当前批量任务状态
func (e *Engine) BatchStatus() BatchStatus {
	return e.batch.get()
}

// BatchFunc 已占用槽位的批量任务，调用后逐篇执行
type BatchFunc func(ctx context.Context, onProgress ProgressFunc) (*BatchSummary, error)

// BeginBatch 校验数量上限、视角与接入配置，并立即占用批量任务槽位。
// 已有任务在运行时返回 ErrBatchRunning。返回的 BatchFunc 必须被调用一次，否则状态停留在 running。
func (e *Engine) BeginBatch(ctx context.Context, articles []dm.Article, persona dm.Persona) (BatchFunc, error) {
	total := len(articles)
	if total > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d selected, at most %d", apperr.ErrBatchTooLarge, total, MaxBatchSize)
	}
	if _, ok := report.PersonaInstructions[persona]; !ok {
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnknownPersona, persona)
	}
	cfg, err := e.requireConfig(ctx)
	if err != nil {
		return nil, err
	}
	if !e.batch.begin(total, persona) {
		return nil, apperr.ErrBatchRunning
	}

	articles = append([]dm.Article(nil), articles...)
	return func(ctx context.Context, onProgress ProgressFunc) (*BatchSummary, error) {
		return e.runBatch(ctx, articles, persona, cfg, onProgress)
	}, nil
}

// RunBatch 按输入顺序逐篇获取正文、生成深度研判并存档。
// 单篇失败只记录日志并继续；超过上限或未配置时在任何网络请求之前返回错误。
// ctx 取消后不再开始下一篇，任务回到 idle 状态。
func (e *Engine) RunBatch(ctx context.Context, articles []dm.Article, persona dm.Persona, onProgress ProgressFunc) (*BatchSummary, error) {
	run, err := e.BeginBatch(ctx, articles, persona)
	if err != nil {
		return nil, err
	}
	return run(ctx, onProgress)
}

func (e *Engine) runBatch(ctx context.Context, articles []dm.Article, persona dm.Persona, cfg *dm.APIConfig, onProgress ProgressFunc) (*BatchSummary, error) {
	total := len(articles)
	summary := &BatchSummary{Total: total, Saved: []dm.SavedReport{}}
	for i, article := range articles {
		if err := ctx.Err(); err != nil {
			e.batch.finish(BatchIdle)
			logger.Log.Warnf("批量解读已取消: 完成 %d/%d", i, total)
			return summary, err
		}

		e.batch.advance(i + 1)
		if onProgress != nil {
			onProgress(i+1, total)
		}

		content, ok := e.CrawlArticleContent(ctx, article.URL)
		if !ok {
			summary.Skipped++
			metrics.BatchItems.WithLabelValues(metrics.OutcomeSkipped).Inc()
			continue
		}

		rep, err := e.normalizer.Deep(ctx, persona, article, content, cfg)
		if err != nil {
			summary.Failed++
			metrics.BatchItems.WithLabelValues(metrics.OutcomeError).Inc()
			logger.Log.Errorf("批量解读单篇失败 [%s]: %v", article.Title, err)
			continue
		}

		saved, err := e.SaveReport(ctx, article, *rep, persona)
		if err != nil {
			summary.Failed++
			metrics.BatchItems.WithLabelValues(metrics.OutcomeError).Inc()
			logger.Log.Errorf("批量解读存档失败 [%s]: %v", article.Title, err)
			continue
		}
		summary.Saved = append(summary.Saved, saved)
		metrics.BatchItems.WithLabelValues(metrics.OutcomeOK).Inc()
	}

	e.batch.finish(BatchCompleted)
	logger.Log.Infof("批量解读完成: 共 %d 篇，存档 %d 篇，跳过 %d 篇，失败 %d 篇",
		total, len(summary.Saved), summary.Skipped, summary.Failed)
	return summary, nil
}
