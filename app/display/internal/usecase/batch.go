package usecase

import (
	"context"
	"sync"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/xinhua_insight/app/display/internal/repo"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/engine"
	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

// BatchUseCase 后台批量解读
type BatchUseCase struct {
	runner repo.BatchRunner
	log    *log.Helper

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBatchUseCase 创建批量解读业务逻辑实例
func NewBatchUseCase(runner repo.BatchRunner, logger log.Logger) *BatchUseCase {
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchUseCase{
		runner: runner,
		log:    log.NewHelper(logger),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start 同步校验并占用槽位后在后台执行，进度通过 Status 查询
func (uc *BatchUseCase) Start(ctx context.Context, articles []dm.Article, persona dm.Persona) error {
	run, err := uc.runner.BeginBatch(ctx, articles, persona)
	if err != nil {
		return err
	}

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		summary, err := run(uc.ctx, func(current, total int) {
			uc.log.Infof("batch progress %d/%d", current, total)
		})
		if err != nil {
			uc.log.Errorf("batch stopped: %v", err)
			return
		}
		uc.log.Infof("batch completed: saved=%d skipped=%d failed=%d", len(summary.Saved), summary.Skipped, summary.Failed)
	}()
	return nil
}

// Status 当前批量任务进度
func (uc *BatchUseCase) Status() engine.BatchStatus {
	return uc.runner.BatchStatus()
}

// Wait 等待后台任务结束
func (uc *BatchUseCase) Wait() {
	uc.wg.Wait()
}

// Close 取消尚未开始的文章并等待后台任务退出
func (uc *BatchUseCase) Close() {
	uc.cancel()
	uc.wg.Wait()
}
