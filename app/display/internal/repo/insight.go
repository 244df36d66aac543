package repo

import (
	"context"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/engine"
	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

// DossierRepo 档案仓库接口
type DossierRepo interface {
	// ListReports 获取全部档案，按存档时间倒序
	ListReports(ctx context.Context) ([]dm.SavedReport, error)
	// DeleteReport 根据ID删除档案，返回剩余条目
	DeleteReport(ctx context.Context, id string) ([]dm.SavedReport, error)
}

// BatchRunner 批量解读执行接口
type BatchRunner interface {
	// BeginBatch 在任何网络请求之前校验并占用批量任务槽位，返回待执行的任务
	BeginBatch(ctx context.Context, articles []dm.Article, persona dm.Persona) (engine.BatchFunc, error)
	// BatchStatus 当前批量任务进度
	BatchStatus() engine.BatchStatus
}
