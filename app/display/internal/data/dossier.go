package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/xinhua_insight/app/display/internal/repo"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/engine"
	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

type dossierRepo struct {
	engine *engine.Engine
	log    *log.Helper
}

// NewDossierRepo 基于引擎档案存储的仓库实现
func NewDossierRepo(eng *engine.Engine, logger log.Logger) repo.DossierRepo {
	return &dossierRepo{
		engine: eng,
		log:    log.NewHelper(logger),
	}
}

func (r *dossierRepo) ListReports(ctx context.Context) ([]dm.SavedReport, error) {
	reports, err := r.engine.Dossier(ctx)
	if err != nil {
		r.log.Errorf("failed to list dossier: %v", err)
		return nil, err
	}
	return reports, nil
}

func (r *dossierRepo) DeleteReport(ctx context.Context, id string) ([]dm.SavedReport, error) {
	remaining, err := r.engine.DeleteReport(ctx, id)
	if err != nil {
		return nil, err
	}
	r.log.Infof("dossier entry %s deleted, %d remaining", id, len(remaining))
	return remaining, nil
}
