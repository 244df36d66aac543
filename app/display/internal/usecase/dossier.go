package usecase

import (
	"bytes"
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/xinhua_insight/app/display/internal/repo"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/export"
	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

// ExportFile 导出结果
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// DossierUseCase 档案业务逻辑
type DossierUseCase struct {
	repo repo.DossierRepo
	now  func() time.Time
	log  *log.Helper
}

// NewDossierUseCase 创建档案业务逻辑实例
func NewDossierUseCase(repo repo.DossierRepo, logger log.Logger) *DossierUseCase {
	return &DossierUseCase{repo: repo, now: time.Now, log: log.NewHelper(logger)}
}

// List 列出全部档案
func (uc *DossierUseCase) List(ctx context.Context) ([]dm.SavedReport, error) {
	return uc.repo.ListReports(ctx)
}

// Delete 根据ID删除档案
func (uc *DossierUseCase) Delete(ctx context.Context, id string) ([]dm.SavedReport, error) {
	return uc.repo.DeleteReport(ctx, id)
}

// Export 按格式导出全部档案
func (uc *DossierUseCase) Export(ctx context.Context, format string) (*ExportFile, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	reports, err := uc.repo.ListReports(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var buf bytes.Buffer
	if err := export.Write(&buf, f, reports, now); err != nil {
		return nil, err
	}
	uc.log.Infof("exported %d dossier entries as %s", len(reports), f)
	return &ExportFile{
		Name:        export.FileName(f, now),
		ContentType: f.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}
