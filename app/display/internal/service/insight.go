package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/xinhua_insight/app/display/internal/usecase"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/apperr"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/engine"
	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/report"
)

type CrawlReply struct {
	Success  bool                  `json:"success"`
	Snapshot *dm.DashboardSnapshot `json:"snapshot,omitempty"`
}

type AnalyzeReq struct {
	Persona string `json:"persona"`
}

type DeepReq struct {
	Persona string     `json:"persona"`
	Article dm.Article `json:"article"`
	Save    bool       `json:"save"`
}

type DeepReply struct {
	Report *dm.DeepReport  `json:"report"`
	Saved  *dm.SavedReport `json:"saved,omitempty"`
}

type BatchReq struct {
	Persona  string       `json:"persona"`
	Articles []dm.Article `json:"articles"`
}

type DossierReply struct {
	Reports []dm.SavedReport `json:"reports"`
}

type ConfigReply struct {
	Status dm.ConfigStatus `json:"status"`
	Config *dm.APIConfig   `json:"config,omitempty"`
}

type InsightService struct {
	engine  *engine.Engine
	dossier *usecase.DossierUseCase
	batch   *usecase.BatchUseCase
	log     *log.Helper
}

func NewInsightService(eng *engine.Engine, dossier *usecase.DossierUseCase, batch *usecase.BatchUseCase, logger log.Logger) *InsightService {
	return &InsightService{
		engine:  eng,
		dossier: dossier,
		batch:   batch,
		log:     log.NewHelper(logger),
	}
}

// Snapshot 返回当前快照，没有快照时先抓取一次
func (s *InsightService) Snapshot(ctx context.Context) (*dm.DashboardSnapshot, error) {
	snap, err := s.engine.EnsureSnapshot(ctx)
	if err != nil {
		return nil, toHTTPError(err)
	}
	if snap == nil {
		snap = &dm.DashboardSnapshot{Articles: []dm.Article{}}
	}
	return snap, nil
}

func (s *InsightService) Crawl(ctx context.Context) (*CrawlReply, error) {
	ok := s.engine.CrawlNews(ctx)
	reply := &CrawlReply{Success: ok}
	snap, err := s.engine.LatestSnapshot(ctx)
	if err != nil {
		return nil, toHTTPError(err)
	}
	reply.Snapshot = snap
	return reply, nil
}

func (s *InsightService) Analyze(ctx context.Context, req *AnalyzeReq) (*dm.AnalysisReport, error) {
	persona, err := dm.ParsePersona(req.Persona)
	if err != nil {
		return nil, toHTTPError(err)
	}
	rep, err := s.engine.AnalyzeOverview(ctx, persona)
	if err != nil {
		s.log.Errorf("overview analysis failed: %v", err)
		return nil, toHTTPError(err)
	}
	return rep.Canonical(), nil
}

func (s *InsightService) Deep(ctx context.Context, req *DeepReq) (*DeepReply, error) {
	persona, err := dm.ParsePersona(req.Persona)
	if err != nil {
		return nil, toHTTPError(err)
	}
	if req.Article.URL == "" {
		return nil, badRequest("article.url is required")
	}
	if req.Article.Title == "" {
		req.Article.Title = req.Article.URL
	}

	rep, err := s.engine.AnalyzeArticle(ctx, persona, req.Article)
	if err != nil {
		s.log.Errorf("deep analysis failed [%s]: %v", req.Article.URL, err)
		return nil, toHTTPError(err)
	}
	reply := &DeepReply{Report: rep}
	if req.Save {
		saved, err := s.engine.SaveReport(ctx, req.Article, *rep, persona)
		if err != nil {
			return nil, toHTTPError(err)
		}
		reply.Saved = &saved
	}
	return reply, nil
}

func (s *InsightService) StartBatch(ctx context.Context, req *BatchReq) (*engine.BatchStatus, error) {
	persona, err := dm.ParsePersona(req.Persona)
	if err != nil {
		return nil, toHTTPError(err)
	}
	if len(req.Articles) == 0 {
		return nil, badRequest("articles is required")
	}
	if err := s.batch.Start(ctx, req.Articles, persona); err != nil {
		return nil, toHTTPError(err)
	}
	status := s.batch.Status()
	return &status, nil
}

func (s *InsightService) BatchStatus(context.Context) (*engine.BatchStatus, error) {
	status := s.batch.Status()
	return &status, nil
}

func (s *InsightService) ListDossier(ctx context.Context) (*DossierReply, error) {
	reports, err := s.dossier.List(ctx)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &DossierReply{Reports: reports}, nil
}

func (s *InsightService) DeleteDossier(ctx context.Context, id string) (*DossierReply, error) {
	remaining, err := s.dossier.Delete(ctx, id)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &DossierReply{Reports: remaining}, nil
}

func (s *InsightService) ExportDossier(ctx context.Context, format string) (*usecase.ExportFile, error) {
	file, err := s.dossier.Export(ctx, format)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return file, nil
}

// GetConfig 返回配置状态，api key 只返回掩码
func (s *InsightService) GetConfig(ctx context.Context) (*ConfigReply, error) {
	status, err := s.engine.ConfigStatus(ctx)
	if err != nil {
		return nil, toHTTPError(err)
	}
	cfg, err := s.engine.APIConfig(ctx)
	if err != nil {
		return nil, toHTTPError(err)
	}
	if cfg != nil {
		masked := *cfg
		masked.APIKey = maskKey(cfg.APIKey)
		cfg = &masked
	}
	return &ConfigReply{Status: status, Config: cfg}, nil
}

func (s *InsightService) UpdateConfig(ctx context.Context, req *dm.APIConfig) (*ConfigReply, error) {
	if err := s.engine.UpdateConfig(ctx, *req); err != nil {
		return nil, toHTTPError(err)
	}
	s.log.Infof("api config updated: provider=%s model=%s", req.Provider, req.ModelID)
	return s.GetConfig(ctx)
}

// ValidateConfig 请求体为空时校验已保存的配置
func (s *InsightService) ValidateConfig(ctx context.Context, req *dm.APIConfig) (*dm.ValidationResult, error) {
	if req.Provider == "" && req.APIKey == "" {
		saved, err := s.engine.APIConfig(ctx)
		if err != nil {
			return nil, toHTTPError(err)
		}
		if saved == nil {
			return nil, toHTTPError(apperr.ErrConfigMissing)
		}
		req = saved
	}
	res := s.engine.ValidateConfig(ctx, *req)
	return &res, nil
}

func (s *InsightService) Personas(context.Context) ([]report.PersonaInfo, error) {
	return report.Describe(), nil
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
