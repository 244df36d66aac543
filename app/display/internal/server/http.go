package server

import (
	"context"
	"embed"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iWorld-y/xinhua_insight/app/display/internal/conf"
	"github.com/iWorld-y/xinhua_insight/app/display/internal/service"
)

//go:embed assets/*
var assets embed.FS

// 分析请求需要等待模型返回，默认超时远大于 kratos 的 1s
const defaultTimeout = 300 * time.Second

const (
	OperationSnapshot       = "/insight.v1.Insight/Snapshot"
	OperationCrawl          = "/insight.v1.Insight/Crawl"
	OperationAnalyze        = "/insight.v1.Insight/Analyze"
	OperationDeep           = "/insight.v1.Insight/Deep"
	OperationStartBatch     = "/insight.v1.Insight/StartBatch"
	OperationBatchStatus    = "/insight.v1.Insight/BatchStatus"
	OperationListDossier    = "/insight.v1.Insight/ListDossier"
	OperationDeleteDossier  = "/insight.v1.Insight/DeleteDossier"
	OperationExportDossier  = "/insight.v1.Insight/ExportDossier"
	OperationGetConfig      = "/insight.v1.Insight/GetConfig"
	OperationUpdateConfig   = "/insight.v1.Insight/UpdateConfig"
	OperationValidateConfig = "/insight.v1.Insight/ValidateConfig"
	OperationPersonas       = "/insight.v1.Insight/Personas"
)

func NewHTTPServer(c *conf.Server, s *service.InsightService, logger log.Logger) *http.Server {
	timeout := defaultTimeout
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				timeout = d
			}
		}
	}
	opts = append(opts, http.Timeout(timeout))

	srv := http.NewServer(opts...)
	RegisterInsightHTTPServer(srv, s)
	srv.Handle("/metrics", promhttp.Handler())

	srv.HandleFunc("/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		content, _ := assets.ReadFile("assets/index.html")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(content)
	})

	return srv
}

func RegisterInsightHTTPServer(srv *http.Server, s *service.InsightService) {
	r := srv.Route("/")
	r.GET("/api/snapshot", noBody(OperationSnapshot, s.Snapshot))
	r.POST("/api/crawl", noBody(OperationCrawl, s.Crawl))
	r.POST("/api/analyze", withBody(OperationAnalyze, s.Analyze))
	r.POST("/api/deep", withBody(OperationDeep, s.Deep))
	r.POST("/api/batch", withBody(OperationStartBatch, s.StartBatch))
	r.GET("/api/batch/status", noBody(OperationBatchStatus, s.BatchStatus))
	r.GET("/api/dossier", noBody(OperationListDossier, s.ListDossier))
	r.DELETE("/api/dossier/{id}", deleteDossierHandler(s))
	r.GET("/api/dossier/export/{format}", exportDossierHandler(s))
	r.GET("/api/config", noBody(OperationGetConfig, s.GetConfig))
	r.PUT("/api/config", withBody(OperationUpdateConfig, s.UpdateConfig))
	r.POST("/api/config/validate", withBody(OperationValidateConfig, s.ValidateConfig))
	r.GET("/api/personas", noBody(OperationPersonas, s.Personas))
}

// invoke 经过服务端中间件调用业务方法并编码结果
func invoke(ctx http.Context, operation string, in any, h middleware.Handler) error {
	http.SetOperation(ctx, operation)
	out, err := ctx.Middleware(h)(ctx, in)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func withBody[Req any, Reply any](operation string, call func(context.Context, *Req) (Reply, error)) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in Req
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		return invoke(ctx, operation, &in, func(ctx context.Context, req any) (any, error) {
			return call(ctx, req.(*Req))
		})
	}
}

func noBody[Reply any](operation string, call func(context.Context) (Reply, error)) http.HandlerFunc {
	return func(ctx http.Context) error {
		return invoke(ctx, operation, nil, func(ctx context.Context, _ any) (any, error) {
			return call(ctx)
		})
	}
}

func deleteDossierHandler(s *service.InsightService) http.HandlerFunc {
	return func(ctx http.Context) error {
		id := ctx.Vars().Get("id")
		return invoke(ctx, OperationDeleteDossier, id, func(ctx context.Context, req any) (any, error) {
			return s.DeleteDossier(ctx, req.(string))
		})
	}
}

func exportDossierHandler(s *service.InsightService) http.HandlerFunc {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationExportDossier)
		file, err := s.ExportDossier(ctx, ctx.Vars().Get("format"))
		if err != nil {
			return err
		}
		ctx.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
		return ctx.Blob(200, file.ContentType, file.Data)
	}
}
