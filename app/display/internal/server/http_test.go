package server

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/xinhua_insight/app/display/internal/conf"
	"github.com/iWorld-y/xinhua_insight/app/display/internal/data"
	"github.com/iWorld-y/xinhua_insight/app/display/internal/service"
	"github.com/iWorld-y/xinhua_insight/app/display/internal/usecase"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/apperr"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/config"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/engine"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/keyword"
	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/report"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/storage"
)

const deepReply = `{"surface_meaning":"表面","deep_logic":"逻辑","impact_assessment":"影响","key_segments":["原句"],"bias_check":"中性"}`

type pageFetcher map[string]string

func (p pageFetcher) Fetch(_ context.Context, target string) (string, error) {
	if page, ok := p[target]; ok {
		return page, nil
	}
	return "", fmt.Errorf("%s: %w", target, apperr.ErrAcquisitionExhausted)
}

type stubModel struct {
	mu    sync.Mutex
	reply string
	// gate 非空时每次调用都等待放行
	gate chan struct{}
}

func (m *stubModel) Generate(ctx context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return &schema.Message{Role: schema.Assistant, Content: m.reply}, nil
}

type spaceSegmenter struct{}

func (spaceSegmenter) Cut(text string) []string { return strings.Fields(text) }

const articleURL = "https://m.news.cn/20240501/a1/c.html"

func homepage() string {
	return `<html><body><div class="list"><ul>` +
		`<li><a href="/20240501/a1/c.html">第一条新闻标题示例</a></li>` +
		`<li><a href="/20240502/a2/c.html">第二条新闻标题示例</a></li>` +
		`</ul></div></body></html>`
}

func newTestServer(t *testing.T, withKey bool) (*http.Server, *usecase.BatchUseCase) {
	t.Helper()
	return newTestServerWithModel(t, withKey, &stubModel{reply: deepReply})
}

func newTestServerWithModel(t *testing.T, withKey bool, stub *stubModel) (*http.Server, *usecase.BatchUseCase) {
	t.Helper()
	cfg := config.Config{Storage: config.StorageConfig{Driver: "memory"}}
	if withKey {
		cfg.LLM = config.LLMConfig{Provider: "deepseek", APIKey: "sk-test-123456", Model: "deepseek-chat"}
	}
	cfg = cfg.WithDefaults()

	pages := pageFetcher{
		config.DefaultTargetURL: homepage(),
		articleURL:              `<html><body><div id="p-detail">正文内容</div></body></html>`,
	}
	eng, err := engine.NewEngine(context.Background(), &cfg, storage.NewMemory(),
		engine.WithFetcherFactory(func([]string) engine.Fetcher { return pages }),
		engine.WithNormalizer(report.NewNormalizer(report.WithModelFactory(
			func(context.Context, dm.APIConfig, report.ChatOptions) (report.Generator, error) { return stub, nil },
		))),
		engine.WithKeywordExtractor(keyword.New(spaceSegmenter{})),
	)
	require.NoError(t, err)

	logger := log.DefaultLogger
	batch := usecase.NewBatchUseCase(eng, logger)
	t.Cleanup(batch.Close)
	svc := service.NewInsightService(eng, usecase.NewDossierUseCase(data.NewDossierRepo(eng, logger), logger), batch, logger)
	return NewHTTPServer(&conf.Server{Http: &conf.HTTP{Timeout: "5s"}}, svc, logger), batch
}

func do(t *testing.T, srv *http.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestSnapshot_CrawlsOnFirstRequest(t *testing.T) {
	srv, _ := newTestServer(t, false)

	rec := do(t, srv, nethttp.MethodGet, "/api/snapshot", "")
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	snap := decode[dm.DashboardSnapshot](t, rec)
	require.NotNil(t, snap.Stats)
	assert.Equal(t, 2, snap.Stats.TotalArticles)
	assert.Equal(t, articleURL, snap.Articles[1].URL)
}

func TestDeep_ConfigMissing(t *testing.T) {
	srv, _ := newTestServer(t, false)

	rec := do(t, srv, nethttp.MethodPost, "/api/deep", `{"persona":"economist","article":{"url":"`+articleURL+`"}}`)
	assert.Equal(t, service.StatusConfigMissing, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "CONFIG_MISSING", body["reason"])
}

func TestDeep_SaveAndDossier(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rec := do(t, srv, nethttp.MethodPost, "/api/deep", `{"persona":"economist","save":true,"article":{"title":"第一条新闻标题示例","url":"`+articleURL+`","date":"2024-05-01"}}`)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	reply := decode[service.DeepReply](t, rec)
	assert.Equal(t, "逻辑", reply.Report.DeepLogic)
	require.NotNil(t, reply.Saved)

	rec = do(t, srv, nethttp.MethodGet, "/api/dossier", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	list := decode[service.DossierReply](t, rec)
	require.Len(t, list.Reports, 1)

	rec = do(t, srv, nethttp.MethodGet, "/api/dossier/export/txt", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "xinhua_insight_dossier_")
	assert.Contains(t, rec.Body.String(), "第一条新闻标题示例")

	rec = do(t, srv, nethttp.MethodDelete, "/api/dossier/"+reply.Saved.ID, "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Empty(t, decode[service.DossierReply](t, rec).Reports)

	rec = do(t, srv, nethttp.MethodDelete, "/api/dossier/"+reply.Saved.ID, "")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestDeep_UnknownPersona(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rec := do(t, srv, nethttp.MethodPost, "/api/deep", `{"persona":"poet","article":{"url":"`+articleURL+`"}}`)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestDeep_AcquisitionFailure(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rec := do(t, srv, nethttp.MethodPost, "/api/deep", `{"article":{"url":"https://m.news.cn/missing.html"}}`)
	assert.Equal(t, nethttp.StatusBadGateway, rec.Code)
}

func TestBatch(t *testing.T) {
	srv, batch := newTestServer(t, true)

	var articles []string
	for i := 0; i < 6; i++ {
		articles = append(articles, fmt.Sprintf(`{"title":"t%d","url":"%s"}`, i, articleURL))
	}
	rec := do(t, srv, nethttp.MethodPost, "/api/batch", `{"persona":"observer","articles":[`+strings.Join(articles, ",")+`]}`)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec = do(t, srv, nethttp.MethodPost, "/api/batch", `{"persona":"observer","articles":[`+strings.Join(articles[:2], ",")+`]}`)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	batch.Wait()

	rec = do(t, srv, nethttp.MethodGet, "/api/batch/status", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	status := decode[engine.BatchStatus](t, rec)
	assert.Equal(t, engine.BatchCompleted, status.State)
	assert.Equal(t, 2, status.Current)

	// 同一 (url, persona) 只保留最后一份
	rec = do(t, srv, nethttp.MethodGet, "/api/dossier", "")
	assert.Len(t, decode[service.DossierReply](t, rec).Reports, 1)
}

func TestBatch_SecondStartConflicts(t *testing.T) {
	gate := make(chan struct{})
	srv, batch := newTestServerWithModel(t, true, &stubModel{reply: deepReply, gate: gate})
	body := `{"persona":"observer","articles":[{"title":"t","url":"` + articleURL + `"}]}`

	rec := do(t, srv, nethttp.MethodPost, "/api/batch", body)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	status := decode[engine.BatchStatus](t, rec)
	assert.Equal(t, engine.BatchRunning, status.State)
	assert.Equal(t, 1, status.Total)

	rec = do(t, srv, nethttp.MethodPost, "/api/batch", body)
	assert.Equal(t, nethttp.StatusConflict, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "BATCH_RUNNING")

	close(gate)
	batch.Wait()
	rec = do(t, srv, nethttp.MethodGet, "/api/batch/status", "")
	assert.Equal(t, engine.BatchCompleted, decode[engine.BatchStatus](t, rec).State)
}

func TestConfig_MasksKeyAndRejectsInvalid(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rec := do(t, srv, nethttp.MethodGet, "/api/config", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	reply := decode[service.ConfigReply](t, rec)
	assert.True(t, reply.Status.Configured)
	assert.Equal(t, "sk-t****3456", reply.Config.APIKey)

	rec = do(t, srv, nethttp.MethodPut, "/api/config", `{"provider":"claude","apiKey":"k"}`)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec = do(t, srv, nethttp.MethodPut, "/api/config", `{"provider":"openai","apiKey":"sk-new-abcdef","modelId":"gpt-4o"}`)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	reply = decode[service.ConfigReply](t, rec)
	assert.Equal(t, dm.ProviderOpenAI, reply.Status.Provider)
	assert.Equal(t, "gpt-4o", reply.Status.ModelID)
}

func TestPersonas(t *testing.T) {
	srv, _ := newTestServer(t, false)

	rec := do(t, srv, nethttp.MethodGet, "/api/personas", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Len(t, decode[[]report.PersonaInfo](t, rec), len(dm.Personas))
}

func TestMetricsAndIndex(t *testing.T) {
	srv, _ := newTestServer(t, false)

	rec := do(t, srv, nethttp.MethodGet, "/metrics", "")
	assert.Equal(t, nethttp.StatusOK, rec.Code)

	rec = do(t, srv, nethttp.MethodGet, "/", "")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "新华洞察")
}

func TestInsightConfig(t *testing.T) {
	cfg := InsightConfig(&conf.Insight{
		Llm:      &conf.LLM{Provider: "ollama", Model: "qwen2", Timeout: "90s"},
		Storage:  &conf.Storage{Driver: "memory"},
		Schedule: &conf.Schedule{Crawl: "@every 30m"},
	})
	assert.Equal(t, config.DefaultTargetURL, cfg.Source.TargetURL)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "@every 30m", cfg.Schedule.Crawl)

	assert.Equal(t, "sqlite", InsightConfig(nil).Storage.Driver)
}
