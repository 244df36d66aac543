package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/apperr"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/engine"
	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

// mockDossierRepo 模拟档案仓库
type mockDossierRepo struct {
	reports []dm.SavedReport
}

func (m *mockDossierRepo) ListReports(ctx context.Context) ([]dm.SavedReport, error) {
	return m.reports, nil
}

func (m *mockDossierRepo) DeleteReport(ctx context.Context, id string) ([]dm.SavedReport, error) {
	for i, r := range m.reports {
		if r.ID == id {
			m.reports = append(m.reports[:i], m.reports[i+1:]...)
			return m.reports, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func newMockDossier() *mockDossierRepo {
	return &mockDossierRepo{reports: []dm.SavedReport{
		{ID: "a", Article: dm.Article{Title: "Test Report", URL: "https://m.news.cn/a.htm"}, Persona: dm.PersonaEconomist},
		{ID: "b", Article: dm.Article{Title: "Other", URL: "https://m.news.cn/b.htm"}, Persona: dm.PersonaObserver},
	}}
}

func TestDossierUseCase_List(t *testing.T) {
	uc := NewDossierUseCase(newMockDossier(), log.DefaultLogger)

	reports, err := uc.List(context.Background())
	if err != nil {
		t.Errorf("List() error = %v", err)
		return
	}
	if len(reports) != 2 || reports[0].Article.Title != "Test Report" {
		t.Errorf("List() reports = %v", reports)
	}
}

func TestDossierUseCase_Delete(t *testing.T) {
	uc := NewDossierUseCase(newMockDossier(), log.DefaultLogger)

	remaining, err := uc.Delete(context.Background(), "a")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != "b" {
		t.Errorf("Delete() remaining = %v", remaining)
	}

	if _, err := uc.Delete(context.Background(), "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Delete() missing error = %v, want ErrNotFound", err)
	}
}

func TestDossierUseCase_Export(t *testing.T) {
	uc := NewDossierUseCase(newMockDossier(), log.DefaultLogger)
	uc.now = func() time.Time { return time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC) }

	file, err := uc.Export(context.Background(), "txt")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if file.Name != "xinhua_insight_dossier_2024-05-06.txt" {
		t.Errorf("Export() name = %q", file.Name)
	}
	if !strings.Contains(string(file.Data), "Test Report") {
		t.Errorf("Export() data missing title: %s", file.Data)
	}

	if _, err := uc.Export(context.Background(), "pdf"); err == nil {
		t.Error("Export() with unknown format should fail")
	}
}

// mockBatchRunner 模拟批量解读，槽位语义与引擎一致
type mockBatchRunner struct {
	mu       sync.Mutex
	checkErr error
	runs     int
	status   engine.BatchStatus
	release  chan struct{}
}

func (m *mockBatchRunner) BeginBatch(ctx context.Context, articles []dm.Article, persona dm.Persona) (engine.BatchFunc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.checkErr != nil {
		return nil, m.checkErr
	}
	if m.status.State == engine.BatchRunning {
		return nil, apperr.ErrBatchRunning
	}
	m.status = engine.BatchStatus{State: engine.BatchRunning, Total: len(articles), Persona: persona}

	return func(ctx context.Context, onProgress engine.ProgressFunc) (*engine.BatchSummary, error) {
		if m.release != nil {
			<-m.release
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		m.runs++
		for i := range articles {
			onProgress(i+1, len(articles))
		}
		m.status = engine.BatchStatus{State: engine.BatchCompleted, Current: len(articles), Total: len(articles), Persona: persona}
		return &engine.BatchSummary{Total: len(articles)}, nil
	}, nil
}

func (m *mockBatchRunner) BatchStatus() engine.BatchStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func TestBatchUseCase_Start(t *testing.T) {
	runner := &mockBatchRunner{}
	uc := NewBatchUseCase(runner, log.DefaultLogger)
	defer uc.Close()

	articles := []dm.Article{{Title: "a", URL: "https://m.news.cn/a.htm"}, {Title: "b", URL: "https://m.news.cn/b.htm"}}
	if err := uc.Start(context.Background(), articles, dm.PersonaObserver); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	uc.Wait()

	status := uc.Status()
	if status.State != engine.BatchCompleted || status.Total != 2 {
		t.Errorf("Status() = %+v", status)
	}
	if runner.runs != 1 {
		t.Errorf("batch executed %d times, want 1", runner.runs)
	}
}

func TestBatchUseCase_StartRejected(t *testing.T) {
	runner := &mockBatchRunner{checkErr: apperr.ErrBatchTooLarge}
	uc := NewBatchUseCase(runner, log.DefaultLogger)
	defer uc.Close()

	err := uc.Start(context.Background(), make([]dm.Article, 6), dm.PersonaObserver)
	if !errors.Is(err, apperr.ErrBatchTooLarge) {
		t.Errorf("Start() error = %v, want ErrBatchTooLarge", err)
	}
	uc.Wait()
	if runner.runs != 0 {
		t.Errorf("batch executed %d times, want 0", runner.runs)
	}
}

func TestBatchUseCase_SecondStartRejectedWhileRunning(t *testing.T) {
	runner := &mockBatchRunner{release: make(chan struct{})}
	uc := NewBatchUseCase(runner, log.DefaultLogger)
	defer uc.Close()

	articles := []dm.Article{{Title: "a", URL: "https://m.news.cn/a.htm"}}
	if err := uc.Start(context.Background(), articles, dm.PersonaObserver); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := uc.Status().State; got != engine.BatchRunning {
		t.Errorf("Status().State right after Start() = %q, want running", got)
	}

	err := uc.Start(context.Background(), articles, dm.PersonaEconomist)
	if !errors.Is(err, apperr.ErrBatchRunning) {
		t.Errorf("second Start() error = %v, want ErrBatchRunning", err)
	}

	close(runner.release)
	uc.Wait()
	if runner.runs != 1 {
		t.Errorf("batch executed %d times, want 1", runner.runs)
	}
}
