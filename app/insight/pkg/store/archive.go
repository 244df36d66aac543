package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/apperr"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/storage"
)

// Archive 深度研判档案。同一 (url, persona) 只保留一条，新条目插入最前。
type Archive struct {
	mu sync.Mutex
	kv storage.KV
}

func NewArchive(kv storage.KV) *Archive {
	return &Archive{kv: kv}
}

func (a *Archive) list(ctx context.Context) ([]model.SavedReport, error) {
	var reports []model.SavedReport
	if _, err := load(ctx, a.kv, KeyDossier, &reports); err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []model.SavedReport{}
	}
	return reports, nil
}

// List 返回全部条目
func (a *Archive) List(ctx context.Context) ([]model.SavedReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.list(ctx)
}

// Save 保存条目：已存在同一 (url, persona) 时原位覆盖，否则插入最前
func (a *Archive) Save(ctx context.Context, item model.SavedReport) ([]model.SavedReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current, err := a.list(ctx)
	if err != nil {
		return nil, err
	}

	replaced := false
	updated := make([]model.SavedReport, 0, len(current)+1)
	for _, r := range current {
		if r.SameSlot(item.Article.URL, item.Persona) {
			updated = append(updated, item)
			replaced = true
			continue
		}
		updated = append(updated, r)
	}
	if !replaced {
		updated = append([]model.SavedReport{item}, updated...)
	}

	if err := save(ctx, a.kv, KeyDossier, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete 按 id 删除，id 不存在时返回 ErrNotFound
func (a *Archive) Delete(ctx context.Context, id string) ([]model.SavedReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current, err := a.list(ctx)
	if err != nil {
		return nil, err
	}

	updated := make([]model.SavedReport, 0, len(current))
	for _, r := range current {
		if r.ID != id {
			updated = append(updated, r)
		}
	}
	if len(updated) == len(current) {
		return current, fmt.Errorf("dossier %s: %w", id, apperr.ErrNotFound)
	}

	if err := save(ctx, a.kv, KeyDossier, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Find 按 (url, persona) 查找
func (a *Archive) Find(ctx context.Context, url string, persona model.Persona) (*model.SavedReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current, err := a.list(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range current {
		if r.SameSlot(url, persona) {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("dossier %s/%s: %w", url, persona, apperr.ErrNotFound)
}
