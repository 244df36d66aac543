package store

import (
	"context"
	"sync"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/storage"
)

// SnapshotStore 看板快照槽位，新快照整体替换旧快照
type SnapshotStore struct {
	mu sync.Mutex
	kv storage.KV
}

func NewSnapshotStore(kv storage.KV) *SnapshotStore {
	return &SnapshotStore{kv: kv}
}

// Get 读取当前快照，不存在时返回 nil
func (s *SnapshotStore) Get(ctx context.Context) (*model.DashboardSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap model.DashboardSnapshot
	ok, err := load(ctx, s.kv, KeySnapshot, &snap)
	if err != nil || !ok {
		return nil, err
	}
	return &snap, nil
}

// Replace 写入新快照
func (s *SnapshotStore) Replace(ctx context.Context, snap model.DashboardSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return save(ctx, s.kv, KeySnapshot, snap)
}
