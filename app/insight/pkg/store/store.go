// Package store 在键值存储之上提供三个持久化槽位：模型配置、看板快照与档案。
// 每个槽位保存一个完整 JSON 值，写入总是读取-修改-整体写回，并由互斥锁保护。
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/storage"
)

// 持久化键
const (
	KeyConfig   = "xinhua_insight_api_config"
	KeySnapshot = "xinhua_insight_local_data"
	KeyDossier  = "xinhua_insight_dossier"
)

func load(ctx context.Context, kv storage.KV, key string, out any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func save(ctx context.Context, kv storage.KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, raw)
}
