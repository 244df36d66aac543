// Package storage 提供不透明的键值存储，每个键保存一个完整的 JSON 值。
package storage

import (
	"context"
	"fmt"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/config"
)

// KV 键值存储接口
type KV interface {
	// Get 读取键值，键不存在时 ok 为 false
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set 整体写入键值
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open 根据配置创建存储实例
func Open(cfg config.StorageConfig) (KV, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(cfg)
	case "redis":
		return NewRedis(cfg.Redis)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
