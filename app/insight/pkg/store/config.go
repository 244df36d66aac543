package store

import (
	"context"
	"sync"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/storage"
)

// ConfigStore 模型接入配置槽位
type ConfigStore struct {
	mu sync.Mutex
	kv storage.KV
}

func NewConfigStore(kv storage.KV) *ConfigStore {
	return &ConfigStore{kv: kv}
}

// Get 读取配置，未配置时返回 nil
func (s *ConfigStore) Get(ctx context.Context) (*model.APIConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg model.APIConfig
	ok, err := load(ctx, s.kv, KeyConfig, &cfg)
	if err != nil || !ok {
		return nil, err
	}
	return &cfg, nil
}

// Replace 整体替换配置
func (s *ConfigStore) Replace(ctx context.Context, cfg model.APIConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return save(ctx, s.kv, KeyConfig, cfg)
}

// SeedIfEmpty 仅在尚无配置时写入
func (s *ConfigStore) SeedIfEmpty(ctx context.Context, cfg model.APIConfig) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok, err := s.kv.Get(ctx, KeyConfig)
	if err != nil || ok {
		return false, err
	}
	return true, save(ctx, s.kv, KeyConfig, cfg)
}

// Status 配置状态，有 apiKey 即视为已配置
func (s *ConfigStore) Status(ctx context.Context) (model.ConfigStatus, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return model.ConfigStatus{}, err
	}
	if cfg == nil || cfg.APIKey == "" {
		return model.ConfigStatus{Configured: false}, nil
	}
	return model.ConfigStatus{Configured: true, Provider: cfg.Provider, ModelID: cfg.ModelID}, nil
}
