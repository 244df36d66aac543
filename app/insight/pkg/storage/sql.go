package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// dialect 不同数据库的 SQL 语句
type dialect struct {
	createTable string
	selectValue string
	upsertValue string
}

// sqlKV 基于 kv_store 表的存储实现
type sqlKV struct {
	db *sql.DB
	q  dialect
}

func newSQLKV(ctx context.Context, db *sql.DB, q dialect) (*sqlKV, error) {
	if _, err := db.ExecContext(ctx, q.createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &sqlKV{db: db, q: q}, nil
}

func (s *sqlKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.q.selectValue, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *sqlKV) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.q.upsertValue, key, string(value), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *sqlKV) Close() error {
	return s.db.Close()
}
