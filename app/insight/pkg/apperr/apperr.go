// Package apperr 定义核心流程共享的错误分类。
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrAcquisitionExhausted 所有中继模板均失败或返回内容过短
	ErrAcquisitionExhausted = errors.New("acquisition exhausted: all relays failed")
	// ErrParseFailure HTML 无法使用，或模型输出在括号提取后仍不是合法 JSON
	ErrParseFailure = errors.New("parse failure")
	// ErrEmptyCompletion 模型返回空内容
	ErrEmptyCompletion = errors.New("empty completion")
	// ErrConfigMissing 需要凭据的操作在配置存在之前被调用
	ErrConfigMissing = errors.New("api config missing")
	// ErrBatchTooLarge 批量解读超过单次上限
	ErrBatchTooLarge = errors.New("batch selection exceeds limit")
	// ErrBatchRunning 已有批量任务在运行
	ErrBatchRunning = errors.New("batch already running")
	// ErrUnknownPersona 未知的解码视角
	ErrUnknownPersona = errors.New("unknown persona")
	// ErrNotFound 档案中不存在该条目，或没有可供分析的快照
	ErrNotFound = errors.New("not found")
	// ErrInvalidConfig 接入配置字段不合法
	ErrInvalidConfig = errors.New("invalid api config")
)

// ProviderError LLM 接口返回非 2xx 状态
type ProviderError struct {
	Status int
	Body   string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("provider error %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("provider error: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ParseError 模型输出解析失败，保留原始解码错误
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model output: %v", e.Err)
}

// Is 使 errors.Is(err, ErrParseFailure) 成立
func (e *ParseError) Is(target error) bool {
	return target == ErrParseFailure
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
