// Package metrics 注册核心流程的 Prometheus 指标。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "xinhua_insight"

var (
	// RelayAttempts 中继尝试次数，按中继序号与结果统计
	RelayAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relay_attempts_total",
		Help:      "Relay fetch attempts by relay index and outcome.",
	}, []string{"relay", "outcome"})

	// Completions LLM 调用次数，按报告类型与结果统计
	Completions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_completions_total",
		Help:      "Chat completion calls by report kind and outcome.",
	}, []string{"kind", "outcome"})

	// BatchItems 批量解读条目结果
	BatchItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_items_total",
		Help:      "Batch items by outcome.",
	}, []string{"outcome"})

	// Crawls 首页抓取次数
	Crawls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "crawls_total",
		Help:      "Homepage crawls by outcome.",
	}, []string{"outcome"})
)

// 结果标签
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeShort   = "short"
	OutcomeStatus  = "status"
	OutcomeSkipped = "skipped"
	OutcomeEmpty   = "empty"
	OutcomeParse   = "parse"
)
