// Package report 调用大模型生成总体分析与单篇深度研判，并把输出解析为统一的报告结构。
package report

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/apperr"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/logger"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/metrics"
	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

const (
	// Temperature 固定采样温度
	Temperature float32 = 0.7
	// ValidateMaxTokens 连通性校验的最大输出 token
	ValidateMaxTokens = 20

	validateSuccess = "连接成功！"
)

// Normalizer 报告生成器。每次生成只发起一次请求，不自动重试。
type Normalizer struct {
	newModel ModelFactory
	limiter  *rate.Limiter
	timeout  time.Duration
}

// Option 生成器选项
type Option func(*Normalizer)

// WithModelFactory 替换对话模型的创建方式
func WithModelFactory(f ModelFactory) Option {
	return func(n *Normalizer) {
		n.newModel = f
	}
}

// WithRateLimit 按每分钟请求数节流，rpm <= 0 表示不限速
func WithRateLimit(rpm, burst int) Option {
	return func(n *Normalizer) {
		if rpm <= 0 {
			return
		}
		if burst <= 0 {
			burst = 1
		}
		n.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
	}
}

// WithTimeout 单次请求超时
func WithTimeout(d time.Duration) Option {
	return func(n *Normalizer) {
		n.timeout = d
	}
}

// NewNormalizer 创建报告生成器
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		newModel: NewChatModel,
		limiter:  rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Overview 基于标题列表生成总体分析
func (n *Normalizer) Overview(ctx context.Context, persona dm.Persona, articles []dm.Article, cfg *dm.APIConfig) (*dm.AnalysisReport, error) {
	var out dm.AnalysisReport
	if err := n.generate(ctx, KindOverview, persona, OverviewPrompt(articles), cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Deep 基于单篇正文生成深度研判
func (n *Normalizer) Deep(ctx context.Context, persona dm.Persona, article dm.Article, body string, cfg *dm.APIConfig) (*dm.DeepReport, error) {
	var out dm.DeepReport
	if err := n.generate(ctx, KindDeep, persona, DeepPrompt(article, body), cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (n *Normalizer) generate(ctx context.Context, kind Kind, persona dm.Persona, userPrompt string, cfg *dm.APIConfig, out any) error {
	if cfg == nil {
		return apperr.ErrConfigMissing
	}
	system, err := SystemPrompt(kind, persona)
	if err != nil {
		return err
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	temp := Temperature
	cm, err := n.newModel(ctx, *cfg, ChatOptions{
		Temperature:  &temp,
		JSONResponse: cfg.Provider != dm.ProviderOllama,
		Timeout:      n.timeout,
	})
	if err != nil {
		return err
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: userPrompt},
	}

	content, err := n.complete(ctx, cm, messages)
	if err != nil {
		metrics.Completions.WithLabelValues(string(kind), outcomeOf(err)).Inc()
		logger.Log.Errorf("AI 解码错误 [%s/%s]: %v", kind, persona, err)
		return err
	}

	if err := json.Unmarshal([]byte(cleanJSON(content)), out); err != nil {
		metrics.Completions.WithLabelValues(string(kind), metrics.OutcomeParse).Inc()
		logger.Log.Errorf("AI 输出解析失败 [%s/%s]: %v", kind, persona, err)
		return &apperr.ParseError{Err: err}
	}

	metrics.Completions.WithLabelValues(string(kind), metrics.OutcomeOK).Inc()
	return nil
}

// complete 发起一次补全并返回第一条回复的文本
func (n *Normalizer) complete(ctx context.Context, cm Generator, messages []*schema.Message, opts ...model.Option) (string, error) {
	cctx, c := withCapture(ctx)
	resp, err := cm.Generate(cctx, messages, opts...)
	if err != nil {
		return "", providerError(ctx, err, c)
	}
	if resp == nil || resp.Content == "" {
		return "", apperr.ErrEmptyCompletion
	}
	return resp.Content, nil
}

// Validate 发送一条极短的请求确认凭据与模型可用，错误只体现在返回值的 Message 中
func (n *Normalizer) Validate(ctx context.Context, cfg dm.APIConfig) dm.ValidationResult {
	maxTokens := ValidateMaxTokens
	cm, err := n.newModel(ctx, cfg, ChatOptions{MaxTokens: &maxTokens, Timeout: n.timeout})
	if err != nil {
		return dm.ValidationResult{Valid: false, Models: []string{}, Message: err.Error()}
	}

	messages := []*schema.Message{{Role: schema.User, Content: validatePrompt}}
	cctx, c := withCapture(ctx)
	if _, err := cm.Generate(cctx, messages); err != nil {
		err = providerError(ctx, err, c)
		var pe *apperr.ProviderError
		if errors.As(err, &pe) && pe.Status > 0 {
			return dm.ValidationResult{Valid: false, Models: []string{}, Message: pe.Body}
		}
		return dm.ValidationResult{Valid: false, Models: []string{}, Message: err.Error()}
	}
	return dm.ValidationResult{Valid: true, Models: []string{cfg.ModelID}, Message: validateSuccess}
}

// providerError 优先使用传输层记录的状态码与正文；上下文取消原样返回
func providerError(ctx context.Context, err error, c *capture) error {
	if c.err != nil {
		c.err.Err = err
		return c.err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var pe *apperr.ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &apperr.ProviderError{Err: err}
}

func outcomeOf(err error) string {
	if errors.Is(err, apperr.ErrEmptyCompletion) {
		return metrics.OutcomeEmpty
	}
	return metrics.OutcomeError
}

// cleanJSON 截取第一个 { 到最后一个 } 之间的内容，兼容模型在 JSON 外包裹说明或代码块
func cleanJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}
	return strings.TrimSpace(text)
}

