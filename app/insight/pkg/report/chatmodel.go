package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	acl "github.com/cloudwego/eino-ext/libs/acl/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/apperr"
	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

// Generator 单次对话补全
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// ChatOptions 构造对话模型的请求参数
type ChatOptions struct {
	Temperature  *float32
	MaxTokens    *int
	JSONResponse bool
	Timeout      time.Duration
}

// ModelFactory 根据接入配置创建对话模型
type ModelFactory func(ctx context.Context, cfg dm.APIConfig, opts ChatOptions) (Generator, error)

// NewChatModel 创建 OpenAI 兼容的对话模型，请求发往 {baseUrl}/chat/completions
func NewChatModel(ctx context.Context, cfg dm.APIConfig, opts ChatOptions) (Generator, error) {
	mc := &openai.ChatModelConfig{
		BaseURL:     ResolveBaseURL(cfg),
		APIKey:      cfg.APIKey,
		Model:       cfg.ModelID,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		HTTPClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &captureTransport{base: http.DefaultTransport},
		},
	}
	if opts.JSONResponse {
		mc.ResponseFormat = &acl.ChatCompletionResponseFormat{
			Type: acl.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	cm, err := openai.NewChatModel(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return cm, nil
}

type captureKey struct{}

// capture 记录一次调用中非 2xx 的响应
type capture struct {
	err *apperr.ProviderError
}

func withCapture(ctx context.Context) (context.Context, *capture) {
	c := &capture{}
	return context.WithValue(ctx, captureKey{}, c), c
}

// captureTransport 把非 2xx 响应的状态码与正文记录到请求上下文中，响应原样交还客户端
type captureTransport struct {
	base http.RoundTripper
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.base.RoundTrip(req)
	if err != nil || (res.StatusCode >= 200 && res.StatusCode <= 299) {
		return res, err
	}

	c, ok := req.Context().Value(captureKey{}).(*capture)
	if !ok {
		return res, nil
	}

	body, readErr := io.ReadAll(res.Body)
	res.Body.Close()
	res.Body = io.NopCloser(bytes.NewReader(body))
	if readErr != nil {
		return res, nil
	}
	c.err = &apperr.ProviderError{Status: res.StatusCode, Body: string(body)}
	return res, nil
}
