// Package proxy 通过一组有序的中继模板获取目标页面。
package proxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/apperr"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/logger"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/metrics"
)

// MinBodyLength 有效正文的最小字符数，更短的响应通常是中继的错误页
const MinBodyLength = 200

// MaxBodyBytes 单个中继响应的字节上限，超出视为该中继失败
const MaxBodyBytes = 8 << 20

// 模板占位符
const (
	PlaceholderURL       = "${url}"
	PlaceholderRawURL    = "${raw_url}"
	PlaceholderTimestamp = "${timestamp}"
)

// DefaultTemplates 内置中继模板，按优先级排列
var DefaultTemplates = []string{
	"https://cross.250221.xyz/?url=${url}",
	"https://api.allorigins.win/raw?url=${url}&t=${timestamp}",
	"https://corsproxy.io/?${url}",
	"https://thingproxy.freeboard.io/fetch/${raw_url}",
}

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher 中继抓取器。每次调用按顺序尝试每个模板一次，不重试、不退避。
type Fetcher struct {
	templates []string
	client    *http.Client
	now       func() time.Time
	maxBody   int64
}

// NewFetcher 创建抓取器。templates 为空时使用内置模板；非空时整体替换内置模板。
func NewFetcher(templates []string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return NewFetcherWithClient(templates, &http.Client{Timeout: timeout})
}

// NewFetcherWithClient 使用指定 HTTP 客户端创建抓取器
func NewFetcherWithClient(templates []string, client *http.Client) *Fetcher {
	if len(templates) == 0 {
		templates = DefaultTemplates
	}
	return &Fetcher{
		templates: append([]string(nil), templates...),
		client:    client,
		now:       time.Now,
		maxBody:   MaxBodyBytes,
	}
}

// Templates 当前生效的模板列表
func (f *Fetcher) Templates() []string {
	return append([]string(nil), f.templates...)
}

// Fetch 依次尝试中继模板，返回第一个长度达标的正文。
// 全部失败时返回 apperr.ErrAcquisitionExhausted。
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	for i, tpl := range f.templates {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		relay := strconv.Itoa(i)
		if !ValidTemplate(tpl) {
			metrics.RelayAttempts.WithLabelValues(relay, metrics.OutcomeSkipped).Inc()
			logger.Log.Warnf("中继模板缺少 ${url} 占位符，已跳过: %s", tpl)
			continue
		}
		fetchURL := Expand(tpl, target, f.now())

		body, outcome, err := f.try(ctx, fetchURL)
		metrics.RelayAttempts.WithLabelValues(relay, outcome).Inc()
		if err != nil {
			logger.Log.WithField("relay", i).Debugf("中继失败 [%s]: %v", fetchURL, err)
			continue
		}
		return body, nil
	}

	logger.Log.Warnf("所有中继均失败: %s", target)
	return "", fmt.Errorf("%s: %w", target, apperr.ErrAcquisitionExhausted)
}

func (f *Fetcher) try(ctx context.Context, fetchURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return "", metrics.OutcomeError, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("User-Agent", userAgent)

	res, err := f.client.Do(req)
	if err != nil {
		return "", metrics.OutcomeError, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		return "", metrics.OutcomeStatus, fmt.Errorf("relay status %d", res.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, f.maxBody+1))
	if err != nil {
		return "", metrics.OutcomeError, fmt.Errorf("read body failed: %w", err)
	}
	if int64(len(raw)) > f.maxBody {
		return "", metrics.OutcomeError, fmt.Errorf("body exceeds %d bytes", f.maxBody)
	}

	// 按 UTF-8 解码并去掉 BOM，非法字节替换为 U+FFFD
	decoded, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return "", metrics.OutcomeError, fmt.Errorf("decode body failed: %w", err)
	}

	text := string(decoded)
	if utf8.RuneCountInString(text) <= MinBodyLength {
		return "", metrics.OutcomeShort, fmt.Errorf("body too short (%d chars)", utf8.RuneCountInString(text))
	}
	return text, metrics.OutcomeOK, nil
}

// ValidTemplate 模板至少包含 ${url} 或 ${raw_url} 之一
func ValidTemplate(tpl string) bool {
	return strings.Contains(tpl, PlaceholderURL) || strings.Contains(tpl, PlaceholderRawURL)
}

// Expand 展开模板中的占位符
func Expand(tpl, target string, now time.Time) string {
	return strings.NewReplacer(
		PlaceholderURL, EncodeURIComponent(target),
		PlaceholderRawURL, target,
		PlaceholderTimestamp, strconv.FormatInt(now.UnixMilli(), 10),
	).Replace(tpl)
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent 百分号编码，保留字符集与浏览器 encodeURIComponent 一致
func EncodeURIComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
