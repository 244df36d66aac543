// Package extract 从新闻页面 HTML 中提取文章列表与正文。
package extract

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/logger"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

const (
	// ListSelectors 首页文章链接选择器
	ListSelectors = ".headline a, .swiper-slide .tit a, .list li a, .products li a, #recommend li a"
	// MinTitleLength 标题最少字符数，过滤导航链接
	MinTitleLength = 7
	// MaxBodyLength 正文最大字符数
	MaxBodyLength = 4000
)

// BodySelectors 正文容器选择器，按优先级排列
var BodySelectors = []string{"#p-detail", ".main-content", ".content", "article"}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`/(\d{4})(\d{2})(\d{2})/`),
	regexp.MustCompile(`/(\d{4})/(\d{2})(\d{2})/`),
}

// Extractor HTML 提取器
type Extractor struct {
	readability bool
	now         func() time.Time
}

// Option 提取器选项
type Option func(*Extractor)

// WithReadability 容器选择器均未命中时，先尝试 readability 提取正文
func WithReadability(enabled bool) Option {
	return func(e *Extractor) {
		e.readability = enabled
	}
}

// WithClock 指定当前时间，用于 URL 中没有日期时的默认日期
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// New 创建提取器
func New(opts ...Option) *Extractor {
	e := &Extractor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today 当前日期 YYYY-MM-DD
func (e *Extractor) Today() string {
	return e.now().Format(time.DateOnly)
}

// ArticleList 提取文章列表：按标题去重（保留首次出现），按日期降序排列。
// 同一输入与同一日期下结果确定。
func (e *Extractor) ArticleList(html, baseURL string) []model.Article {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Log.Warnf("解析首页 HTML 失败: %v", err)
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		logger.Log.Warnf("无效的 base URL [%s]: %v", baseURL, err)
		return nil
	}

	today := e.Today()
	seen := make(map[string]struct{})
	var articles []model.Article

	doc.Find(ListSelectors).Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Text())
		href, _ := s.Attr("href")
		if utf8.RuneCountInString(title) < MinTitleLength || href == "" || strings.Contains(href, "javascript:") {
			return
		}
		if _, ok := seen[title]; ok {
			return
		}

		fullURL := resolve(base, href)
		if fullURL == "" {
			return
		}
		seen[title] = struct{}{}
		articles = append(articles, model.Article{
			Title: title,
			URL:   fullURL,
			Date:  dateFromURL(fullURL, today),
		})
	})

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Date > articles[j].Date
	})
	return articles
}

// ArticleBody 提取正文纯文本：去掉脚本与样式，依次尝试正文容器，
// 均未命中时使用整个 body。结果压缩空白并截断到 MaxBodyLength 个字符。
func (e *Extractor) ArticleBody(html, pageURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Log.Warnf("解析正文 HTML 失败: %v", err)
		return ""
	}
	doc.Find("script, style").Remove()

	content := ""
	for _, sel := range BodySelectors {
		if text := doc.Find(sel).First().Text(); strings.TrimSpace(text) != "" {
			content = text
			break
		}
	}
	if content == "" && e.readability {
		content = readabilityText(html, pageURL)
	}
	if content == "" {
		content = doc.Find("body").Text()
	}

	return truncate(collapse(content), MaxBodyLength)
}

func readabilityText(html, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		logger.Log.Debugf("readability 提取失败 [%s]: %v", pageURL, err)
		return ""
	}
	return article.TextContent
}

func resolve(base *url.URL, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func dateFromURL(u, fallback string) string {
	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(u); m != nil {
			return m[1] + "-" + m[2] + "-" + m[3]
		}
	}
	return fallback
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
