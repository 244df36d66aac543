package extract

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 3, 10, 0, 0, 0, time.Local)
}

const homepage = `<html><body>
<div class="headline"><a href="/20240501/abc/c.html">国务院常务会议研究部署经济工作</a></div>
<ul class="list">
  <li><a href="https://www.news.cn/politics/2024/0502/xyz/c.html">新质生产力发展取得新进展</a></li>
  <li><a href="/20240430/dup/c.html">国务院常务会议研究部署经济工作</a></li>
  <li><a href="javascript:void(0)">这是一个脚本链接不应出现</a></li>
  <li><a href="/short.html">首页</a></li>
  <li><a href="/nodate/c.html">   没有日期的文章标题链接   </a></li>
</ul>
<div id="nav"><a href="/20240601/nav/c.html">不在选择器里的导航链接</a></div>
</body></html>`

func TestArticleList(t *testing.T) {
	e := New(WithClock(fixedClock))

	got := e.ArticleList(homepage, "https://m.news.cn/")

	assert.Equal(t, []model.Article{
		{Title: "没有日期的文章标题链接", URL: "https://m.news.cn/nodate/c.html", Date: "2024-05-03"},
		{Title: "新质生产力发展取得新进展", URL: "https://www.news.cn/politics/2024/0502/xyz/c.html", Date: "2024-05-02"},
		{Title: "国务院常务会议研究部署经济工作", URL: "https://m.news.cn/20240501/abc/c.html", Date: "2024-05-01"},
	}, got)
}

func TestArticleList_DuplicateTitleFirstWins(t *testing.T) {
	html := `<div class="list"><ul>
<li><a href="/20240501/a/c.html">同一个标题的新闻报道</a></li>
<li><a href="/20240502/b/c.html">另一个不同标题的新闻</a></li>
<li><a href="/20240503/c/c.html">同一个标题的新闻报道</a></li>
</ul></div>`
	e := New(WithClock(fixedClock))

	got := e.ArticleList(html, "https://m.news.cn/")

	require.Len(t, got, 2)
	assert.Equal(t, "另一个不同标题的新闻", got[0].Title)
	assert.Equal(t, "2024-05-02", got[0].Date)
	assert.Equal(t, "https://m.news.cn/20240501/a/c.html", got[1].URL)
}

func TestArticleList_Deterministic(t *testing.T) {
	e := New(WithClock(fixedClock))
	assert.Equal(t, e.ArticleList(homepage, "https://m.news.cn/"), e.ArticleList(homepage, "https://m.news.cn/"))
}

func TestArticleList_MalformedHTML(t *testing.T) {
	e := New(WithClock(fixedClock))
	got := e.ArticleList(`<div class="headline"><a href="/20240501/x/c.html">未闭合的标签也能解析出来<div>`, "https://m.news.cn/")
	require.Len(t, got, 1)
	assert.Equal(t, "2024-05-01", got[0].Date)
}

func TestArticleBody(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "priority container",
			html: `<body><div class="content">次要内容</div><div id="p-detail"><p>第一段</p>
<script>var x = 1;</script><p>第二段</p></div></body>`,
			want: "第一段 第二段",
		},
		{
			name: "empty container skipped",
			html: `<body><div id="p-detail">  </div><article>文章 正文</article></body>`,
			want: "文章 正文",
		},
		{
			name: "body fallback",
			html: `<body><style>p{}</style><p>只有	body
的内容</p></body>`,
			want: "只有 body 的内容",
		},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ArticleBody(tt.html, "https://m.news.cn/a.html"))
		})
	}
}

func TestArticleBody_Truncate(t *testing.T) {
	html := `<div id="p-detail">` + strings.Repeat("字", MaxBodyLength+100) + `</div>`
	got := New().ArticleBody(html, "https://m.news.cn/a.html")
	assert.Equal(t, MaxBodyLength, utf8.RuneCountInString(got))
}
