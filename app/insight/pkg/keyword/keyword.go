// Package keyword 从新闻标题中统计高频词：先整体匹配固定提法，再对剩余文本分词计数。
package keyword

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/logger"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

// TopN 返回的最大词条数
const TopN = 15

// Segmenter 分词接口
type Segmenter interface {
	Cut(text string) []string
}

// Extractor 关键词提取器
type Extractor struct {
	seg      Segmenter
	segErr   error
	hotWords []string
}

// New 使用指定分词器创建提取器；seg 为 nil 时使用内置中文分词器
func New(seg Segmenter) *Extractor {
	var err error
	if seg == nil {
		seg, err = DefaultSegmenter()
	}

	hot := append([]string(nil), HotWords...)
	sort.SliceStable(hot, func(i, j int) bool {
		return utf8.RuneCountInString(hot[i]) > utf8.RuneCountInString(hot[j])
	})

	return &Extractor{seg: seg, segErr: err, hotWords: hot}
}

// Extract 统计标题词频，按次数降序取前 TopN，次数相同保持首次出现的顺序。
// 分词器不可用时返回空结果。
func (e *Extractor) Extract(titles []string) []model.WordStat {
	if e.segErr != nil || e.seg == nil {
		logger.Log.Warnf("分词器不可用，跳过关键词统计: %v", e.segErr)
		return []model.WordStat{}
	}

	counts := make(map[string]int)
	var order []string
	add := func(word string, n int) {
		if _, ok := counts[word]; !ok {
			order = append(order, word)
		}
		counts[word] += n
	}

	for _, title := range titles {
		text := clean(title)

		for _, hot := range e.hotWords {
			if n := strings.Count(text, hot); n > 0 {
				add(hot, n)
				text = strings.ReplaceAll(text, hot, " ")
			}
		}

		for _, tok := range e.seg.Cut(text) {
			tok = strings.TrimSpace(tok)
			if utf8.RuneCountInString(tok) < 2 || !wordLike(tok) {
				continue
			}
			if _, stop := StopWords[tok]; stop {
				continue
			}
			add(tok, 1)
		}
	}

	stats := make([]model.WordStat, 0, len(order))
	for _, w := range order {
		stats = append(stats, model.WordStat{Word: w, Count: counts[w]})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	if len(stats) > TopN {
		stats = stats[:TopN]
	}
	return stats
}

// clean 把 CJK 统一汉字、ASCII 字母与数字以外的字符替换为空格
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 0x4e00 && r <= 0x9fa5,
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9':
			return r
		}
		return ' '
	}, s)
}

func wordLike(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
