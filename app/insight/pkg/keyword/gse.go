package keyword

import (
	"sync"

	"github.com/go-ego/gse"
)

type gseSegmenter struct {
	seg *gse.Segmenter
}

func (g *gseSegmenter) Cut(text string) []string {
	return g.seg.Cut(text, true)
}

var loadGSE = sync.OnceValues(func() (Segmenter, error) {
	// 保留原文大小写，GDP 不能变成 gdp
	gse.ToLower = false
	seg := new(gse.Segmenter)
	if err := seg.LoadDictEmbed(); err != nil {
		return nil, err
	}
	return &gseSegmenter{seg: seg}, nil
})

// DefaultSegmenter 内置词典的中文分词器，进程内只加载一次
func DefaultSegmenter() (Segmenter, error) {
	return loadGSE()
}
