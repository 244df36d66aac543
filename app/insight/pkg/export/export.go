// Package export 把档案导出为 JSON 或纯文本摘要。
package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

// Format 导出格式
type Format string

const (
	FormatJSON Format = "json"
	FormatTXT  Format = "txt"
)

// ErrUnknownFormat 不支持的导出格式
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat 解析导出格式
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatTXT, "text":
		return FormatTXT, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
}

// ContentType 对应的 MIME 类型
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// FileName 默认文件名 xinhua_insight_dossier_YYYY-MM-DD.{json,txt}
func FileName(f Format, t time.Time) string {
	return fmt.Sprintf("xinhua_insight_dossier_%s.%s", t.Format(time.DateOnly), f)
}

// Write 按格式写出档案
func Write(w io.Writer, f Format, reports []dm.SavedReport, exportedAt time.Time) error {
	if f == FormatJSON {
		return JSON(w, reports)
	}
	return Text(w, reports, exportedAt)
}

// JSON 缩进格式的完整档案列表
func JSON(w io.Writer, reports []dm.SavedReport) error {
	if reports == nil {
		reports = []dm.SavedReport{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(reports)
}

var (
	blockRule   = strings.Repeat("=", 50)
	sectionRule = strings.Repeat("-", 50)
)

// Text 纯文本摘要，每条档案一个分隔块
func Text(w io.Writer, reports []dm.SavedReport, exportedAt time.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "XINHUA INSIGHT - CONFIDENTIAL DOSSIER\nExport Date: %s\n\n", exportedAt.Format(time.DateOnly))
	for i, r := range reports {
		fmt.Fprintln(bw, blockRule)
		fmt.Fprintf(bw, "REPORT #%d: %s\n", i+1, r.Article.Title)
		fmt.Fprintf(bw, "DATE: %s\n", r.Article.Date)
		fmt.Fprintf(bw, "URL: %s\n", r.Article.URL)
		fmt.Fprintf(bw, "PERSONA: %s\n", r.Persona)
		fmt.Fprintln(bw, sectionRule)
		fmt.Fprintf(bw, "[Surface Meaning]: %s\n\n", r.Report.SurfaceMeaning)
		fmt.Fprintf(bw, "[Deep Logic / Intent]: %s\n\n", r.Report.DeepLogic)
		fmt.Fprintf(bw, "[Impact]: %s\n\n", r.Report.ImpactAssessment)
		fmt.Fprintln(bw, "[Key Signals]:")
		for _, s := range r.Report.KeySegments {
			fmt.Fprintf(bw, " - \"%s\"\n", s)
		}
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}
