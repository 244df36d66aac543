package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

var exportedAt = time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC)

func sample() []dm.SavedReport {
	return []dm.SavedReport{{
		ID:      "id-1",
		Article: dm.Article{Title: "国务院常务会议", URL: "https://m.news.cn/a.html", Date: "2024-05-01"},
		Report: dm.DeepReport{
			SurfaceMeaning:   "部署经济工作",
			DeepLogic:        "财政压力",
			ImpactAssessment: "地方债",
			KeySegments:      []string{"稳中求进", "加大力度"},
			BiasCheck:        "防御性",
		},
		Timestamp: 1714550400000,
		Persona:   dm.PersonaEconomist,
	}}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sample(), exportedAt))

	want := "XINHUA INSIGHT - CONFIDENTIAL DOSSIER\nExport Date: 2024-05-03\n\n" +
		"==================================================\n" +
		"REPORT #1: 国务院常务会议\n" +
		"DATE: 2024-05-01\n" +
		"URL: https://m.news.cn/a.html\n" +
		"PERSONA: economist\n" +
		"--------------------------------------------------\n" +
		"[Surface Meaning]: 部署经济工作\n\n" +
		"[Deep Logic / Intent]: 财政压力\n\n" +
		"[Impact]: 地方债\n\n" +
		"[Key Signals]:\n" +
		" - \"稳中求进\"\n" +
		" - \"加大力度\"\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sample()))
	assert.Contains(t, buf.String(), "\n  {\n    \"id\": \"id-1\"")

	var back []dm.SavedReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, sample(), back)

	buf.Reset()
	require.NoError(t, JSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFileNameAndFormat(t *testing.T) {
	assert.Equal(t, "xinhua_insight_dossier_2024-05-03.json", FileName(FormatJSON, exportedAt))
	assert.Equal(t, "xinhua_insight_dossier_2024-05-03.txt", FileName(FormatTXT, exportedAt))

	f, err := ParseFormat("TXT")
	require.NoError(t, err)
	assert.Equal(t, FormatTXT, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
