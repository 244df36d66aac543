package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyReportJSON = `{
	"period_summary": "旧版摘要",
	"top_keywords": [{"word": "稳增长", "weight": 80, "sentiment": "neutral"}],
	"policy_signal": "旧版信号",
	"core_topics": [{"topic_name": "财政", "summary": "赤字扩大"}],
	"strategic_advice": {"title": "旧建议", "content": "持有现金", "risk_level": "High"}
}`

const canonicalReportJSON = `{
	"general_analysis": {"summary": "新版摘要", "keywords": [{"word": "新质生产力", "weight": 90, "sentiment": "positive"}]},
	"situation_assessment": "新版形势",
	"real_intent": "新版意图",
	"avoidance_zone": {"title": "规避", "items": ["地产"]},
	"action_suggestions": {"title": "新建议", "content": "观望", "risk_level": "Low"},
	"period_summary": "旧版摘要",
	"top_keywords": [{"word": "稳增长", "weight": 80, "sentiment": "neutral"}],
	"policy_signal": "旧版信号",
	"strategic_advice": {"title": "旧建议", "content": "持有现金", "risk_level": "High"}
}`

func decodeReport(t *testing.T, raw string) *AnalysisReport {
	t.Helper()
	var r AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return &r
}

func TestAnalysisReport_LegacyOnly(t *testing.T) {
	r := decodeReport(t, legacyReportJSON)

	assert.Equal(t, "旧版摘要", r.Summary())
	assert.Equal(t, "旧版摘要", r.Situation())
	assert.Equal(t, "旧版信号", r.Intent())
	require.Len(t, r.Keywords(), 1)
	assert.Equal(t, "稳增长", r.Keywords()[0].Word)
	assert.Equal(t, "旧建议", r.AdviceTitle())
	assert.Equal(t, "持有现金", r.AdviceContent())
	assert.Equal(t, RiskHigh, r.AdviceRiskLevel())
	assert.Len(t, r.Topics(), 1)
	assert.Empty(t, r.Avoidance().Items)
}

func TestAnalysisReport_CanonicalWins(t *testing.T) {
	r := decodeReport(t, canonicalReportJSON)

	assert.Equal(t, "新版摘要", r.Summary())
	assert.Equal(t, "新版形势", r.Situation())
	assert.Equal(t, "新版意图", r.Intent())
	assert.Equal(t, "新质生产力", r.Keywords()[0].Word)
	assert.Equal(t, "新建议", r.AdviceTitle())
	assert.Equal(t, "观望", r.AdviceContent())
	assert.Equal(t, RiskLow, r.AdviceRiskLevel())
	assert.Equal(t, []string{"地产"}, r.Avoidance().Items)
}

func TestAnalysisReport_FieldByFieldFallback(t *testing.T) {
	r := decodeReport(t, `{
		"action_suggestions": {"title": "新建议"},
		"strategic_advice": {"title": "旧建议", "content": "旧内容", "risk_level": "Medium"},
		"general_analysis": {"keywords": []},
		"top_keywords": [{"word": "旧词", "weight": 10, "sentiment": "negative"}],
		"period_summary": "旧版摘要"
	}`)

	assert.Equal(t, "新建议", r.AdviceTitle())
	assert.Equal(t, "旧内容", r.AdviceContent())
	assert.Equal(t, RiskMedium, r.AdviceRiskLevel())
	// 当前字段给出空数组时不回退
	assert.Empty(t, r.Keywords())
	assert.Equal(t, "旧版摘要", r.Summary())
}

func TestAnalysisReport_Canonical(t *testing.T) {
	c := decodeReport(t, legacyReportJSON).Canonical()

	require.NotNil(t, c.GeneralAnalysis)
	assert.Equal(t, "旧版摘要", c.GeneralAnalysis.Summary)
	assert.Equal(t, "旧版信号", c.RealIntent)
	assert.Equal(t, RiskHigh, c.ActionSuggestions.RiskLevel)
	assert.Empty(t, c.PeriodSummary)
	assert.Nil(t, c.StrategicAdvice)
}

func TestParsePersona(t *testing.T) {
	p, err := ParsePersona("")
	require.NoError(t, err)
	assert.Equal(t, PersonaPlainSpoken, p)

	p, err = ParsePersona("economist")
	require.NoError(t, err)
	assert.Equal(t, PersonaEconomist, p)

	_, err = ParsePersona("astrologer")
	assert.Error(t, err)
}
