package model

// Sentiment 关键词情感倾向
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// RiskLevel 行动建议风险等级
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// Keyword 模型给出的加权关键词
type Keyword struct {
	Word      string    `json:"word"`
	Weight    float64   `json:"weight"` // 1-100
	Sentiment Sentiment `json:"sentiment"`
}

// GeneralAnalysis 总体分析
type GeneralAnalysis struct {
	Summary  string    `json:"summary"`
	Keywords []Keyword `json:"keywords"`
}

// AvoidanceZone 风险规避领域
type AvoidanceZone struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// StrategicAdvice 行动建议
type StrategicAdvice struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	RiskLevel RiskLevel `json:"risk_level"`
}

// CoreTopic 旧版报告中的核心议题
type CoreTopic struct {
	TopicName string `json:"topic_name"`
	Summary   string `json:"summary"`
}

// AnalysisReport 总体解读报告。
//
// 模型输出存在两代字段：当前字段 (general_analysis 等) 与旧版字段
// (period_summary 等)。结构体原样保存两者，读取一律通过下方访问器，
// 访问器逐字段先取当前字段，缺失时回退到旧版字段。
type AnalysisReport struct {
	GeneralAnalysis     *GeneralAnalysis `json:"general_analysis,omitempty"`
	SituationAssessment string           `json:"situation_assessment,omitempty"`
	RealIntent          string           `json:"real_intent,omitempty"`
	AvoidanceZone       *AvoidanceZone   `json:"avoidance_zone,omitempty"`
	ActionSuggestions   *StrategicAdvice `json:"action_suggestions,omitempty"`

	// 旧版字段
	PeriodSummary   string           `json:"period_summary,omitempty"`
	TopKeywords     []Keyword        `json:"top_keywords,omitempty"`
	PolicySignal    string           `json:"policy_signal,omitempty"`
	CoreTopics      []CoreTopic      `json:"core_topics,omitempty"`
	StrategicAdvice *StrategicAdvice `json:"strategic_advice,omitempty"`
}

// Summary general_analysis.summary，否则 period_summary
func (r *AnalysisReport) Summary() string {
	if r.GeneralAnalysis != nil && r.GeneralAnalysis.Summary != "" {
		return r.GeneralAnalysis.Summary
	}
	return r.PeriodSummary
}

// Keywords general_analysis.keywords，否则 top_keywords。
// 空数组也视为已给出。
func (r *AnalysisReport) Keywords() []Keyword {
	if r.GeneralAnalysis != nil && r.GeneralAnalysis.Keywords != nil {
		return r.GeneralAnalysis.Keywords
	}
	if r.TopKeywords != nil {
		return r.TopKeywords
	}
	return []Keyword{}
}

// Situation situation_assessment，否则 period_summary
func (r *AnalysisReport) Situation() string {
	if r.SituationAssessment != "" {
		return r.SituationAssessment
	}
	return r.PeriodSummary
}

// Intent real_intent，否则 policy_signal
func (r *AnalysisReport) Intent() string {
	if r.RealIntent != "" {
		return r.RealIntent
	}
	return r.PolicySignal
}

// Avoidance 风险规避领域，旧版没有对应字段
func (r *AnalysisReport) Avoidance() AvoidanceZone {
	if r.AvoidanceZone == nil {
		return AvoidanceZone{Items: []string{}}
	}
	zone := *r.AvoidanceZone
	if zone.Items == nil {
		zone.Items = []string{}
	}
	return zone
}

// AdviceTitle action_suggestions.title，否则 strategic_advice.title
func (r *AnalysisReport) AdviceTitle() string {
	if r.ActionSuggestions != nil && r.ActionSuggestions.Title != "" {
		return r.ActionSuggestions.Title
	}
	if r.StrategicAdvice != nil {
		return r.StrategicAdvice.Title
	}
	return ""
}

// AdviceContent action_suggestions.content，否则 strategic_advice.content
func (r *AnalysisReport) AdviceContent() string {
	if r.ActionSuggestions != nil && r.ActionSuggestions.Content != "" {
		return r.ActionSuggestions.Content
	}
	if r.StrategicAdvice != nil {
		return r.StrategicAdvice.Content
	}
	return ""
}

// AdviceRiskLevel action_suggestions.risk_level，否则 strategic_advice.risk_level
func (r *AnalysisReport) AdviceRiskLevel() RiskLevel {
	if r.ActionSuggestions != nil && r.ActionSuggestions.RiskLevel != "" {
		return r.ActionSuggestions.RiskLevel
	}
	if r.StrategicAdvice != nil {
		return r.StrategicAdvice.RiskLevel
	}
	return ""
}

// Topics 旧版核心议题，当前结构无对应字段
func (r *AnalysisReport) Topics() []CoreTopic {
	if r.CoreTopics == nil {
		return []CoreTopic{}
	}
	return r.CoreTopics
}

// Canonical 通过访问器生成只含当前字段的报告，供展示层直接序列化
func (r *AnalysisReport) Canonical() *AnalysisReport {
	return &AnalysisReport{
		GeneralAnalysis: &GeneralAnalysis{
			Summary:  r.Summary(),
			Keywords: r.Keywords(),
		},
		SituationAssessment: r.Situation(),
		RealIntent:          r.Intent(),
		AvoidanceZone:       ptr(r.Avoidance()),
		ActionSuggestions: &StrategicAdvice{
			Title:     r.AdviceTitle(),
			Content:   r.AdviceContent(),
			RiskLevel: r.AdviceRiskLevel(),
		},
		CoreTopics: r.CoreTopics,
	}
}

func ptr[T any](v T) *T {
	return &v
}
