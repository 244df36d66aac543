package model

import "time"

// Article 抓取得到的文章条目，url 在一次抓取内唯一
type Article struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Date    string `json:"date"` // YYYY-MM-DD
	Content string `json:"content,omitempty"`
}

// WordStat 标题词频统计
type WordStat struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Stats 看板统计信息
type Stats struct {
	Date          string     `json:"date"`
	TotalArticles int        `json:"total_articles"`
	LastUpdated   string     `json:"last_updated"`
	TopKeywords   []WordStat `json:"top_keywords"`
}

// DashboardSnapshot 一次抓取的完整结果，新抓取整体替换旧快照
type DashboardSnapshot struct {
	Stats    *Stats    `json:"stats"`
	Articles []Article `json:"articles"`
}

// Provider LLM 服务提供方
type Provider string

const (
	ProviderOpenAI   Provider = "openai"
	ProviderDeepSeek Provider = "deepseek"
	ProviderOllama   Provider = "ollama"
)

// Valid 是否为已知提供方
func (p Provider) Valid() bool {
	switch p {
	case ProviderOpenAI, ProviderDeepSeek, ProviderOllama:
		return true
	}
	return false
}

// APIConfig 操作者提供的模型接入配置
type APIConfig struct {
	Provider      Provider `json:"provider"`
	APIKey        string   `json:"apiKey,omitempty"`
	BaseURL       string   `json:"baseUrl,omitempty"`
	ModelID       string   `json:"modelId,omitempty"`
	CustomProxies []string `json:"customProxies,omitempty"`
}

// ConfigStatus 配置状态摘要
type ConfigStatus struct {
	Configured bool     `json:"configured"`
	Provider   Provider `json:"provider,omitempty"`
	ModelID    string   `json:"modelId,omitempty"`
}

// ValidationResult 配置连通性校验结果
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Models  []string `json:"models"`
	Message string   `json:"message,omitempty"`
}

// DeepReport 单篇深度研判
type DeepReport struct {
	SurfaceMeaning   string   `json:"surface_meaning"`
	DeepLogic        string   `json:"deep_logic"`
	ImpactAssessment string   `json:"impact_assessment"`
	KeySegments      []string `json:"key_segments"`
	BiasCheck        string   `json:"bias_check"`
}

// SavedReport 档案条目，(Article.URL, Persona) 唯一
type SavedReport struct {
	ID        string     `json:"id"`
	Article   Article    `json:"article"`
	Report    DeepReport `json:"report"`
	Timestamp int64      `json:"timestamp"` // epoch millis
	Persona   Persona    `json:"persona"`
}

// SameSlot 是否与另一条目占用同一 (url, persona) 位置
func (r SavedReport) SameSlot(url string, persona Persona) bool {
	return r.Article.URL == url && r.Persona == persona
}

// Millis 转换为毫秒时间戳
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
