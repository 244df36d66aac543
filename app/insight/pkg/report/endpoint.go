package report

import (
	"strings"

	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

// 各提供方默认接口地址
const (
	OpenAIBaseURL   = "https://api.openai.com/v1"
	DeepSeekBaseURL = "https://api.deepseek.com"
	OllamaBaseURL   = "http://localhost:11434/v1"
)

// ResolveBaseURL 优先使用显式配置的 baseUrl，否则按提供方选择默认地址；去掉结尾的斜杠
func ResolveBaseURL(cfg dm.APIConfig) string {
	base := cfg.BaseURL
	if base == "" {
		switch cfg.Provider {
		case dm.ProviderOpenAI:
			base = OpenAIBaseURL
		case dm.ProviderDeepSeek:
			base = DeepSeekBaseURL
		default:
			base = OllamaBaseURL
		}
	}
	return strings.TrimRight(base, "/")
}
