package model

import "strings"

// Provider LLM供应商（闭集）
// 仅由模型名前缀推断或字符串解析产生，未识别一律归入 unknown
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderUnknown   Provider = "unknown"
)

// String 规范字符串表示（与对外传输schema一致）
func (p Provider) String() string {
	return string(p)
}

// ParseProvider 解析供应商字符串（大小写不敏感，永不失败）
func ParseProvider(s string) Provider {
	switch {
	case strings.EqualFold(s, "openai"):
		return ProviderOpenAI
	case strings.EqualFold(s, "anthropic"):
		return ProviderAnthropic
	default:
		return ProviderUnknown
	}
}

// InferProvider 从模型名前缀推断供应商
// 纯函数、永不失败：gpt-/o1-/o3-/chatgpt- → openai，claude- → anthropic，其余 → unknown
func InferProvider(model string) Provider {
	switch {
	case hasPrefixFold(model, "gpt-"),
		hasPrefixFold(model, "o1-"),
		hasPrefixFold(model, "o3-"),
		hasPrefixFold(model, "chatgpt-"):
		return ProviderOpenAI
	case hasPrefixFold(model, "claude-"):
		return ProviderAnthropic
	default:
		return ProviderUnknown
	}
}

// hasPrefixFold 大小写不敏感的前缀匹配（零分配）
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
