package model

import (
	"testing"
)

// TestInferProvider 测试模型名前缀推断供应商
func TestInferProvider(t *testing.T) {
	tests := []struct {
		name     string
		model    string
		expected Provider
	}{
		{name: "gpt前缀", model: "gpt-4o-mini", expected: ProviderOpenAI},
		{name: "o1前缀", model: "o1-preview", expected: ProviderOpenAI},
		{name: "o3前缀", model: "o3-mini", expected: ProviderOpenAI},
		{name: "chatgpt前缀", model: "chatgpt-4o-latest", expected: ProviderOpenAI},
		{name: "claude前缀", model: "claude-3-opus", expected: ProviderAnthropic},
		{name: "大小写不敏感-GPT", model: "GPT-4", expected: ProviderOpenAI},
		{name: "大小写不敏感-Claude", model: "Claude-3-Sonnet", expected: ProviderAnthropic},
		{name: "未识别前缀", model: "llama-3-70b", expected: ProviderUnknown},
		{name: "前缀不完整", model: "gpt", expected: ProviderUnknown},
		{name: "空字符串", model: "", expected: ProviderUnknown},
		{name: "前缀出现在中间不算", model: "my-gpt-4", expected: ProviderUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferProvider(tt.model); got != tt.expected {
				t.Errorf("InferProvider(%q) = %q, 期望 %q", tt.model, got, tt.expected)
			}
		})
	}
}

// TestParseProvider 测试供应商字符串解析
func TestParseProvider(t *testing.T) {
	tests := []struct {
		input    string
		expected Provider
	}{
		{input: "openai", expected: ProviderOpenAI},
		{input: "OpenAI", expected: ProviderOpenAI},
		{input: "anthropic", expected: ProviderAnthropic},
		{input: "ANTHROPIC", expected: ProviderAnthropic},
		{input: "unknown", expected: ProviderUnknown},
		{input: "mistral", expected: ProviderUnknown},
		{input: "", expected: ProviderUnknown},
	}

	for _, tt := range tests {
		if got := ParseProvider(tt.input); got != tt.expected {
			t.Errorf("ParseProvider(%q) = %q, 期望 %q", tt.input, got, tt.expected)
		}
	}
}

// TestProviderString 规范字符串表示与对外schema一致
func TestProviderString(t *testing.T) {
	if ProviderOpenAI.String() != "openai" ||
		ProviderAnthropic.String() != "anthropic" ||
		ProviderUnknown.String() != "unknown" {
		t.Error("Provider规范字符串与对外schema不一致")
	}
}
