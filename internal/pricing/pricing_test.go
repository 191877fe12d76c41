package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTable_SetAndLookup 价格表写入与查询
func TestTable_SetAndLookup(t *testing.T) {
	table := NewTable()
	assert.Equal(t, 0, table.Len())

	table.Set("openai", "gpt-4o-mini", Price{InputMicrosPerToken: 0.15, OutputMicrosPerToken: 0.6})
	table.Set("anthropic", "claude-3-opus", Price{InputMicrosPerToken: 15, OutputMicrosPerToken: 75})
	require.Equal(t, 2, table.Len())

	p, ok := table.Price("openai", "gpt-4o-mini")
	require.True(t, ok)
	assert.Equal(t, 0.15, p.InputMicrosPerToken)

	// 供应商+模型联合为键：同名模型在不同供应商下互不干扰
	_, ok = table.Price("anthropic", "gpt-4o-mini")
	assert.False(t, ok)

	// 查不到的模型返回 ok=false
	_, ok = table.Price("openai", "missing-model")
	assert.False(t, ok)

	// 覆盖写入
	table.Set("openai", "gpt-4o-mini", Price{InputMicrosPerToken: 0.3, OutputMicrosPerToken: 1.2})
	p, _ = table.Price("openai", "gpt-4o-mini")
	assert.Equal(t, 0.3, p.InputMicrosPerToken)
	assert.Equal(t, 2, table.Len())
}

// TestPrice_CostMicros 成本结算：四舍五入为整数微
func TestPrice_CostMicros(t *testing.T) {
	tests := []struct {
		name     string
		price    Price
		input    uint64
		output   uint64
		expected uint64
	}{
		{
			name:     "整数结果",
			price:    Price{InputMicrosPerToken: 10.5, OutputMicrosPerToken: 20.25},
			input:    1000,
			output:   500,
			expected: 20625,
		},
		{
			name:     "小数向上取整",
			price:    Price{InputMicrosPerToken: 0.15, OutputMicrosPerToken: 0},
			input:    10, // 1.5 → 2
			output:   0,
			expected: 2,
		},
		{
			name:     "小数向下取整",
			price:    Price{InputMicrosPerToken: 0.12, OutputMicrosPerToken: 0},
			input:    2, // 0.24 → 0
			output:   0,
			expected: 0,
		},
		{
			name:     "零价格",
			price:    Price{},
			input:    100000,
			output:   100000,
			expected: 0,
		},
		{
			name:     "零token",
			price:    Price{InputMicrosPerToken: 100, OutputMicrosPerToken: 100},
			input:    0,
			output:   0,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.price.CostMicros(tt.input, tt.output))
		})
	}
}
