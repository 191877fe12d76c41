package pricing

import (
	"math"
	"sync"
)

// Price 单token价格（微单位每token，1美元 = 1,000,000微）
// 价格本身允许小数（如每token 0.15微），成本结算时四舍五入为整数微
type Price struct {
	InputMicrosPerToken  float64
	OutputMicrosPerToken float64
}

// CostMicros 按token用量计算成本，四舍五入为整数微单位
func (p Price) CostMicros(inputTokens, outputTokens uint64) uint64 {
	raw := float64(inputTokens)*p.InputMicrosPerToken + float64(outputTokens)*p.OutputMicrosPerToken
	if raw <= 0 {
		return 0
	}
	return uint64(math.Round(raw))
}

// Source 价格查询能力（外部协作方接口）
// 按 供应商+模型 查询单token价格；查不到的模型返回 ok=false，
// 调用方按零成本处理——观测路径永不因价格缺口失败或阻塞
type Source interface {
	Price(provider, model string) (Price, bool)
}

// Table 内存价格表（并发安全的 Source 实现）
// 价格数据的获取/刷新由外部负责，这里只提供查询能力
type Table struct {
	mu     sync.RWMutex
	prices map[string]Price
}

// NewTable 创建空价格表
func NewTable() *Table {
	return &Table{prices: make(map[string]Price)}
}

// Set 写入/覆盖某个模型的价格
func (t *Table) Set(provider, model string, p Price) {
	t.mu.Lock()
	t.prices[priceKey(provider, model)] = p
	t.mu.Unlock()
}

// Price 实现 Source 接口
func (t *Table) Price(provider, model string) (Price, bool) {
	t.mu.RLock()
	p, ok := t.prices[priceKey(provider, model)]
	t.mu.RUnlock()
	return p, ok
}

// Len 当前收录的价格条目数
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.prices)
}

func priceKey(provider, model string) string {
	return provider + "/" + model
}
