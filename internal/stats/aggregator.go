package stats

import (
	"sync"
	"sync/atomic"

	"routerAnalytics/internal/model"
)

// ModelStats 单个key维度（模型或供应商）的累计计数器
// 各计数器独立原子递增，不存在跨计数器事务
type ModelStats struct {
	Requests     atomic.Uint64
	Failures     atomic.Uint64
	InputTokens  atomic.Uint64
	OutputTokens atomic.Uint64
	CostMicros   atomic.Uint64
}

// snapshot 读取当前计数（与写入者并发安全）
func (m *ModelStats) snapshot() model.ModelStatsSnapshot {
	return model.ModelStatsSnapshot{
		Requests:     m.Requests.Load(),
		Failures:     m.Failures.Load(),
		InputTokens:  m.InputTokens.Load(),
		OutputTokens: m.OutputTokens.Load(),
		CostMicros:   m.CostMicros.Load(),
	}
}

// Aggregator 原子聚合器：全局 + 按模型 + 按供应商累计总量
//
// 系统的事实来源：缓冲区丢弃不影响这里的精确计数
//
// 一致性契约：同一事件的多个计数器更新彼此独立（无锁换取的松弛一致性），
// 并发读取可能观察到全局已递增而分维度尚未递增的中间状态；
// Stats() 返回最终一致的快照，调用方不得将其当作事务视图
//
// 运维注意：key空间（观察到的模型/供应商名）只增不减，
// 随进程生命周期增长，上限取决于实际使用的模型种类数
type Aggregator struct {
	requests     atomic.Uint64
	failures     atomic.Uint64
	inputTokens  atomic.Uint64
	outputTokens atomic.Uint64
	costMicros   atomic.Uint64

	byModel    sync.Map // map[string]*ModelStats，LoadOrStore惰性创建
	byProvider sync.Map // map[string]*ModelStats
}

// NewAggregator 创建聚合器（所有计数器从零开始）
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// statsFor 惰性获取/创建key对应的计数器
// insert-if-absent语义：首次观察到新key时并发写入也不会丢失更新
func statsFor(table *sync.Map, key string) *ModelStats {
	if v, ok := table.Load(key); ok {
		return v.(*ModelStats)
	}
	v, _ := table.LoadOrStore(key, &ModelStats{})
	return v.(*ModelStats)
}

// Record 按负载变体分发，更新全局与分维度计数器
// 生命周期/预算事件走同一路径但不计入请求统计
func (a *Aggregator) Record(e *model.AnalyticsEvent) {
	switch p := e.Payload.(type) {
	case *model.RequestCompletedData:
		a.requests.Add(1)
		a.inputTokens.Add(p.InputTokens)
		a.outputTokens.Add(p.OutputTokens)
		a.costMicros.Add(p.CostMicros)

		ms := statsFor(&a.byModel, p.Model)
		ms.Requests.Add(1)
		ms.InputTokens.Add(p.InputTokens)
		ms.OutputTokens.Add(p.OutputTokens)
		ms.CostMicros.Add(p.CostMicros)

		ps := statsFor(&a.byProvider, p.Provider.String())
		ps.Requests.Add(1)
		ps.InputTokens.Add(p.InputTokens)
		ps.OutputTokens.Add(p.OutputTokens)
		ps.CostMicros.Add(p.CostMicros)

	case *model.RequestFailedData:
		a.requests.Add(1)
		a.failures.Add(1)

		ms := statsFor(&a.byModel, p.Model)
		ms.Requests.Add(1)
		ms.Failures.Add(1)

		ps := statsFor(&a.byProvider, p.Provider.String())
		ps.Requests.Add(1)
		ps.Failures.Add(1)
	}
}

// TotalRequests 当前累计请求数
func (a *Aggregator) TotalRequests() uint64 {
	return a.requests.Load()
}

// TotalCostMicros 当前累计成本（微单位）
func (a *Aggregator) TotalCostMicros() uint64 {
	return a.costMicros.Load()
}

// Stats 生成点时统计快照（可与任意数量写入者并发调用）
func (a *Aggregator) Stats() model.ComputedStats {
	return model.ComputedStats{
		TotalRequests:     a.requests.Load(),
		FailedRequests:    a.failures.Load(),
		TotalInputTokens:  a.inputTokens.Load(),
		TotalOutputTokens: a.outputTokens.Load(),
		TotalCostMicros:   a.costMicros.Load(),
		ByModel:           collect(&a.byModel),
		ByProvider:        collect(&a.byProvider),
	}
}

// collect 遍历分维度表并拷贝为普通map（快照归调用方所有）
func collect(table *sync.Map) map[string]model.ModelStatsSnapshot {
	out := make(map[string]model.ModelStatsSnapshot)
	table.Range(func(k, v any) bool {
		out[k.(string)] = v.(*ModelStats).snapshot()
		return true
	})
	return out
}
