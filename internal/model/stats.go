package model

// ModelStatsSnapshot 单个模型/供应商维度的统计快照
type ModelStatsSnapshot struct {
	Requests     uint64 `json:"requests"`      // 请求总数（含失败）
	Failures     uint64 `json:"failures"`      // 失败请求数
	InputTokens  uint64 `json:"input_tokens"`  // 输入Token总数
	OutputTokens uint64 `json:"output_tokens"` // 输出Token总数
	CostMicros   uint64 `json:"cost_micros"`   // 总成本（微单位）
}

// ComputedStats 点时统计快照
// 每次调用重新计算，不做持久化；各计数器独立读取，
// 并发写入下为最终一致视图，不提供跨计数器事务语义
type ComputedStats struct {
	TotalRequests     uint64 `json:"total_requests"`
	FailedRequests    uint64 `json:"failed_requests"`
	TotalInputTokens  uint64 `json:"total_input_tokens"`
	TotalOutputTokens uint64 `json:"total_output_tokens"`
	TotalCostMicros   uint64 `json:"total_cost_micros"`

	ByModel    map[string]ModelStatsSnapshot `json:"by_model"`
	ByProvider map[string]ModelStatsSnapshot `json:"by_provider"`
}
