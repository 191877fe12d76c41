package model

import (
	"sync/atomic"

	"github.com/google/uuid"

	"routerAnalytics/internal/util"
)

// EventID 事件唯一标识（UUIDv4）
// 仅内部使用：作为同步去重的身份键，不参与对外序列化
type EventID string

// NewEventID 生成新的事件ID
func NewEventID() EventID {
	return EventID(uuid.NewString())
}

// EventKind 事件类型标签
// 闭集：变体集合固定且编译期已知，按标签分发，不做动态派发
type EventKind string

const (
	KindRequestCompleted       EventKind = "LlmRequestCompleted"
	KindRequestFailed          EventKind = "LlmRequestFailed"
	KindBudgetThresholdReached EventKind = "BudgetThresholdReached"
	KindRouterStarted          EventKind = "RouterStarted"
	KindRouterStopped          EventKind = "RouterStopped"
)

// EventPayload 事件负载（封闭变体集合）
// 实现方仅限本包内的五种负载类型，调用方通过 type switch 按变体分发
type EventPayload interface {
	Kind() EventKind
}

// EventMetadata 事件元数据
type EventMetadata struct {
	EventID     EventID
	TimestampMs uint64 // 记录时刻的墙钟毫秒，不保证跨事件单调
	AgentID     string // 可选，空串表示未设置

	// 同步状态：仅允许 false→true 单向翻转，且与快照拷贝并发执行
	synced atomic.Bool
}

// AnalyticsEvent 不可变遥测事件 = 元数据 + 负载
// 除 synced 标志外，事件创建后不再修改；跨组件以指针共享
type AnalyticsEvent struct {
	Meta    EventMetadata
	Payload EventPayload
}

// NewEvent 创建事件并盖章元数据（新ID + 当前墙钟毫秒）
func NewEvent(payload EventPayload, agentID string) *AnalyticsEvent {
	return &AnalyticsEvent{
		Meta: EventMetadata{
			EventID:     NewEventID(),
			TimestampMs: util.NowMs(),
			AgentID:     agentID,
		},
		Payload: payload,
	}
}

// IsSynced 是否已同步到外部系统
func (e *AnalyticsEvent) IsSynced() bool {
	return e.Meta.synced.Load()
}

// MarkSynced 标记为已同步（单向翻转，幂等）
func (e *AnalyticsEvent) MarkSynced() {
	e.Meta.synced.Store(true)
}

// ============================================================================
// 负载变体
// ============================================================================

// LlmModelMeta LLM相关负载的公共字段
type LlmModelMeta struct {
	ProviderID string // 上游渠道标识（可选）
	Provider   Provider
	Model      string
}

// RequestCompletedData LLM调用成功负载
type RequestCompletedData struct {
	LlmModelMeta
	InputTokens  uint64
	OutputTokens uint64
	CostMicros   uint64 // 整数微单位（1美元 = 1,000,000微），金额不使用浮点
}

// RequestFailedData LLM调用失败负载
type RequestFailedData struct {
	LlmModelMeta
	ErrorCode    string
	ErrorMessage string
}

// BudgetThresholdData 预算阈值到达负载
type BudgetThresholdData struct {
	ThresholdPercent   uint8
	CurrentSpendMicros uint64
	BudgetMicros       uint64
}

// RouterStartedData 路由器启动负载
type RouterStartedData struct {
	Port uint16
}

// RouterStoppedData 路由器停止负载（携带停止时刻的累计总量）
type RouterStoppedData struct {
	TotalRequests   uint64
	TotalCostMicros uint64
}

func (*RequestCompletedData) Kind() EventKind { return KindRequestCompleted }
func (*RequestFailedData) Kind() EventKind    { return KindRequestFailed }
func (*BudgetThresholdData) Kind() EventKind  { return KindBudgetThresholdReached }
func (*RouterStartedData) Kind() EventKind    { return KindRouterStarted }
func (*RouterStoppedData) Kind() EventKind    { return KindRouterStopped }
