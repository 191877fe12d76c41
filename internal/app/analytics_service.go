package app

import (
	"fmt"

	"github.com/bytedance/sonic"

	"routerAnalytics/internal/config"
	"routerAnalytics/internal/model"
	"routerAnalytics/internal/pricing"
	"routerAnalytics/internal/stats"
	"routerAnalytics/internal/storage"
)

// AnalyticsService 遥测记录服务（门面）
//
// 职责：记录/查询的高层入口
// - 元数据盖章（事件ID + 墙钟时间戳）
// - 成本计算（外部价格查询）与供应商推断
// - 双写：聚合器（事实来源，必达）+ 事件缓冲区（尽力而为）
// - 可选流式推送（尽力而为，背压时丢弃）
//
// 每个运行时会话构造一个实例，以指针注入到所有调用点共享，禁止包级单例；
// 所有方法可被任意数量goroutine并发调用，同步完成且永不阻塞。
// Record* 方法不返回错误：观测调用即发即弃，
// 唯一可观察的退化信号是 DroppedCount 的增长
type AnalyticsService struct {
	aggregator *stats.Aggregator
	buffer     *storage.EventBuffer
	sink       EventSink // 可选；nil 时流式推送为 no-op
}

// NewAnalyticsService 创建遥测服务
// capacity 为事件缓冲区容量，非法值（<1）直接报错——配置错误应在构造期暴露；
// sink 可为 nil，表示不启用流式推送
func NewAnalyticsService(capacity int, sink EventSink) (*AnalyticsService, error) {
	buf, err := storage.NewEventBuffer(capacity)
	if err != nil {
		return nil, fmt.Errorf("创建遥测服务失败: %w", err)
	}
	return &AnalyticsService{
		aggregator: stats.NewAggregator(),
		buffer:     buf,
		sink:       sink,
	}, nil
}

// NewAnalyticsServiceFromEnv 按环境变量/默认配置创建遥测服务
// 先加载 .env 文件（已设置的环境变量优先），再读取容量配置
func NewAnalyticsServiceFromEnv(sink EventSink) (*AnalyticsService, error) {
	config.LoadEnv()
	return NewAnalyticsService(config.EventBufferSize(), sink)
}

// record 统一记录路径：聚合器必达，缓冲与流式推送尽力而为
// 三路写入彼此独立，不保证同一事件跨组件的原子性或顺序
func (s *AnalyticsService) record(e *model.AnalyticsEvent) {
	s.aggregator.Record(e)
	s.buffer.Push(e)
	if s.sink != nil {
		s.sink.Send(e)
	}
}

// ============================================================================
// 记录方法（即发即弃，热路径无错误返回）
// ============================================================================

// RecordLLMCompleted 记录一次成功的LLM调用
// 供应商优先取 providerOverride（解析失败归入unknown），否则从模型名推断；
// 价格表缺该模型时成本记零——价格缺口绝不失败或阻塞调用方
func (s *AnalyticsService) RecordLLMCompleted(src pricing.Source, modelName string, inputTokens, outputTokens uint64, agentID, providerOverride string) {
	provider := model.InferProvider(modelName)
	if providerOverride != "" {
		provider = model.ParseProvider(providerOverride)
	}

	var costMicros uint64
	if src != nil {
		if p, ok := src.Price(provider.String(), modelName); ok {
			costMicros = p.CostMicros(inputTokens, outputTokens)
		}
	}

	s.record(model.NewEvent(&model.RequestCompletedData{
		LlmModelMeta: model.LlmModelMeta{Provider: provider, Model: modelName},
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		CostMicros:   costMicros,
	}, agentID))
}

// RecordLLMFailed 记录一次失败的LLM调用（递增失败计数，无成本字段）
// provider 为空时从模型名推断
func (s *AnalyticsService) RecordLLMFailed(modelName, agentID, provider, errorCode, errorMessage string) {
	p := model.ParseProvider(provider)
	if provider == "" {
		p = model.InferProvider(modelName)
	}

	s.record(model.NewEvent(&model.RequestFailedData{
		LlmModelMeta: model.LlmModelMeta{Provider: p, Model: modelName},
		ErrorCode:    errorCode,
		ErrorMessage: errorMessage,
	}, agentID))
}

// RecordBudgetThreshold 记录预算阈值到达事件
func (s *AnalyticsService) RecordBudgetThreshold(thresholdPercent uint8, currentSpendMicros, budgetMicros uint64, agentID string) {
	s.record(model.NewEvent(&model.BudgetThresholdData{
		ThresholdPercent:   thresholdPercent,
		CurrentSpendMicros: currentSpendMicros,
		BudgetMicros:       budgetMicros,
	}, agentID))
}

// RecordRouterStarted 记录路由器启动事件
func (s *AnalyticsService) RecordRouterStarted(port uint16) {
	s.record(model.NewEvent(&model.RouterStartedData{Port: port}, ""))
}

// RecordRouterStopped 记录路由器停止事件（负载携带停止时刻的累计总量）
func (s *AnalyticsService) RecordRouterStopped() {
	s.record(model.NewEvent(&model.RouterStoppedData{
		TotalRequests:   s.aggregator.TotalRequests(),
		TotalCostMicros: s.aggregator.TotalCostMicros(),
	}, ""))
}

// ============================================================================
// 查询/同步方法
// ============================================================================

// Stats 当前统计快照（最终一致，可与写入并发调用）
func (s *AnalyticsService) Stats() model.ComputedStats {
	return s.aggregator.Stats()
}

// ExportStatsJSON 统计快照的JSON序列化（供外部消费方读取）
func (s *AnalyticsService) ExportStatsJSON() ([]byte, error) {
	return sonic.Marshal(s.aggregator.Stats())
}

// DrainAll 取出并清空缓冲区全部事件（外部同步前调用）
func (s *AnalyticsService) DrainAll() []*model.AnalyticsEvent {
	return s.buffer.DrainAll()
}

// SnapshotEvents 缓冲区当前内容的副本（不移除）
func (s *AnalyticsService) SnapshotEvents() []*model.AnalyticsEvent {
	return s.buffer.SnapshotEvents()
}

// UnsyncedEvents 缓冲区中尚未同步的事件
func (s *AnalyticsService) UnsyncedEvents() []*model.AnalyticsEvent {
	return s.buffer.UnsyncedEvents()
}

// MarkSynced 标记事件为已同步（幂等，未知ID静默忽略）
func (s *AnalyticsService) MarkSynced(ids []model.EventID) {
	s.buffer.MarkSynced(ids)
}

// BufferLen 缓冲区当前条数
func (s *AnalyticsService) BufferLen() int {
	return s.buffer.Len()
}

// DroppedCount 缓冲区累计丢弃条数（单调不减）
func (s *AnalyticsService) DroppedCount() uint64 {
	return s.buffer.DroppedCount()
}

// UnsyncedCount 缓冲区中未同步事件数
func (s *AnalyticsService) UnsyncedCount() int {
	return s.buffer.UnsyncedCount()
}
