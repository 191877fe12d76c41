package model

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
)

// 对外传输schema：字段名与取值必须与外部消费方严格一致
// event_id 与 synced 为本地内部字段，绝不参与序列化

// wireHeader 所有事件共有的传输头
type wireHeader struct {
	EventType   EventKind `json:"event_type"`
	TimestampMs uint64    `json:"timestamp_ms"`
	AgentID     string    `json:"agent_id,omitempty"`
}

type wireRequestCompleted struct {
	wireHeader
	ProviderID   string `json:"provider_id,omitempty"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	InputTokens  uint64 `json:"input_tokens"`
	OutputTokens uint64 `json:"output_tokens"`
	CostMicros   uint64 `json:"cost_micros"`
}

type wireRequestFailed struct {
	wireHeader
	ProviderID string `json:"provider_id,omitempty"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`

	// 错误字段缺失时序列化为显式null（外部消费方按可空字段解析）
	ErrorCode    *string `json:"error_code"`
	ErrorMessage *string `json:"error_message"`
}

type wireBudgetThreshold struct {
	wireHeader
	ThresholdPercent   uint8  `json:"threshold_percent"`
	CurrentSpendMicros uint64 `json:"current_spend_micros"`
	BudgetMicros       uint64 `json:"budget_micros"`
}

type wireRouterStarted struct {
	wireHeader
	Port uint16 `json:"port"`
}

type wireRouterStopped struct {
	wireHeader
	TotalRequests   uint64 `json:"total_requests"`
	TotalCostMicros uint64 `json:"total_cost_micros"`
}

// MarshalWire 将事件序列化为对外传输JSON
func MarshalWire(e *AnalyticsEvent) ([]byte, error) {
	h := wireHeader{
		EventType:   e.Payload.Kind(),
		TimestampMs: e.Meta.TimestampMs,
		AgentID:     e.Meta.AgentID,
	}

	switch p := e.Payload.(type) {
	case *RequestCompletedData:
		return sonic.Marshal(wireRequestCompleted{
			wireHeader:   h,
			ProviderID:   p.ProviderID,
			Provider:     p.Provider.String(),
			Model:        p.Model,
			InputTokens:  p.InputTokens,
			OutputTokens: p.OutputTokens,
			CostMicros:   p.CostMicros,
		})
	case *RequestFailedData:
		return sonic.Marshal(wireRequestFailed{
			wireHeader:   h,
			ProviderID:   p.ProviderID,
			Provider:     p.Provider.String(),
			Model:        p.Model,
			ErrorCode:    nullableString(p.ErrorCode),
			ErrorMessage: nullableString(p.ErrorMessage),
		})
	case *BudgetThresholdData:
		return sonic.Marshal(wireBudgetThreshold{
			wireHeader:         h,
			ThresholdPercent:   p.ThresholdPercent,
			CurrentSpendMicros: p.CurrentSpendMicros,
			BudgetMicros:       p.BudgetMicros,
		})
	case *RouterStartedData:
		return sonic.Marshal(wireRouterStarted{wireHeader: h, Port: p.Port})
	case *RouterStoppedData:
		return sonic.Marshal(wireRouterStopped{
			wireHeader:      h,
			TotalRequests:   p.TotalRequests,
			TotalCostMicros: p.TotalCostMicros,
		})
	default:
		return nil, fmt.Errorf("不支持的事件负载类型: %T", e.Payload)
	}
}

// nullableString 空串视作缺失，序列化为null
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// MarshalWireBatch 批量序列化为JSON数组（用于外部同步一次性上报）
func MarshalWireBatch(events []*AnalyticsEvent) ([]byte, error) {
	items := make([]json.RawMessage, 0, len(events))
	for _, e := range events {
		raw, err := MarshalWire(e)
		if err != nil {
			return nil, err
		}
		items = append(items, raw)
	}
	return sonic.Marshal(items)
}
