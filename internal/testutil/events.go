package testutil

import (
	"routerAnalytics/internal/model"
)

// 测试辅助：构造各类遥测事件，避免各包测试重复样板代码

// CompletedEvent 构造一条成功调用事件（供应商由模型名推断）
func CompletedEvent(modelName string, inputTokens, outputTokens, costMicros uint64) *model.AnalyticsEvent {
	return model.NewEvent(&model.RequestCompletedData{
		LlmModelMeta: model.LlmModelMeta{
			Provider: model.InferProvider(modelName),
			Model:    modelName,
		},
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		CostMicros:   costMicros,
	}, "")
}

// FailedEvent 构造一条失败调用事件
func FailedEvent(modelName, errorCode, errorMessage string) *model.AnalyticsEvent {
	return model.NewEvent(&model.RequestFailedData{
		LlmModelMeta: model.LlmModelMeta{
			Provider: model.InferProvider(modelName),
			Model:    modelName,
		},
		ErrorCode:    errorCode,
		ErrorMessage: errorMessage,
	}, "")
}

// CompletedEvents 批量构造成功事件（模型名相同，token量固定）
func CompletedEvents(n int, modelName string) []*model.AnalyticsEvent {
	events := make([]*model.AnalyticsEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, CompletedEvent(modelName, 100, 50, 1000))
	}
	return events
}
