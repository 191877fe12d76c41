package storage

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"

	"routerAnalytics/internal/config"
	"routerAnalytics/internal/model"
)

// EventBuffer 有界事件缓冲区
//
// 职责：保存原始事件供后续检视/重放/外部同步
//   - 写入永不阻塞、永不报错：满时拒绝新事件（drop-new策略）并递增丢弃计数，
//     已缓冲事件不受影响
//   - 丢弃只影响原始事件副本，聚合计数由 Aggregator 独立保证精确
//   - 容量构造时固定，之后不可调整
//
// 对外呈现无锁契约：内部用短临界区互斥锁保护slice，
// 所有操作同步完成，无挂起点、无I/O
type EventBuffer struct {
	mu     sync.Mutex
	events []*model.AnalyticsEvent

	capacity  int
	dropCount atomic.Uint64 // 单调不减，监控用
}

// NewEventBuffer 创建缓冲区
// 容量必须为正数：非法容量属配置错误，应在构造期尽早失败
func NewEventBuffer(capacity int) (*EventBuffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("事件缓冲区容量非法: %d（必须 >= 1）", capacity)
	}
	return &EventBuffer{
		events:   make([]*model.AnalyticsEvent, 0, capacity),
		capacity: capacity,
	}, nil
}

// Push 写入事件（永不阻塞、永不报错）
// 满时丢弃新事件并计数；丢弃日志采样打印，避免热路径刷屏
func (b *EventBuffer) Push(e *model.AnalyticsEvent) {
	b.mu.Lock()
	if len(b.events) < b.capacity {
		b.events = append(b.events, e)
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	count := b.dropCount.Add(1)
	if count%config.DropLogSampleInterval == 1 {
		log.Printf("[WARN]  事件缓冲区已满，新事件被丢弃 (容量: %d, 累计丢弃: %d) - 聚合计数不受影响", b.capacity, count)
	}
}

// Len 当前缓冲条数
func (b *EventBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// IsEmpty 缓冲区是否为空
func (b *EventBuffer) IsEmpty() bool {
	return b.Len() == 0
}

// Capacity 固定容量
func (b *EventBuffer) Capacity() int {
	return b.capacity
}

// DroppedCount 累计丢弃条数（单调不减）
func (b *EventBuffer) DroppedCount() uint64 {
	return b.dropCount.Load()
}

// DrainAll 原子取出并清空全部事件（破坏性操作，外部同步前调用）
func (b *EventBuffer) DrainAll() []*model.AnalyticsEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.events
	b.events = make([]*model.AnalyticsEvent, 0, b.capacity)
	return out
}

// SnapshotEvents 返回当前内容的副本（不移除）
func (b *EventBuffer) SnapshotEvents() []*model.AnalyticsEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*model.AnalyticsEvent, len(b.events))
	copy(out, b.events)
	return out
}

// UnsyncedEvents 过滤未同步事件（synced == false）
func (b *EventBuffer) UnsyncedEvents() []*model.AnalyticsEvent {
	return lo.Filter(b.SnapshotEvents(), func(e *model.AnalyticsEvent, _ int) bool {
		return !e.IsSynced()
	})
}

// UnsyncedCount 当前未同步事件数（记录时上升，标记同步后下降）
func (b *EventBuffer) UnsyncedCount() int {
	return len(b.UnsyncedEvents())
}

// MarkSynced 将指定ID的事件标记为已同步
// 幂等：不存在或已同步的ID静默忽略
func (b *EventBuffer) MarkSynced(ids []model.EventID) {
	if len(ids) == 0 {
		return
	}
	idSet := lo.SliceToMap(ids, func(id model.EventID) (model.EventID, struct{}) {
		return id, struct{}{}
	})

	// 持锁遍历：事件量有界（<= capacity），临界区很短
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.events {
		if _, ok := idSet[e.Meta.EventID]; ok {
			e.MarkSynced()
		}
	}
}
