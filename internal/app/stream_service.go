package app

import (
	"log"
	"sync"
	"sync/atomic"

	"routerAnalytics/internal/config"
	"routerAnalytics/internal/model"
)

// EventSink 流式事件接收端（可选协作方）
// 契约：Send 必须非阻塞、尽力而为——背压时丢弃事件，不返回错误
type EventSink interface {
	Send(e *model.AnalyticsEvent)
}

// StreamService 事件实时推送服务
//
// 订阅者各持一个带缓冲channel；慢消费者不会阻塞记录热路径：
// 缓冲区满时挤掉最旧一条、保留最新事件（实时性优先），并计数供监控
type StreamService struct {
	subscribers map[chan *model.AnalyticsEvent]struct{}
	mu          sync.RWMutex // 保护 subscribers
	bufSize     int
	dropCount   atomic.Uint64 // 慢消费者丢弃计数（监控用）
}

// NewStreamService 创建流式推送服务
// bufSize 为每个订阅者的channel缓冲大小，非法值回退到配置值
// （ANALYTICS_STREAM_BUFFER_SIZE 环境变量可覆盖，默认256）
func NewStreamService(bufSize int) *StreamService {
	if bufSize < 1 {
		bufSize = config.StreamBufferSize()
	}
	if bufSize < 1 {
		// 环境变量也给了非法值，兜底到编译期默认
		bufSize = config.DefaultStreamBufferSize
	}
	return &StreamService{
		subscribers: make(map[chan *model.AnalyticsEvent]struct{}),
		bufSize:     bufSize,
	}
}

// Subscribe 订阅事件推送，返回接收channel
// 调用方使用完毕必须调用 Unsubscribe 取消订阅
func (s *StreamService) Subscribe() chan *model.AnalyticsEvent {
	ch := make(chan *model.AnalyticsEvent, s.bufSize)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe 取消订阅并关闭channel
func (s *StreamService) Unsubscribe(ch chan *model.AnalyticsEvent) {
	s.mu.Lock()
	delete(s.subscribers, ch)
	s.mu.Unlock()
	close(ch)
}

// SubscriberCount 当前订阅者数量
func (s *StreamService) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

// DroppedCount 慢消费者导致的累计丢弃条数
func (s *StreamService) DroppedCount() uint64 {
	return s.dropCount.Load()
}

// Send 向所有订阅者广播事件（实现 EventSink）
// 非阻塞：订阅者缓冲满时挤掉最旧一条保持实时性
func (s *StreamService) Send(e *model.AnalyticsEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.subscribers {
		select {
		case ch <- e:
			// 成功发送
		default:
			// 缓冲区满：丢弃最旧一条再尝试塞入最新事件
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- e:
			default:
			}
			count := s.dropCount.Add(1)
			if count%config.DropLogSampleInterval == 1 {
				log.Printf("[WARN]  流式订阅缓冲区满，挤掉旧事件保持实时性 (累计: %d)", count)
			}
		}
	}
}
