package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routerAnalytics/internal/config"
	"routerAnalytics/internal/testutil"
)

// TestStreamService_SubscribeUnsubscribe 订阅生命周期
func TestStreamService_SubscribeUnsubscribe(t *testing.T) {
	s := NewStreamService(4)

	ch1 := s.Subscribe()
	ch2 := s.Subscribe()
	assert.Equal(t, 2, s.SubscriberCount())

	s.Unsubscribe(ch1)
	assert.Equal(t, 1, s.SubscriberCount())

	// 取消订阅后channel被关闭
	_, open := <-ch1
	assert.False(t, open)

	s.Unsubscribe(ch2)
	assert.Equal(t, 0, s.SubscriberCount())
}

// TestStreamService_Broadcast 广播：每个订阅者都收到事件
func TestStreamService_Broadcast(t *testing.T) {
	s := NewStreamService(4)
	ch1 := s.Subscribe()
	ch2 := s.Subscribe()
	defer s.Unsubscribe(ch1)
	defer s.Unsubscribe(ch2)

	e := testutil.CompletedEvent("gpt-4o-mini", 1, 1, 1)
	s.Send(e)

	assert.Equal(t, e.Meta.EventID, (<-ch1).Meta.EventID)
	assert.Equal(t, e.Meta.EventID, (<-ch2).Meta.EventID)
}

// TestStreamService_SlowConsumerEvictsOldest 慢消费者：挤掉旧事件保留最新
func TestStreamService_SlowConsumerEvictsOldest(t *testing.T) {
	s := NewStreamService(1)
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	e1 := testutil.CompletedEvent("gpt-4o-mini", 1, 1, 1)
	e2 := testutil.CompletedEvent("gpt-4o-mini", 2, 2, 2)

	s.Send(e1) // 填满缓冲
	s.Send(e2) // 挤掉e1

	require.Equal(t, uint64(1), s.DroppedCount())
	got := <-ch
	assert.Equal(t, e2.Meta.EventID, got.Meta.EventID, "保留的应是最新事件")
}

// TestNewStreamService_InvalidBufSize 非法缓冲大小回退配置值
// 环境变量覆盖必须在回退路径生效
func TestNewStreamService_InvalidBufSize(t *testing.T) {
	s := NewStreamService(0)
	assert.Equal(t, config.DefaultStreamBufferSize, s.bufSize)

	t.Setenv("ANALYTICS_STREAM_BUFFER_SIZE", "1")
	s = NewStreamService(0)
	assert.Equal(t, 1, s.bufSize)

	// 环境变量也非法时兜底到编译期默认
	t.Setenv("ANALYTICS_STREAM_BUFFER_SIZE", "-3")
	s = NewStreamService(0)
	assert.Equal(t, config.DefaultStreamBufferSize, s.bufSize)

	// 显式传入的合法值优先于环境变量
	t.Setenv("ANALYTICS_STREAM_BUFFER_SIZE", "64")
	s = NewStreamService(8)
	assert.Equal(t, 8, s.bufSize)
}
