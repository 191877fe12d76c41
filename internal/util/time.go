package util

import "time"

// NowMs 当前Unix毫秒时间戳
// 注意：取自系统墙钟，不保证跨事件单调递增（时钟回拨时可能倒退）
func NowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}
