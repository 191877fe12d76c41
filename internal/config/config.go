package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ============================================================================
// 默认配置常量
// ============================================================================

const (
	// DefaultEventBufferSize 事件缓冲区默认容量（条）
	// 单条事件约数百字节，10000条约占几MB内存，满足有界内存要求
	DefaultEventBufferSize = 10000

	// DefaultStreamBufferSize 流式订阅者channel缓冲区大小
	// 平衡内存占用与慢消费者丢事件的风险
	DefaultStreamBufferSize = 256

	// DropLogSampleInterval 丢弃日志采样间隔（每N次丢弃打印一次，避免热路径刷屏）
	DropLogSampleInterval = 100
)

// LoadEnv 加载 .env 配置文件（文件不存在时静默忽略，已设置的环境变量优先）
func LoadEnv() {
	if err := godotenv.Load(); err == nil {
		log.Print("[INFO] 已加载 .env 配置文件")
	}
}

// GetEnvInt 读取整型环境变量，未设置或解析失败时返回默认值
func GetEnvInt(key string, defaultVal int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[WARN]  环境变量 %s=%q 解析失败，使用默认值 %d", key, raw, defaultVal)
		return defaultVal
	}
	return v
}

// EventBufferSize 事件缓冲区容量（ANALYTICS_BUFFER_SIZE 环境变量可覆盖）
// 注意：仅决定构造参数，构造后容量不可调整
func EventBufferSize() int {
	return GetEnvInt("ANALYTICS_BUFFER_SIZE", DefaultEventBufferSize)
}

// StreamBufferSize 流式订阅者缓冲区大小（ANALYTICS_STREAM_BUFFER_SIZE 环境变量可覆盖）
func StreamBufferSize() int {
	return GetEnvInt("ANALYTICS_STREAM_BUFFER_SIZE", DefaultStreamBufferSize)
}
