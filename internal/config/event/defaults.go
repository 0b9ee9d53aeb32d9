package event

const (
	// defaultEnabled 默认启用事件系统
	defaultEnabled = true

	// defaultMaxSubscribers 单事件最大订阅者数量
	defaultMaxSubscribers = 64
)
