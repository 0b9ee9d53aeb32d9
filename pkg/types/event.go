package types

// EventType 事件类型名称
type EventType string
