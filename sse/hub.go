package sse

import (
	"sync"
	"time"
)

// 推送事件名
const (
	EventConnected        = "connected"
	EventLog              = "log"
	EventProgress         = "progress"
	EventScoresUpdate     = "scores_update"
	EventDataQuality      = "data_quality_update"
	EventPartialResult    = "partial_result"
	EventFinalResult      = "final_result"
	EventBatchResult      = "batch_result"
	EventAnalysisComplete = "analysis_complete"
	EventAnalysisError    = "analysis_error"
	EventAIStream         = "ai_stream"
	EventHeartbeat        = "heartbeat"
)

// Envelope 统一的事件信封
type Envelope struct {
	Event     string `json:"event"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// NewEnvelope 构造带当前时间戳的事件信封
func NewEnvelope(event string, data any) Envelope {
	return Envelope{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
	}
}

const clientBufferSize = 64

// Hub SSE客户端注册表。推送永不阻塞：队列满时丢弃消息。
type Hub struct {
	mu      sync.Mutex
	clients map[string]chan Envelope
}

// NewHub 创建推送中心
func NewHub() *Hub {
	return &Hub{clients: make(map[string]chan Envelope)}
}

// Register 注册客户端并返回其事件通道。同一id重复注册会替换旧通道。
func (h *Hub) Register(id string) <-chan Envelope {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.clients[id]; ok {
		close(old)
	}
	ch := make(chan Envelope, clientBufferSize)
	h.clients[id] = ch
	return ch
}

// Unregister 注销客户端。仅当 ch 仍是该id当前注册的通道时才关闭并移除，
// 旧连接延迟执行的注销不会误关重连后的新通道。
func (h *Hub) Unregister(id string, ch <-chan Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cur, ok := h.clients[id]
	if !ok || (<-chan Envelope)(cur) != ch {
		return
	}
	close(cur)
	delete(h.clients, id)
}

// Send 向指定客户端推送事件。客户端不存在或队列已满时返回false。
// 发送全程持锁：通道带缓冲且满时直接丢弃，select不会阻塞，
// 同时保证不会与Register/Unregister中的close并发。
func (h *Hub) Send(id, event string, data any) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.clients[id]
	if !ok {
		return false
	}
	select {
	case ch <- NewEnvelope(event, data):
		return true
	default:
		return false
	}
}

// Broadcast 向所有客户端推送事件，返回成功送达的客户端数
func (h *Hub) Broadcast(event string, data any) int {
	h.mu.Lock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	sent := 0
	for _, id := range ids {
		if h.Send(id, event, data) {
			sent++
		}
	}
	return sent
}

// Clients 当前在线客户端数
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
