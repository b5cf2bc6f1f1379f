package api

import (
	"io"
	"net/http"
	"time"

	ginsse "github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"stockweb/sse"
)

// 心跳间隔，保持连接并探测断开的客户端
const heartbeatInterval = 30 * time.Second

// Stream SSE推流端点。客户端带着client_id连接后，
// 分析过程中的所有事件都会推送到这里。
func (h *Handler) Stream(c *gin.Context) {
	clientID := c.Param("client_id")
	if clientID == "" {
		respondError(c, http.StatusBadRequest, "缺少client_id参数")
		return
	}

	ch := h.hub.Register(clientID)
	defer h.hub.Unregister(clientID, ch)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	// 连接确认
	writeEvent(c.Writer, sse.NewEnvelope(sse.EventConnected, gin.H{"client_id": clientID}))
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	done := c.Request.Context().Done()
	for {
		select {
		case <-done:
			return
		case env, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(c.Writer, env); err != nil {
				return
			}
			c.Writer.Flush()
		case <-heartbeat.C:
			if err := writeEvent(c.Writer, sse.NewEnvelope(sse.EventHeartbeat, nil)); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

// writeEvent 按SSE协议编码写出单个事件
func writeEvent(w io.Writer, env sse.Envelope) error {
	return ginsse.Encode(w, ginsse.Event{
		Event: env.Event,
		Data:  env,
	})
}
