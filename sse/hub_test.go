package sse

import (
	"errors"
	"sync"
	"testing"

	"stockweb/model"
)

func TestHubSendAndReceive(t *testing.T) {
	h := NewHub()
	ch := h.Register("c1")

	if !h.Send("c1", EventLog, map[string]string{"message": "ok"}) {
		t.Fatal("Send应成功")
	}

	env := <-ch
	if env.Event != EventLog {
		t.Errorf("Event = %s", env.Event)
	}
	if env.Timestamp == "" {
		t.Error("信封应带时间戳")
	}
}

func TestHubSendUnknownClient(t *testing.T) {
	h := NewHub()
	if h.Send("ghost", EventLog, nil) {
		t.Error("未注册客户端的推送应返回false")
	}
}

func TestHubFullQueueDrops(t *testing.T) {
	h := NewHub()
	h.Register("c1")

	// 填满缓冲
	for i := 0; i < clientBufferSize; i++ {
		if !h.Send("c1", EventLog, i) {
			t.Fatalf("第%d次推送不应失败", i)
		}
	}
	// 队列满时丢弃且不阻塞
	if h.Send("c1", EventLog, "overflow") {
		t.Error("队列满时推送应返回false")
	}
}

func TestHubUnregister(t *testing.T) {
	h := NewHub()
	ch := h.Register("c1")
	h.Unregister("c1", ch)

	if _, open := <-ch; open {
		t.Error("注销后通道应被关闭")
	}
	if h.Clients() != 0 {
		t.Errorf("Clients = %d", h.Clients())
	}
	// 重复注销不应panic
	h.Unregister("c1", ch)
}

func TestHubStaleUnregisterKeepsNewClient(t *testing.T) {
	h := NewHub()
	old := h.Register("c1")
	fresh := h.Register("c1")

	// 旧连接的延迟注销不应影响重连后的新通道
	h.Unregister("c1", old)
	if h.Clients() != 1 {
		t.Fatalf("Clients = %d, 期望 1", h.Clients())
	}
	if !h.Send("c1", EventLog, nil) {
		t.Error("新通道应仍可接收推送")
	}
	if (<-fresh).Event != EventLog {
		t.Error("事件应送达新通道")
	}

	h.Unregister("c1", fresh)
	if h.Clients() != 0 {
		t.Errorf("Clients = %d, 期望 0", h.Clients())
	}
}

func TestHubConcurrentSendUnregister(t *testing.T) {
	h := NewHub()

	// 推送与注销并发执行不应panic或竞争
	for i := 0; i < 500; i++ {
		ch := h.Register("c1")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				h.Send("c1", EventLog, j)
			}
		}()
		go func() {
			defer wg.Done()
			h.Unregister("c1", ch)
		}()
		wg.Wait()
	}
}

func TestHubReRegisterReplaces(t *testing.T) {
	h := NewHub()
	old := h.Register("c1")
	_ = h.Register("c1")

	if _, open := <-old; open {
		t.Error("重复注册时旧通道应被关闭")
	}
	if h.Clients() != 1 {
		t.Errorf("Clients = %d", h.Clients())
	}
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub()
	ch1 := h.Register("c1")
	ch2 := h.Register("c2")

	sent := h.Broadcast(EventHeartbeat, nil)
	if sent != 2 {
		t.Errorf("Broadcast送达数 = %d, 期望 2", sent)
	}
	if (<-ch1).Event != EventHeartbeat || (<-ch2).Event != EventHeartbeat {
		t.Error("所有客户端都应收到广播")
	}
}

func TestStreamerEvents(t *testing.T) {
	h := NewHub()
	ch := h.Register("c1")
	s := NewStreamer(h, "c1")

	s.Log("info", "开始分析")
	s.Progress("price", 20, "获取价格")
	s.ScoresUpdate(model.Scores{Technical: 70})
	s.DataQualityUpdate(model.DataQuality{TotalNewsCount: 5})
	s.PartialResult("technical_analysis", nil)
	s.AIStream("走势")
	s.FinalResult(&model.Report{StockCode: "600036"})
	s.Complete("600036")
	s.Error("600036", errors.New("超时"))

	wantEvents := []string{
		EventLog, EventProgress, EventScoresUpdate, EventDataQuality,
		EventPartialResult, EventAIStream, EventFinalResult,
		EventAnalysisComplete, EventAnalysisError,
	}
	for _, want := range wantEvents {
		env := <-ch
		if env.Event != want {
			t.Errorf("Event = %s, 期望 %s", env.Event, want)
		}
	}
}
