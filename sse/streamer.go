package sse

import (
	"stockweb/model"
)

// Streamer 将分析过程事件推送到指定客户端，实现分析器的观察者接口
type Streamer struct {
	hub *Hub
	id  string
}

// NewStreamer 创建绑定单个客户端的推流器
func NewStreamer(hub *Hub, clientID string) *Streamer {
	return &Streamer{hub: hub, id: clientID}
}

// Log 推送日志事件
func (s *Streamer) Log(level, message string) {
	s.hub.Send(s.id, EventLog, map[string]string{
		"level":   level,
		"message": message,
	})
}

// Progress 推送进度事件
func (s *Streamer) Progress(stage string, percent int, message string) {
	s.hub.Send(s.id, EventProgress, map[string]any{
		"stage":   stage,
		"percent": percent,
		"message": message,
	})
}

// ScoresUpdate 推送评分更新
func (s *Streamer) ScoresUpdate(scores model.Scores) {
	s.hub.Send(s.id, EventScoresUpdate, scores)
}

// DataQualityUpdate 推送数据质量更新
func (s *Streamer) DataQualityUpdate(q model.DataQuality) {
	s.hub.Send(s.id, EventDataQuality, q)
}

// PartialResult 推送阶段性结果
func (s *Streamer) PartialResult(name string, data any) {
	s.hub.Send(s.id, EventPartialResult, map[string]any{
		"name": name,
		"data": data,
	})
}

// AIStream 推送AI叙述增量
func (s *Streamer) AIStream(delta string) {
	s.hub.Send(s.id, EventAIStream, map[string]string{"delta": delta})
}

// FinalResult 推送完整分析报告
func (s *Streamer) FinalResult(report *model.Report) {
	s.hub.Send(s.id, EventFinalResult, report)
}

// BatchResult 推送批量分析中单只股票的结果
func (s *Streamer) BatchResult(index, total int, report *model.Report) {
	s.hub.Send(s.id, EventBatchResult, map[string]any{
		"index":  index,
		"total":  total,
		"report": report,
	})
}

// Complete 推送分析完成事件
func (s *Streamer) Complete(code string) {
	s.hub.Send(s.id, EventAnalysisComplete, map[string]string{"stock_code": code})
}

// Error 推送分析失败事件
func (s *Streamer) Error(code string, err error) {
	s.hub.Send(s.id, EventAnalysisError, map[string]string{
		"stock_code": code,
		"error":      err.Error(),
	})
}
