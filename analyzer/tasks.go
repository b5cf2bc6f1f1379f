package analyzer

import (
	"fmt"
	"sync"
	"time"
)

// TaskState 任务状态
type TaskState string

const (
	TaskRunning TaskState = "running"
	TaskDone    TaskState = "completed"
	TaskFailed  TaskState = "failed"
)

// TaskInfo 任务信息
type TaskInfo struct {
	Code      string    `json:"stock_code"`
	State     TaskState `json:"status"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// 已结束任务的保留时长，超过后在下次登记时清理
const taskRetention = time.Hour

// Registry 进行中任务登记表。同一代码同时只允许一个分析任务。
type Registry struct {
	mu    sync.Mutex
	tasks map[string]*TaskInfo
}

// NewRegistry 创建任务登记表
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*TaskInfo)}
}

// Acquire 登记任务，若该代码已有进行中任务则返回错误
func (r *Registry) Acquire(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked()
	if info, ok := r.tasks[code]; ok && info.State == TaskRunning {
		return fmt.Errorf("股票 %s 的分析任务正在进行中", code)
	}
	r.tasks[code] = &TaskInfo{
		Code:      code,
		State:     TaskRunning,
		StartedAt: time.Now(),
	}
	return nil
}

// Release 标记任务结束
func (r *Registry) Release(code string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.tasks[code]
	if !ok {
		return
	}
	info.EndedAt = time.Now()
	if err != nil {
		info.State = TaskFailed
		info.Error = err.Error()
	} else {
		info.State = TaskDone
	}
}

// pruneLocked 清理超过保留时长的已结束任务，调用方需持锁
func (r *Registry) pruneLocked() {
	cutoff := time.Now().Add(-taskRetention)
	for code, info := range r.tasks {
		if info.State != TaskRunning && info.EndedAt.Before(cutoff) {
			delete(r.tasks, code)
		}
	}
}

// Get 查询任务状态
func (r *Registry) Get(code string) (*TaskInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.tasks[code]
	if !ok {
		return nil, false
	}
	copied := *info
	return &copied, true
}

// Running 当前运行中的任务数
func (r *Registry) Running() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, info := range r.tasks {
		if info.State == TaskRunning {
			n++
		}
	}
	return n
}

// Pool 固定大小的工作协程池，用于批量分析
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup
	once sync.Once
}

// NewPool 创建工作池并启动 workers 个工作协程
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 4
	}
	p := &Pool{jobs: make(chan func(), workers*4)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// Submit 提交任务，池关闭后提交会panic，调用方需保证顺序
func (p *Pool) Submit(job func()) {
	p.jobs <- job
}

// Close 关闭池并等待所有任务完成
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}
