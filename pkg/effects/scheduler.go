package effects

import (
	"context"
	"log"
	"sync"
	"time"
)

// Scheduler 由外部时钟驱动的运行调度器
//
// 宿主在每一帧调用 Update(dt)，Scheduler 为每个运行累计经过的时间，
// 每满一个时间量子推进一步。运行结束后自动移除。
// Update 应始终在同一个 goroutine 中调用（例如 ebiten 的 Update），
// Start/Add/CancelAll 可以在回调中调用。
type Scheduler struct {
	mu      sync.Mutex
	entries []*scheduledRun
	verbose bool
}

type scheduledRun struct {
	run     *Run
	elapsed time.Duration
}

// NewScheduler 创建空调度器
func NewScheduler() *Scheduler {
	return &Scheduler{
		entries: make([]*scheduledRun, 0),
	}
}

// SetVerbose 是否输出调度日志
func (s *Scheduler) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// Start 应用效果并立即推进第一步，然后按量子调度后续步骤
//
// 第一步在调用时同步执行，与直接调用 ApplyOn 后马上开始动画一致。
// 第一步就越过上限的运行不会加入调度。
func (s *Scheduler) Start(ctx context.Context, effect *DropEffect, element Element) (*Run, error) {
	run, err := effect.ApplyOn(ctx, element)
	if err != nil {
		return nil, err
	}
	if run.AdvanceOneStep() {
		s.Add(run)
	}
	return run, nil
}

// Add 加入一个已创建的运行
func (s *Scheduler) Add(run *Run) {
	if run == nil || run.IsTerminated() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, &scheduledRun{run: run})
	if s.verbose {
		log.Printf("[Scheduler] run #%d added (%d active)", run.ID(), len(s.entries))
	}
}

// Update 推进所有运行
//
// 参数：
//   - dt: 自上一帧以来经过的时间
func (s *Scheduler) Update(dt time.Duration) {
	s.mu.Lock()
	snapshot := make([]*scheduledRun, len(s.entries))
	copy(snapshot, s.entries)
	s.mu.Unlock()

	for _, entry := range snapshot {
		step := entry.run.TimeStep()
		entry.elapsed += dt
		for entry.elapsed >= step {
			entry.elapsed -= step
			if !entry.run.AdvanceOneStep() {
				break
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	active := s.entries[:0]
	for _, entry := range s.entries {
		if entry.run.IsTerminated() {
			if s.verbose {
				log.Printf("[Scheduler] run #%d removed (%s)", entry.run.ID(), entry.run.Reason())
			}
			continue
		}
		active = append(active, entry)
	}
	// 清掉尾部引用
	for i := len(active); i < len(s.entries); i++ {
		s.entries[i] = nil
	}
	s.entries = active
}

// Active 仍在调度中的运行数
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Runs 当前调度中的运行
func (s *Scheduler) Runs() []*Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	runs := make([]*Run, 0, len(s.entries))
	for _, entry := range s.entries {
		runs = append(runs, entry.run)
	}
	return runs
}

// CancelAll 取消并移除所有运行
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	entries := s.entries
	s.entries = make([]*scheduledRun, 0)
	s.mu.Unlock()

	for _, entry := range entries {
		entry.run.Cancel()
	}
	if len(entries) > 0 {
		log.Printf("[Scheduler] cancelled %d runs", len(entries))
	}
}

// Drive 用真实时钟阻塞驱动单个运行，直到结束或 ctx 取消
//
// 适用于没有帧循环的宿主。第一步立即执行，之后每个量子执行一步。
//
// 返回：
//   - error: 运行的 Err()；ctx 取消时包含 ErrCancelled
func Drive(ctx context.Context, run *Run) error {
	if !run.AdvanceOneStep() {
		return run.Err()
	}

	ticker := time.NewTicker(run.TimeStep())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			run.Cancel()
			return run.Err()
		case <-run.Done():
			return run.Err()
		case <-ticker.C:
			if !run.AdvanceOneStep() {
				return run.Err()
			}
		}
	}
}
