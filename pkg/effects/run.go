package effects

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/decker502/dropfx/pkg/physics"
	"github.com/decker502/dropfx/pkg/utils"
)

// RunState 运行状态
type RunState int

const (
	// RunStateRunning 已准备副本，等待推进
	RunStateRunning RunState = iota
	// RunStateTerminated 已清理副本，不会再推进
	RunStateTerminated
)

func (s RunState) String() string {
	switch s {
	case RunStateRunning:
		return "running"
	case RunStateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("RunState(%d)", int(s))
	}
}

// TerminationReason 运行结束的原因
type TerminationReason int

const (
	ReasonNone TerminationReason = iota
	// ReasonReachedLimit 映射距离越过行程上限（正常结束）
	ReasonReachedLimit
	// ReasonCancelled ctx 取消或调用了 Cancel
	ReasonCancelled
	// ReasonStepLimit 达到最大步数
	ReasonStepLimit
	// ReasonFailed ApplyStep 返回错误或 panic
	ReasonFailed
)

func (r TerminationReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonReachedLimit:
		return "reached limit"
	case ReasonCancelled:
		return "cancelled"
	case ReasonStepLimit:
		return "step limit"
	case ReasonFailed:
		return "failed"
	default:
		return fmt.Sprintf("TerminationReason(%d)", int(r))
	}
}

var runCounter atomic.Uint64

// Run 一次 ApplyOn 产生的运行
//
// 持有自己的 World 克隆、副本句柄和配置快照，与其它运行不共享可变状态。
// 推进由外部时钟驱动：每个时间量子调用一次 AdvanceOneStep。
// 无论以何种方式结束，Cleanup 都恰好调用一次，之后不会再有 ApplyStep。
//
// Behavior 的回调在 Run 内部锁内执行，回调中不要调用同一个 Run 的方法。
type Run struct {
	mu sync.Mutex

	id       uint64
	ctx      context.Context
	world    *physics.World
	behavior Behavior
	target   Target

	initialOffset    float64
	travelLimit      float64
	speedScale       float64
	fullyOpaque      float64
	fullyTransparent float64
	quantum          float64 // 毫秒
	timeStep         time.Duration
	maxSteps         int
	clampOpacity     bool
	verbose          bool

	steps    int
	distance float64
	opacity  float64
	state    RunState
	reason   TerminationReason
	err      error
	done     chan struct{}
}

func newRun(ctx context.Context, e *DropEffect, prepared Prepared) *Run {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Run{
		id:               runCounter.Add(1),
		ctx:              ctx,
		world:            e.simulation.Clone(),
		behavior:         e.behavior,
		target:           prepared.Target,
		initialOffset:    prepared.InitialOffset,
		travelLimit:      e.travelLimit,
		speedScale:       e.speedScale,
		fullyOpaque:      e.fullyOpaque,
		fullyTransparent: e.fullyTransparent,
		quantum:          float64(quantumMillis(e.framesPerSecond)),
		timeStep:         e.TimeStep(),
		maxSteps:         e.maxSteps,
		clampOpacity:     e.clampOpacity,
		verbose:          e.verbose,
		distance:         prepared.InitialOffset,
		opacity:          e.fullyOpaque,
		state:            RunStateRunning,
		done:             make(chan struct{}),
	}
}

// AdvanceOneStep 推进一个时间量子
//
// 每步：
//  1. 检查取消，已取消则清理并结束
//  2. World 推进一个量子
//  3. distance = initialOffset + trunc(world.Distance * speedScale)
//  4. opacity 由 distance 在 [initialOffset, travelLimit] 上线性插值到 [opaque, transparent]
//  5. distance > travelLimit 时清理并结束，否则调用 ApplyStep
//
// 返回：
//   - bool: 运行是否仍在继续
func (r *Run) AdvanceOneStep() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == RunStateTerminated {
		return false
	}

	if err := r.ctx.Err(); err != nil {
		r.terminate(ReasonCancelled, fmt.Errorf("%w: %w", ErrCancelled, err))
		return false
	}

	if r.steps >= r.maxSteps {
		r.terminate(ReasonStepLimit, fmt.Errorf("%w: %d steps, distance %.1f of %.1f",
			ErrStepLimit, r.steps, r.distance, r.travelLimit))
		return false
	}

	r.world.Update(r.quantum)
	r.steps++

	r.distance = r.initialOffset + math.Trunc(r.world.Distance()*r.speedScale)
	r.opacity = utils.LinearInterpolation(r.distance, r.initialOffset, r.travelLimit,
		r.fullyOpaque, r.fullyTransparent)
	if r.clampOpacity {
		r.opacity = utils.ClampBetween(r.opacity, r.fullyOpaque, r.fullyTransparent)
	}

	if r.distance > r.travelLimit {
		r.terminate(ReasonReachedLimit, nil)
		return false
	}

	data := SimulationData{
		Step:     r.steps,
		Distance: r.distance,
		Opacity:  r.opacity,
	}
	if r.verbose {
		log.Printf("[DropEffect] run #%d step %d: distance=%.0f opacity=%.3f",
			r.id, data.Step, data.Distance, data.Opacity)
	}

	if err := r.applyStep(data); err != nil {
		r.terminate(ReasonFailed, fmt.Errorf("apply step %d: %w", data.Step, err))
		return false
	}
	return true
}

// Cancel 立即结束运行并清理副本，已结束时无操作
func (r *Run) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == RunStateTerminated {
		return
	}
	r.terminate(ReasonCancelled, ErrCancelled)
}

// terminate 调用方需持有 r.mu
func (r *Run) terminate(reason TerminationReason, cause error) {
	r.state = RunStateTerminated
	r.reason = reason
	r.err = errors.Join(cause, wrapCleanup(r.cleanup()))
	close(r.done)

	switch {
	case reason == ReasonFailed || reason == ReasonStepLimit:
		log.Printf("[DropEffect] run #%d stopped (%s) after %d steps: %v", r.id, reason, r.steps, r.err)
	case r.err != nil && reason != ReasonCancelled:
		log.Printf("[DropEffect] run #%d cleanup failed: %v", r.id, r.err)
	case r.verbose:
		log.Printf("[DropEffect] run #%d terminated (%s) after %d steps", r.id, reason, r.steps)
	}
}

func (r *Run) applyStep(data SimulationData) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("behavior panic: %v", p)
		}
	}()
	return r.behavior.ApplyStep(r.target, data)
}

func (r *Run) cleanup() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("behavior panic: %v", p)
		}
	}()
	return r.behavior.Cleanup(r.target)
}

// ID 运行编号（进程内唯一，用于日志）
func (r *Run) ID() uint64 {
	return r.id
}

// IsTerminated 是否已结束
func (r *Run) IsTerminated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == RunStateTerminated
}

// State 当前状态
func (r *Run) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Reason 结束原因，运行中返回 ReasonNone
func (r *Run) Reason() TerminationReason {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reason
}

// Err 结束时的错误；正常越过上限为 nil
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Steps 已推进的步数（包括越过上限的最后一步）
func (r *Run) Steps() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.steps
}

// Distance 最近一步的映射距离（像素）
func (r *Run) Distance() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.distance
}

// Opacity 最近一步的不透明度
func (r *Run) Opacity() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opacity
}

// Target 副本句柄
func (r *Run) Target() Target {
	return r.target
}

// InitialOffset 副本的初始偏移
func (r *Run) InitialOffset() float64 {
	return r.initialOffset
}

// TimeStep 时间量子
func (r *Run) TimeStep() time.Duration {
	return r.timeStep
}

// Done 运行结束时关闭
func (r *Run) Done() <-chan struct{} {
	return r.done
}
