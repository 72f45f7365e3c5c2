package effects

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/decker502/dropfx/pkg/physics"
)

// 默认配置（与原始效果保持一致）
const (
	DefaultFramesPerSecond  = 24
	DefaultAnimationSpeed   = 50000.0
	DefaultFullyOpaque      = 1.0
	DefaultFullyTransparent = 0.0

	// DefaultMaxSteps 单次运行的最大步数（安全阀）
	// 24 帧下约 7 分钟
	DefaultMaxSteps = 10000

	// MaxFramesPerSecond 时间量子按整数毫秒截断，超过 1000 帧量子为 0
	MaxFramesPerSecond = 1000
)

// DropEffect 下落淡出效果的配置
//
// 持有一个 World 模板，每次 ApplyOn 都克隆模板并快照当前配置，
// 因此同一个 DropEffect 可以被多次应用，各次运行互不影响。
// DropEffect 本身不是并发安全的：配置应在 ApplyOn 之前完成。
type DropEffect struct {
	simulation *physics.World

	fullyOpaque      float64
	fullyTransparent float64
	framesPerSecond  int
	speedScale       float64

	travelLimit    float64
	travelLimitSet bool

	maxSteps     int
	clampOpacity bool
	verbose      bool

	behavior Behavior
}

// NewDropEffect 创建默认配置的下落效果
//
// 参数：
//   - host: 宿主渲染能力，可为 nil（之后通过 SetBehavior 设置）
//
// 行程上限没有默认值，ApplyOn 之前必须调用 SetFallDistance。
func NewDropEffect(host Behavior) *DropEffect {
	return &DropEffect{
		simulation:       physics.NewWorld(),
		fullyOpaque:      DefaultFullyOpaque,
		fullyTransparent: DefaultFullyTransparent,
		framesPerSecond:  DefaultFramesPerSecond,
		speedScale:       1 / DefaultAnimationSpeed,
		maxSteps:         DefaultMaxSteps,
		behavior:         host,
	}
}

// SetOpacityGradient 控制下落过程中的淡出
//
// 参数：
//   - transparent: 结束时的不透明度
//   - opaque: 开始时的不透明度
//
// SetOpacityGradient(1, 1) 关闭淡出；交换两个值得到淡入效果。
func (e *DropEffect) SetOpacityGradient(transparent, opaque float64) {
	e.fullyTransparent = transparent
	e.fullyOpaque = opaque
}

// FullyOpaque 开始时的不透明度
func (e *DropEffect) FullyOpaque() float64 {
	return e.fullyOpaque
}

// FullyTransparent 结束时的不透明度
func (e *DropEffect) FullyTransparent() float64 {
	return e.fullyTransparent
}

// SetAnimationFramesPerSecond 设置帧率，帧率越高 CPU 占用越高
func (e *DropEffect) SetAnimationFramesPerSecond(fps int) {
	e.framesPerSecond = fps
}

// FramesPerSecond 当前帧率
func (e *DropEffect) FramesPerSecond() int {
	return e.framesPerSecond
}

// SetFallDistance 设置行程上限（像素）
// 映射后的距离严格大于该值时运行结束
func (e *DropEffect) SetFallDistance(limit float64) {
	e.travelLimit = limit
	e.travelLimitSet = true
}

// FallDistance 行程上限，以及是否已设置
func (e *DropEffect) FallDistance() (float64, bool) {
	return e.travelLimit, e.travelLimitSet
}

// SetAnimationSpeed 设置模拟距离到屏幕像素的换算
// 实际缩放系数为 1/speed，默认 speed = 50000
func (e *DropEffect) SetAnimationSpeed(speed float64) {
	e.speedScale = 1 / speed
}

// SetSpeedScale 直接设置缩放系数
func (e *DropEffect) SetSpeedScale(scale float64) {
	e.speedScale = scale
}

// SpeedScale 当前缩放系数
func (e *DropEffect) SpeedScale() float64 {
	return e.speedScale
}

// SetMaxSteps 设置单次运行的最大步数，n <= 0 恢复默认值
func (e *DropEffect) SetMaxSteps(n int) {
	if n <= 0 {
		n = DefaultMaxSteps
	}
	e.maxSteps = n
}

// SetClampOpacity 是否把每步的不透明度限制在渐变区间内
//
// 插值不截断，初始偏移大于行程上限等情况下不透明度会落在
// [transparent, opaque] 之外。默认不截断，保持原始视觉效果。
func (e *DropEffect) SetClampOpacity(clamp bool) {
	e.clampOpacity = clamp
}

// SetVerbose 是否输出每步日志
func (e *DropEffect) SetVerbose(verbose bool) {
	e.verbose = verbose
}

// Simulation 返回可调整的 World 模板
// 修改只影响之后的 ApplyOn，已经开始的运行持有自己的克隆
func (e *DropEffect) Simulation() *physics.World {
	return e.simulation
}

// SetBehavior 整体替换宿主能力
func (e *DropEffect) SetBehavior(host Behavior) {
	e.behavior = host
}

// Behavior 当前宿主能力
func (e *DropEffect) Behavior() Behavior {
	return e.behavior
}

// SetPrepareBehavior 只替换克隆/准备能力
func (e *DropEffect) SetPrepareBehavior(f PrepareFunc) {
	e.overlay().PrepareFn = f
}

// SetStepBehavior 只替换单步应用能力
func (e *DropEffect) SetStepBehavior(f StepFunc) {
	e.overlay().StepFn = f
}

// SetCleanupBehavior 只替换清理能力
func (e *DropEffect) SetCleanupBehavior(f CleanupFunc) {
	e.overlay().CleanupFn = f
}

// overlay 用新的 BehaviorFuncs 包住当前 behavior
// 总是复制一份，已开始的运行不会看到之后的覆盖
func (e *DropEffect) overlay() *BehaviorFuncs {
	funcs := &BehaviorFuncs{Base: e.behavior}
	if current, ok := e.behavior.(*BehaviorFuncs); ok {
		copied := *current
		funcs = &copied
	}
	e.behavior = funcs
	return funcs
}

// TimeStep 每步的时间量子
// 1000/fps 毫秒，按整数毫秒截断；fps 非法时返回 0
func (e *DropEffect) TimeStep() time.Duration {
	return time.Duration(quantumMillis(e.framesPerSecond)) * time.Millisecond
}

func quantumMillis(fps int) int {
	if fps <= 0 {
		return 0
	}
	return 1000 / fps
}

// Validate 检查配置能否产生一个会终止的运行
func (e *DropEffect) Validate() error {
	if e.behavior == nil {
		return ErrNoBehavior
	}
	if e.framesPerSecond <= 0 || e.framesPerSecond > MaxFramesPerSecond {
		return fmt.Errorf("%w: got %d", ErrInvalidFrameRate, e.framesPerSecond)
	}
	if !e.travelLimitSet || !positiveFinite(e.travelLimit) {
		return fmt.Errorf("%w: got %.2f", ErrInvalidTravelLimit, e.travelLimit)
	}
	if !positiveFinite(e.speedScale) {
		return fmt.Errorf("%w: got %g", ErrInvalidSpeedScale, e.speedScale)
	}
	if !inUnitRange(e.fullyOpaque) || !inUnitRange(e.fullyTransparent) {
		return fmt.Errorf("%w: opaque=%.2f transparent=%.2f",
			ErrInvalidOpacity, e.fullyOpaque, e.fullyTransparent)
	}
	if !e.simulation.CanAdvance() {
		return fmt.Errorf("%w: acceleration=%g velocity=%g",
			ErrUnreachableLimit, e.simulation.Acceleration(), e.simulation.Velocity())
	}
	return nil
}

// ApplyOn 把效果应用到元素上
//
// 流程：
//  1. 校验配置，失败时不触碰宿主
//  2. 调用 Prepare 复制元素
//  3. 克隆 World 模板并快照配置，返回处于 Running 状态的 Run
//
// 返回的 Run 还没有推进任何一步，需要由 Scheduler、Drive
// 或调用方自己的时钟反复调用 AdvanceOneStep。
// ctx 被取消后，下一次 AdvanceOneStep 会清理副本并结束运行。
func (e *DropEffect) ApplyOn(ctx context.Context, element Element) (*Run, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	prepared, err := e.prepare(element)
	if err != nil {
		return nil, fmt.Errorf("prepare element: %w", err)
	}

	if prepared.InitialOffset == e.travelLimit {
		cleanupErr := e.cleanup(prepared.Target)
		return nil, errors.Join(
			fmt.Errorf("%w: %.2f", ErrDegenerateTravel, e.travelLimit),
			wrapCleanup(cleanupErr),
		)
	}

	run := newRun(ctx, e, prepared)
	if e.verbose {
		log.Printf("[DropEffect] run #%d started: offset=%.1f limit=%.1f step=%v",
			run.id, prepared.InitialOffset, e.travelLimit, run.timeStep)
	}
	return run, nil
}

// prepare 调用宿主 Prepare，宿主 panic 时转为错误返回
func (e *DropEffect) prepare(element Element) (prepared Prepared, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("behavior panic: %v", p)
		}
	}()
	return e.behavior.Prepare(element)
}

func (e *DropEffect) cleanup(target Target) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("behavior panic: %v", p)
		}
	}()
	return e.behavior.Cleanup(target)
}

// positiveFinite NaN 和 ±Inf 都不满足
func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}

func wrapCleanup(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("cleanup: %w", err)
}
