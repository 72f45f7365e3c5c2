package effects

// Element 宿主侧的源元素句柄
// 控制器不解释它，只原样交给 Behavior.Prepare
type Element interface{}

// Target 由 Prepare 创建的可渲染副本（prepared target）
// ApplyStep 与 Cleanup 都作用在它上面
type Target interface{}

// Prepared Prepare 的返回值
type Prepared struct {
	// Target 已放置到源元素屏幕位置的副本
	Target Target

	// InitialOffset 副本开始下落前的纵向偏移（像素）
	InitialOffset float64
}

// SimulationData 单步模拟结果，交给 ApplyStep 应用到副本上
type SimulationData struct {
	// Step 从 1 开始的步序号
	Step int

	// Distance 副本应放置的纵向位置（像素）
	Distance float64

	// Opacity 副本的不透明度
	Opacity float64
}

// Behavior 宿主渲染表面的三项能力
//
// 控制器只调用、从不实现这些能力：
//   - Prepare: 复制源元素并放到相同位置，返回副本和初始偏移
//   - ApplyStep: 每个模拟步调用一次，把副本放到 distance 并设置 opacity
//   - Cleanup: 运行结束时调用且只调用一次，把副本从渲染树移除
type Behavior interface {
	Prepare(element Element) (Prepared, error)
	ApplyStep(target Target, data SimulationData) error
	Cleanup(target Target) error
}

// PrepareFunc 单独替换 Prepare 能力
type PrepareFunc func(element Element) (Prepared, error)

// StepFunc 单独替换 ApplyStep 能力
type StepFunc func(target Target, data SimulationData) error

// CleanupFunc 单独替换 Cleanup 能力
type CleanupFunc func(target Target) error

// BehaviorFuncs 在基础 Behavior 上逐项覆盖
//
// 为 nil 的字段回落到 Base。Base 也为 nil 时对应能力是空操作，
// Prepare 则返回 ErrNoBehavior。
type BehaviorFuncs struct {
	Base      Behavior
	PrepareFn PrepareFunc
	StepFn    StepFunc
	CleanupFn CleanupFunc
}

// compile-time check
var _ Behavior = (*BehaviorFuncs)(nil)

// Prepare implements Behavior.
func (b *BehaviorFuncs) Prepare(element Element) (Prepared, error) {
	if b.PrepareFn != nil {
		return b.PrepareFn(element)
	}
	if b.Base != nil {
		return b.Base.Prepare(element)
	}
	return Prepared{}, ErrNoBehavior
}

// ApplyStep implements Behavior.
func (b *BehaviorFuncs) ApplyStep(target Target, data SimulationData) error {
	if b.StepFn != nil {
		return b.StepFn(target, data)
	}
	if b.Base != nil {
		return b.Base.ApplyStep(target, data)
	}
	return nil
}

// Cleanup implements Behavior.
func (b *BehaviorFuncs) Cleanup(target Target) error {
	if b.CleanupFn != nil {
		return b.CleanupFn(target)
	}
	if b.Base != nil {
		return b.Base.Cleanup(target)
	}
	return nil
}
