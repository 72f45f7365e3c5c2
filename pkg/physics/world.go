package physics

import "math"

// DefaultAcceleration 默认加速度（向下为正）
// 单位与 Update 传入的时间单位配套，DropEffect 以毫秒为时间单位驱动
const DefaultAcceleration = 10.0

// World 单个下落物体的一维运动学模型
//
// 只保存加速度、速度、位移三个量，状态只能通过 Update 推进或 Set* 覆盖。
// World 是值语义：Clone 返回的副本与原对象不共享任何状态，
// DropEffect 每次 ApplyOn 都会克隆模板，保证并发运行互不干扰。
type World struct {
	acceleration float64
	velocity     float64
	distance     float64
}

// NewWorld 创建静止的模型（加速度 = DefaultAcceleration，速度位移为 0）
func NewWorld() *World {
	return &World{
		acceleration: DefaultAcceleration,
	}
}

// Clone 返回当前状态的独立副本
func (w *World) Clone() *World {
	copied := *w
	return &copied
}

// Update 按半隐式欧拉法推进一步
//
// 先更新速度，再用新速度更新位移：
//
//	v = v0 + a*t
//	s = s0 + v*t
//
// 参数：
//   - timeDelta: 时间步长，调用方保证非负
func (w *World) Update(timeDelta float64) {
	w.velocity += w.acceleration * timeDelta
	w.distance += w.velocity * timeDelta
}

// SetVelocity 设置当前速度
func (w *World) SetVelocity(velocity float64) {
	w.velocity = velocity
}

// SetDistance 设置已经过的位移
func (w *World) SetDistance(distance float64) {
	w.distance = distance
}

// SetAcceleration 设置加速度
func (w *World) SetAcceleration(acceleration float64) {
	w.acceleration = acceleration
}

// Distance 已经过的位移
func (w *World) Distance() float64 {
	return w.distance
}

// Velocity 当前速度
func (w *World) Velocity() float64 {
	return w.velocity
}

// Acceleration 当前加速度
func (w *World) Acceleration() float64 {
	return w.acceleration
}

// CanAdvance 判断位移是否会无限增长
//
// 加速度为正时速度终将为正；加速度为零时需要正速度。
// 其余情况下位移最终停滞或回退，任何正向的行程上限都可能永远达不到。
// 任一状态量为 NaN 或 ±Inf 时同样无法推进。
func (w *World) CanAdvance() bool {
	if !finite(w.acceleration) || !finite(w.velocity) || !finite(w.distance) {
		return false
	}
	if w.acceleration > 0 {
		return true
	}
	return w.acceleration == 0 && w.velocity > 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
