package effects

import (
	"context"
	"fmt"

	"github.com/decker502/dropfx/pkg/config"
)

// 内置预设参数
const (
	speedyDropFramesPerSecond = 24
	speedyDropAnimationSpeed  = 50000.0

	equalDropVelocity       = 20.0
	equalDropAnimationSpeed = 1000.0
)

// Viewport 宿主视口查询
type Viewport interface {
	// ViewportHeight 视口高度（像素）
	ViewportHeight() float64

	// ElementTop 元素顶部在视口中的位置（像素）
	ElementTop(element Element) (float64, error)
}

// PresetHost 预设需要的宿主能力：渲染行为加视口查询
type PresetHost interface {
	Behavior
	Viewport
}

// viewportTravelLimit 行程上限 = 视口高度 - 元素顶部
func viewportTravelLimit(host PresetHost, element Element) (float64, error) {
	top, err := host.ElementTop(element)
	if err != nil {
		return 0, fmt.Errorf("query element position: %w", err)
	}
	return host.ViewportHeight() - top, nil
}

// NewSpeedyDrop 从静止开始加速下落并淡出
func NewSpeedyDrop(host PresetHost, element Element) (*DropEffect, error) {
	limit, err := viewportTravelLimit(host, element)
	if err != nil {
		return nil, err
	}

	effect := NewDropEffect(host)
	effect.SetAnimationFramesPerSecond(speedyDropFramesPerSecond)
	effect.SetFallDistance(limit)
	effect.SetAnimationSpeed(speedyDropAnimationSpeed)
	return effect, nil
}

// NewEqualDrop 匀速下落并淡出
func NewEqualDrop(host PresetHost, element Element) (*DropEffect, error) {
	limit, err := viewportTravelLimit(host, element)
	if err != nil {
		return nil, err
	}

	effect := NewDropEffect(host)
	effect.Simulation().SetVelocity(equalDropVelocity)
	effect.Simulation().SetAcceleration(0)
	effect.SetFallDistance(limit)
	effect.SetAnimationSpeed(equalDropAnimationSpeed)
	return effect, nil
}

// FromPreset 按配置预设构建效果
// 预设未指定行程上限时按视口推导
func FromPreset(preset config.DropEffectPreset, host PresetHost, element Element) (*DropEffect, error) {
	limit := preset.TravelLimit
	if limit == 0 {
		var err error
		if limit, err = viewportTravelLimit(host, element); err != nil {
			return nil, err
		}
	}

	effect := NewDropEffect(host)
	effect.SetAnimationFramesPerSecond(preset.FramesPerSecond)
	effect.SetAnimationSpeed(preset.AnimationSpeed)
	effect.SetFallDistance(limit)
	effect.SetOpacityGradient(preset.Opacity.Transparent, preset.Opacity.Opaque)
	effect.SetMaxSteps(preset.MaxSteps)
	effect.SetClampOpacity(preset.ClampOpacity)

	sim := effect.Simulation()
	sim.SetAcceleration(preset.World.Acceleration)
	sim.SetVelocity(preset.World.Velocity)
	sim.SetDistance(preset.World.Distance)
	return effect, nil
}

// SpeedyDrop 构建 speedyDrop 并交给调度器启动
func SpeedyDrop(ctx context.Context, s *Scheduler, host PresetHost, element Element) (*Run, error) {
	effect, err := NewSpeedyDrop(host, element)
	if err != nil {
		return nil, err
	}
	return s.Start(ctx, effect, element)
}

// EqualDrop 构建 equalDrop 并交给调度器启动
func EqualDrop(ctx context.Context, s *Scheduler, host PresetHost, element Element) (*Run, error) {
	effect, err := NewEqualDrop(host, element)
	if err != nil {
		return nil, err
	}
	return s.Start(ctx, effect, element)
}
