package systems

import (
	"errors"
	"fmt"

	"github.com/decker502/dropfx/pkg/components"
	"github.com/decker502/dropfx/pkg/ecs"
	"github.com/decker502/dropfx/pkg/effects"
)

var (
	// ErrNotEntity 元素或目标不是 ecs.EntityID
	ErrNotEntity = errors.New("value is not an entity id")
	// ErrMissingPosition 实体没有 PositionComponent
	ErrMissingPosition = errors.New("entity has no position component")
	// ErrMissingSprite 实体没有 SpriteComponent
	ErrMissingSprite = errors.New("entity has no sprite component")
	// ErrCloneGone 克隆实体已被移除
	ErrCloneGone = errors.New("drop clone no longer exists")
)

// EntityDropHost 把下落效果的回调映射到 ECS 实体上
//
// 元素和目标都是 ecs.EntityID：
//   - Prepare 克隆源实体的位置和精灵，初始偏移为源实体的纵坐标
//   - ApplyStep 把映射距离写入克隆的 Y，把不透明度写入 OpacityComponent
//   - Cleanup 标记克隆待删除，源实体保持不变
//
// EntityManager 不是并发安全的，所有回调都应在游戏循环的 Update 中触发。
type EntityDropHost struct {
	entityManager *ecs.EntityManager
	screenHeight  float64
}

var _ effects.PresetHost = (*EntityDropHost)(nil)

// NewEntityDropHost 创建宿主
func NewEntityDropHost(em *ecs.EntityManager, screenHeight float64) *EntityDropHost {
	return &EntityDropHost{
		entityManager: em,
		screenHeight:  screenHeight,
	}
}

// SetScreenHeight 窗口尺寸变化时更新视口高度
func (h *EntityDropHost) SetScreenHeight(height float64) {
	h.screenHeight = height
}

// Prepare 创建下落用的克隆实体
func (h *EntityDropHost) Prepare(element effects.Element) (effects.Prepared, error) {
	source, err := entityOf(element)
	if err != nil {
		return effects.Prepared{}, err
	}

	pos, ok := ecs.GetComponent[*components.PositionComponent](h.entityManager, source)
	if !ok {
		return effects.Prepared{}, fmt.Errorf("entity %d: %w", source, ErrMissingPosition)
	}
	sprite, ok := ecs.GetComponent[*components.SpriteComponent](h.entityManager, source)
	if !ok {
		return effects.Prepared{}, fmt.Errorf("entity %d: %w", source, ErrMissingSprite)
	}

	clone := h.entityManager.CreateEntity()
	h.entityManager.AddComponent(clone, &components.PositionComponent{X: pos.X, Y: pos.Y})
	h.entityManager.AddComponent(clone, &components.SpriteComponent{Image: sprite.Image})
	h.entityManager.AddComponent(clone, &components.OpacityComponent{Alpha: 1})
	h.entityManager.AddComponent(clone, &components.DropCloneComponent{Source: source})
	if scale, ok := ecs.GetComponent[*components.ScaleComponent](h.entityManager, source); ok {
		h.entityManager.AddComponent(clone, &components.ScaleComponent{ScaleX: scale.ScaleX, ScaleY: scale.ScaleY})
	}

	return effects.Prepared{Target: clone, InitialOffset: pos.Y}, nil
}

// ApplyStep 把一步的模拟结果写入克隆实体
func (h *EntityDropHost) ApplyStep(target effects.Target, data effects.SimulationData) error {
	clone, err := entityOf(target)
	if err != nil {
		return err
	}

	pos, ok := ecs.GetComponent[*components.PositionComponent](h.entityManager, clone)
	if !ok {
		return fmt.Errorf("clone %d: %w", clone, ErrCloneGone)
	}
	pos.Y = data.Distance

	if opacity, ok := ecs.GetComponent[*components.OpacityComponent](h.entityManager, clone); ok {
		opacity.Alpha = data.Opacity
	} else {
		h.entityManager.AddComponent(clone, &components.OpacityComponent{Alpha: data.Opacity})
	}

	if marker, ok := ecs.GetComponent[*components.DropCloneComponent](h.entityManager, clone); ok {
		marker.Steps = data.Step
	}
	return nil
}

// Cleanup 标记克隆实体待删除
// 克隆已不存在时视为清理完成
func (h *EntityDropHost) Cleanup(target effects.Target) error {
	clone, err := entityOf(target)
	if err != nil {
		return err
	}
	if h.entityManager.EntityExists(clone) {
		h.entityManager.DestroyEntity(clone)
	}
	return nil
}

// ViewportHeight 视口高度
func (h *EntityDropHost) ViewportHeight() float64 {
	return h.screenHeight
}

// ElementTop 源实体的纵坐标
func (h *EntityDropHost) ElementTop(element effects.Element) (float64, error) {
	id, err := entityOf(element)
	if err != nil {
		return 0, err
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](h.entityManager, id)
	if !ok {
		return 0, fmt.Errorf("entity %d: %w", id, ErrMissingPosition)
	}
	return pos.Y, nil
}

func entityOf(v interface{}) (ecs.EntityID, error) {
	id, ok := v.(ecs.EntityID)
	if !ok {
		return 0, fmt.Errorf("%w: %T", ErrNotEntity, v)
	}
	return id, nil
}
