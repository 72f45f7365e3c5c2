package systems

import (
	"github.com/decker502/dropfx/pkg/components"
	"github.com/decker502/dropfx/pkg/ecs"
	"github.com/decker502/dropfx/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// RenderSystem 绘制拥有位置和精灵组件的实体
//
// 绘制顺序按实体 ID 升序，后创建的下落克隆总是位于源实体之上。
// 可选组件：
//   - ScaleComponent: 以精灵中心为原点缩放
//   - OpacityComponent: 通过 ColorScale 调整透明度
type RenderSystem struct {
	entityManager *ecs.EntityManager
}

// NewRenderSystem 创建一个新的渲染系统
func NewRenderSystem(em *ecs.EntityManager) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
	}
}

// Draw 绘制所有可渲染实体，返回实际绘制的数量
func (s *RenderSystem) Draw(screen *ebiten.Image) int {
	entities := ecs.GetEntitiesWith2[
		*components.PositionComponent,
		*components.SpriteComponent,
	](s.entityManager)

	drawn := 0
	for _, id := range entities {
		if s.drawEntity(screen, id) {
			drawn++
		}
	}
	return drawn
}

// drawEntity 绘制单个实体，图片为空或完全透明时跳过
func (s *RenderSystem) drawEntity(screen *ebiten.Image, id ecs.EntityID) bool {
	sprite, _ := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id)
	pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if sprite == nil || sprite.Image == nil || pos == nil {
		return false
	}

	alpha := s.alphaOf(id)
	if alpha <= 0 {
		return false
	}

	op := &ebiten.DrawImageOptions{}

	// 以中心为原点缩放
	if scale, ok := ecs.GetComponent[*components.ScaleComponent](s.entityManager, id); ok {
		w, h := sprite.Size()
		op.GeoM.Translate(-w/2, -h/2)
		op.GeoM.Scale(scale.ScaleX, scale.ScaleY)
		op.GeoM.Translate(w/2, h/2)
	}

	op.GeoM.Translate(pos.X, pos.Y)
	op.ColorScale.ScaleAlpha(float32(alpha))

	screen.DrawImage(sprite.Image, op)
	return true
}

// alphaOf 实体的不透明度，截断到 [0, 1]，无组件时为 1
func (s *RenderSystem) alphaOf(id ecs.EntityID) float64 {
	opacity, ok := ecs.GetComponent[*components.OpacityComponent](s.entityManager, id)
	if !ok {
		return 1
	}
	return utils.ClampBetween(opacity.Alpha, 0, 1)
}
