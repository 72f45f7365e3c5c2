package entities

import (
	"image/color"
	"log"

	"github.com/decker502/dropfx/pkg/components"
	"github.com/decker502/dropfx/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// 调试字体的字符尺寸（ebitenutil.DebugPrint 使用的内置位图字体）
const (
	debugGlyphWidth  = 6
	debugGlyphHeight = 16
	labelPadding     = 4
)

// LabelBackground 标签默认背景色
var LabelBackground = color.RGBA{R: 0x2d, G: 0x5a, B: 0x8c, A: 0xff}

// NewLabelEntity 创建文本标签实体
//
// 文本用内置调试字体绘制到离屏图像上，标签作为普通精灵参与渲染和下落效果。
//
// 参数：
//   - em: 实体管理器
//   - text: 标签文本（单行）
//   - x, y: 标签左上角的屏幕坐标
//   - bg: 背景色，为 nil 时使用 LabelBackground
//
// 返回：
//   - ecs.EntityID: 标签实体ID
func NewLabelEntity(em *ecs.EntityManager, text string, x, y float64, bg color.Color) ecs.EntityID {
	if bg == nil {
		bg = LabelBackground
	}

	width, height := LabelSize(text)
	img := ebiten.NewImage(width, height)
	img.Fill(bg)
	ebitenutil.DebugPrintAt(img, text, labelPadding, 0)

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &components.SpriteComponent{Image: img})
	ecs.AddComponent(em, id, &components.LabelComponent{Text: text})

	log.Printf("[LabelFactory] Created label entity (ID: %d, text: %q, at: %.0f,%.0f)", id, text, x, y)
	return id
}

// NewBlockEntity 创建纯色方块实体
func NewBlockEntity(em *ecs.EntityManager, width, height int, fill color.Color, x, y float64) ecs.EntityID {
	img := ebiten.NewImage(width, height)
	img.Fill(fill)

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &components.SpriteComponent{Image: img})
	return id
}

// LabelSize 标签图像尺寸（像素）
func LabelSize(text string) (int, int) {
	n := len([]rune(text))
	if n == 0 {
		n = 1
	}
	return n*debugGlyphWidth + 2*labelPadding, debugGlyphHeight
}

// HitTest 返回包含屏幕坐标 (x, y) 的可见标签或方块，找不到时返回 false
//
// 多个实体重叠时返回 ID 最大的（最上层），下落中的克隆和静态元素不参与命中。
func HitTest(em *ecs.EntityManager, x, y float64) (ecs.EntityID, bool) {
	entities := ecs.GetEntitiesWith2[*components.PositionComponent, *components.SpriteComponent](em)
	for i := len(entities) - 1; i >= 0; i-- {
		id := entities[i]
		if ecs.HasComponent[*components.DropCloneComponent](em, id) ||
			ecs.HasComponent[*components.StaticComponent](em, id) {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		sprite, _ := ecs.GetComponent[*components.SpriteComponent](em, id)
		w, h := sprite.Size()
		if x >= pos.X && x < pos.X+w && y >= pos.Y && y < pos.Y+h {
			return id, true
		}
	}
	return 0, false
}
