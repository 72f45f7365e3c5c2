package app

import (
	"fmt"
	"image/color"

	"github.com/decker502/dropfx/pkg/components"
	"github.com/decker502/dropfx/pkg/config"
	"github.com/decker502/dropfx/pkg/ecs"
	"github.com/decker502/dropfx/pkg/entities"
)

var blockColors = []color.RGBA{
	{R: 0xe0, G: 0x6c, B: 0x5f, A: 0xff},
	{R: 0xf2, G: 0xc1, B: 0x4e, A: 0xff},
	{R: 0x7f, G: 0xc6, B: 0x7a, A: 0xff},
	{R: 0x5b, G: 0x9b, B: 0xd5, A: 0xff},
	{R: 0xb3, G: 0x7f, B: 0xd1, A: 0xff},
}

// seedScene 创建演示用的标签网格和色块行
func (a *App) seedScene() {
	hint := entities.NewLabelEntity(a.entityManager,
		"LMB: speedyDrop  RMB: equalDrop  MMB/touch: preset  Space: drop all  C: cancel",
		8, 8, color.RGBA{R: 0x33, G: 0x33, B: 0x3d, A: 0xff})
	a.entityManager.AddComponent(hint, &components.StaticComponent{})

	for row := 0; row < config.LabelGridRows; row++ {
		for col := 0; col < config.LabelGridColumns; col++ {
			n := row*config.LabelGridColumns + col + 1
			x := config.LabelGridStartX + float64(col)*config.LabelCellWidth
			y := config.LabelGridStartY + float64(row)*config.LabelCellHeight
			id := entities.NewLabelEntity(a.entityManager, fmt.Sprintf("Drop me #%02d", n), x, y, nil)
			a.sources = append(a.sources, id)
		}
	}

	for i, c := range blockColors {
		x := config.LabelGridStartX + float64(i)*(config.BlockSize*2)
		id := entities.NewBlockEntity(a.entityManager, config.BlockSize, config.BlockSize, c, x, config.BlockRowY)
		a.entityManager.AddComponent(id, &components.ScaleComponent{ScaleX: 1.25, ScaleY: 1.25})
		a.sources = append(a.sources, id)
	}
}

// Sources 可被点击下落的源实体
func (a *App) Sources() []ecs.EntityID {
	return append([]ecs.EntityID(nil), a.sources...)
}
