package app

import (
	"fmt"
	"log"

	"github.com/decker502/dropfx/pkg/ecs"
	"github.com/decker502/dropfx/pkg/effects"
	"github.com/decker502/dropfx/pkg/entities"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// dropKind 点击触发的效果种类
type dropKind int

const (
	dropSpeedy dropKind = iota
	dropEqual
	dropPreset
)

// handleInput 处理鼠标、键盘和触摸输入
func (a *App) handleInput() {
	a.presses = AppendJustPressedPointers(a.presses[:0])
	for _, p := range a.presses {
		a.reportDrop(a.dropAt(kindFor(p.Button), float64(p.X), float64(p.Y)))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		started, err := a.dropAll()
		if err != nil {
			log.Printf("[App] drop all: %v", err)
		}
		a.status = fmt.Sprintf("%s started on %d elements", a.CurrentPreset(), started)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.status = "preset: " + a.NextPreset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		active := a.dropSystem.Active()
		a.dropSystem.CancelAll()
		a.status = fmt.Sprintf("cancelled %d runs", active)
	}
}

// kindFor 指针来源对应的效果：左键 speedyDrop，右键 equalDrop，其余使用当前预设
func kindFor(button PointerButton) dropKind {
	switch button {
	case PointerPrimary:
		return dropSpeedy
	case PointerSecondary:
		return dropEqual
	default:
		return dropPreset
	}
}

// dropAt 对屏幕坐标处的元素启动效果，没有命中元素时返回 nil, nil
func (a *App) dropAt(kind dropKind, x, y float64) (*effects.Run, error) {
	id, ok := entities.HitTest(a.entityManager, x, y)
	if !ok {
		return nil, nil
	}
	return a.drop(kind, id)
}

func (a *App) drop(kind dropKind, id ecs.EntityID) (*effects.Run, error) {
	switch kind {
	case dropSpeedy:
		return a.dropSystem.SpeedyDrop(id)
	case dropEqual:
		return a.dropSystem.EqualDrop(id)
	default:
		return a.dropSystem.Trigger(a.CurrentPreset(), id)
	}
}

// dropAll 对所有演示元素启动当前预设，返回成功启动的数量
// 部分元素失败时继续处理其余元素，返回第一个错误
func (a *App) dropAll() (int, error) {
	started := 0
	var firstErr error
	for _, id := range a.sources {
		if _, err := a.drop(dropPreset, id); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		started++
	}
	return started, firstErr
}

func (a *App) reportDrop(run *effects.Run, err error) {
	switch {
	case err != nil:
		log.Printf("[App] drop failed: %v", err)
		a.status = "drop failed: " + err.Error()
	case run != nil:
		a.status = fmt.Sprintf("run #%d started, step %v", run.ID(), run.TimeStep())
	}
}
