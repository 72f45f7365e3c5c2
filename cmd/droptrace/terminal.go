package main

import (
	"context"
	"sync"

	"github.com/decker502/dropfx/pkg/effects"
	"github.com/decker502/dropfx/pkg/utils"
	"github.com/gdamore/tcell/v2"
)

// terminalHost 在终端中绘制下落的标签
//
// 视口高度按比例映射到终端行数；终端没有透明度，
// 不透明度映射为前景色的灰度。
type terminalHost struct {
	screen   tcell.Screen
	label    []rune
	offset   float64
	viewport float64
	applied  int

	closeOnce sync.Once
}

func newTerminalHost(label string, offset, viewport float64) (*terminalHost, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newTerminalHostOn(screen, label, offset, viewport)
}

// newTerminalHostOn 使用已有的屏幕，测试中传入 SimulationScreen
func newTerminalHostOn(screen tcell.Screen, label string, offset, viewport float64) (*terminalHost, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	return &terminalHost{
		screen:   screen,
		label:    []rune(label),
		offset:   offset,
		viewport: viewport,
	}, nil
}

// pollQuit 等待 Esc、Ctrl+C 或 q，然后调用 cancel
// 屏幕关闭后 PollEvent 返回 nil，goroutine 随之退出
func (h *terminalHost) pollQuit(cancel context.CancelFunc) {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				cancel()
				return
			}
		case *tcell.EventResize:
			h.screen.Sync()
		}
	}
}

func (h *terminalHost) Prepare(element effects.Element) (effects.Prepared, error) {
	h.draw(h.offset, 1)
	return effects.Prepared{Target: element, InitialOffset: h.offset}, nil
}

func (h *terminalHost) ApplyStep(target effects.Target, data effects.SimulationData) error {
	h.applied++
	h.draw(data.Distance, data.Opacity)
	return nil
}

func (h *terminalHost) Cleanup(target effects.Target) error {
	h.screen.Clear()
	h.screen.Show()
	return nil
}

func (h *terminalHost) Applied() int {
	return h.applied
}

func (h *terminalHost) ViewportHeight() float64 {
	return h.viewport
}

func (h *terminalHost) ElementTop(element effects.Element) (float64, error) {
	return h.offset, nil
}

// Close 恢复终端，可重复调用
func (h *terminalHost) Close() {
	h.closeOnce.Do(h.screen.Fini)
}

// rowFor 把像素距离映射到终端行
func (h *terminalHost) rowFor(distance float64) int {
	_, height := h.screen.Size()
	if height <= 1 || h.viewport <= 0 {
		return 0
	}
	row := int(distance / h.viewport * float64(height-1))
	return int(utils.ClampBetween(float64(row), 0, float64(height-1)))
}

// styleFor 不透明度映射为灰度
func styleFor(opacity float64) tcell.Style {
	gray := int32(40 + utils.ClampBetween(opacity, 0, 1)*215)
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(gray, gray, gray))
}

func (h *terminalHost) draw(distance, opacity float64) {
	width, _ := h.screen.Size()
	h.screen.Clear()

	x := (width - len(h.label)) / 2
	if x < 0 {
		x = 0
	}
	row := h.rowFor(distance)
	style := styleFor(opacity)
	for i, r := range h.label {
		h.screen.SetContent(x+i, row, r, nil, style)
	}
	h.screen.Show()
}
