package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerButton 指针来源
type PointerButton int

const (
	// PointerPrimary 鼠标左键
	PointerPrimary PointerButton = iota
	// PointerSecondary 鼠标右键
	PointerSecondary
	// PointerMiddle 鼠标中键
	PointerMiddle
	// PointerTouch 触摸
	PointerTouch
)

// String 返回指针来源名
func (b PointerButton) String() string {
	switch b {
	case PointerPrimary:
		return "primary"
	case PointerSecondary:
		return "secondary"
	case PointerMiddle:
		return "middle"
	case PointerTouch:
		return "touch"
	default:
		return "unknown"
	}
}

// PointerPress 本帧刚发生的一次按下
type PointerPress struct {
	Button PointerButton
	X, Y   int
}

var mouseButtons = []struct {
	mouse   ebiten.MouseButton
	pointer PointerButton
}{
	{ebiten.MouseButtonLeft, PointerPrimary},
	{ebiten.MouseButtonRight, PointerSecondary},
	{ebiten.MouseButtonMiddle, PointerMiddle},
}

// AppendJustPressedPointers 把本帧刚按下的鼠标按键和触摸追加到 presses
// 同时支持鼠标和触摸输入，触摸在前，每个触摸点单独一条
func AppendJustPressedPointers(presses []PointerPress) []PointerPress {
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		presses = append(presses, PointerPress{Button: PointerTouch, X: x, Y: y})
	}

	cx, cy := ebiten.CursorPosition()
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b.mouse) {
			presses = append(presses, PointerPress{Button: b.pointer, X: cx, Y: cy})
		}
	}
	return presses
}
