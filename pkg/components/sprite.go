package components

import "github.com/hajimehoshi/ebiten/v2"

// SpriteComponent 存储实体的视觉表现(当前绘制的图像)
// Image 为 nil 的实体不会被绘制
type SpriteComponent struct {
	Image *ebiten.Image
}

// Size 返回图像尺寸，图像为空时返回 0, 0
func (s *SpriteComponent) Size() (float64, float64) {
	if s == nil || s.Image == nil {
		return 0, 0
	}
	b := s.Image.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}
