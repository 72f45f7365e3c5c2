package components

// PositionComponent 存储实体在屏幕上的位置（像素，精灵左上角）
type PositionComponent struct {
	X float64
	Y float64
}
