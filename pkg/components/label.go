package components

// LabelComponent 文本标签实体
// Text 仅用于调试输出和点击命中提示，绘制内容来自 SpriteComponent
type LabelComponent struct {
	Text string
}
