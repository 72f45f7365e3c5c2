package components

// StaticComponent 标记不参与点击下落的界面元素（例如操作提示）
type StaticComponent struct{}
