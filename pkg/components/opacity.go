package components

// OpacityComponent 实体的不透明度
// Alpha 按 [0, 1] 解释，渲染时超出范围的值会被截断
type OpacityComponent struct {
	Alpha float64
}
