package components

// ScaleComponent 存储实体级别的缩放因子
// 渲染时以精灵中心为原点缩放，未挂载该组件的实体按原始大小绘制
type ScaleComponent struct {
	// ScaleX X轴缩放因子（1.0 = 原始大小，0.5 = 50%，2.0 = 200%）
	ScaleX float64

	// ScaleY Y轴缩放因子（1.0 = 原始大小，0.5 = 50%，2.0 = 200%）
	ScaleY float64
}
