package config

// 布局配置常量
// 本文件定义了效果查看器的窗口尺寸和演示元素的摆放位置

// 窗口配置
const (
	// GameWindowWidth 逻辑屏幕宽度（像素）
	GameWindowWidth = 800

	// GameWindowHeight 逻辑屏幕高度（像素），同时作为下落效果的视口高度
	GameWindowHeight = 600
)

// 演示标签网格
// 行程上限按 视口高度 - 元素顶部 推导，而克隆从元素顶部开始下落，
// 所以元素顶部需要位于视口上半部分才有可见的行程
const (
	// LabelGridStartX 第一列标签的左边界
	LabelGridStartX = 40.0

	// LabelGridStartY 第一行标签的上边界
	LabelGridStartY = 60.0

	// LabelGridColumns 每行标签数
	LabelGridColumns = 4

	// LabelGridRows 标签行数
	LabelGridRows = 3

	// LabelCellWidth 列间距
	LabelCellWidth = 180.0

	// LabelCellHeight 行间距
	LabelCellHeight = 40.0

	// BlockRowY 色块行的上边界
	BlockRowY = LabelGridStartY + LabelGridRows*LabelCellHeight + 30

	// BlockSize 色块边长
	BlockSize = 32
)

// MaxLabelTop 可用于演示的元素顶部最大值（不含）
const MaxLabelTop = GameWindowHeight / 2
