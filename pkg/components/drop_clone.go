package components

import "github.com/decker502/dropfx/pkg/ecs"

// DropCloneComponent 标记下落动画期间使用的克隆实体
//
// 克隆在准备阶段创建，拷贝源实体的位置和精灵，动画结束时销毁。
// 源实体本身保持不变。
type DropCloneComponent struct {
	// Source 被克隆的源实体
	Source ecs.EntityID

	// Steps 已应用到克隆上的步数
	Steps int
}
