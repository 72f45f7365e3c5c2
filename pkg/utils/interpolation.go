// Package utils 提供通用工具函数
package utils

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrZeroInterval 插值参考点重合（x0 == x1）导致除零
var ErrZeroInterval = errors.New("linear interpolation: division by zero (x0 == x1)")

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LinearInterpolation 两点线性映射
//
// 把 x 从 [x0, x1] 映射到 [y0, y1]：y0 + (y1-y0)*(x-x0)/(x1-x0)
// 不做截断，区间外的 x 按同一直线外推。
//
// x0 == x1 时 panic(ErrZeroInterval)，调用方需保证参考点不同。
func LinearInterpolation(x, x0, x1, y0, y1 float64) float64 {
	if x0 == x1 {
		panic(ErrZeroInterval)
	}
	return Lerp(y0, y1, (x-x0)/(x1-x0))
}

// ClampBetween 把 v 限制在 a 与 b 之间，a、b 顺序任意
func ClampBetween(v, a, b float64) float64 {
	return mgl64.Clamp(v, min(a, b), max(a, b))
}
