package effects

import "errors"

// 配置校验错误：ApplyOn 在调用任何宿主能力之前返回
var (
	ErrNoBehavior         = errors.New("drop effect: no behavior configured")
	ErrInvalidFrameRate   = errors.New("drop effect: frames per second must be within [1, 1000]")
	ErrInvalidTravelLimit = errors.New("drop effect: travel limit must be set and positive")
	ErrInvalidSpeedScale  = errors.New("drop effect: speed scale must be positive")
	ErrInvalidOpacity     = errors.New("drop effect: opacity must be within [0, 1]")
	ErrUnreachableLimit   = errors.New("drop effect: simulation never advances toward the travel limit")
)

// 运行期错误
var (
	// ErrDegenerateTravel 初始偏移恰好等于行程上限，无法插值
	ErrDegenerateTravel = errors.New("drop effect: initial offset equals travel limit")

	// ErrStepLimit 达到最大步数仍未越过行程上限
	ErrStepLimit = errors.New("drop effect: maximum step count reached")

	// ErrCancelled 运行被取消
	ErrCancelled = errors.New("drop effect: run cancelled")
)
