package systems

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/decker502/dropfx/pkg/config"
	"github.com/decker502/dropfx/pkg/ecs"
	"github.com/decker502/dropfx/pkg/effects"
)

// ErrUnknownPreset 配置中没有该名字的预设
var ErrUnknownPreset = errors.New("unknown drop effect preset")

// DropEffectSystem 在游戏循环中驱动下落效果
//
// 每帧的 Update(deltaTime) 把经过的时间交给调度器，调度器按每个运行的
// 时间量子推进步骤。克隆实体的创建和销毁都通过 EntityDropHost 完成，
// 被标记删除的克隆由游戏循环统一调用 RemoveMarkedEntities 清理。
type DropEffectSystem struct {
	ctx           context.Context
	entityManager *ecs.EntityManager
	host          *EntityDropHost
	scheduler     *effects.Scheduler
	presets       *config.DropEffectsConfig
	verbose       bool
}

// NewDropEffectSystem 创建下落效果系统
//
// 参数:
//   - ctx: 所有运行共享的上下文，取消后运行在下一步结束
//   - em: 实体管理器
//   - screenHeight: 视口高度，用于推导预设的行程上限
//   - presets: 预设配置，为 nil 时使用内置默认值
func NewDropEffectSystem(ctx context.Context, em *ecs.EntityManager, screenHeight float64, presets *config.DropEffectsConfig) *DropEffectSystem {
	if presets == nil {
		presets = config.DefaultDropEffectsConfig()
	}
	return &DropEffectSystem{
		ctx:           ctx,
		entityManager: em,
		host:          NewEntityDropHost(em, screenHeight),
		scheduler:     effects.NewScheduler(),
		presets:       presets,
	}
}

// SetVerbose 输出每个运行的详细日志
func (s *DropEffectSystem) SetVerbose(verbose bool) {
	s.verbose = verbose
	s.scheduler.SetVerbose(verbose)
}

// Host 返回实体宿主
func (s *DropEffectSystem) Host() *EntityDropHost {
	return s.host
}

// Scheduler 返回内部调度器
func (s *DropEffectSystem) Scheduler() *effects.Scheduler {
	return s.scheduler
}

// PresetNames 可用预设名（配置顺序）
func (s *DropEffectSystem) PresetNames() []string {
	return s.presets.Names()
}

// SpeedyDrop 对实体启动 speedyDrop
func (s *DropEffectSystem) SpeedyDrop(id ecs.EntityID) (*effects.Run, error) {
	run, err := effects.SpeedyDrop(s.ctx, s.scheduler, s.host, id)
	if err != nil {
		return nil, fmt.Errorf("speedyDrop on entity %d: %w", id, err)
	}
	s.logStart("speedyDrop", id, run)
	return run, nil
}

// EqualDrop 对实体启动 equalDrop
func (s *DropEffectSystem) EqualDrop(id ecs.EntityID) (*effects.Run, error) {
	run, err := effects.EqualDrop(s.ctx, s.scheduler, s.host, id)
	if err != nil {
		return nil, fmt.Errorf("equalDrop on entity %d: %w", id, err)
	}
	s.logStart("equalDrop", id, run)
	return run, nil
}

// Trigger 按配置预设名对实体启动效果
func (s *DropEffectSystem) Trigger(name string, id ecs.EntityID) (*effects.Run, error) {
	preset, ok := s.presets.Preset(name)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownPreset, name)
	}

	effect, err := effects.FromPreset(preset, s.host, id)
	if err != nil {
		return nil, fmt.Errorf("preset '%s' on entity %d: %w", name, id, err)
	}
	effect.SetVerbose(s.verbose)

	run, err := s.scheduler.Start(s.ctx, effect, id)
	if err != nil {
		return nil, fmt.Errorf("preset '%s' on entity %d: %w", name, id, err)
	}
	s.logStart(name, id, run)
	return run, nil
}

// Update 推进所有运行
// deltaTime 为自上一帧以来经过的时间（秒）
func (s *DropEffectSystem) Update(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}
	s.scheduler.Update(time.Duration(deltaTime * float64(time.Second)))
}

// Active 正在运行的效果数量
func (s *DropEffectSystem) Active() int {
	return s.scheduler.Active()
}

// CancelAll 取消所有运行，克隆实体随之标记删除
func (s *DropEffectSystem) CancelAll() {
	s.scheduler.CancelAll()
}

func (s *DropEffectSystem) logStart(name string, id ecs.EntityID, run *effects.Run) {
	if !s.verbose {
		return
	}
	log.Printf("[DropEffectSystem] %s started: entity=%d run=#%d step=%v", name, id, run.ID(), run.TimeStep())
}
