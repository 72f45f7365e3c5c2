// Package app 提供下落效果查看器的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/dropfx/pkg/config"
	"github.com/decker502/dropfx/pkg/ecs"
	"github.com/decker502/dropfx/pkg/embedded"
	"github.com/decker502/dropfx/pkg/systems"
	"github.com/decker502/dropfx/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EmbeddedPresetsPath 内置预设配置在嵌入文件系统中的路径
const EmbeddedPresetsPath = "data/drop_effects.yaml"

// 每个 tick 的时长（秒），与 ebiten 默认 TPS 一致
const deltaTime = 1.0 / 60.0

var backgroundColor = color.RGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff}

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// PresetsPath 预设配置文件路径，为空时使用嵌入的 data/drop_effects.yaml
	PresetsPath string
	// Presets 直接指定的预设配置，优先级最高
	Presets *config.DropEffectsConfig
	// Preset 空格键和触摸触发的初始预设名，为空时使用配置中的第一个
	Preset string
}

// App 是查看器的核心包装器，实现 ebiten.Game 接口
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	entityManager *ecs.EntityManager
	dropSystem    *systems.DropEffectSystem
	renderSystem  *systems.RenderSystem

	sources     []ecs.EntityID
	presses     []PointerPress
	presetNames []string
	presetIndex int
	status      string

	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化查看器
//
// 使用嵌入配置时，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	presets, err := loadPresets(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("[Config] 加载 %d 个下落效果预设: %v", len(presets.Presets), presets.Names())

	names := presets.Names()
	index := 0
	if cfg.Preset != "" {
		index = -1
		for i, name := range names {
			if name == cfg.Preset {
				index = i
				break
			}
		}
		if index < 0 {
			return nil, fmt.Errorf("%w: '%s'", systems.ErrUnknownPreset, cfg.Preset)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	em := ecs.NewEntityManager()

	dropSystem := systems.NewDropEffectSystem(ctx, em, config.GameWindowHeight, presets)
	dropSystem.SetVerbose(cfg.Verbose)

	a := &App{
		ctx:           ctx,
		cancel:        cancel,
		entityManager: em,
		dropSystem:    dropSystem,
		renderSystem:  systems.NewRenderSystem(em),
		presetNames:   names,
		presetIndex:   index,
		verbose:       cfg.Verbose,
	}
	a.seedScene()
	a.status = "click a label to drop it"
	if utils.IsMobile() {
		a.status = "tap a label to drop it with the current preset"
	}

	log.Printf("[App] Viewer ready: %d entities, preset %s", em.EntityCount(), a.CurrentPreset())
	return a, nil
}

// loadPresets 按优先级选择预设来源：直接指定 > 文件路径 > 嵌入配置 > 内置默认
func loadPresets(cfg Config) (*config.DropEffectsConfig, error) {
	if cfg.Presets != nil {
		if err := cfg.Presets.Validate(); err != nil {
			return nil, fmt.Errorf("invalid drop effects config: %w", err)
		}
		return cfg.Presets, nil
	}

	if cfg.PresetsPath != "" {
		presets, err := config.LoadDropEffectsConfig(cfg.PresetsPath)
		if err != nil {
			return nil, fmt.Errorf("预设配置加载失败: %w", err)
		}
		return presets, nil
	}

	if embedded.IsInitialized() && embedded.Exists(EmbeddedPresetsPath) {
		data, err := embedded.ReadFile(EmbeddedPresetsPath)
		if err != nil {
			return nil, fmt.Errorf("预设配置加载失败: %w", err)
		}
		return config.ParseDropEffectsConfig(data)
	}

	log.Printf("[Config] 未找到预设配置，使用内置默认值")
	return config.DefaultDropEffectsConfig(), nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		a.Close()
		return ebiten.Termination
	}

	a.handleInput()
	a.tick(deltaTime)
	return nil
}

// tick 推进所有效果并清理已结束的克隆
func (a *App) tick(dt float64) {
	a.dropSystem.Update(dt)
	a.entityManager.RemoveMarkedEntities()
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	a.renderSystem.Draw(screen)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"preset: %s (P to cycle)  active: %d  TPS: %.0f\n%s",
		a.CurrentPreset(), a.dropSystem.Active(), ebiten.ActualTPS(), a.status,
	), 8, config.GameWindowHeight-40)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// CurrentPreset 当前选中的预设名
func (a *App) CurrentPreset() string {
	if len(a.presetNames) == 0 {
		return ""
	}
	return a.presetNames[a.presetIndex]
}

// NextPreset 切换到下一个预设
func (a *App) NextPreset() string {
	if len(a.presetNames) > 0 {
		a.presetIndex = (a.presetIndex + 1) % len(a.presetNames)
	}
	return a.CurrentPreset()
}

// Close 取消所有运行中的效果
func (a *App) Close() {
	a.dropSystem.CancelAll()
	a.cancel()
	a.entityManager.RemoveMarkedEntities()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
