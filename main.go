// Package main 下落效果查看器
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--config <path>    预设配置文件（默认使用嵌入的 data/drop_effects.yaml）
//	--preset <name>    中键、触摸和空格键使用的初始预设
//	--verbose          输出详细日志
//
// Controls:
//
//	Left Click        - speedyDrop
//	Right Click       - equalDrop
//	Middle Click      - 当前预设
//	Space             - 对所有元素启动当前预设
//	P                 - 切换预设
//	C                 - 取消所有运行
//	F11               - 切换全屏
//	Q/Escape          - 退出
package main

import (
	"flag"
	"log"

	"github.com/decker502/dropfx/pkg/app"
	"github.com/decker502/dropfx/pkg/config"
	"github.com/decker502/dropfx/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	configFlag  = flag.String("config", "", "Drop effect presets YAML (default: embedded data/drop_effects.yaml)")
	presetFlag  = flag.String("preset", "", "Initial preset for middle click, touch and Space")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	viewer, err := app.NewApp(app.Config{
		Verbose:     *verboseFlag,
		PresetsPath: *configFlag,
		Preset:      *presetFlag,
	})
	if err != nil {
		log.Fatalf("[DropViewer] 初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Drop Effect Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatalf("[DropViewer] %v", err)
	}
	log.Println("[DropViewer] closed")
}
