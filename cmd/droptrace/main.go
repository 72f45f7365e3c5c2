// Package main 在终端中逐步打印下落效果的轨迹
//
// Usage:
//
//	go run ./cmd/droptrace [flags]
//
// Flags:
//
//	--preset <name>     使用配置中的预设（其余参数覆盖预设）
//	--config <path>     预设配置文件（默认使用内置 speedyDrop/equalDrop）
//	--fps <n>           帧率，决定时间量子 int(1000/fps) 毫秒
//	--speed <n>         动画速度，距离缩放 = 1/speed
//	--limit <px>        行程上限（默认按视口推导）
//	--offset <px>       元素初始偏移（元素顶部）
//	--viewport <px>     视口高度
//	--accel/--velocity/--distance  初始运动状态
//	--max-steps <n>     步数上限
//	--clamp             把不透明度截断在渐变区间内
//	--realtime          按真实时钟推进，Ctrl+C 取消
//	--tui               在终端中绘制下落的标签（隐含 --realtime，Esc/q 退出）
//	--verbose           输出详细日志
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/decker502/dropfx/pkg/config"
	"github.com/decker502/dropfx/pkg/effects"
)

// options 命令行参数
// set 记录显式传入的参数名，只有显式传入的参数才覆盖预设
type options struct {
	preset     string
	configPath string

	fps         int
	speed       float64
	limit       float64
	offset      float64
	viewport    float64
	accel       float64
	velocity    float64
	distance    float64
	maxSteps    int
	clamp       bool
	opaque      float64
	transparent float64

	realtime bool
	tui      bool
	label    string
	verbose  bool

	set map[string]bool
}

func parseOptions(args []string) (options, error) {
	opts := options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("droptrace", flag.ContinueOnError)
	fs.StringVar(&opts.preset, "preset", "", "Preset name from the config")
	fs.StringVar(&opts.configPath, "config", "", "Drop effect presets YAML")
	fs.IntVar(&opts.fps, "fps", effects.DefaultFramesPerSecond, "Frames per second")
	fs.Float64Var(&opts.speed, "speed", effects.DefaultAnimationSpeed, "Animation speed (distance scale = 1/speed)")
	fs.Float64Var(&opts.limit, "limit", 0, "Travel limit in pixels (0 = viewport - offset)")
	fs.Float64Var(&opts.offset, "offset", 0, "Initial offset (element top) in pixels")
	fs.Float64Var(&opts.viewport, "viewport", config.GameWindowHeight, "Viewport height in pixels")
	fs.Float64Var(&opts.accel, "accel", 10, "Initial acceleration")
	fs.Float64Var(&opts.velocity, "velocity", 0, "Initial velocity")
	fs.Float64Var(&opts.distance, "distance", 0, "Initial simulated distance")
	fs.IntVar(&opts.maxSteps, "max-steps", effects.DefaultMaxSteps, "Step safety limit")
	fs.BoolVar(&opts.clamp, "clamp", false, "Clamp opacity into the gradient range")
	fs.Float64Var(&opts.opaque, "opaque", effects.DefaultFullyOpaque, "Opacity at the start of travel")
	fs.Float64Var(&opts.transparent, "transparent", effects.DefaultFullyTransparent, "Opacity at the travel limit")
	fs.BoolVar(&opts.realtime, "realtime", false, "Advance on a wall clock ticker")
	fs.BoolVar(&opts.tui, "tui", false, "Draw the falling label in the terminal (implies --realtime)")
	fs.StringVar(&opts.label, "label", "drop", "Label drawn by --tui")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	if opts.tui {
		opts.realtime = true
	}
	return opts, nil
}

// stepHost 轨迹宿主：渲染能力加视口查询，并统计应用的步数
type stepHost interface {
	effects.PresetHost
	Applied() int
}

// traceHost 把每一步写成表格行的宿主
type traceHost struct {
	out      *tabwriter.Writer
	offset   float64
	viewport float64
	applied  int
}

func newTraceHost(w io.Writer, offset, viewport float64) *traceHost {
	return &traceHost{
		out:      tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight),
		offset:   offset,
		viewport: viewport,
	}
}

func (h *traceHost) Prepare(element effects.Element) (effects.Prepared, error) {
	fmt.Fprintln(h.out, "step\tdistance\topacity\t")
	return effects.Prepared{Target: element, InitialOffset: h.offset}, nil
}

func (h *traceHost) ApplyStep(target effects.Target, data effects.SimulationData) error {
	h.applied++
	_, err := fmt.Fprintf(h.out, "%d\t%.0f\t%.4f\t\n", data.Step, data.Distance, data.Opacity)
	return err
}

func (h *traceHost) Cleanup(target effects.Target) error {
	return h.out.Flush()
}

func (h *traceHost) Applied() int {
	return h.applied
}

func (h *traceHost) ViewportHeight() float64 {
	return h.viewport
}

func (h *traceHost) ElementTop(element effects.Element) (float64, error) {
	return h.offset, nil
}

// buildEffect 按预设或参数构建效果
func buildEffect(opts options, host effects.PresetHost) (*effects.DropEffect, error) {
	var effect *effects.DropEffect

	if opts.preset != "" {
		presets := config.DefaultDropEffectsConfig()
		if opts.configPath != "" {
			var err error
			if presets, err = config.LoadDropEffectsConfig(opts.configPath); err != nil {
				return nil, err
			}
		}
		preset, ok := presets.Preset(opts.preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset '%s', available: %v", opts.preset, presets.Names())
		}
		var err error
		if effect, err = effects.FromPreset(preset, host, "trace"); err != nil {
			return nil, err
		}
	} else {
		effect = effects.NewDropEffect(host)
		effect.SetFallDistance(opts.viewport - opts.offset)
		for _, name := range []string{"fps", "speed", "accel", "velocity", "distance", "max-steps", "clamp", "opaque", "transparent"} {
			opts.set[name] = true
		}
	}

	if opts.set["fps"] {
		effect.SetAnimationFramesPerSecond(opts.fps)
	}
	if opts.set["speed"] {
		effect.SetAnimationSpeed(opts.speed)
	}
	if opts.limit != 0 {
		effect.SetFallDistance(opts.limit)
	}
	if opts.set["opaque"] || opts.set["transparent"] {
		opaque, transparent := effect.FullyOpaque(), effect.FullyTransparent()
		if opts.set["opaque"] {
			opaque = opts.opaque
		}
		if opts.set["transparent"] {
			transparent = opts.transparent
		}
		effect.SetOpacityGradient(transparent, opaque)
	}
	if opts.set["max-steps"] {
		effect.SetMaxSteps(opts.maxSteps)
	}
	if opts.set["clamp"] {
		effect.SetClampOpacity(opts.clamp)
	}

	sim := effect.Simulation()
	if opts.set["accel"] {
		sim.SetAcceleration(opts.accel)
	}
	if opts.set["velocity"] {
		sim.SetVelocity(opts.velocity)
	}
	if opts.set["distance"] {
		sim.SetDistance(opts.distance)
	}

	effect.SetVerbose(opts.verbose)
	return effect, nil
}

// trace 在 host 上运行一次效果
func trace(ctx context.Context, opts options, host stepHost) (*effects.Run, error) {
	effect, err := buildEffect(opts, host)
	if err != nil {
		return nil, err
	}

	run, err := effect.ApplyOn(ctx, "trace")
	if err != nil {
		return nil, err
	}

	if opts.realtime {
		err = effects.Drive(ctx, run)
	} else {
		for run.AdvanceOneStep() {
		}
		err = run.Err()
	}
	return run, err
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var host stepHost
	if opts.tui {
		term, err := newTerminalHost(opts.label, opts.offset, opts.viewport)
		if err != nil {
			log.Fatalf("[DropTrace] terminal: %v", err)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		go term.pollQuit(cancel)
		host = term
		defer term.Close()
	} else {
		host = newTraceHost(os.Stdout, opts.offset, opts.viewport)
	}

	run, err := trace(ctx, opts, host)
	if closer, ok := host.(interface{ Close() }); ok {
		closer.Close()
	}
	if run == nil {
		log.Fatalf("[DropTrace] %v", err)
	}

	fmt.Printf("\n%s after %d steps (%d applied), time step %v\n", run.Reason(), run.Steps(), host.Applied(), run.TimeStep())
	if err != nil {
		log.Printf("[DropTrace] run #%d: %v", run.ID(), err)
		os.Exit(1)
	}
}
