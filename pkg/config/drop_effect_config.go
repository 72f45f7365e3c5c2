package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// 预设默认值（与内置 speedyDrop 一致）
const (
	DefaultPresetFramesPerSecond = 24
	DefaultPresetAnimationSpeed  = 50000.0
	DefaultPresetAcceleration    = 10.0
)

// DropEffectsConfig 下落效果预设配置
//
// 配置文件位置: data/drop_effects.yaml
type DropEffectsConfig struct {
	// Presets 预设列表，名称唯一
	Presets []DropEffectPreset `yaml:"presets"`
}

// DropEffectPreset 单个下落效果预设
//
// 省略的字段取默认值：24 帧、速度 50000、不透明度 1 → 0、加速度 10。
type DropEffectPreset struct {
	// Name 预设名称（如 "speedyDrop"）
	Name string `yaml:"name"`

	// FramesPerSecond 帧率，范围 1 ~ 1000
	FramesPerSecond int `yaml:"framesPerSecond"`

	// AnimationSpeed 模拟距离到像素的换算，缩放系数为 1/AnimationSpeed
	AnimationSpeed float64 `yaml:"animationSpeed"`

	// TravelLimit 固定行程上限（像素）
	// 0 表示由视口高度减去元素顶部位置得出
	TravelLimit float64 `yaml:"travelLimit"`

	// MaxSteps 单次运行最大步数，0 使用引擎默认值
	MaxSteps int `yaml:"maxSteps"`

	// ClampOpacity 是否把不透明度限制在渐变区间内
	ClampOpacity bool `yaml:"clampOpacity"`

	// Opacity 不透明度渐变
	Opacity OpacityGradient `yaml:"opacity"`

	// World 运动学模型初始状态
	World WorldState `yaml:"world"`
}

// OpacityGradient 不透明度渐变（交换两值得到淡入）
type OpacityGradient struct {
	Opaque      float64 `yaml:"opaque"`
	Transparent float64 `yaml:"transparent"`
}

// WorldState 运动学模型初始状态
type WorldState struct {
	Acceleration float64 `yaml:"acceleration"`
	Velocity     float64 `yaml:"velocity"`
	Distance     float64 `yaml:"distance"`
}

// DefaultDropEffectPreset 返回全部取默认值的预设（名称为空）
func DefaultDropEffectPreset() DropEffectPreset {
	return DropEffectPreset{
		FramesPerSecond: DefaultPresetFramesPerSecond,
		AnimationSpeed:  DefaultPresetAnimationSpeed,
		Opacity: OpacityGradient{
			Opaque:      1.0,
			Transparent: 0.0,
		},
		World: WorldState{
			Acceleration: DefaultPresetAcceleration,
		},
	}
}

// UnmarshalYAML 先填默认值，再用文件内容覆盖
func (p *DropEffectPreset) UnmarshalYAML(value *yaml.Node) error {
	type rawPreset DropEffectPreset
	raw := rawPreset(DefaultDropEffectPreset())
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*p = DropEffectPreset(raw)
	return nil
}

// DefaultDropEffectsConfig 内置预设，与 data/drop_effects.yaml 保持一致
func DefaultDropEffectsConfig() *DropEffectsConfig {
	speedy := DefaultDropEffectPreset()
	speedy.Name = "speedyDrop"

	equal := DefaultDropEffectPreset()
	equal.Name = "equalDrop"
	equal.AnimationSpeed = 1000
	equal.World = WorldState{Acceleration: 0, Velocity: 20}

	return &DropEffectsConfig{
		Presets: []DropEffectPreset{speedy, equal},
	}
}

// LoadDropEffectsConfig 加载下落效果预设配置
//
// 参数:
//   - path: 配置文件路径（如 "data/drop_effects.yaml"）
//
// 返回:
//   - *DropEffectsConfig: 加载并验证后的配置
//   - error: 读取、解析或验证失败时返回错误
func LoadDropEffectsConfig(path string) (*DropEffectsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read drop effects config: %w", err)
	}
	return ParseDropEffectsConfig(data)
}

// ParseDropEffectsConfig 从 YAML 数据解析预设配置
func ParseDropEffectsConfig(data []byte) (*DropEffectsConfig, error) {
	var config DropEffectsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse drop effects config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid drop effects config: %w", err)
	}

	return &config, nil
}

// Validate 验证配置有效性
//
// 检查：
//   - 至少一个预设，名称非空且唯一
//   - 每个预设的取值范围
func (c *DropEffectsConfig) Validate() error {
	if len(c.Presets) == 0 {
		return fmt.Errorf("no presets defined")
	}

	seen := make(map[string]bool, len(c.Presets))
	for i := range c.Presets {
		p := &c.Presets[i]
		if p.Name == "" {
			return fmt.Errorf("preset #%d has no name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate preset name '%s'", p.Name)
		}
		seen[p.Name] = true

		if err := p.Validate(); err != nil {
			return fmt.Errorf("preset '%s': %w", p.Name, err)
		}
	}
	return nil
}

// Validate 验证单个预设
func (p *DropEffectPreset) Validate() error {
	if p.FramesPerSecond < 1 || p.FramesPerSecond > 1000 {
		return fmt.Errorf("framesPerSecond should be within [1, 1000], got %d", p.FramesPerSecond)
	}
	if !(p.AnimationSpeed > 0) || math.IsInf(p.AnimationSpeed, 1) {
		return fmt.Errorf("animationSpeed should be > 0, got %.2f", p.AnimationSpeed)
	}
	if !(p.TravelLimit >= 0) || math.IsInf(p.TravelLimit, 1) {
		return fmt.Errorf("travelLimit should be >= 0, got %.1f", p.TravelLimit)
	}
	if p.MaxSteps < 0 {
		return fmt.Errorf("maxSteps should be >= 0, got %d", p.MaxSteps)
	}
	if !unit(p.Opacity.Opaque) || !unit(p.Opacity.Transparent) {
		return fmt.Errorf("opacity should be within [0, 1], got opaque=%.2f transparent=%.2f",
			p.Opacity.Opaque, p.Opacity.Transparent)
	}

	// 位移必须能无限增长，否则行程上限永远达不到
	a, v := p.World.Acceleration, p.World.Velocity
	if !finite(a) || !finite(v) || !finite(p.World.Distance) {
		return fmt.Errorf("world state should be finite, got acceleration=%.2f velocity=%.2f distance=%.2f",
			a, v, p.World.Distance)
	}
	if a < 0 || (a == 0 && v <= 0) {
		return fmt.Errorf("world never falls: acceleration=%.2f velocity=%.2f", a, v)
	}
	return nil
}

// Preset 按名称查找预设
func (c *DropEffectsConfig) Preset(name string) (DropEffectPreset, bool) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return DropEffectPreset{}, false
}

// Names 按配置顺序返回所有预设名称
func (c *DropEffectsConfig) Names() []string {
	names := make([]string, 0, len(c.Presets))
	for _, p := range c.Presets {
		names = append(names, p.Name)
	}
	return names
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
