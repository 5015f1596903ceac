// Package config provides scene presets and run settings for tendril,
// loaded from YAML over embedded defaults.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/tendril"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tendril run setting and scene preset.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Random    RandomConfig    `yaml:"random"`
	Plant     SceneConfig     `yaml:"plant"`
	Roots     SceneConfig     `yaml:"roots"`
	Vines     SceneConfig     `yaml:"vines"`
	Halo      HaloConfig      `yaml:"halo"`
	Reveal    RevealConfig    `yaml:"reveal"`
	Icons     IconsConfig     `yaml:"icons"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig is the window or render target size in logical pixels.
type ScreenConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	PixelRatio float64 `yaml:"pixel_ratio"`
	Title      string  `yaml:"title"`
	ShowFPS    bool    `yaml:"show_fps"`
}

// RandomConfig selects the random source.
type RandomConfig struct {
	Kind string `yaml:"kind"` // "sine" (repeatable sine hash) or "pcg"
	Seed uint64 `yaml:"seed"`
}

// SceneConfig is one scene preset.
type SceneConfig struct {
	Clear       bool                 `yaml:"clear"`
	Background  tendril.Color        `yaml:"background"`
	Regrow      bool                 `yaml:"regrow"`
	HoldBubbles bool                 `yaml:"hold_bubbles"`
	Trunk       TrunkConfig          `yaml:"trunk"`
	Growth      tendril.GrowthConfig `yaml:"growth"`
}

// TrunkConfig overrides the scene's trunk. Zero fields keep the
// viewport-derived value.
type TrunkConfig struct {
	Lifetime  int     `yaml:"lifetime"`
	Thickness float64 `yaml:"thickness"`
}

// HaloConfig is the vine circling a page element in the about scene.
type HaloConfig struct {
	Enabled bool `yaml:"enabled"`
	// Circle is the element to circle. A zero radius centers it in the
	// viewport with a fifth of the shorter side.
	Circle    tendril.Circle       `yaml:"circle"`
	Thickness float64              `yaml:"thickness"`
	Growth    tendril.GrowthConfig `yaml:"growth"`
}

// RevealConfig stages education detail labels.
type RevealConfig struct {
	Items   []string      `yaml:"items"`
	Delay   time.Duration `yaml:"delay"`
	Offset  tendril.Vec2  `yaml:"offset"`
	Spacing tendril.Vec2  `yaml:"spacing"`
	Color   tendril.Color `yaml:"color"`
}

// IconsConfig maps role names to icon files under Dir. An empty Dir
// disables icons.
type IconsConfig struct {
	Dir   string            `yaml:"dir"`
	Files map[string]string `yaml:"files"`
}

// TelemetryConfig controls CSV output.
type TelemetryConfig struct {
	Dir        string `yaml:"dir"`
	FrameEvery int    `yaml:"frame_every"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	Viewport tendril.Viewport
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Screen.Width <= 0 {
		c.Screen.Width = 1280
	}
	if c.Screen.Height <= 0 {
		c.Screen.Height = 800
	}
	if c.Screen.PixelRatio <= 0 {
		c.Screen.PixelRatio = 1
	}
	if c.Telemetry.FrameEvery <= 0 {
		c.Telemetry.FrameEvery = 1
	}
	c.Derived.Viewport = tendril.Viewport{
		Width:      float64(c.Screen.Width),
		Height:     float64(c.Screen.Height),
		PixelRatio: c.Screen.PixelRatio,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Source returns a fresh random source for the configured kind and seed.
func (c *Config) Source() tendril.Source {
	if c.Random.Kind == "pcg" {
		return tendril.NewSource(c.Random.Seed)
	}
	return tendril.NewSineSource(int(c.Random.Seed))
}

// IconSet returns an icon set rooted at Icons.Dir, or nil when icons are
// disabled.
func (c *Config) IconSet() *tendril.IconSet {
	if c.Icons.Dir == "" || len(c.Icons.Files) == 0 {
		return nil
	}
	return tendril.NewIconSet(os.DirFS(c.Icons.Dir), c.Icons.Files)
}

// Scenes lists the scene names accepted by Scene.
var Scenes = []string{"plant", "roots", "vines", "about"}

// Scene builds the origin and driver options for a named scene laid out
// in v. The about scene is vines steering around a halo vine.
func (c *Config) Scene(name string, v tendril.Viewport, src tendril.Source) (tendril.Origin, tendril.Options, error) {
	var (
		sc      *SceneConfig
		origin  tendril.Origin
		replant func(tendril.Viewport, tendril.Source) tendril.Origin
	)
	switch name {
	case "plant":
		sc = &c.Plant
		origin = tendril.PlantOrigin(v)
	case "roots":
		sc = &c.Roots
		origin = tendril.RootsOrigin(v)
	case "vines":
		sc = &c.Vines
		origin = tendril.VinesOrigin(v, src, c.Vines.Trunk.Lifetime, c.Vines.Trunk.Thickness, nil)
		replant = func(v tendril.Viewport, src tendril.Source) tendril.Origin {
			return tendril.VinesOrigin(v, src, c.Vines.Trunk.Lifetime, c.Vines.Trunk.Thickness, nil)
		}
	case "about":
		sc = &c.Vines
		halo := c.haloCircle(v)
		origin = tendril.VinesOrigin(v, src, c.Vines.Trunk.Lifetime, c.Vines.Trunk.Thickness, &halo)
		// The halo traces once; later generations are vines only.
		replant = func(v tendril.Viewport, src tendril.Source) tendril.Origin {
			halo := c.haloCircle(v)
			return tendril.VinesOrigin(v, src, c.Vines.Trunk.Lifetime, c.Vines.Trunk.Thickness, &halo)
		}
		if c.Halo.Enabled {
			growth := c.Halo.Growth
			growth.Normalize()
			t := tendril.HaloTrunk(halo, growth.StepSize, c.Halo.Thickness)
			t.Growth = &growth
			origin.Trunks = append(origin.Trunks, t)
		}
	default:
		return tendril.Origin{}, tendril.Options{}, fmt.Errorf("config: unknown scene %q", name)
	}

	if name == "plant" || name == "roots" {
		t := &origin.Trunks[0]
		if sc.Trunk.Lifetime > 0 {
			t.Lifetime = sc.Trunk.Lifetime
		}
		if sc.Trunk.Thickness > 0 {
			t.Thickness = sc.Trunk.Thickness
		}
	}

	opts := tendril.Options{
		Growth:      sc.Growth,
		Rand:        src,
		Clear:       sc.Clear,
		Background:  sc.Background,
		Regrow:      sc.Regrow,
		Replant:     replant,
		HoldBubbles: sc.HoldBubbles,
	}
	if name == "roots" {
		opts.Reveal = tendril.RevealConfig{
			Items:   c.Reveal.Items,
			Delay:   c.Reveal.Delay,
			Offset:  c.Reveal.Offset,
			Spacing: c.Reveal.Spacing,
			Color:   c.Reveal.Color,
		}
	}
	if icons := c.IconSet(); icons != nil {
		opts.Icons = icons
	}
	return origin, opts, nil
}

func (c *Config) haloCircle(v tendril.Viewport) tendril.Circle {
	h := c.Halo.Circle
	if h.R > 0 {
		return h
	}
	return tendril.Circle{X: v.Width / 2, Y: v.Height / 2, R: math.Min(v.Width, v.Height) / 5}
}
