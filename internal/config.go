package simtop

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Renderer names accepted by the renderer key
const (
	RendererTUI      = "tui"
	RendererTermui   = "termui"
	RendererHeadless = "headless"
)

// Config is the effective configuration of a run.
type Config struct {
	Renderer  string                   `mapstructure:"renderer" yaml:"renderer" validate:"oneof=tui termui headless"`
	Interval  time.Duration            `mapstructure:"interval" yaml:"interval" validate:"gt=0"`
	Capacity  int                      `mapstructure:"capacity" yaml:"capacity" validate:"min=1"`
	Seed      uint64                   `mapstructure:"seed" yaml:"seed"`
	Listen    string                   `mapstructure:"listen" yaml:"listen" validate:"omitempty,hostname_port"`
	Animation AnimationConfig          `mapstructure:"animation" yaml:"animation"`
	Log       LogConfig                `mapstructure:"log" yaml:"log"`
	Profiles  map[string]ProfileConfig `mapstructure:"profiles" yaml:"profiles,omitempty"`
}

type AnimationConfig struct {
	Duration time.Duration `mapstructure:"duration" yaml:"duration" validate:"gte=0"`
	Easing   string        `mapstructure:"easing" yaml:"easing" validate:"oneof=linear spring"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file" yaml:"file"`
}

// ProfileConfig overrides parts of a metric's walk profile. Unset fields keep
// the built-in value.
type ProfileConfig struct {
	StepMin    *float64 `mapstructure:"step_min" yaml:"step_min,omitempty"`
	StepMax    *float64 `mapstructure:"step_max" yaml:"step_max,omitempty"`
	Lower      *float64 `mapstructure:"lower" yaml:"lower,omitempty"`
	Upper      *float64 `mapstructure:"upper" yaml:"upper,omitempty"`
	SeedCenter *float64 `mapstructure:"seed_center" yaml:"seed_center,omitempty"`
	SeedSpread *float64 `mapstructure:"seed_spread" yaml:"seed_spread,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report keys the way they are written in config files
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("renderer", RendererTUI)
	v.SetDefault("interval", UpdateDuration())
	v.SetDefault("capacity", WINDOW_CAPACITY)
	v.SetDefault("seed", 0)
	v.SetDefault("listen", "")
	v.SetDefault("animation.duration", AnimationDuration())
	v.SetDefault("animation.easing", "linear")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// ReadConfigFile loads path into v, or when path is empty looks for
// simtop.yaml in the user config dir and the working directory. A missing
// default file is not an error.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("simtop")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.config/simtop")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// LoadConfig applies defaults, decodes v and validates the result.
func LoadConfig(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field rules and the per-metric profile overrides.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", configKey(fe.Namespace()), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := c.MetricProfiles(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// MetricProfiles merges the profile overrides onto DefaultProfiles.
func (c *Config) MetricProfiles() (map[MetricKind]Profile, error) {
	profiles := DefaultProfiles()

	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		kind, err := ParseMetricKind(name)
		if err != nil {
			return nil, fmt.Errorf("profiles.%s: %w", name, err)
		}
		p := c.Profiles[name].apply(profiles[kind])
		if err := checkProfile(p); err != nil {
			return nil, fmt.Errorf("profiles.%s: %w", name, err)
		}
		profiles[kind] = p
	}
	return profiles, nil
}

func (o ProfileConfig) apply(p Profile) Profile {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.StepMin, o.StepMin)
	set(&p.StepMax, o.StepMax)
	set(&p.Bounds.Lower, o.Lower)
	set(&p.Bounds.Upper, o.Upper)
	set(&p.SeedCenter, o.SeedCenter)
	set(&p.SeedSpread, o.SeedSpread)
	return p
}

func checkProfile(p Profile) error {
	switch {
	case p.Bounds.Lower < 0 || p.Bounds.Upper > SCALE_MAX:
		return fmt.Errorf("bounds [%g, %g] outside [0, %g]", p.Bounds.Lower, p.Bounds.Upper, SCALE_MAX)
	case p.Bounds.Lower >= p.Bounds.Upper:
		return fmt.Errorf("lower %g must be below upper %g", p.Bounds.Lower, p.Bounds.Upper)
	case p.StepMin > p.StepMax:
		return fmt.Errorf("step_min %g is greater than step_max %g", p.StepMin, p.StepMax)
	case p.SeedSpread < 0:
		return fmt.Errorf("seed_spread %g is negative", p.SeedSpread)
	}
	return nil
}

// configKey turns "Config.animation.easing" into "animation.easing"
func configKey(namespace string) string {
	_, key, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return key
}

// YAML renders the configuration as it would appear in a config file
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}
