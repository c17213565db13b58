package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration. Values come from defaults, an
// optional jobgate.yaml and JOBGATE_* environment variables, in that order.
type Config struct {
	Credentials string       `mapstructure:"credentials"`
	Heuristics  string       `mapstructure:"heuristics"`
	Chrome      ChromeConfig `mapstructure:"chrome"`
	Login       LoginConfig  `mapstructure:"login"`
	Assist      AssistConfig `mapstructure:"assist"`
	Trail       TrailConfig  `mapstructure:"trail"`
	UI          UIConfig     `mapstructure:"ui"`
	Log         LogConfig    `mapstructure:"log"`
}

// ChromeConfig describes the local Chrome installation and the isolated
// automation profile.
type ChromeConfig struct {
	Paths                []string `mapstructure:"paths"`
	ProcessName          string   `mapstructure:"process_name"`
	AutomationProfileDir string   `mapstructure:"automation_profile_dir"`
	DefaultProfileDir    string   `mapstructure:"default_profile_dir"`
	DebugPort            int      `mapstructure:"debug_port"`
	Headless             bool     `mapstructure:"headless"`
}

// LoginConfig holds the fixed delays of a login attempt.
type LoginConfig struct {
	SettleDelay     time.Duration `mapstructure:"settle_delay"`
	PostSubmitDelay time.Duration `mapstructure:"post_submit_delay"`
	FieldWait       time.Duration `mapstructure:"field_wait"`
	FillPause       time.Duration `mapstructure:"fill_pause"`
	SubmitPause     time.Duration `mapstructure:"submit_pause"`
}

type AssistConfig struct {
	Provider string `mapstructure:"provider"` // "", claude, openai
	Model    string `mapstructure:"model"`
}

type TrailConfig struct {
	Dir   string `mapstructure:"dir"`
	Width uint   `mapstructure:"width"`
}

type UIConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const envPrefix = "JOBGATE"

func setDefaults(v *viper.Viper) {
	v.SetDefault("credentials", "personal_data.json")
	v.SetDefault("heuristics", "")

	v.SetDefault("chrome.paths", DefaultChromePaths())
	v.SetDefault("chrome.process_name", DefaultProcessName())
	v.SetDefault("chrome.automation_profile_dir", DefaultAutomationProfileDir())
	v.SetDefault("chrome.default_profile_dir", DefaultUserProfileDir())
	v.SetDefault("chrome.debug_port", 9223)
	v.SetDefault("chrome.headless", false)

	v.SetDefault("login.settle_delay", 5*time.Second)
	v.SetDefault("login.post_submit_delay", 6*time.Second)
	v.SetDefault("login.field_wait", time.Second)
	v.SetDefault("login.fill_pause", 500*time.Millisecond)
	v.SetDefault("login.submit_pause", time.Second)

	v.SetDefault("assist.provider", "")
	v.SetDefault("assist.model", "")

	v.SetDefault("trail.dir", "")
	v.SetDefault("trail.width", 800)

	v.SetDefault("ui.addr", "127.0.0.1:7860")
	v.SetDefault("log.level", "info")
}

// Load reads configuration. An empty path searches the working directory
// for jobgate.{yaml,json,toml}; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("jobgate")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration with no file and no environment applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults are well-typed; decoding them cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}
