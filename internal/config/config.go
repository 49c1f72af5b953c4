package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Action names that can be bound to global hotkeys.
const (
	ActionCapture       = "capture"
	ActionToggle        = "toggle"
	ActionToggleTopmost = "toggle_topmost"
	ActionHistoryPrev   = "history_prev"
	ActionHistoryNext   = "history_next"
)

// Jump modes control what happens when the target window lives on
// another virtual desktop.
const (
	JumpModeSwitch = "switch" // switch the active desktop to the window's
	JumpModePull   = "pull"   // move the window to the current desktop
)

type Config struct {
	Hotkeys             map[string]string `mapstructure:"hotkeys"`        // action name -> binding
	WindowHotkeys       map[string]string `mapstructure:"window_hotkeys"` // binding -> capture slot name
	ScanIntervalSeconds int               `mapstructure:"scan_interval_seconds"`
	ScanWorkers         int               `mapstructure:"scan_workers"`
	ExcludedClasses     []string          `mapstructure:"excluded_classes"`
	JumpMode            string            `mapstructure:"jump_mode"`
	HistoryDepth        int               `mapstructure:"history_depth"`
	PipeName            string            `mapstructure:"pipe_name"`
	LogLevel            string            `mapstructure:"log_level"`
	LogFormat           string            `mapstructure:"log_format"`
	LogFile             string            `mapstructure:"log_file"`
	LogMaxSizeMB        int               `mapstructure:"log_max_size_mb"`
	LogMaxBackups       int               `mapstructure:"log_max_backups"`
}

func Default() *Config {
	return &Config{
		Hotkeys: map[string]string{
			ActionCapture:       "ctrl+alt+c",
			ActionToggle:        "ctrl+alt+space",
			ActionToggleTopmost: "ctrl+alt+t",
			ActionHistoryPrev:   "ctrl+alt+left",
			ActionHistoryNext:   "ctrl+alt+right",
		},
		WindowHotkeys:       map[string]string{},
		ScanIntervalSeconds: 2,
		ScanWorkers:         4,
		ExcludedClasses: []string{
			"Windows.UI.Core.CoreWindow",
			"ApplicationFrameWindow",
			"Windows.UI.Composition.DesktopWindowContentBridge",
			"Shell_TrayWnd",
			"Progman",
			"WorkerW",
		},
		JumpMode:      JumpModeSwitch,
		HistoryDepth:  50,
		PipeName:      `\\.\pipe\winhop`,
		LogLevel:      "info",
		LogFormat:     "text",
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
	}
}

func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("winhop")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("WINHOP")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Save(cfg *Config) error {
	return SaveTo(cfg, "")
}

func SaveTo(cfg *Config, cfgFile string) error {
	viper.Set("hotkeys", cfg.Hotkeys)
	viper.Set("window_hotkeys", cfg.WindowHotkeys)
	viper.Set("scan_interval_seconds", cfg.ScanIntervalSeconds)
	viper.Set("scan_workers", cfg.ScanWorkers)
	viper.Set("excluded_classes", cfg.ExcludedClasses)
	viper.Set("jump_mode", cfg.JumpMode)
	viper.Set("history_depth", cfg.HistoryDepth)
	viper.Set("pipe_name", cfg.PipeName)
	viper.Set("log_level", cfg.LogLevel)
	viper.Set("log_format", cfg.LogFormat)
	viper.Set("log_file", cfg.LogFile)
	viper.Set("log_max_size_mb", cfg.LogMaxSizeMB)
	viper.Set("log_max_backups", cfg.LogMaxBackups)

	var cfgPath string
	if cfgFile != "" {
		cfgPath = cfgFile
		dir := filepath.Dir(cfgPath)
		if dir != "." {
			if err := os.MkdirAll(dir, 0700); err != nil {
				return err
			}
		}
	} else {
		cfgPath = filepath.Join(configDir(), "winhop.yaml")
		if err := os.MkdirAll(configDir(), 0700); err != nil {
			return err
		}
	}

	if err := viper.WriteConfigAs(cfgPath); err != nil {
		return err
	}

	return os.Chmod(cfgPath, 0600)
}

func configDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "winhop")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "winhop")
}
