package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"CarbonCompendium/internal/model"
)

// Scenario is a named simulation run on a cron schedule.
type Scenario struct {
	Name              string                 `yaml:"name"`
	Cron              string                 `yaml:"cron"`
	Seed              *int64                 `yaml:"seed"`
	Preset            model.DiscountPreset   `yaml:"preset"`
	CustomRatePercent float64                `yaml:"custom_rate_percent"`
	Config            model.SimulationConfig `yaml:"config"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		RegistryPath string `yaml:"registry_path"`
		GlossaryPath string `yaml:"glossary_path"`
		AtlasPath    string `yaml:"atlas_path"`
		RunsPath     string `yaml:"runs_path"`
	} `yaml:"database"`
	Redis struct {
		Addr       string `yaml:"addr"`
		TTLSeconds int    `yaml:"ttl_seconds"`
	} `yaml:"redis"`
	Simulation struct {
		MinTrials     int `yaml:"min_trials"`
		MaxTrials     int `yaml:"max_trials"`
		DefaultTrials int `yaml:"default_trials"`
		HistogramBins int `yaml:"histogram_bins"`
	} `yaml:"simulation"`
	Scenarios   []Scenario `yaml:"scenarios"`
	Electricity struct {
		HistoryURL  string `yaml:"history_url"`
		HistoryFile string `yaml:"history_file"`
		APIKey      string `yaml:"api_key"`
		HorizonYear int    `yaml:"horizon_year"`
	} `yaml:"electricity"`
	Atlas struct {
		AdminPass string `yaml:"admin_pass"`
	} `yaml:"atlas"`
	Glossary struct {
		SeedFile string `yaml:"seed_file"`
	} `yaml:"glossary"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("ATLAS_ADMIN_PASS"); v != "" {
		cfg.Atlas.AdminPass = v
	}
	if v := os.Getenv("ELECTRICITY_HISTORY_URL"); v != "" {
		cfg.Electricity.HistoryURL = v
	}

	// Defaults
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Database.RegistryPath == "" {
		cfg.Database.RegistryPath = filepath.Join(dataDir, "registry.db")
	}
	if cfg.Database.GlossaryPath == "" {
		cfg.Database.GlossaryPath = filepath.Join(dataDir, "carbon_glossary.db")
	}
	if cfg.Database.AtlasPath == "" {
		cfg.Database.AtlasPath = filepath.Join(dataDir, "africa.db")
	}
	if cfg.Database.RunsPath == "" {
		cfg.Database.RunsPath = filepath.Join(dataDir, "simulation_runs.db")
	}
	if cfg.Redis.TTLSeconds == 0 {
		cfg.Redis.TTLSeconds = 3600
	}
	if cfg.Simulation.MinTrials == 0 {
		cfg.Simulation.MinTrials = 1000
	}
	if cfg.Simulation.MaxTrials == 0 {
		cfg.Simulation.MaxTrials = 20000
	}
	if cfg.Simulation.DefaultTrials == 0 {
		cfg.Simulation.DefaultTrials = 5000
	}
	if cfg.Simulation.HistogramBins == 0 {
		cfg.Simulation.HistogramBins = 40
	}
	if cfg.Electricity.HorizonYear == 0 {
		cfg.Electricity.HorizonYear = 2035
	}
	if cfg.Glossary.SeedFile == "" {
		cfg.Glossary.SeedFile = "configs/glossary.yaml"
	}
	for i := range cfg.Scenarios {
		if cfg.Scenarios[i].Preset == "" {
			cfg.Scenarios[i].Preset = model.PresetEstablished
		}
		if cfg.Scenarios[i].Config.Trials == 0 {
			cfg.Scenarios[i].Config.Trials = cfg.Simulation.DefaultTrials
		}
	}

	return cfg, nil
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	s := c.Simulation
	if s.MinTrials < 1 {
		return fmt.Errorf("simulation.min_trials must be positive")
	}
	if s.MaxTrials < s.MinTrials {
		return fmt.Errorf("simulation.max_trials must not be below min_trials")
	}
	if s.DefaultTrials < s.MinTrials || s.DefaultTrials > s.MaxTrials {
		return fmt.Errorf("simulation.default_trials must be within [%d, %d]", s.MinTrials, s.MaxTrials)
	}
	if s.HistogramBins < 1 {
		return fmt.Errorf("simulation.histogram_bins must be positive")
	}
	if c.Redis.TTLSeconds < 0 {
		return fmt.Errorf("redis.ttl_seconds must not be negative")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when bot_token is set")
	}
	seen := make(map[string]bool, len(c.Scenarios))
	for i, sc := range c.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("scenarios[%d].name is required", i)
		}
		if seen[sc.Name] {
			return fmt.Errorf("scenarios[%d].name %q is duplicated", i, sc.Name)
		}
		seen[sc.Name] = true
	}
	return nil
}

// Scenario returns the configured scenario called name.
func (c *Config) Scenario(name string) (Scenario, bool) {
	for _, sc := range c.Scenarios {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scenario{}, false
}
