package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	DbPath string `yaml:"db_path"`

	UploadDir     string `yaml:"upload_dir"`
	ProfileDir    string `yaml:"profile_dir"`
	AttachmentDir string `yaml:"attachment_dir"`

	MaxAttachmentSize   int64 `yaml:"max_attachment_size"`    // bytes
	MaxProfileImageSize int64 `yaml:"max_profile_image_size"` // bytes, decoded

	// durations are plain counts in yaml, multiplied by the unit here
	AttachmentRetentionHours time.Duration `yaml:"attachment_retention_hours"`
	AttachmentSweepHours     time.Duration `yaml:"attachment_sweep_hours"`
	TokenTTLHours            time.Duration `yaml:"token_ttl_hours"`
	TokenSweepHours          time.Duration `yaml:"token_sweep_hours"`

	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Private struct {
	Email Email `yaml:"email"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	From       string `yaml:"from"`
	Timeout    int    `yaml:"timeout"` // seconds
}

func (c *Config) AttachmentRetention() time.Duration {
	return c.Public.AttachmentRetentionHours * time.Hour
}

func (c *Config) AttachmentSweepInterval() time.Duration {
	if c.Public.AttachmentSweepHours == 0 {
		// default: sweep cadence equals the retention window
		return c.AttachmentRetention()
	}
	return c.Public.AttachmentSweepHours * time.Hour
}

func (c *Config) TokenTTL() time.Duration {
	return c.Public.TokenTTLHours * time.Hour
}

func (c *Config) TokenSweepInterval() time.Duration {
	return c.Public.TokenSweepHours * time.Hour
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

// Default returns a config with every knob at its baseline value.
// Tests build on top of it instead of reading yaml from disk.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	p := &c.Public
	if p.Port == 0 {
		p.Port = 8080
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	if p.DbPath == "" {
		p.DbPath = "hoaxify.db"
	}
	if p.UploadDir == "" {
		p.UploadDir = "upload"
	}
	if p.ProfileDir == "" {
		p.ProfileDir = "profile"
	}
	if p.AttachmentDir == "" {
		p.AttachmentDir = "attachment"
	}
	if p.MaxAttachmentSize == 0 {
		p.MaxAttachmentSize = 5 * 1024 * 1024
	}
	if p.MaxProfileImageSize == 0 {
		p.MaxProfileImageSize = 2 * 1024 * 1024
	}
	if p.AttachmentRetentionHours == 0 {
		p.AttachmentRetentionHours = 24
	}
	if p.TokenTTLHours == 0 {
		p.TokenTTLHours = 7 * 24
	}
	if p.TokenSweepHours == 0 {
		p.TokenSweepHours = 1
	}
}
