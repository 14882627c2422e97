package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Config holds every tunable the daemon recognizes. Unset fields get
// defaults; nonsense values fail validation at startup.
type Config struct {
	CheckIntervalSeconds    int `yaml:"checkIntervalSeconds"`
	SampleCount             int `yaml:"sampleCount"`
	PerSampleTimeoutSeconds int `yaml:"perSampleTimeoutSeconds"`
	FailThreshold           int `yaml:"failThreshold"`
	RecheckDelaySeconds     int `yaml:"recheckDelaySeconds"`
	HistoryRetentionHours   int `yaml:"historyRetentionHours"`
	MaxConcurrentChecks     int `yaml:"maxConcurrentChecks"`

	Notifications NotificationsConfig `yaml:"notifications"`
	Twilio        TwilioConfig        `yaml:"twilio"`
	Email         EmailConfig         `yaml:"email"`
	Server        ServerConfig        `yaml:"server"`

	LogDir        string `yaml:"logDir"`
	StatusLogFile string `yaml:"statusLogFile"`
	HostsFile     string `yaml:"hostsFile"`
}

type NotificationsConfig struct {
	Enabled          *bool `yaml:"enabled"`
	NotifyOnDown     *bool `yaml:"notifyOnDown"`
	NotifyOnRecovery *bool `yaml:"notifyOnRecovery"`
	CooldownMinutes  int   `yaml:"cooldownMinutes"`
}

type TwilioConfig struct {
	AccountSID string   `yaml:"accountSid"`
	AuthToken  string   `yaml:"authToken"`
	FromNumber string   `yaml:"fromNumber"`
	ToNumbers  []string `yaml:"toNumbers"`
}

type EmailConfig struct {
	SMTPServer string   `yaml:"smtpServer"`
	SMTPPort   int      `yaml:"smtpPort"`
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	FromEmail  string   `yaml:"fromEmail"`
	ToEmails   []string `yaml:"toEmails"`
}

type ServerConfig struct {
	Addr              string `yaml:"addr"`
	RequestsPerMinute int    `yaml:"requestsPerMinute"`
	Burst             int    `yaml:"burst"`
}

// Load reads the YAML config at path. A missing file yields the
// defaults (the daemon is usable without any config); a malformed one
// is an error so typos fail loudly at startup.
func Load(path string) (Config, error) {
	var cfg Config

	b, err := os.ReadFile(path)
	if err == nil {
		if uerr := yaml.Unmarshal(b, &cfg); uerr != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, uerr)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.CheckIntervalSeconds <= 0 {
		cfg.CheckIntervalSeconds = 30
	}
	if cfg.SampleCount <= 0 {
		cfg.SampleCount = 4
	}
	if cfg.PerSampleTimeoutSeconds <= 0 {
		cfg.PerSampleTimeoutSeconds = 5
	}
	if cfg.FailThreshold <= 0 {
		cfg.FailThreshold = 2
	}
	if cfg.RecheckDelaySeconds <= 0 {
		cfg.RecheckDelaySeconds = 5
	}
	if cfg.HistoryRetentionHours <= 0 {
		cfg.HistoryRetentionHours = 48
	}
	if cfg.MaxConcurrentChecks <= 0 {
		cfg.MaxConcurrentChecks = 32
	}

	if cfg.Notifications.Enabled == nil {
		cfg.Notifications.Enabled = boolp(true)
	}
	if cfg.Notifications.NotifyOnDown == nil {
		cfg.Notifications.NotifyOnDown = boolp(true)
	}
	if cfg.Notifications.NotifyOnRecovery == nil {
		cfg.Notifications.NotifyOnRecovery = boolp(true)
	}
	if cfg.Notifications.CooldownMinutes <= 0 {
		cfg.Notifications.CooldownMinutes = 30
	}

	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = "127.0.0.1:9898"
	}
	if cfg.Server.RequestsPerMinute == 0 {
		cfg.Server.RequestsPerMinute = 120
	}
	if cfg.Server.Burst <= 0 {
		cfg.Server.Burst = 60
	}

	if cfg.LogDir == "" {
		cfg.LogDir = "logs"
	}
	if cfg.StatusLogFile == "" {
		cfg.StatusLogFile = "server_monitoring.log"
	}
	if cfg.HostsFile == "" {
		cfg.HostsFile = "servers.json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("HOSTS_FILE"); v != "" {
		cfg.HostsFile = v
	}
	if v := os.Getenv("STATUS_LOG_FILE"); v != "" {
		cfg.StatusLogFile = v
	}
}

func validate(cfg *Config) error {
	if cfg.FailThreshold > cfg.SampleCount {
		return fmt.Errorf("config: failThreshold %d exceeds sampleCount %d", cfg.FailThreshold, cfg.SampleCount)
	}
	if cfg.Email.SMTPPort < 0 || cfg.Email.SMTPPort > 65535 {
		return fmt.Errorf("config: invalid smtpPort %d", cfg.Email.SMTPPort)
	}
	if cfg.Server.RequestsPerMinute < 0 {
		return errors.New("config: requestsPerMinute cannot be negative")
	}
	return nil
}

func (c Config) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalSeconds) * time.Second
}

func (c Config) PerSampleTimeout() time.Duration {
	return time.Duration(c.PerSampleTimeoutSeconds) * time.Second
}

func (c Config) RecheckDelay() time.Duration {
	return time.Duration(c.RecheckDelaySeconds) * time.Second
}

func (c Config) HistoryRetention() time.Duration {
	return time.Duration(c.HistoryRetentionHours) * time.Hour
}

func (c Config) NotificationCooldown() time.Duration {
	return time.Duration(c.Notifications.CooldownMinutes) * time.Minute
}

func boolp(v bool) *bool { return &v }
