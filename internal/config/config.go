// internal/config/config.go
package config

import (
    "fmt"
    "os"
    "time"

    "gopkg.in/yaml.v3"
)

type Config struct {
    Monitor       MonitorConfig      `yaml:"monitor"`
    Database      DatabaseConfig     `yaml:"database"`
    Web           WebConfig          `yaml:"web"`
    Logging       LoggingConfig      `yaml:"logging"`
    Notifications NotificationConfig `yaml:"notifications"`
    Hotspots      []HotspotConfig    `yaml:"hotspots"`
}

type MonitorConfig struct {
    Interval         time.Duration `yaml:"interval"`
    FailureThreshold int           `yaml:"failure_threshold"`
    Probe            ProbeConfig   `yaml:"probe"`
}

type ProbeConfig struct {
    Endpoints    []string      `yaml:"endpoints"`
    Timeout      time.Duration `yaml:"timeout"`
    MinSuccesses int           `yaml:"min_successes"`
}

type DatabaseConfig struct {
    Path             string        `yaml:"path"`
    HistoryRetention time.Duration `yaml:"history_retention"`
    CleanupInterval  time.Duration `yaml:"cleanup_interval"`
}

type WebConfig struct {
    Enabled bool   `yaml:"enabled"`
    Listen  string `yaml:"listen"`
}

type LoggingConfig struct {
    Level  string `yaml:"level"`
    Format string `yaml:"format"`
}

type NotificationConfig struct {
    Webhook WebhookConfig `yaml:"webhook"`
}

type WebhookConfig struct {
    Enabled  bool           `yaml:"enabled"`
    URL      string         `yaml:"url"`
    Timeout  time.Duration  `yaml:"timeout"`
    Throttle ThrottleConfig `yaml:"throttle"`
}

type ThrottleConfig struct {
    Window    time.Duration `yaml:"window"`
    MaxEvents int           `yaml:"max_events"`
}

// HotspotConfig describes one remediable network and how to log back in
// through its captive portal.
type HotspotConfig struct {
    SSID      string        `yaml:"ssid"`
    LoginType string        `yaml:"login_type"`
    Username  string        `yaml:"username"`
    Password  string        `yaml:"password"`
    Command   []string      `yaml:"command"` // external portal-login helper
    Timeout   time.Duration `yaml:"timeout"`
}

var validLoginTypes = map[string]bool{
    "bt_business":   true,
    "form_based":    true,
    "click_through": true,
}

func Load(filename string) (*Config, error) {
    data, err := os.ReadFile(filename)
    if err != nil {
        return nil, fmt.Errorf("failed to read config file: %w", err)
    }

    var config Config
    if err := yaml.Unmarshal(data, &config); err != nil {
        return nil, fmt.Errorf("failed to parse YAML: %w", err)
    }

    setDefaults(&config)

    if err := validate(&config); err != nil {
        return nil, fmt.Errorf("invalid configuration: %w", err)
    }

    return &config, nil
}

func setDefaults(cfg *Config) {
    // Monitor defaults
    if cfg.Monitor.Interval == 0 {
        cfg.Monitor.Interval = 30 * time.Second
    }
    if cfg.Monitor.FailureThreshold == 0 {
        cfg.Monitor.FailureThreshold = 1
    }
    if cfg.Monitor.Probe.Timeout == 0 {
        cfg.Monitor.Probe.Timeout = 5 * time.Second
    }
    if cfg.Monitor.Probe.MinSuccesses == 0 {
        cfg.Monitor.Probe.MinSuccesses = 2
    }

    // Database defaults
    if cfg.Database.Path == "" {
        cfg.Database.Path = "./data/portalwatch.db"
    }
    if cfg.Database.HistoryRetention == 0 {
        cfg.Database.HistoryRetention = 90 * 24 * time.Hour
    }
    if cfg.Database.CleanupInterval == 0 {
        cfg.Database.CleanupInterval = 6 * time.Hour
    }

    // Web defaults
    if cfg.Web.Listen == "" {
        cfg.Web.Listen = ":8080"
    }

    // Logging defaults
    if cfg.Logging.Level == "" {
        cfg.Logging.Level = "info"
    }
    if cfg.Logging.Format == "" {
        cfg.Logging.Format = "text"
    }

    // Notification defaults
    if cfg.Notifications.Webhook.Timeout == 0 {
        cfg.Notifications.Webhook.Timeout = 10 * time.Second
    }
    if cfg.Notifications.Webhook.Throttle.Window == 0 {
        cfg.Notifications.Webhook.Throttle.Window = 15 * time.Minute
    }
    if cfg.Notifications.Webhook.Throttle.MaxEvents == 0 {
        cfg.Notifications.Webhook.Throttle.MaxEvents = 10
    }

    // Hotspot defaults
    for i := range cfg.Hotspots {
        if cfg.Hotspots[i].Timeout == 0 {
            cfg.Hotspots[i].Timeout = 2 * time.Minute
        }
    }
}

func validate(cfg *Config) error {
    if cfg.Monitor.Interval < time.Second {
        return fmt.Errorf("monitor.interval must be at least 1s")
    }
    if cfg.Monitor.FailureThreshold < 1 {
        return fmt.Errorf("monitor.failure_threshold must be at least 1")
    }
    if cfg.Monitor.Probe.Timeout < time.Second || cfg.Monitor.Probe.Timeout > 30*time.Second {
        return fmt.Errorf("monitor.probe.timeout must be between 1s and 30s")
    }
    if cfg.Monitor.Probe.MinSuccesses < 1 {
        return fmt.Errorf("monitor.probe.min_successes must be at least 1")
    }
    if n := len(cfg.Monitor.Probe.Endpoints); n > 0 && cfg.Monitor.Probe.MinSuccesses > n {
        return fmt.Errorf("monitor.probe.min_successes (%d) exceeds endpoint count (%d)",
            cfg.Monitor.Probe.MinSuccesses, n)
    }

    if cfg.Database.Path == "" {
        return fmt.Errorf("database.path cannot be empty")
    }
    // setDefaults only fills zero values, so negatives reach here and
    // would panic time.NewTicker in the monitor loop.
    if cfg.Database.HistoryRetention <= 0 {
        return fmt.Errorf("database.history_retention must be positive")
    }
    if cfg.Database.CleanupInterval <= 0 {
        return fmt.Errorf("database.cleanup_interval must be positive")
    }

    if cfg.Notifications.Webhook.Enabled && cfg.Notifications.Webhook.URL == "" {
        return fmt.Errorf("notifications.webhook.url is required when the webhook is enabled")
    }
    if cfg.Notifications.Webhook.Timeout <= 0 {
        return fmt.Errorf("notifications.webhook.timeout must be positive")
    }
    if cfg.Notifications.Webhook.Throttle.Window <= 0 {
        return fmt.Errorf("notifications.webhook.throttle.window must be positive")
    }
    if cfg.Notifications.Webhook.Throttle.MaxEvents < 1 {
        return fmt.Errorf("notifications.webhook.throttle.max_events must be at least 1")
    }

    seen := make(map[string]bool)
    for i, hotspot := range cfg.Hotspots {
        if hotspot.SSID == "" {
            return fmt.Errorf("hotspots[%d].ssid cannot be empty", i)
        }
        if seen[hotspot.SSID] {
            return fmt.Errorf("duplicate hotspot ssid: %s", hotspot.SSID)
        }
        seen[hotspot.SSID] = true

        if !validLoginTypes[hotspot.LoginType] {
            return fmt.Errorf("hotspots[%d] has unknown login_type: %q", i, hotspot.LoginType)
        }
        if hotspot.LoginType == "form_based" && (hotspot.Username == "" || hotspot.Password == "") {
            return fmt.Errorf("hotspots[%d] with login_type form_based requires username and password", i)
        }
        if len(hotspot.Command) == 0 {
            return fmt.Errorf("hotspots[%d].command is required", i)
        }
        if hotspot.Timeout <= 0 {
            return fmt.Errorf("hotspots[%d].timeout must be positive", i)
        }
    }

    return nil
}

// RemediableSSIDs returns the set of networks remediation is allowed on.
func (c *Config) RemediableSSIDs() map[string]bool {
    ssids := make(map[string]bool, len(c.Hotspots))
    for _, hotspot := range c.Hotspots {
        ssids[hotspot.SSID] = true
    }
    return ssids
}

// HotspotFor looks up the hotspot config for a network name. An empty
// name (unknown network) falls back to the first configured hotspot.
func (c *Config) HotspotFor(ssid string) *HotspotConfig {
    for i := range c.Hotspots {
        if c.Hotspots[i].SSID == ssid {
            return &c.Hotspots[i]
        }
    }
    if ssid == "" && len(c.Hotspots) > 0 {
        return &c.Hotspots[0]
    }
    return nil
}
