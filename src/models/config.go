package models

// MConfig Structure
type MConfig struct {
	Name     string         `yaml:"name"`
	Host     string         `yaml:"host"`
	Port     int            `yaml:"port"`
	LogLevel string         `yaml:"log_level"`
	Storage  MStorageConfig `yaml:"storage"`
	Network  MNetworkConfig `yaml:"network"`
	Market   MMarketConfig  `yaml:"market"`
	Alerts   MAlertConfig   `yaml:"alerts"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MNetworkConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Proxies        []string `yaml:"proxies"`
	RequestTimeout int      `yaml:"timeout"`
	MaxRetries     int      `yaml:"retries"`
	UserAgent      string   `yaml:"user_agent"`
}

type MMarketConfig struct {
	BaseURL               string  `yaml:"base_url"`
	FetchIntervalMinutes  int     `yaml:"fetch_interval_minutes"`
	DetectIntervalMinutes int     `yaml:"detect_interval_minutes"`
	RetentionDays         int     `yaml:"retention_days"`
	AlertThreshold        float64 `yaml:"alert_threshold"`
	FetchOnStart          bool    `yaml:"fetch_on_start"`
}

type MAlertConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}
