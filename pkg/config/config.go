package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Inference  InferenceConfig  `mapstructure:"inference"`
	Federation FederationConfig `mapstructure:"federation"`
	WebSocket  WebSocketConfig  `mapstructure:"websocket"`
	MQTT       MQTTConfig       `mapstructure:"mqtt"`
	Storage    StorageConfig    `mapstructure:"storage"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	SecretKey   string `mapstructure:"secret_key"`
	AuthEnabled bool   `mapstructure:"auth_enabled"`
}

type MetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	EnableLatency bool `mapstructure:"enable_latency"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

// InferenceConfig points at the external AI microservice. When Endpoint is
// empty the platform runs on the deterministic fallback classifier alone.
type InferenceConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxFailures    uint32 `mapstructure:"max_failures"`
}

type FederationConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RoundInterval     string  `mapstructure:"round_interval"`
	DeviceCount       int     `mapstructure:"device_count"`
	MinParticipants   int     `mapstructure:"min_participants"`
	Seed              int64   `mapstructure:"seed"`
	PrivacyBudget     float64 `mapstructure:"privacy_budget"`
	EpsilonPerRound   float64 `mapstructure:"epsilon_per_round"`
	HeartbeatInterval string  `mapstructure:"heartbeat_interval"`
}

type WebSocketConfig struct {
	MaxConnections int    `mapstructure:"max_connections"`
	PingPeriod     string `mapstructure:"ping_period"`
	PongWait       string `mapstructure:"pong_wait"`
}

// MQTTConfig enables the optional edge-device telemetry uplink.
type MQTTConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	ClientID string `mapstructure:"client_id"`
	Topic    string `mapstructure:"topic"`
}

// StorageConfig enables optional archival of uploaded media to object storage.
type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}

	setDefaultValues()

	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file %s.yaml not found, using only environment variables", fileName)
		}
		return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setDefaultValues() {
	if globalConfig.Database.SSLMode == "" {
		globalConfig.Database.SSLMode = "disable"
	}
	if globalConfig.Server.Port == 0 {
		globalConfig.Server.Port = 8080
	}
	if globalConfig.Server.MetricsPort == 0 {
		globalConfig.Server.MetricsPort = 9090
	}
	if globalConfig.WebSocket.MaxConnections == 0 {
		globalConfig.WebSocket.MaxConnections = 256
	}
	if globalConfig.Inference.TimeoutSeconds == 0 {
		globalConfig.Inference.TimeoutSeconds = 30
	}
	if globalConfig.Inference.MaxFailures == 0 {
		globalConfig.Inference.MaxFailures = 3
	}
	if globalConfig.Federation.RoundInterval == "" {
		globalConfig.Federation.RoundInterval = "30s"
	}
	if globalConfig.Federation.HeartbeatInterval == "" {
		globalConfig.Federation.HeartbeatInterval = "10s"
	}
	if globalConfig.Federation.DeviceCount == 0 {
		globalConfig.Federation.DeviceCount = 8
	}
	if globalConfig.Federation.MinParticipants == 0 {
		globalConfig.Federation.MinParticipants = 3
	}
	if globalConfig.Federation.PrivacyBudget == 0 {
		globalConfig.Federation.PrivacyBudget = 10.0
	}
	if globalConfig.Federation.EpsilonPerRound == 0 {
		globalConfig.Federation.EpsilonPerRound = 0.1
	}
}

func GetConfig() *Config {
	return &globalConfig
}
