// Package config loads configs/config.yml with environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "RECLAIM"

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Device gateway drivers.
const (
	GatewayMQTT      = "mqtt"
	GatewaySimulator = "simulator"
)

type Config struct {
	Port string
	Log  LogConfig
	HTTP HTTPConfig

	DB     DBConfig
	Device DeviceConfig

	Boost    BoostConfig
	History  HistoryConfig
	Recorder RecorderConfig
	Auth     AuthConfig
}

type LogConfig struct {
	Level    string
	Encoding string
}

type HTTPConfig struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

type DBConfig struct {
	Driver string
	Path   string // sqlite file
	DSN    string // postgres connection string
}

type DeviceConfig struct {
	Driver         string
	ID             string
	RefreshTimeout time.Duration
	MQTT           MQTTConfig
	Simulator      SimulatorConfig
}

type MQTTConfig struct {
	Broker    string
	ClientID  string
	BaseTopic string
	QoS       int
	Username  string
	Password  string
	CAFile    string
	CertFile  string
	KeyFile   string

	// The device copies request_id into replies, so untagged telemetry never
	// answers a refresh.
	EchoRequestID bool
}

type SimulatorConfig struct {
	Tick          time.Duration
	InitialWaterC float64
	EchoRequestID bool
	Latency       time.Duration
}

type BoostConfig struct {
	MaxWaterTempC float64
}

type HistoryConfig struct {
	Retention   time.Duration
	CleanupCron string
}

type RecorderConfig struct {
	AutostartInterval time.Duration
}

type AuthConfig struct {
	Enabled    bool
	SigningKey string
	TokenTTL   time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")

	v.SetDefault("http.read_header_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "reclaim.db")
	v.SetDefault("db.dsn", "")

	v.SetDefault("device.driver", GatewaySimulator)
	v.SetDefault("device.id", "reclaim-1")
	v.SetDefault("device.refresh_timeout", 5*time.Second)
	v.SetDefault("device.mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("device.mqtt.client_id", "")
	v.SetDefault("device.mqtt.base_topic", "")
	v.SetDefault("device.mqtt.qos", 1)
	v.SetDefault("device.mqtt.echo_request_id", false)
	v.SetDefault("device.mqtt.username", "")
	v.SetDefault("device.mqtt.password", "")
	v.SetDefault("device.mqtt.ca_file", "")
	v.SetDefault("device.mqtt.cert_file", "")
	v.SetDefault("device.mqtt.key_file", "")
	v.SetDefault("device.simulator.tick", time.Second)
	v.SetDefault("device.simulator.initial_water_c", 45.0)
	v.SetDefault("device.simulator.echo_request_id", true)
	v.SetDefault("device.simulator.latency", 50*time.Millisecond)

	v.SetDefault("boost.max_water_temp_c", 55.0)

	v.SetDefault("history.retention", 720*time.Hour)
	v.SetDefault("history.cleanup_cron", "0 3 * * *")

	v.SetDefault("recorder.autostart_interval", time.Duration(0))

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
}

// Load reads config.yml from the given directories (first match wins). A missing
// file is not an error; defaults and RECLAIM_* environment variables still apply.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Port: v.GetString("port"),
		Log: LogConfig{
			Level:    v.GetString("log.level"),
			Encoding: v.GetString("log.encoding"),
		},
		HTTP: HTTPConfig{
			ReadHeaderTimeout: v.GetDuration("http.read_header_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("http.shutdown_timeout"),
		},
		DB: DBConfig{
			Driver: strings.ToLower(v.GetString("db.driver")),
			Path:   v.GetString("db.path"),
			DSN:    v.GetString("db.dsn"),
		},
		Device: DeviceConfig{
			Driver:         strings.ToLower(v.GetString("device.driver")),
			ID:             v.GetString("device.id"),
			RefreshTimeout: v.GetDuration("device.refresh_timeout"),
			MQTT: MQTTConfig{
				Broker:        v.GetString("device.mqtt.broker"),
				ClientID:      v.GetString("device.mqtt.client_id"),
				BaseTopic:     v.GetString("device.mqtt.base_topic"),
				QoS:           v.GetInt("device.mqtt.qos"),
				Username:      v.GetString("device.mqtt.username"),
				Password:      v.GetString("device.mqtt.password"),
				CAFile:        v.GetString("device.mqtt.ca_file"),
				CertFile:      v.GetString("device.mqtt.cert_file"),
				KeyFile:       v.GetString("device.mqtt.key_file"),
				EchoRequestID: v.GetBool("device.mqtt.echo_request_id"),
			},
			Simulator: SimulatorConfig{
				Tick:          v.GetDuration("device.simulator.tick"),
				InitialWaterC: v.GetFloat64("device.simulator.initial_water_c"),
				EchoRequestID: v.GetBool("device.simulator.echo_request_id"),
				Latency:       v.GetDuration("device.simulator.latency"),
			},
		},
		Boost: BoostConfig{
			MaxWaterTempC: v.GetFloat64("boost.max_water_temp_c"),
		},
		History: HistoryConfig{
			Retention:   v.GetDuration("history.retention"),
			CleanupCron: v.GetString("history.cleanup_cron"),
		},
		Recorder: RecorderConfig{
			AutostartInterval: v.GetDuration("recorder.autostart_interval"),
		},
		Auth: AuthConfig{
			Enabled:    v.GetBool("auth.enabled"),
			SigningKey: v.GetString("auth.signing_key"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
		},
	}
}

// Validate rejects combinations the service cannot start with.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			return errors.New("config: db.path is required for sqlite")
		}
	case DriverPostgres:
		if c.DB.DSN == "" {
			return errors.New("config: db.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("config: unknown db.driver %q", c.DB.Driver)
	}

	switch c.Device.Driver {
	case GatewayMQTT, GatewaySimulator:
	default:
		return fmt.Errorf("config: unknown device.driver %q", c.Device.Driver)
	}
	if c.Device.ID == "" {
		return errors.New("config: device.id is required")
	}
	if c.Device.MQTT.QoS < 0 || c.Device.MQTT.QoS > 1 {
		return fmt.Errorf("config: device.mqtt.qos must be 0 or 1, got %d", c.Device.MQTT.QoS)
	}
	if c.Boost.MaxWaterTempC <= 0 {
		return fmt.Errorf("config: boost.max_water_temp_c must be positive, got %v", c.Boost.MaxWaterTempC)
	}
	if c.Recorder.AutostartInterval != 0 && c.Recorder.AutostartInterval < time.Second {
		return fmt.Errorf("config: recorder.autostart_interval must be 0 or at least 1s, got %s", c.Recorder.AutostartInterval)
	}
	if c.Auth.Enabled && c.Auth.SigningKey == "" {
		return errors.New("config: auth.signing_key is required when auth is enabled")
	}
	return nil
}
