package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// Timezone is the IANA zone used for human-readable order ids.
	Timezone string `mapstructure:"TIMEZONE" default:"Asia/Taipei"`
	// PublicBaseURL is the externally reachable base URL used to build gateway callback URLs.
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL" required:"true"`

	// Database holds the database configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// Redis holds the optional cache configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Auth holds the session token configuration.
	Auth AuthConfig `mapstructure:",squash"`

	// LinePay holds the online wallet gateway configuration.
	LinePay LinePayConfig `mapstructure:",squash"`

	// ECPay holds the logistics gateway configuration.
	ECPay ECPayConfig `mapstructure:",squash"`

	// Kafka holds the notification publisher configuration.
	Kafka KafkaConfig `mapstructure:",squash"`

	// Proxy holds the optional egress proxy used for gateway calls.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// URL is the Postgres connection string.
	URL string `mapstructure:"DATABASE_URL" required:"true"`
	// MaxOpenConns bounds the connection pool.
	MaxOpenConns int `mapstructure:"DB_MAX_OPEN_CONNS" default:"20"`
}

// RedisConfig holds the Redis connection details. An empty URL selects the in-process cache.
type RedisConfig struct {
	URL string `mapstructure:"REDIS_URL"`
}

// AuthConfig holds the session token settings.
type AuthConfig struct {
	// SessionSecret signs and verifies session tokens.
	SessionSecret string `mapstructure:"SESSION_SECRET" required:"true"`
	// SessionTTLHours is the lifetime of issued session tokens.
	SessionTTLHours int `mapstructure:"SESSION_TTL_HOURS" default:"168"`
}

// LinePayConfig holds the LINE Pay channel credentials.
type LinePayConfig struct {
	ChannelID      string `mapstructure:"LINEPAY_CHANNEL_ID"`
	ChannelSecret  string `mapstructure:"LINEPAY_CHANNEL_SECRET"`
	Sandbox        bool   `mapstructure:"LINEPAY_SANDBOX" default:"true"`
	TimeoutSeconds int    `mapstructure:"LINEPAY_TIMEOUT_SECONDS" default:"15"`
	Currency       string `mapstructure:"LINEPAY_CURRENCY" default:"TWD"`
}

// ECPayConfig holds the logistics merchant credentials.
type ECPayConfig struct {
	MerchantID string `mapstructure:"ECPAY_MERCHANT_ID"`
	HashKey    string `mapstructure:"ECPAY_HASH_KEY"`
	HashIV     string `mapstructure:"ECPAY_HASH_IV"`
	Sandbox    bool   `mapstructure:"ECPAY_SANDBOX" default:"true"`
	// ReturnOrigins is a comma separated allow-list of origins clients may be redirected to.
	ReturnOrigins string `mapstructure:"LOGISTICS_RETURN_ORIGINS"`
	// CourierListTTLSeconds bounds how long a courier store list stays cached.
	CourierListTTLSeconds int `mapstructure:"COURIER_LIST_TTL_SECONDS" default:"600"`
}

// KafkaConfig holds the notification topic settings. Empty brokers selects the log notifier.
type KafkaConfig struct {
	Brokers           string `mapstructure:"KAFKA_BROKERS"`
	NotificationTopic string `mapstructure:"KAFKA_NOTIFICATION_TOPIC" default:"order-notifications"`
}

// ProxyConfig holds the egress proxy settings.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED"`
	Hostname string `mapstructure:"PROXY_HOSTNAME"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// SessionTTL returns the session lifetime as a duration.
func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLHours) * time.Hour
}

// AllowedOrigins splits the comma separated return origin list.
func (e ECPayConfig) AllowedOrigins() []string {
	return splitList(e.ReturnOrigins)
}

// BrokerList splits the comma separated broker list.
func (k KafkaConfig) BrokerList() []string {
	return splitList(k.Brokers)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields, binds env keys and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("bind env %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
