// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Alerts   AlertsConfig
	Export   ExportConfig
	Forecast ForecastConfig
}

type ServerConfig struct {
	Port           string
	WebhookPort    string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
}

// AlertsConfig drives the scheduled waste sweep and Slack notifications.
type AlertsConfig struct {
	Enabled           bool
	CronSpec          string
	SlackToken        string
	SlackChannel      string
	WasteCostMinimum  float64
	SweepHorizonHours int
}

// ExportConfig configures the S3-compatible bucket that rendered reports
// are uploaded to. Upload is skipped when the endpoint is unset.
type ExportConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// ForecastConfig exposes the estimator tuning knobs. The thresholds were
// inherited from the operations team without a documented derivation, so
// they are configuration rather than constants.
type ForecastConfig struct {
	DefaultHorizonHours int
	MaxHorizonHours     int
	LookbackDays        int
	MaxHistoryEvents    int

	// Multiplier blend weights, expected to sum to 1.0.
	WeatherWeight     float64
	EventWeight       float64
	SeasonalWeight    float64
	CorrelationWeight float64

	// Variance severity tiers as percent of theoretical quantity.
	VarianceLowPct      float64
	VarianceMediumPct   float64
	VarianceHighPct     float64
	VarianceCriticalPct float64

	// Dollar-value severity tiers.
	ValueMediumUSD   float64
	ValueHighUSD     float64
	ValueCriticalUSD float64

	// Pattern-detection cutoffs.
	TheftCutoff   float64
	PortionCutoff float64
	SpoilCutoff   float64
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("WEBHOOK_PORT", "8081")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "dineiq")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_FORECAST_TTL_SECONDS", 60)
		viper.SetDefault("ALERTS_ENABLED", false)
		viper.SetDefault("ALERTS_CRON", "0 6 * * *")
		viper.SetDefault("SLACK_TOKEN", "")
		viper.SetDefault("SLACK_CHANNEL", "#ops-alerts")
		viper.SetDefault("ALERTS_WASTE_COST_MIN", 50.0)
		viper.SetDefault("ALERTS_SWEEP_HORIZON_HOURS", 72)
		viper.SetDefault("EXPORT_S3_ENDPOINT", "")
		viper.SetDefault("EXPORT_S3_ACCESS_KEY", "")
		viper.SetDefault("EXPORT_S3_SECRET_KEY", "")
		viper.SetDefault("EXPORT_S3_BUCKET", "dineiq-reports")
		viper.SetDefault("EXPORT_S3_REGION", "")
		viper.SetDefault("EXPORT_S3_USE_SSL", true)
		viper.SetDefault("FORECAST_DEFAULT_HORIZON_HOURS", 24)
		viper.SetDefault("FORECAST_MAX_HORIZON_HOURS", 168)
		viper.SetDefault("FORECAST_LOOKBACK_DAYS", 30)
		viper.SetDefault("FORECAST_MAX_HISTORY_EVENTS", 50000)
		viper.SetDefault("FORECAST_WEATHER_WEIGHT", 0.4)
		viper.SetDefault("FORECAST_EVENT_WEIGHT", 0.3)
		viper.SetDefault("FORECAST_SEASONAL_WEIGHT", 0.2)
		viper.SetDefault("FORECAST_CORRELATION_WEIGHT", 0.1)
		viper.SetDefault("VARIANCE_LOW_PCT", 2.0)
		viper.SetDefault("VARIANCE_MEDIUM_PCT", 5.0)
		viper.SetDefault("VARIANCE_HIGH_PCT", 10.0)
		viper.SetDefault("VARIANCE_CRITICAL_PCT", 20.0)
		viper.SetDefault("VARIANCE_VALUE_MEDIUM_USD", 100.0)
		viper.SetDefault("VARIANCE_VALUE_HIGH_USD", 500.0)
		viper.SetDefault("VARIANCE_VALUE_CRITICAL_USD", 1000.0)
		viper.SetDefault("PATTERN_THEFT_CUTOFF", 0.7)
		viper.SetDefault("PATTERN_PORTION_CUTOFF", 0.6)
		viper.SetDefault("PATTERN_SPOILAGE_CUTOFF", 0.5)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				WebhookPort:    viper.GetString("WEBHOOK_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				ForecastTTLSeconds: viper.GetInt("CACHE_FORECAST_TTL_SECONDS"),
			},
			Alerts: AlertsConfig{
				Enabled:           viper.GetBool("ALERTS_ENABLED"),
				CronSpec:          viper.GetString("ALERTS_CRON"),
				SlackToken:        viper.GetString("SLACK_TOKEN"),
				SlackChannel:      viper.GetString("SLACK_CHANNEL"),
				WasteCostMinimum:  viper.GetFloat64("ALERTS_WASTE_COST_MIN"),
				SweepHorizonHours: viper.GetInt("ALERTS_SWEEP_HORIZON_HOURS"),
			},
			Export: ExportConfig{
				Endpoint:  viper.GetString("EXPORT_S3_ENDPOINT"),
				AccessKey: viper.GetString("EXPORT_S3_ACCESS_KEY"),
				SecretKey: viper.GetString("EXPORT_S3_SECRET_KEY"),
				Bucket:    viper.GetString("EXPORT_S3_BUCKET"),
				Region:    viper.GetString("EXPORT_S3_REGION"),
				UseSSL:    viper.GetBool("EXPORT_S3_USE_SSL"),
			},
			Forecast: ForecastConfig{
				DefaultHorizonHours: viper.GetInt("FORECAST_DEFAULT_HORIZON_HOURS"),
				MaxHorizonHours:     viper.GetInt("FORECAST_MAX_HORIZON_HOURS"),
				LookbackDays:        viper.GetInt("FORECAST_LOOKBACK_DAYS"),
				MaxHistoryEvents:    viper.GetInt("FORECAST_MAX_HISTORY_EVENTS"),
				WeatherWeight:       viper.GetFloat64("FORECAST_WEATHER_WEIGHT"),
				EventWeight:         viper.GetFloat64("FORECAST_EVENT_WEIGHT"),
				SeasonalWeight:      viper.GetFloat64("FORECAST_SEASONAL_WEIGHT"),
				CorrelationWeight:   viper.GetFloat64("FORECAST_CORRELATION_WEIGHT"),
				VarianceLowPct:      viper.GetFloat64("VARIANCE_LOW_PCT"),
				VarianceMediumPct:   viper.GetFloat64("VARIANCE_MEDIUM_PCT"),
				VarianceHighPct:     viper.GetFloat64("VARIANCE_HIGH_PCT"),
				VarianceCriticalPct: viper.GetFloat64("VARIANCE_CRITICAL_PCT"),
				ValueMediumUSD:      viper.GetFloat64("VARIANCE_VALUE_MEDIUM_USD"),
				ValueHighUSD:        viper.GetFloat64("VARIANCE_VALUE_HIGH_USD"),
				ValueCriticalUSD:    viper.GetFloat64("VARIANCE_VALUE_CRITICAL_USD"),
				TheftCutoff:         viper.GetFloat64("PATTERN_THEFT_CUTOFF"),
				PortionCutoff:       viper.GetFloat64("PATTERN_PORTION_CUTOFF"),
				SpoilCutoff:         viper.GetFloat64("PATTERN_SPOILAGE_CUTOFF"),
			},
		}
	})

	return instance
}
