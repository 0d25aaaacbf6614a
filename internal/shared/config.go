package shared

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	HTTPTimeout time.Duration
	MetricsAddr string

	RegistryBackend string // memory|mysql
	MySQLDSN        string
	RedisAddr       string // empty disables the lookup cache
	RedisDB         int
	RedisPass       string
	CacheTTL        time.Duration
	SeedRegistry    bool

	ScanInterval       time.Duration
	ScanDedupWindow    time.Duration
	ProcessingDelay    time.Duration
	PaymentSuccessRate float64
	CheckCapacity      bool
	NotifyTTL          time.Duration
	DialogTimeout      time.Duration

	ImportWorkers int
}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "prod")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("HTTP_TIMEOUT", "15s")
	v.SetDefault("METRICS_ADDR", "")
	v.SetDefault("REGISTRY_BACKEND", "memory")
	v.SetDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/kiosk?parseTime=true&charset=utf8mb4,utf8&loc=UTC")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 900)
	v.SetDefault("SEED_REGISTRY", true)
	v.SetDefault("SCAN_INTERVAL", "110ms")
	v.SetDefault("SCAN_DEDUP_WINDOW", "1.5s")
	v.SetDefault("PROCESSING_DELAY", "1.8s")
	v.SetDefault("PAYMENT_SUCCESS_RATE", 0.75)
	v.SetDefault("CHECK_CAPACITY", false)
	v.SetDefault("NOTIFY_TTL", "3.5s")
	v.SetDefault("DIALOG_TIMEOUT", "2m")
	v.SetDefault("IMPORT_WORKERS", 8)
}

// Load reads .env when present, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}
	return FromViper(viper.New())
}

// FromViper builds the config from v's environment bindings and defaults.
func FromViper(v *viper.Viper) Config {
	defaults(v)
	v.AutomaticEnv()

	c := Config{
		AppEnv:      v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		HTTPTimeout: v.GetDuration("HTTP_TIMEOUT"),
		MetricsAddr: v.GetString("METRICS_ADDR"),

		RegistryBackend: v.GetString("REGISTRY_BACKEND"),
		MySQLDSN:        v.GetString("MYSQL_DSN"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisDB:         v.GetInt("REDIS_DB"),
		RedisPass:       v.GetString("REDIS_PASSWORD"),
		CacheTTL:        time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		SeedRegistry:    v.GetBool("SEED_REGISTRY"),

		ScanInterval:       v.GetDuration("SCAN_INTERVAL"),
		ScanDedupWindow:    v.GetDuration("SCAN_DEDUP_WINDOW"),
		ProcessingDelay:    v.GetDuration("PROCESSING_DELAY"),
		PaymentSuccessRate: v.GetFloat64("PAYMENT_SUCCESS_RATE"),
		CheckCapacity:      v.GetBool("CHECK_CAPACITY"),
		NotifyTTL:          v.GetDuration("NOTIFY_TTL"),
		DialogTimeout:      v.GetDuration("DIALOG_TIMEOUT"),

		ImportWorkers: v.GetInt("IMPORT_WORKERS"),
	}
	if c.PaymentSuccessRate < 0 || c.PaymentSuccessRate > 1 {
		log.Warn().Float64("rate", c.PaymentSuccessRate).Msg("PAYMENT_SUCCESS_RATE outside [0,1], using 0.75")
		c.PaymentSuccessRate = 0.75
	}
	if c.ImportWorkers <= 0 {
		c.ImportWorkers = 1
	}
	return c
}
