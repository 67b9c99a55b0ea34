// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/planning"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Cache    CacheConfig
	Planning PlanningConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	DataDir   string
	OutputDir string
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	SummaryTTLSeconds int
}

// PlanningConfig carries the tunable planning constants. Everything not
// exposed here keeps the engine defaults.
type PlanningConfig struct {
	WindowDays          int
	MinSaleDays         int
	OutlierSpreadFactor float64
	MinWeeks            int
	Workers             int64
	ExcludedSKUs        []string
	CategoryOrigins     map[string]string // category -> origin node id
	DefaultOrigin       string
	DefaultLeadTimeDays float64
	LaneLeadTimeDays    map[string]float64 // "origin->destination" overrides
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_DATA_DIR", "./data/feeds")
		viper.SetDefault("APP_OUTPUT_DIR", "./data/output")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_SUMMARY_TTL_SECONDS", 60)
		viper.SetDefault("PLAN_WINDOW_DAYS", 30)
		viper.SetDefault("PLAN_MIN_SALE_DAYS", 3)
		viper.SetDefault("PLAN_OUTLIER_SPREAD_FACTOR", 3.0)
		viper.SetDefault("PLAN_MIN_WEEKS", 12)
		viper.SetDefault("PLAN_WORKERS", 8)
		viper.SetDefault("PLAN_EXCLUDED_SKUS", []string{})
		viper.SetDefault("PLAN_DEFAULT_ORIGIN", "CEDI-ORIGEN")
		viper.SetDefault("PLAN_DEFAULT_LEAD_TIME_DAYS", 2.0)

		viper.AutomaticEnv()

		ensureDir(viper.GetString("APP_DATA_DIR"))
		ensureDir(viper.GetString("APP_OUTPUT_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			App: AppConfig{
				DataDir:   viper.GetString("APP_DATA_DIR"),
				OutputDir: viper.GetString("APP_OUTPUT_DIR"),
			},
			Cache: CacheConfig{
				Enabled:           viper.GetBool("CACHE_ENABLED"),
				RedisURL:          viper.GetString("REDIS_URL"),
				RedisHost:         viper.GetString("REDIS_HOST"),
				RedisPort:         viper.GetString("REDIS_PORT"),
				RedisPassword:     viper.GetString("REDIS_PASSWORD"),
				RedisDB:           viper.GetInt("REDIS_DB"),
				SummaryTTLSeconds: viper.GetInt("CACHE_SUMMARY_TTL_SECONDS"),
			},
			Planning: PlanningConfig{
				WindowDays:          viper.GetInt("PLAN_WINDOW_DAYS"),
				MinSaleDays:         viper.GetInt("PLAN_MIN_SALE_DAYS"),
				OutlierSpreadFactor: viper.GetFloat64("PLAN_OUTLIER_SPREAD_FACTOR"),
				MinWeeks:            viper.GetInt("PLAN_MIN_WEEKS"),
				Workers:             viper.GetInt64("PLAN_WORKERS"),
				ExcludedSKUs:        viper.GetStringSlice("PLAN_EXCLUDED_SKUS"),
				CategoryOrigins:     viper.GetStringMapString("PLAN_CATEGORY_ORIGINS"),
				DefaultOrigin:       viper.GetString("PLAN_DEFAULT_ORIGIN"),
				DefaultLeadTimeDays: viper.GetFloat64("PLAN_DEFAULT_LEAD_TIME_DAYS"),
				LaneLeadTimeDays:    parseLaneLeadTimes(viper.GetStringMapString("PLAN_LANE_LEAD_TIMES")),
			},
		}
	})

	return instance
}

// EngineConfig maps the loaded settings onto the planning engine defaults.
func (c *Config) EngineConfig() planning.Config {
	cfg := planning.DefaultConfig()

	if c.Planning.WindowDays > 0 {
		cfg.Demand.WindowDays = c.Planning.WindowDays
	}
	if c.Planning.MinSaleDays > 0 {
		cfg.Demand.MinSaleDays = c.Planning.MinSaleDays
	}
	if c.Planning.OutlierSpreadFactor > 0 {
		cfg.Demand.OutlierSpreadFactor = c.Planning.OutlierSpreadFactor
	}
	if c.Planning.MinWeeks > 0 {
		cfg.Demand.MinWeeks = c.Planning.MinWeeks
	}
	if c.Planning.Workers > 0 {
		cfg.Workers = c.Planning.Workers
	}
	for _, sku := range c.Planning.ExcludedSKUs {
		cfg.Allocate.Exclusions[sku] = true
	}

	return cfg
}

// parseLaneLeadTimes converts the "origin->destination": "1.5" string map
// into lead-time days, dropping entries that do not parse.
func parseLaneLeadTimes(raw map[string]string) map[string]float64 {
	if len(raw) == 0 {
		return nil
	}
	parsed := make(map[string]float64, len(raw))
	for lane, value := range raw {
		days, err := strconv.ParseFloat(value, 64)
		if err != nil || days <= 0 {
			continue
		}
		parsed[lane] = days
	}
	return parsed
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
