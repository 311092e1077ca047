// Package config loads process configuration from the environment (and an
// optional .env file), the way the teacher's pkg/config does: viper over
// godotenv, defaults set once, then typed getters into a Config value.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/noah-isme/sched-engine/internal/domain"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the engine process's full configuration: transport, storage,
// and the SchedulerConfiguration the engine solves and detects against.
type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	SIS       SISConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler domain.SchedulerConfiguration
}

// SISConfig points at the external Student Information System's read-only
// HTTP API (spec.md §6's "SIS gateway contract").
type SISConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	// SISCacheTTL bounds how long a cached SIS fetch (students, teachers,
	// courses, enrollments) is served before refresh, per spec.md §5's
	// "SIS cache - process-wide read-mostly map ... refreshed on demand".
	SISCacheTTL time.Duration
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads process configuration from the environment / .env file,
// falling back to the §7 scheduler defaults where unset.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		Env:       v.GetString("ENV"),
		Port:      v.GetInt("PORT"),
		APIPrefix: v.GetString("API_PREFIX"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:        v.GetString("REDIS_HOST"),
		Port:        v.GetInt("REDIS_PORT"),
		Password:    v.GetString("REDIS_PASSWORD"),
		DB:          v.GetInt("REDIS_DB"),
		SISCacheTTL: parseDuration(v.GetString("SIS_CACHE_TTL"), 5*time.Minute),
	}

	cfg.SIS = SISConfig{
		BaseURL: v.GetString("SIS_BASE_URL"),
		APIKey:  v.GetString("SIS_API_KEY"),
		Timeout: parseDuration(v.GetString("SIS_TIMEOUT"), 10*time.Second),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = schedulerConfigFrom(v)

	return cfg, nil
}

// schedulerConfigFrom builds a domain.SchedulerConfiguration from the
// environment, starting from the §7 defaults and overriding only the
// fields an operator actually set.
func schedulerConfigFrom(v *viper.Viper) domain.SchedulerConfiguration {
	cfg := domain.DefaultConfiguration()

	if days := splitAndTrim(v.GetString("SCHEDULER_WEEKDAYS")); len(days) > 0 {
		weekdays := make([]domain.Weekday, 0, len(days))
		for _, d := range days {
			if w := domain.ParseWeekday(strings.ToUpper(d)); w.Valid() {
				weekdays = append(weekdays, w)
			}
		}
		if len(weekdays) > 0 {
			cfg.Weekdays = weekdays
		}
	}
	if raw := v.GetString("SCHEDULER_EARLIEST_START"); raw != "" {
		cfg.EarliestStart = parseTimeOfDay(raw, cfg.EarliestStart)
	}
	if raw := v.GetString("SCHEDULER_LATEST_END"); raw != "" {
		cfg.LatestEnd = parseTimeOfDay(raw, cfg.LatestEnd)
	}
	if n := v.GetInt("SCHEDULER_PASSING_MINUTES"); n > 0 {
		cfg.PassingMinutes = n
	}
	if n := v.GetInt("SCHEDULER_MIN_PERIODS_PER_TEACHER"); n > 0 {
		cfg.MinPeriodsPerTeacher = n
	}
	if n := v.GetInt("SCHEDULER_MAX_PERIODS_PER_TEACHER"); n > 0 {
		cfg.MaxPeriodsPerTeacher = n
	}
	if n := v.GetInt("SCHEDULER_PREFERRED_BREAK_MINUTES"); n > 0 {
		cfg.PreferredBreakMinutes = n
	}
	if n := v.GetInt("SCHEDULER_MAX_CONSECUTIVE"); n > 0 {
		cfg.MaxConsecutive = n
	}
	if mode := v.GetString("SCHEDULER_WORKLOAD_MODE"); mode != "" {
		cfg.WorkloadMode = domain.WorkloadMode(mode)
	}
	if n := v.GetInt("SCHEDULER_WORKLOAD_OPTIMAL"); n > 0 {
		cfg.WorkloadOptimal = n
	}
	if n := v.GetInt("SCHEDULER_WORKLOAD_WARNING"); n > 0 {
		cfg.WorkloadWarning = n
	}
	if n := v.GetInt("SCHEDULER_WORKLOAD_HARD_CAP"); n > 0 {
		cfg.WorkloadHardCap = n
	}
	if choice := v.GetString("SCHEDULER_ALGORITHM"); choice != "" {
		cfg.AlgorithmChoice = domain.AlgorithmChoice(choice)
	}
	if n := v.GetInt("SCHEDULER_TIME_BUDGET_SECONDS"); n > 0 {
		cfg.SolverTimeBudget = n
	}
	if n := v.GetInt("SCHEDULER_UNIMPROVED_SECONDS_BUDGET"); n > 0 {
		cfg.UnimprovedSecondsBudget = n
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sched_engine")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SIS_CACHE_TTL", "5m")

	v.SetDefault("SIS_BASE_URL", "http://localhost:9090")
	v.SetDefault("SIS_API_KEY", "")
	v.SetDefault("SIS_TIMEOUT", "10s")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_WEEKDAYS", "MONDAY,TUESDAY,WEDNESDAY,THURSDAY,FRIDAY")
	v.SetDefault("SCHEDULER_EARLIEST_START", "07:30")
	v.SetDefault("SCHEDULER_LATEST_END", "15:30")
	v.SetDefault("SCHEDULER_PASSING_MINUTES", 5)
	v.SetDefault("SCHEDULER_MIN_PERIODS_PER_TEACHER", 4)
	v.SetDefault("SCHEDULER_MAX_PERIODS_PER_TEACHER", 7)
	v.SetDefault("SCHEDULER_PREFERRED_BREAK_MINUTES", 15)
	v.SetDefault("SCHEDULER_MAX_CONSECUTIVE", 4)
	v.SetDefault("SCHEDULER_WORKLOAD_MODE", string(domain.WorkloadBySessionsPerWeek))
	v.SetDefault("SCHEDULER_WORKLOAD_OPTIMAL", 5)
	v.SetDefault("SCHEDULER_WORKLOAD_WARNING", 5)
	v.SetDefault("SCHEDULER_WORKLOAD_HARD_CAP", 6)
	v.SetDefault("SCHEDULER_ALGORITHM", string(domain.AlgorithmGreedy))
	v.SetDefault("SCHEDULER_TIME_BUDGET_SECONDS", 300)
	v.SetDefault("SCHEDULER_UNIMPROVED_SECONDS_BUDGET", 30)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

// parseTimeOfDay accepts "HH:MM" and falls back on any parse failure.
func parseTimeOfDay(raw string, fallback domain.TimeOfDay) domain.TimeOfDay {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return fallback
	}
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return fallback
	}
	return domain.NewTimeOfDay(t.Hour(), t.Minute())
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
