package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Storage     StorageConfig
	Tracing     TracingConfig `mapstructure:"tracing"`
	Redis       RedisConfig
	CORS        CORSConfig        `mapstructure:"cors"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Enforcement EnforcementConfig `mapstructure:"enforcement"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// EnforcementConfig 学习监督引擎的全部阈值常量
// 各项默认值即产品定义的升级阶梯，一般只在灰度实验时调整
type EnforcementConfig struct {
	MinStepMinutes int `mapstructure:"min_step_minutes"` // 步骤最短学习分钟数

	SkipDebtThreshold        int `mapstructure:"skip_debt_threshold"`        // 第N+1次跳过开始计学习债
	SkipRemediationThreshold int `mapstructure:"skip_remediation_threshold"` // 第N+1次跳过开始强制补救

	FailuresBeforeRemediation int `mapstructure:"failures_before_remediation"`
	FailuresBeforeSlowdown    int `mapstructure:"failures_before_slowdown"`

	DebtMinutesPerSkip    int `mapstructure:"debt_minutes_per_skip"`
	DebtMinutesPerFailure int `mapstructure:"debt_minutes_per_failure"`
	DebtMinutesPerAbandon int `mapstructure:"debt_minutes_per_abandon"`

	InactivityWarningDays     int `mapstructure:"inactivity_warning_days"`
	InactivityConsequenceDays int `mapstructure:"inactivity_consequence_days"`

	MinExplanationChars int `mapstructure:"min_explanation_chars"`
	MinQuizScore        int `mapstructure:"min_quiz_score"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("STUDYPACT")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Storage / MinIO
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	setEnforcementDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	return &cfg, nil
}

func setEnforcementDefaults() {
	viper.SetDefault("enforcement.min_step_minutes", 15)
	viper.SetDefault("enforcement.skip_debt_threshold", 1)
	viper.SetDefault("enforcement.skip_remediation_threshold", 2)
	viper.SetDefault("enforcement.failures_before_remediation", 2)
	viper.SetDefault("enforcement.failures_before_slowdown", 4)
	viper.SetDefault("enforcement.debt_minutes_per_skip", 30)
	viper.SetDefault("enforcement.debt_minutes_per_failure", 20)
	viper.SetDefault("enforcement.debt_minutes_per_abandon", 25)
	viper.SetDefault("enforcement.inactivity_warning_days", 3)
	viper.SetDefault("enforcement.inactivity_consequence_days", 7)
	viper.SetDefault("enforcement.min_explanation_chars", 100)
	viper.SetDefault("enforcement.min_quiz_score", 80)
}

// DefaultEnforcement 返回带产品默认阈值的监督配置，测试场景直接使用
func DefaultEnforcement() EnforcementConfig {
	return EnforcementConfig{
		MinStepMinutes:            15,
		SkipDebtThreshold:         1,
		SkipRemediationThreshold:  2,
		FailuresBeforeRemediation: 2,
		FailuresBeforeSlowdown:    4,
		DebtMinutesPerSkip:        30,
		DebtMinutesPerFailure:     20,
		DebtMinutesPerAbandon:     25,
		InactivityWarningDays:     3,
		InactivityConsequenceDays: 7,
		MinExplanationChars:       100,
		MinQuizScore:              80,
	}
}
