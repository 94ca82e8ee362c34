package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "chatchef"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "CHATCHEF_DB_DSN"
	EnvDBHost = "CHATCHEF_DB_HOST"
	EnvDBUser = "CHATCHEF_DB_USER"
	EnvDBName = "CHATCHEF_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	GCP     GCPConfig
	PubSub  PubSubConfig
	Outbox  OutboxConfig
	Rewards RewardsConfig
	Flags   FeatureFlags
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CHATCHEF_APP_ENV" required:"true"`
	Port         string `envconfig:"CHATCHEF_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CHATCHEF_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CHATCHEF_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CHATCHEF_DB_DSN"`
	Driver string `envconfig:"CHATCHEF_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CHATCHEF_DB_HOST"`
	LegacyPort     int    `envconfig:"CHATCHEF_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CHATCHEF_DB_USER"`
	LegacyPassword string `envconfig:"CHATCHEF_DB_PASSWORD"`
	LegacyName     string `envconfig:"CHATCHEF_DB_NAME"`
	LegacySSLMode  string `envconfig:"CHATCHEF_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CHATCHEF_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CHATCHEF_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CHATCHEF_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CHATCHEF_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CHATCHEF_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CHATCHEF_REDIS_ADDR"`
	Password     string        `envconfig:"CHATCHEF_REDIS_PASSWORD"`
	DB           int           `envconfig:"CHATCHEF_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CHATCHEF_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CHATCHEF_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CHATCHEF_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CHATCHEF_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CHATCHEF_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CHATCHEF_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"CHATCHEF_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CHATCHEF_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic              string `envconfig:"CHATCHEF_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription       string `envconfig:"CHATCHEF_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
	RewardsTopic             string `envconfig:"CHATCHEF_PUBSUB_REWARDS_TOPIC" required:"true"`
	RewardsSubscription      string `envconfig:"CHATCHEF_PUBSUB_REWARDS_SUBSCRIPTION" required:"true"`
	NotificationTopic        string `envconfig:"CHATCHEF_PUBSUB_NOTIFICATION_TOPIC" default:"cc-notification-events"`
	NotificationSubscription string `envconfig:"CHATCHEF_PUBSUB_NOTIFICATION_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"CHATCHEF_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"CHATCHEF_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"CHATCHEF_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type RewardsConfig struct {
	// RatePercent is the share of the order subtotal granted back as reward
	// balance, e.g. 5 means 5%.
	RatePercent    float64       `envconfig:"CHATCHEF_REWARDS_RATE_PERCENT" default:"5"`
	IdempotencyTTL time.Duration `envconfig:"CHATCHEF_REWARDS_IDEMPOTENCY_TTL" default:"720h"`
}

type FeatureFlags struct {
	AutoMigrate bool `envconfig:"CHATCHEF_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
