package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env          string `env:"ENV" env-required:"true"`
	LogLevel     string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	HttpServer   HttpServer
	Upstream     Upstream
	Photo        Photo
	Probe        Probe
	Association  Association
	Session      Session
	Database     Database
	Limiter      Limiter
	Auth         AuthConfig
	SMTP         SMTPConfig
	Email        EmailConfig
	Cache        Cache
	PassDelivery PassDelivery
}

type HttpServer struct {
	Port           string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout        time.Duration `env:"HTTP_TIMEOUT" env-default:"30s" env-description:"server read/write timeout, must exceed SESSION_GATEWAY_WAIT"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	SwaggerEnabled bool          `env:"HTTP_SWAGGER_ENABLED" env-default:"false"`
	CORSOrigins    []string      `env:"HTTP_CORS_ORIGINS" env-default:"http://localhost:3000"`
}

type Upstream struct {
	BaseURL        string        `env:"UPSTREAM_BASE_URL" env-required:"true" env-description:"association REST backend, e.g. https://api.mandapam.example/api"`
	Timeout        time.Duration `env:"UPSTREAM_TIMEOUT" env-default:"10s"`
	ConfirmRetries int           `env:"UPSTREAM_CONFIRM_RETRIES" env-default:"1" env-description:"extra confirm-payment attempts on network errors before polling"`
	ConfirmBackoff time.Duration `env:"UPSTREAM_CONFIRM_BACKOFF" env-default:"1s"`
	PollAttempts   int           `env:"UPSTREAM_POLL_ATTEMPTS" env-default:"6"`
	PollInterval   time.Duration `env:"UPSTREAM_POLL_INTERVAL" env-default:"2s"`
}

type Photo struct {
	MaxInputBytes  int64 `env:"PHOTO_MAX_INPUT_BYTES" env-default:"31457280"`
	MaxDimension   int   `env:"PHOTO_MAX_DIMENSION" env-default:"800"`
	MaxOutputBytes int   `env:"PHOTO_MAX_OUTPUT_BYTES" env-default:"1048576"`
	Quality        int   `env:"PHOTO_QUALITY" env-default:"85"`
}

type Probe struct {
	Debounce time.Duration `env:"PROBE_DEBOUNCE" env-default:"500ms"`
}

type Association struct {
	Debounce      time.Duration `env:"ASSOCIATION_DEBOUNCE" env-default:"300ms"`
	MinCityLength int           `env:"ASSOCIATION_MIN_CITY_LENGTH" env-default:"2"`
	CacheTTL      time.Duration `env:"ASSOCIATION_CACHE_TTL" env-default:"10m"`
}

type Session struct {
	TTL         time.Duration `env:"SESSION_TTL" env-default:"30m" env-description:"how long a registration session (and its gateway checkout) stays addressable"`
	GatewayWait time.Duration `env:"SESSION_GATEWAY_WAIT" env-default:"20s" env-description:"longest a gateway callback waits for confirmation before answering with the in-progress session"`
}

type PassDelivery struct {
	EmailFallback bool `env:"PASS_EMAIL_FALLBACK" env-default:"false"`
}

type Database struct {
	Net                string        `env:"DB_NET" env-default:"tcp"`
	Server             string        `env:"DB_SERVER" env-required:"true"`
	DBName             string        `env:"DB_NAME" env-required:"true"`
	User               string        `env:"DB_USER" env-required:"true"`
	Password           string        `env:"DB_PASSWORD" env-required:"true"`
	TimeZone           string        `env:"DB_TIMEZONE"`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"40"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"40"`
	MigrationsDir      string        `env:"DB_MIGRATIONS_DIR" env-default:"./migrations"`
}

type Limiter struct {
	RPS   int           `env:"LIMITER_RPS" env-default:"10"`
	Burst int           `env:"LIMITER_BURST" env-default:"20"`
	TTL   time.Duration `env:"LIMITER_TTL" env-default:"10m"`
}

type AuthConfig struct {
	JWT JWTConfig
}

type JWTConfig struct {
	AccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"12h"`
	SigningKey     string        `env:"JWT_SIGNING_KEY" env-required:"true" env-description:"shared with the association backend, staff tokens are forwarded upstream"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST"`
	Port int    `env:"SMTP_PORT" env-default:"587"`
	From string `env:"SMTP_FROM"`
	Pass string `env:"SMTP_PASS"`
}

type EmailConfig struct {
	Enabled      bool   `env:"EMAIL_ENABLED" env-default:"false" env-description:"the worker needs the SMTP_* settings when enabled"`
	TemplatesDir string `env:"EMAIL_TEMPLATES_DIR" env-default:"./templates"`
	Templates    EmailTemplates
}

type EmailTemplates struct {
	Pass string `env:"EMAIL_TEMPLATE_PASS" env-default:"pass.html"`
}

type Cache struct {
	Type  string `env:"REDIS_TYPE" env-required:"true" env-description:"specifies provider, one of redis/redisCluster"`
	Redis struct {
		Address  string `env:"REDIS_ADDR" env-default:"" env-description:"redis host:port single instance"`
		Password string `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
	RedisCluster struct {
		Addresses []string `env:"REDIS_CLUSTER_ADDRS" env-default:"" env-description:"redis cluster nodes: ['172.27.29.90:7000','172.27.29.91:7001']"`
		Password  string   `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize  int      `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
}

// Kiosk is the configuration of the staff check-in CLI.
type Kiosk struct {
	Env          string        `env:"ENV" env-default:"development"`
	LogLevel     string        `env:"LOG_LEVEL" env-default:"info"`
	Upstream     Upstream
	JournalPath  string        `env:"KIOSK_JOURNAL_PATH" env-default:"./checkin.db"`
	StaffToken   string        `env:"KIOSK_STAFF_TOKEN" env-required:"true" env-description:"staff bearer token forwarded to the check-in endpoint"`
	ReplayPeriod time.Duration `env:"KIOSK_REPLAY_PERIOD" env-default:"30s"`
}

func MustLoad() *Config {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}

	return &cfg
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	if c.HttpServer.Timeout > 0 && c.Session.GatewayWait >= c.HttpServer.Timeout {
		return fmt.Errorf("SESSION_GATEWAY_WAIT (%s) must be shorter than HTTP_TIMEOUT (%s)", c.Session.GatewayWait, c.HttpServer.Timeout)
	}
	return nil
}

func MustLoadKiosk() *Kiosk {
	var cfg Kiosk

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read kiosk config from environment: %s", err)
	}

	return &cfg
}
