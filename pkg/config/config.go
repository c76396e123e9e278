package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Membership   MembershipConfig
	Cron         CronConfig
	CORS         CORSConfig
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
	Env          string `envconfig:"SANTAI_APP_ENV" required:"true"`
	Port         string `envconfig:"SANTAI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SANTAI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SANTAI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SANTAI_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SANTAI_DB_DSN"`
	Driver string `envconfig:"SANTAI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SANTAI_DB_HOST"`
	LegacyPort     int    `envconfig:"SANTAI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SANTAI_DB_USER"`
	LegacyPassword string `envconfig:"SANTAI_DB_PASSWORD"`
	LegacyName     string `envconfig:"SANTAI_DB_NAME"`
	LegacySSLMode  string `envconfig:"SANTAI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SANTAI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SANTAI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SANTAI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SANTAI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SANTAI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SANTAI_REDIS_ADDR"`
	Password     string        `envconfig:"SANTAI_REDIS_PASSWORD"`
	DB           int           `envconfig:"SANTAI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SANTAI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SANTAI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SANTAI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SANTAI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SANTAI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SANTAI_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SANTAI_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SANTAI_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"SANTAI_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SANTAI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SANTAI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SANTAI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SANTAI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SANTAI_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SANTAI_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SANTAI_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"SANTAI_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SANTAI_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	ProofBucket string        `envconfig:"SANTAI_GCS_PROOF_BUCKET" required:"true"`
	MaxUploadMB int           `envconfig:"SANTAI_GCS_MAX_UPLOAD_MB" default:"10"`
	UploadTTL   time.Duration `envconfig:"SANTAI_GCS_UPLOAD_TTL" default:"15m"`
}

// MembershipConfig carries the commercial constants of the signup workflow.
type MembershipConfig struct {
	// PaymentWindow is how long a provider has after go-live to upload
	// proof of payment.
	PaymentWindow time.Duration `envconfig:"SANTAI_MEMBERSHIP_PAYMENT_WINDOW" default:"5h"`
	// PlusPlanFee is the upfront fee for the plus tier, in IDR.
	PlusPlanFee int64 `envconfig:"SANTAI_MEMBERSHIP_PLUS_PLAN_FEE" default:"250000"`
	// TermsVersion is stamped onto every accepted agreement.
	TermsVersion string `envconfig:"SANTAI_MEMBERSHIP_TERMS_VERSION" default:"1.0"`
}

// PlanFee returns the upfront fee for the given plan tier. The pro tier is
// commission based and carries no upfront fee.
func (m MembershipConfig) PlanFee(plus bool) decimal.Decimal {
	if plus {
		return decimal.NewFromInt(m.PlusPlanFee)
	}
	return decimal.Zero
}

type CronConfig struct {
	Interval              time.Duration `envconfig:"SANTAI_CRON_INTERVAL" default:"1m"`
	NotificationRetention int           `envconfig:"SANTAI_CRON_NOTIFICATION_RETENTION_DAYS" default:"30"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SANTAI_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
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
