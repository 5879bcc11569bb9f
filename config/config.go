// Package config loads runtime settings from the environment, after reading
// an optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const (
	BackendLocal    = "local"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"

	SubstrateDir    = "dir"
	SubstrateRedis  = "redis"
	SubstrateMemory = "memory"
)

type Config struct {
	Port string `envconfig:"PORT" default:"3001"`

	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"local"`
	LocalSubstrate string `envconfig:"LOCAL_SUBSTRATE" default:"dir"`
	DataDir        string `envconfig:"DATA_DIR" default:"./data"`

	RedisAddr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`
	RedisNamespace string `envconfig:"REDIS_NAMESPACE" default:"shopeasy:"`

	MongoURI                    string        `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoDatabase               string        `envconfig:"MONGODB_DATABASE" default:"shopeasy"`
	MongoMaxPoolSize            uint64        `envconfig:"MONGODB_MAX_POOL_SIZE" default:"10"`
	MongoServerSelectionTimeout time.Duration `envconfig:"MONGODB_SERVER_SELECTION_TIMEOUT" default:"5s"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME" default:"shopeasy"`

	AdminAPIKey string   `envconfig:"ADMIN_API_KEY"`
	CORSOrigins []string `envconfig:"CORS_ORIGIN" default:"*"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"40"`

	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	BcryptCost int           `envconfig:"BCRYPT_COST" default:"10"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	BackupDir       string        `envconfig:"BACKUP_DIR"`
	BackupSchedule  string        `envconfig:"BACKUP_SCHEDULE" default:"0 2 * * *"`
	BackupRetention time.Duration `envconfig:"BACKUP_RETENTION" default:"96h"`

	SeedOnStart bool `envconfig:"SEED_ON_START" default:"false"`
}

// Load reads envFiles in order (missing files are skipped, the first file
// to set a variable wins) and then the process environment. With no files
// it reads .env.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, errors.Wrapf(err, "read %s", file)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "read environment")
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendLocal:
		switch c.LocalSubstrate {
		case SubstrateDir, SubstrateRedis, SubstrateMemory:
		default:
			return errors.Errorf("unknown LOCAL_SUBSTRATE %q", c.LocalSubstrate)
		}
	case BackendMongo, BackendPostgres:
	default:
		return errors.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return errors.New("rate limit settings must not be negative")
	}
	return nil
}

// PostgresDSN prefers DATABASE_URL and falls back to the DB_* parts.
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
