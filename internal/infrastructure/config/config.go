package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-envconfig"

	"github.com/vidshare/vidshare/internal/core/retry"
)

// DefaultSecretsFile is read when present. Its flat keys are the environment
// variable names; the environment wins on conflicts.
const DefaultSecretsFile = "secrets.toml"

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"

	WriterStore = "store"
	WriterREST  = "rest"
)

type Config struct {
	Port          string `env:"PORT,            default=8080"`
	Env           string `env:"ENV,             default=development"`
	LogLevel      string `env:"LOG_LEVEL,       default=info"`
	LogFormat     string `env:"LOG_FORMAT,      default=auto"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL, default=http://localhost:8080"`
	Store         string `env:"STORE,           default=mongo"`

	Auth     AuthConfig
	Upload   UploadConfig
	Backend  BackendConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Postgres PostgresConfig
}

type AuthConfig struct {
	JWTSecret                string        `env:"JWT_SECRET"`
	TokenTTL                 time.Duration `env:"TOKEN_TTL,                  default=24h"`
	RequireEmailConfirmation bool          `env:"REQUIRE_EMAIL_CONFIRMATION, default=false"`
	ProfileRetryAttempts     int           `env:"PROFILE_RETRY_ATTEMPTS,     default=3"`
	// ProfileRetryBackoff is the first delay; the n-th wait is n times it.
	ProfileRetryBackoff time.Duration `env:"PROFILE_RETRY_BACKOFF, default=1s"`
}

type UploadConfig struct {
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES, default=104857600"`
	Bucket   string `env:"STORAGE_BUCKET,   default=videos"`
	Dir      string `env:"STORAGE_DIR,      default=./data/objects"`
}

// BackendConfig selects how video metadata is written. With the rest writer,
// records go through the privileged REST endpoint and need both credentials.
type BackendConfig struct {
	MetadataWriter string        `env:"METADATA_WRITER,  default=store"`
	URL            string        `env:"BACKEND_URL"`
	ServiceRoleKey string        `env:"SERVICE_ROLE_KEY"`
	Timeout        time.Duration `env:"BACKEND_TIMEOUT,  default=30s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=vidshare"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type PostgresConfig struct {
	URL string `env:"DATABASE_URL, default=postgres://localhost:5432/vidshare?sslmode=disable"`
}

// Load reads .env, then the process environment, then secretsFile, and
// validates the result. An empty secretsFile means DefaultSecretsFile.
func Load(ctx context.Context, secretsFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if secretsFile == "" {
		secretsFile = DefaultSecretsFile
	}
	secrets, err := ReadSecrets(secretsFile)
	if err != nil {
		return nil, err
	}

	return load(ctx, envconfig.MultiLookuper(envconfig.OsLookuper(), envconfig.MapLookuper(secrets)))
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ReadSecrets parses a flat TOML file into env-style keys. A missing file
// yields an empty map.
func ReadSecrets(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := make(map[string]string, len(doc))
	for k, v := range doc {
		switch val := v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("parse %s: key %q must be a scalar", path, k)
		case string:
			out[strings.ToUpper(k)] = val
		default:
			out[strings.ToUpper(k)] = fmt.Sprint(val)
		}
	}
	return out, nil
}

// MissingCredentialsError lists required secrets that are not set.
type MissingCredentialsError struct {
	Keys []string
}

func (e *MissingCredentialsError) Error() string {
	return "missing required credentials: " + strings.Join(e.Keys, ", ")
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return &MissingCredentialsError{Keys: []string{"JWT_SECRET"}}
	}

	switch c.Store {
	case StoreMongo, StorePostgres:
	default:
		return fmt.Errorf("STORE must be %q or %q, got %q", StoreMongo, StorePostgres, c.Store)
	}

	switch c.Backend.MetadataWriter {
	case WriterStore:
	case WriterREST:
		if c.Store != StorePostgres {
			return fmt.Errorf("METADATA_WRITER=%s requires STORE=%s, got %q", WriterREST, StorePostgres, c.Store)
		}
		var missing []string
		if c.Backend.URL == "" {
			missing = append(missing, "BACKEND_URL")
		}
		if c.Backend.ServiceRoleKey == "" {
			missing = append(missing, "SERVICE_ROLE_KEY")
		}
		if len(missing) > 0 {
			return &MissingCredentialsError{Keys: missing}
		}
	default:
		return fmt.Errorf("METADATA_WRITER must be %q or %q, got %q", WriterStore, WriterREST, c.Backend.MetadataWriter)
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if c.Auth.ProfileRetryAttempts <= 0 {
		return fmt.Errorf("PROFILE_RETRY_ATTEMPTS must be positive")
	}
	return nil
}

// RetryPolicy builds the profile provisioning policy: with the defaults,
// three attempts waiting 1s and then 2s.
func (c *Config) RetryPolicy() retry.Policy {
	attempts := c.Auth.ProfileRetryAttempts
	backoff := make([]time.Duration, 0, attempts)
	for i := 1; i < attempts; i++ {
		backoff = append(backoff, time.Duration(i)*c.Auth.ProfileRetryBackoff)
	}
	return retry.Policy{MaxAttempts: attempts, Backoff: backoff}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
