package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ZSuraj/abcd-sub000/pkg/logging"
)

const Production = "production"

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

var singleton = sync.OnceValue(func() *Configuration {
	c, err := Load([]string{".env", ".env.local"})
	if err != nil {
		panic(err)
	}
	return c
})

// LoadEnv loads the env files that exist, first from the working directory and
// then from the nearest go.mod root above it. It returns how many files were loaded.
func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if fs.FileExists(file) {
			existingFiles = append(existingFiles, file)
		}
	}
	if len(existingFiles) == 0 {
		if root, ok := findModuleRoot(); ok {
			for _, file := range envFiles {
				p := filepath.Join(root, file)
				if fs.FileExists(p) {
					existingFiles = append(existingFiles, p)
				}
			}
		}
	}
	if len(existingFiles) == 0 {
		return 0, nil
	}
	return len(existingFiles), godotenv.Load(existingFiles...)
}

func findModuleRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if fs.FileExists(filepath.Join(dir, "go.mod")) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"relationships"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	MaxConns int32  `env:"DB_MAX_CONNS" envDefault:"10"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable pool_max_conns=%d",
		d.Host, d.Port, d.User, d.Name, d.Password, d.MaxConns,
	)
}

type OpenTelemetryOptions struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	TempoURL    string `env:"OTEL_TEMPO_URL" envDefault:"localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"relationships"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type RateLimitOptions struct {
	Enabled   bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	GlobalRPS int    `env:"RATE_LIMIT_GLOBAL_RPS" envDefault:"1000"`
	Storage   string `env:"RATE_LIMIT_STORAGE" envDefault:"memory"` // memory or redis
	RedisURL  string `env:"RATE_LIMIT_REDIS_URL"`
}

// Validate checks the rate limit configuration for errors
func (r *RateLimitOptions) Validate() error {
	if r.GlobalRPS < 0 {
		return fmt.Errorf("rate limit GlobalRPS must be non-negative, got %d", r.GlobalRPS)
	}
	if r.GlobalRPS > 1000000 {
		return fmt.Errorf("rate limit GlobalRPS too high, maximum is 1,000,000, got %d", r.GlobalRPS)
	}
	if r.Storage != "memory" && r.Storage != "redis" {
		return fmt.Errorf("rate limit Storage must be 'memory' or 'redis', got '%s'", r.Storage)
	}
	if r.Storage == "redis" && r.RedisURL == "" {
		return fmt.Errorf("rate limit RedisURL is required when Storage is 'redis'")
	}
	return nil
}

// AuthzOptions selects the casbin model/policy files; empty paths use the built-in policy.
type AuthzOptions struct {
	Mode       string `env:"AUTHZ_MODE" envDefault:"enforce"`
	ModelPath  string `env:"AUTHZ_MODEL_PATH"`
	PolicyPath string `env:"AUTHZ_POLICY_PATH"`
	FlagPath   string `env:"AUTHZ_FLAG_CONFIG"`
}

// OpsGuardOptions restricts operational endpoints (metrics) in production.
type OpsGuardOptions struct {
	Enabled bool   `env:"OPS_GUARD_ENABLED" envDefault:"false"`
	CIDRs   string `env:"OPS_GUARD_CIDRS"`
	Token   string `env:"OPS_GUARD_TOKEN"`
}

type SessionOptions struct {
	Store    string        `env:"SESSION_STORE" envDefault:"memory"` // memory or redis
	Duration time.Duration `env:"SESSION_DURATION" envDefault:"720h"`
}

type Configuration struct {
	Database      DatabaseOptions
	OpenTelemetry OpenTelemetryOptions
	Prometheus    PrometheusOptions
	RateLimit     RateLimitOptions
	Session       SessionOptions
	OpsGuard      OpsGuardOptions
	Authz         AuthzOptions

	Storage           string `env:"STORAGE" envDefault:"memory"`
	MigrationsEnabled bool   `env:"MIGRATIONS_ENABLED" envDefault:"true"`
	SeedDemoData      bool   `env:"SEED_DEMO_DATA" envDefault:"false"`
	SeedPassword      string `env:"SEED_DEMO_PASSWORD" envDefault:"relationships"`
	CacheEnabled      bool   `env:"RELATIONSHIP_CACHE_ENABLED" envDefault:"false"`
	ActionLogEnabled  bool   `env:"ACTION_LOG_ENABLED" envDefault:"true"`

	RedisURL         string   `env:"REDIS_URL" envDefault:"localhost:6379"`
	ServerPort       int      `env:"PORT" envDefault:"3200"`
	GoAppEnvironment string   `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress    string   `env:"-"`
	Origin           string   `env:"ORIGIN" envDefault:"http://localhost:3200"`
	CorsOrigins      []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	LogLevel         string   `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string   `env:"LOG_PATH" envDefault:""`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// Looked up on every request; a random uuidv4 is generated when absent.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
	// Falls back to request.RemoteAddr when absent.
	RealIPHeader string `env:"REAL_IP_HEADER" envDefault:"X-Real-IP"`
	// Optional header narrowing relationship reads to a single client.
	ClientScopeHeader string `env:"CLIENT_SCOPE_HEADER" envDefault:"X-Client-ID"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	return logging.ParseLevel(c.LogLevel)
}

func (c *Configuration) Scheme() string {
	if c.GoAppEnvironment == Production { // assume 'https' on production mode
		return "https"
	}
	return "http"
}

// Use returns the process-wide configuration, loading it on first use.
func Use() *Configuration {
	return singleton()
}

// Load parses a fresh configuration from the given env files and the process environment.
func Load(envFiles []string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 && len(envFiles) > 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate limit configuration error: %w", err)
	}
	if err := c.validateStorage(); err != nil {
		return err
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger

	c.Database.Opts = c.Database.ConnectionString()
	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}
	return nil
}

func (c *Configuration) validateStorage() error {
	storage := strings.ToLower(strings.TrimSpace(c.Storage))
	switch storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("invalid STORAGE=%q (expected postgres|memory)", c.Storage)
	}
	c.Storage = storage

	store := strings.ToLower(strings.TrimSpace(c.Session.Store))
	switch store {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid SESSION_STORE=%q (expected memory|redis)", c.Session.Store)
	}
	c.Session.Store = store

	mode := strings.ToLower(strings.TrimSpace(c.Authz.Mode))
	switch mode {
	case "enforce", "shadow", "disabled":
	default:
		return fmt.Errorf("invalid AUTHZ_MODE=%q (expected enforce|shadow|disabled)", c.Authz.Mode)
	}
	c.Authz.Mode = mode
	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
