package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/readcircle/readcircle-sdk/pkg/logging"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

// LoadEnv loads the given env files from the working directory, falling back
// to the module root (nearest go.mod upwards) so tests run from any package
// directory still pick up the repo's .env files.
func LoadEnv(envFiles []string) (int, error) {
	existingFiles := existingEnvFiles(envFiles, ".")
	if len(existingFiles) == 0 {
		if root, ok := findModuleRoot(); ok {
			existingFiles = existingEnvFiles(envFiles, root)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

func existingEnvFiles(envFiles []string, dir string) []string {
	files := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		path := filepath.Join(dir, file)
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		}
	}
	return files
}

func findModuleRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
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
	Name     string `env:"DB_NAME" envDefault:"readcircle"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type OpenTelemetryOptions struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	TempoURL    string `env:"OTEL_TEMPO_URL" envDefault:"localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"readcircle"`
}

type EntitlementsOptions struct {
	CacheTTL      time.Duration `env:"ENTITLEMENTS_CACHE_TTL" envDefault:"30m"`
	MemoryTTL     time.Duration `env:"ENTITLEMENTS_MEMORY_TTL" envDefault:"5m"`
	MemorySize    int           `env:"ENTITLEMENTS_MEMORY_SIZE" envDefault:"100"`
	KeyPrefix     string        `env:"ENTITLEMENTS_KEY_PREFIX" envDefault:"entitlements:cache:"`
	GuardTimeout  time.Duration `env:"ENTITLEMENTS_GUARD_TIMEOUT" envDefault:"10s"`
	SweepInterval time.Duration `env:"ENTITLEMENTS_SWEEP_INTERVAL" envDefault:"10m"`
	Debug         bool          `env:"ENTITLEMENTS_DEBUG" envDefault:"false"`
}

// Validate checks the entitlements cache configuration for errors
func (e *EntitlementsOptions) Validate() error {
	if e.CacheTTL <= 0 {
		return fmt.Errorf("entitlements CacheTTL must be positive, got %s", e.CacheTTL)
	}
	if e.MemoryTTL <= 0 {
		return fmt.Errorf("entitlements MemoryTTL must be positive, got %s", e.MemoryTTL)
	}
	if e.MemoryTTL > e.CacheTTL {
		return fmt.Errorf("entitlements MemoryTTL (%s) must not exceed CacheTTL (%s)", e.MemoryTTL, e.CacheTTL)
	}
	if e.MemorySize <= 0 {
		return fmt.Errorf("entitlements MemorySize must be positive, got %d", e.MemorySize)
	}
	if e.GuardTimeout <= 0 {
		return fmt.Errorf("entitlements GuardTimeout must be positive, got %s", e.GuardTimeout)
	}
	return nil
}

type GrantsOptions struct {
	ModelPath  string `env:"GRANTS_MODEL_PATH" envDefault:"config/grants/model.conf"`
	PolicyPath string `env:"GRANTS_POLICY_PATH" envDefault:"config/grants/policy.csv"`
}

type Configuration struct {
	Database      DatabaseOptions
	OpenTelemetry OpenTelemetryOptions
	Entitlements  EntitlementsOptions
	Grants        GrantsOptions

	RedisURL         string `env:"REDIS_URL" envDefault:"localhost:6379"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string `env:"LOG_PATH" envDefault:"./logs/app.log"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	if err := c.Entitlements.Validate(); err != nil {
		return fmt.Errorf("entitlements configuration error: %w", err)
	}

	if c.GoAppEnvironment == Production {
		f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
		if err != nil {
			return err
		}
		c.logFile = f
		c.logger = logger
	} else {
		c.logger = logging.ConsoleLogger(c.LogrusLogLevel())
	}

	c.Database.Opts = c.Database.ConnectionString()

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
