package grants

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/readcircle/readcircle-sdk/pkg/configuration"
)

// Config captures all inputs necessary to initialize the casbin-backed policy.
type Config struct {
	ModelPath  string
	PolicyPath string
	Logger     *logrus.Logger
}

func (c Config) validate() error {
	if c.ModelPath == "" {
		return configError("missing model path")
	}
	if c.PolicyPath == "" {
		return configError("missing policy path")
	}
	return nil
}

func (c Config) normalized() Config {
	c.ModelPath = filepath.Clean(c.ModelPath)
	c.PolicyPath = filepath.Clean(c.PolicyPath)
	return c
}

// DefaultConfig builds a Config using the global configuration singleton.
func DefaultConfig() Config {
	cfg := configuration.Use()
	return Config{
		ModelPath:  cfg.Grants.ModelPath,
		PolicyPath: cfg.Grants.PolicyPath,
		Logger:     cfg.Logger(),
	}
}

// configError standardizes configuration validation errors.
func configError(msg string, args ...any) error {
	return fmt.Errorf("grants: "+msg, args...)
}
