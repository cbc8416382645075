package authz

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ZSuraj/abcd-sub000/pkg/configuration"
)

// Config captures all inputs necessary to initialize the Casbin enforcer.
// Empty ModelPath/PolicyPath select the embedded defaults.
type Config struct {
	ModelPath    string
	PolicyPath   string
	FlagPath     string
	FlagMode     Mode
	Logger       *logrus.Logger
	FlagProvider FlagProvider
}

func (c Config) validate() error {
	if (c.ModelPath == "") != (c.PolicyPath == "") {
		return configError("model and policy paths must be set together")
	}
	return nil
}

func (c Config) normalized() Config {
	if c.ModelPath != "" {
		c.ModelPath = filepath.Clean(c.ModelPath)
		c.PolicyPath = filepath.Clean(c.PolicyPath)
	}
	if c.FlagPath != "" {
		c.FlagPath = filepath.Clean(c.FlagPath)
	}
	c.FlagMode = sanitizeMode(c.FlagMode)
	return c
}

// ConfigFrom builds a Config from the loaded application configuration.
func ConfigFrom(conf *configuration.Configuration) Config {
	return Config{
		ModelPath:  conf.Authz.ModelPath,
		PolicyPath: conf.Authz.PolicyPath,
		FlagPath:   conf.Authz.FlagPath,
		FlagMode:   Mode(conf.Authz.Mode),
		Logger:     conf.Logger(),
	}
}
