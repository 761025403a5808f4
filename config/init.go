package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/customeros/sleeper/internal/logger"
	"github.com/customeros/sleeper/internal/tracing"
)

// InitConfig layers defaults, the YAML config file, SLEEPER_* environment
// variables and command line arguments, later layers winning.
func InitConfig(configFile string, args map[string]string) (*Config, error) {
	config := &Config{
		Logger:  &logger.Config{},
		Tracing: &tracing.JaegerConfig{},
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "loading .env file")
	}

	if err := env.Parse(config.Logger); err != nil {
		return nil, errors.Wrap(err, "parsing logger config")
	}
	if err := env.Parse(config.Tracing); err != nil {
		return nil, errors.Wrap(err, "parsing tracing config")
	}

	var envOptions EnvOptions
	if err := env.Parse(&envOptions); err != nil {
		return nil, errors.Wrap(err, "parsing SLEEPER_* environment")
	}

	if configFile == "" {
		configFile = args[KeyConfig]
	}
	if configFile == "" {
		configFile = envOptions.ConfigFile
	}

	layers := make([]map[string]string, 0, 3)
	if configFile != "" {
		fileValues, err := LoadFile(configFile)
		if err != nil {
			return nil, err
		}
		layers = append(layers, fileValues)
	}
	layers = append(layers, envOptions.toMap(), args)

	options := Defaults()
	for _, layer := range layers {
		layer, rejected := withoutInvalidRepeat(layer)
		if rejected != "" {
			config.RejectedRepeat = append(config.RejectedRepeat, rejected)
		}
		options = options.Merge(layer)
	}

	config.Options = options
	return config, nil
}

// withoutInvalidRepeat drops a repeat value that is blank, not a number or below the
// minimum, so the value from a lower layer stays in effect. The layer itself is not
// modified. The dropped value is returned, trimmed.
func withoutInvalidRepeat(layer map[string]string) (map[string]string, string) {
	out := make(map[string]string, len(layer))
	rejected := ""
	for k, v := range layer {
		if normalizeKey(k) == KeyRepeat && !ValidRepeat(v) {
			rejected = strings.TrimSpace(v)
			continue
		}
		out[k] = v
	}
	return out, rejected
}

// LoadFile reads a flat YAML mapping of option names to scalar values.
func LoadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			return nil, errors.Errorf("config file %s: option %q must be a scalar", path, k)
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out, nil
}
