package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/soyart/gsl/soyutils"

	"github.com/soyart/arweave-tx-resolver/arweave"
)

const (
	DefaultFile  = "./config/config.yaml"
	DefaultLabel = "arweave-tx"
)

type Config struct {
	Label string `yaml:"label" json:"label"`
	Debug bool   `yaml:"debug" json:"debug"`

	Gateway       string        `yaml:"gateway" json:"gateway"`
	TimeoutConfig string        `yaml:"timeout" json:"-"`
	Timeout       time.Duration `yaml:"-" json:"timeout"` // Will be parsed from TimeoutConfig
	FailOnStatus  bool          `yaml:"fail_on_status" json:"failOnStatus"`
}

// From reads filename (or $CONF_FILE) if it exists, then applies env overrides.
// A missing file is not an error: the tool works with defaults alone.
func From(filename string) (*Config, error) {
	if envFilename, found := os.LookupEnv("CONF_FILE"); found {
		filename = envFilename
	}

	conf := &Config{}

	if _, err := os.Stat(filename); err == nil {
		conf, err = soyutils.ReadFileYAMLPointer[Config](filename)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", filename)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to stat config file %s", filename)
	}

	if conf.TimeoutConfig != "" {
		timeout, err := time.ParseDuration(conf.TimeoutConfig)
		if err != nil {
			return nil, errors.Wrapf(err, "bad timeout %s", conf.TimeoutConfig)
		}

		conf.Timeout = timeout
	}

	// Same env name as the upstream oracle node
	if gateway, found := os.LookupEnv("ARWEAVE_BASE_URL"); found {
		conf.Gateway = gateway
	}

	if timeout, found := os.LookupEnv("ARWEAVE_TIMEOUT"); found {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("illegal ARWEAVE_TIMEOUT: %s", timeout)
		}

		conf.Timeout = d
	}

	if failOnStatus, found := os.LookupEnv("ARWEAVE_FAIL_ON_STATUS"); found {
		b, err := parseBool(failOnStatus)
		if err != nil {
			return nil, errors.Wrap(err, "illegal ARWEAVE_FAIL_ON_STATUS")
		}

		conf.FailOnStatus = b
	}

	if label, found := os.LookupEnv("LABEL"); found {
		conf.Label = label
	}

	if conf.Label == "" {
		conf.Label = DefaultLabel
	}

	if conf.Gateway == "" {
		conf.Gateway = arweave.DefaultGateway
	}

	return conf, nil
}

// Validate is called after CLI flag overrides are applied.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Gateway)
	if err != nil {
		return errors.Wrapf(err, "bad gateway url %s", c.Gateway)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("gateway url must be absolute http(s): %s", c.Gateway)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("negative timeout: %s", c.Timeout)
	}

	return nil
}

func (c *Config) ArweaveOptions() arweave.Options {
	return arweave.Options{
		Gateway:      c.Gateway,
		Timeout:      c.Timeout,
		FailOnStatus: c.FailOnStatus,
	}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	}

	return false, fmt.Errorf("bad boolean %s", s)
}
