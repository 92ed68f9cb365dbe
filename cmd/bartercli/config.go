package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/barter/errors"
)

// Config is read from <home>/config.toml. All values are optional.
type Config struct {
	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"log_level"`
	// AddressPrefix is the human readable part of printed bech32
	// addresses.
	AddressPrefix string `toml:"address_prefix"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:      env("BARTER_LOG_LEVEL", "info"),
		AddressPrefix: "barter",
	}
}

// loadConfig reads the configuration file of given home directory. Defaults
// are used for everything the file does not declare, or when it does not
// exist.
func loadConfig(home string) (Config, error) {
	conf := defaultConfig()
	path := filepath.Join(home, "config.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return conf, nil
	}
	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "cannot parse %s: %s", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return conf, errors.Wrapf(errors.ErrInput, "unknown configuration %q", undecoded[0].String())
	}
	if conf.AddressPrefix == "" {
		return conf, errors.Wrap(errors.ErrEmpty, "address_prefix")
	}
	return conf, nil
}

// newLogger returns a logger writing to stderr that is filtered by the
// configured level.
func newLogger(conf Config) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr))
	opt, err := log.AllowLevel(conf.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}
