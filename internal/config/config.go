package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/Phala-Network/phala-cloud-cli/internal/logger"
)

// Config is the TOML file configuration of the simulator manager. Every
// field has a working zero value; an absent file means pure defaults.
type Config struct {
	Version      string        `toml:"version" mapstructure:"version"`
	DownloadBase string        `toml:"download_base" mapstructure:"download_base"`
	InstallRoot  string        `toml:"install_root" mapstructure:"install_root"`
	PIDFile      string        `toml:"pid_file" mapstructure:"pid_file"`
	LogFile      string        `toml:"log_file" mapstructure:"log_file"`
	ProbeTimeout time.Duration `toml:"probe_timeout" mapstructure:"probe_timeout"`
	// HistoryDSN enables the sqlite lifecycle audit when set, e.g.
	// "sqlite:///home/me/.phala-cloud/history.db".
	HistoryDSN string        `toml:"history_dsn" mapstructure:"history_dsn"`
	Log        logger.Config `toml:"log" mapstructure:"log"`
}

// Load reads a TOML config file. An empty path returns the zero Config:
// the manager layer resolves all remaining defaults.
func Load(path string) (Config, error) {
	var c Config
	if path == "" {
		return c, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
