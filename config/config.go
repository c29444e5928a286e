package config

import (
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug                 = "debug"
	ConfigThreads               = "threads"
	ConfigLogStream             = "log-stream"
	ConfigCPUProfile            = "cpu-profile"
	ConfigMemProfile            = "mem-profile"
	ConfigVisitedMemoryFraction = "visited-memory-fraction"
	ConfigResultsDB             = "results-db"
)

type Config struct {
	*viper.Viper
}

func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigThreads, 1)
	c.SetDefault(ConfigLogStream, "")
	c.SetDefault(ConfigCPUProfile, "")
	c.SetDefault(ConfigMemProfile, "")
	c.SetDefault(ConfigVisitedMemoryFraction, 0.05)
	c.SetDefault(ConfigResultsDB, "")
}

// Load reads settings from --flags, then COUNTDOWN_* environment variables,
// then defaults. Arguments that are not flags are returned so the caller can
// treat them as a command.
func (c *Config) Load(args []string) ([]string, error) {
	c.Viper = viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("countdown", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigThreads, 1, "number of search threads; 1 searches serially")
	fs.String(ConfigLogStream, "", "write a YAML log of every reported candidate to this file")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a heap profile to this file")
	fs.Float64(ConfigVisitedMemoryFraction, 0.05,
		"fraction of system memory used to size the visited set up front")
	fs.String(ConfigResultsDB, "", "record every finished solve in this sqlite database")
	fs.SetInterspersed(false)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := c.BindPFlags(fs); err != nil {
		return nil, err
	}

	c.SetEnvPrefix("countdown")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	return fs.Args(), nil
}

// Threads returns the configured thread count, with 0 or less meaning one
// per CPU.
func (c *Config) Threads() int {
	t := c.GetInt(ConfigThreads)
	if t <= 0 {
		return runtime.NumCPU()
	}
	return t
}

func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
