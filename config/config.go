package config

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config wraps viper. Settings can come from flags, environment
// variables prefixed with AMARANTA_, or programmatic Set calls.
type Config struct {
	v    *viper.Viper
	args []string
}

func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data-path", "./data")
	v.SetDefault("default-words-file", "./data/words.txt")
	v.SetDefault("history-db-path", "./amaranta-history.db")
	v.SetDefault("debug", false)
	v.SetDefault("maintain-arc-consistency", true)
	v.SetDefault("nodes-budget", 0)
	v.SetDefault("ties-seed", 0)
	v.SetDefault("cpu-profile", "")
	v.SetDefault("mem-profile", "")
}

// Load parses the passed-in args and merges them on top of the
// environment and defaults.
func (c *Config) Load(args []string) error {
	c.v = viper.New()
	setDefaults(c.v)

	fs := pflag.NewFlagSet("amaranta", pflag.ContinueOnError)
	fs.String("data-path", "./data", "directory holding structure and word files")
	fs.String("default-words-file", "./data/words.txt", "the default word list to seed domains with")
	fs.String("history-db-path", "./amaranta-history.db", "path to the solve history database")
	fs.Bool("debug", false, "debug logging on")
	fs.Bool("maintain-arc-consistency", true, "re-propagate arc consistency after every tentative assignment")
	fs.Int("nodes-budget", 0, "maximum number of search nodes (0 = unbounded)")
	fs.Uint64("ties-seed", 0, "if nonzero, shuffle equal-score value ties with this seed")
	fs.String("cpu-profile", "", "write cpu profile to file")
	fs.String("mem-profile", "", "write memory profile to file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.v.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()

	c.v.SetEnvPrefix("amaranta")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	return nil
}

// Args returns the positional arguments left over after flag parsing.
func (c *Config) Args() []string { return c.args }

func (c *Config) GetString(key string) string { return c.v.GetString(key) }
func (c *Config) GetBool(key string) bool     { return c.v.GetBool(key) }
func (c *Config) GetInt(key string) int       { return c.v.GetInt(key) }
func (c *Config) GetUint64(key string) uint64 { return c.v.GetUint64(key) }

func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// AdjustRelativePaths rebases relative path settings onto the
// executable's directory, so the binary can run from anywhere.
func (c *Config) AdjustRelativePaths(basePath string) {
	for _, key := range []string{"data-path", "default-words-file", "history-db-path"} {
		path := c.v.GetString(key)
		if path == "" || filepath.IsAbs(path) {
			continue
		}
		adjusted := filepath.Join(basePath, path)
		log.Debug().Str("key", key).Str("path", adjusted).Msg("adjusted-relative-path")
		c.v.Set(key, adjusted)
	}
}

// SanitizedSettings returns the settings map for logging.
func (c *Config) SanitizedSettings() map[string]interface{} {
	return c.v.AllSettings()
}
