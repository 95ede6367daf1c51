package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug              = "debug"
	ConfigZobristSeed        = "zobrist-seed"
	ConfigCanonicalCacheSize = "canonical-cache-size"
	ConfigMaxStackHeight     = "max-stack-height"
	ConfigTrialDir           = "trial-dir"
	ConfigGameDir            = "game-dir"
	ConfigReplayThreads      = "replay-threads"
	ConfigCPUProfile         = "cpu-profile"
)

const (
	// DefaultMaxStackHeight is used for stacking games that do not declare
	// their own height limit.
	DefaultMaxStackHeight = 32
	// DefaultZobristSeed makes every process derive the same hash keys, so
	// hashes written to logs can be compared across runs.
	DefaultZobristSeed = 0x5eed_b0a2d
)

// Config wraps a viper instance. Settings come from (in priority order)
// command-line flags, BOARDSTATE_* environment variables, and defaults.
type Config struct {
	*viper.Viper
	args []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigZobristSeed, uint64(DefaultZobristSeed))
	// 0 means "size it from available memory".
	v.SetDefault(ConfigCanonicalCacheSize, 0)
	v.SetDefault(ConfigMaxStackHeight, DefaultMaxStackHeight)
	v.SetDefault(ConfigTrialDir, "./data/trials")
	v.SetDefault(ConfigGameDir, "./data/games")
	v.SetDefault(ConfigReplayThreads, 0)
	v.SetDefault(ConfigCPUProfile, "")
}

// DefaultConfig returns a config with only the defaults and the environment
// applied. It is mostly meant for tests.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("boardstate")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &Config{Viper: v}
}

// Load parses the given command-line arguments on top of the defaults.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("boardstate", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Uint64(ConfigZobristSeed, DefaultZobristSeed, "seed for the zobrist key tables")
	fs.Int(ConfigCanonicalCacheSize, 0, "max entries in the canonical hash cache (0 = size from memory)")
	fs.Int(ConfigMaxStackHeight, DefaultMaxStackHeight, "default max stack height for stacking games")
	fs.String(ConfigTrialDir, "./data/trials", "directory holding trial files")
	fs.String(ConfigGameDir, "./data/games", "directory holding game description files")
	fs.Int(ConfigReplayThreads, 0, "number of concurrent replays (0 = GOMAXPROCS)")
	fs.String(ConfigCPUProfile, "", "file to write a cpu profile to")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetEnvPrefix("boardstate")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return c.BindPFlags(fs)
}

// Args are the command-line arguments left over after the flags.
func (c *Config) Args() []string { return c.args }

// AdjustRelativePaths makes the data paths absolute, relative to basePath,
// if they are not already.
func (c *Config) AdjustRelativePaths(basePath string) {
	for _, key := range []string{ConfigTrialDir, ConfigGameDir} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(key, filepath.Join(basePath, p))
	}
}

// SanitizedSettings returns the settings as a map, suitable for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
