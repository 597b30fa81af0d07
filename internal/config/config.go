package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL          = "http://mangafox.me/"
	DefaultSearchRetryDelay = 5 * time.Second

	envPrefix = "MANGAFOX"
)

type Config struct {
	Output      string `yaml:"output" mapstructure:"output"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Enumerate   bool   `yaml:"enumerate" mapstructure:"enumerate"`
	CBZ         bool   `yaml:"cbz" mapstructure:"cbz"`
	KeepFolders bool   `yaml:"keep_folders" mapstructure:"keep_folders"`
	SkipBroken  bool   `yaml:"skip_broken" mapstructure:"skip_broken"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Delay            time.Duration `yaml:"delay" mapstructure:"delay"`
	SearchRetryDelay time.Duration `yaml:"search_retry_delay" mapstructure:"search_retry_delay"`

	Cookie     string `yaml:"cookie" mapstructure:"cookie"`
	CookieFile string `yaml:"cookie_file" mapstructure:"cookie_file"`
	UserAgent  string `yaml:"user_agent" mapstructure:"user_agent"`
	Cloudflare bool   `yaml:"cloudflare" mapstructure:"cloudflare"`
}

// Options carries CLI flag values. Zero values leave the loaded config untouched.
type Options struct {
	IgnoreConfig bool
	Debug        bool
	Output       string
	BaseURL      string
	Enumerate    bool
	CBZ          bool
	KeepFolders  bool
	SkipBroken   bool
	Delay        time.Duration
	Cookie       string
	CookieFile   string
	UserAgent    string
	Cloudflare   bool

	// EnvFile is a .env file whose MANGAFOX_* entries are loaded into the
	// environment. Variables already set win.
	EnvFile string
}

func DefaultConfig() *Config {
	return &Config{
		Output:           ".",
		BaseURL:          DefaultBaseURL,
		SearchRetryDelay: DefaultSearchRetryDelay,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// newViper registers every key with its default so that Unmarshal and
// AutomaticEnv both see the full key set.
func newViper(withEnv bool) *viper.Viper {
	def := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("output", def.Output)
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("enumerate", def.Enumerate)
	v.SetDefault("cbz", def.CBZ)
	v.SetDefault("keep_folders", def.KeepFolders)
	v.SetDefault("skip_broken", def.SkipBroken)
	v.SetDefault("debug", def.Debug)
	v.SetDefault("delay", def.Delay)
	v.SetDefault("search_retry_delay", def.SearchRetryDelay)
	v.SetDefault("cookie", def.Cookie)
	v.SetDefault("cookie_file", def.CookieFile)
	v.SetDefault("user_agent", def.UserAgent)
	v.SetDefault("cloudflare", def.Cloudflare)

	if withEnv {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	return v
}

// LoadMerged resolves the effective config: defaults, then the active
// profile, then MANGAFOX_* environment variables, then CLI options.
func LoadMerged(opts Options) (*Config, string, error) {
	if opts.EnvFile != "" && !opts.IgnoreConfig {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, "", fmt.Errorf("error loading env file '%s': %w", opts.EnvFile, err)
		}
	}

	v := newViper(!opts.IgnoreConfig)
	used := "(ignored config)"

	if !opts.IgnoreConfig {
		activePath, err := ActiveConfigPath()
		switch {
		case errors.Is(err, ErrNoConfig) || (err == nil && activePath == ""):
			used = "(default config in memory)\nRun `mangafox config init` to create an actual config\n"
		case err != nil:
			return nil, "", err
		default:
			v.SetConfigFile(activePath)
			if err := v.ReadInConfig(); err != nil {
				return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
			}
			used = activePath
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, "", fmt.Errorf("failed to decode config: %w", err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, used, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.Enumerate {
		c.Enumerate = true
	}
	if o.CBZ {
		c.CBZ = true
	}
	if o.KeepFolders {
		c.KeepFolders = true
	}
	if o.SkipBroken {
		c.SkipBroken = true
	}
	if o.Debug {
		c.Debug = true
	}
	if o.Delay > 0 {
		c.Delay = o.Delay
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Cloudflare {
		c.Cloudflare = true
	}
}

func normalizeDefaults(c *Config) {
	if c.Output == "" {
		c.Output = "."
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	if c.Delay < 0 {
		c.Delay = 0
	}
	if c.SearchRetryDelay < 0 {
		c.SearchRetryDelay = 0
	}
}

func (c *Config) Print() {
	fmt.Printf(" -output: %s\n", c.Output)
	fmt.Printf(" -base_url: %s\n", c.BaseURL)
	if c.Enumerate {
		fmt.Printf(" -enumerate: %t\n", c.Enumerate)
	}
	if c.CBZ {
		fmt.Printf(" -cbz: %t\n", c.CBZ)
	}
	if c.KeepFolders {
		fmt.Printf(" -keep_folders: %t\n", c.KeepFolders)
	}
	if c.SkipBroken {
		fmt.Printf(" -skip_broken: %t\n", c.SkipBroken)
	}
	if c.Debug {
		fmt.Printf(" -debug: %t\n", c.Debug)
	}
	if c.Delay > 0 {
		fmt.Printf(" -delay: %s\n", c.Delay)
	}
	fmt.Printf(" -search_retry_delay: %s\n", c.SearchRetryDelay)
	if c.CookieFile != "" {
		fmt.Printf(" -cookie_file: %s\n", c.CookieFile)
	}
	if c.UserAgent != "" {
		fmt.Printf(" -user_agent: %s\n", c.UserAgent)
	}
	if c.Cloudflare {
		fmt.Printf(" -cloudflare: %t\n", c.Cloudflare)
	}
}
