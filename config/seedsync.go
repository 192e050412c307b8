package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type (
	// SeedSync configures the field client. Values come from flags, then
	// SEEDSYNC_* environment variables, then seedsync.yaml, then defaults.
	SeedSync struct {
		Server SeedSyncServer `mapstructure:"server"`
		Queue  SeedSyncQueue  `mapstructure:"queue"`
		Watch  SeedSyncWatch  `mapstructure:"watch"`
		Log    Log            `mapstructure:"log"`
	}

	SeedSyncServer struct {
		URL     string        `mapstructure:"url"`
		Timeout time.Duration `mapstructure:"timeout"`
	}

	SeedSyncQueue struct {
		Dir           string `mapstructure:"dir"`
		EncodeWorkers int    `mapstructure:"encode_workers"`
	}

	SeedSyncWatch struct {
		ProbeInterval time.Duration `mapstructure:"probe_interval"`
		ProbeTimeout  time.Duration `mapstructure:"probe_timeout"`
		DrainTimeout  time.Duration `mapstructure:"drain_timeout"`
	}
)

var seedSyncFlags = []struct {
	key, flag string
}{
	{"server.url", "server-url"},
	{"server.timeout", "timeout"},
	{"queue.dir", "queue-dir"},
	{"queue.encode_workers", "encode-workers"},
	{"watch.probe_interval", "probe-interval"},
	{"watch.probe_timeout", "probe-timeout"},
	{"watch.drain_timeout", "drain-timeout"},
	{"log.level", "log-level"},
}

// NewSeedSync reads the global flags from args and returns the remaining
// arguments (the command and its own flags).
func NewSeedSync(args []string) (*SeedSync, []string, error) {
	fs := pflag.NewFlagSet("seedsync", pflag.ContinueOnError)
	fs.SetInterspersed(false)

	configFile := fs.String("config", "", "config file (default ./seedsync.yaml)")
	fs.String("server-url", "http://localhost:8080", "record store base URL")
	fs.Duration("timeout", 30*time.Second, "timeout of one request to the record store")
	fs.String("queue-dir", "./seedsync-data", "directory of the durable sync queue")
	fs.Int("encode-workers", 4, "pictures encoded in parallel")
	fs.Duration("probe-interval", 5*time.Second, "connectivity probe interval (watch)")
	fs.Duration("probe-timeout", 3*time.Second, "timeout of one connectivity probe")
	fs.Duration("drain-timeout", 5*time.Minute, "upper bound of one queue drain (watch)")
	fs.String("log-level", "info", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("config error: %w", err)
	}

	v := viper.New()
	for _, f := range seedSyncFlags {
		if err := v.BindPFlag(f.key, fs.Lookup(f.flag)); err != nil {
			return nil, nil, fmt.Errorf("config error: %w", err)
		}
	}

	v.SetEnvPrefix("SEEDSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		v.SetConfigName("seedsync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if *configFile != "" || !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("config error: %w", err)
		}
	}

	cfg := &SeedSync{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("config error: %w", err)
	}

	if cfg.Server.URL == "" {
		return nil, nil, errors.New("config error: server.url is required")
	}

	return cfg, fs.Args(), nil
}
