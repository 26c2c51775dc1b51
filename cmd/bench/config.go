package main

import (
	"flag"
	"fmt"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/IvanBrykalov/shardlru/cache"
)

// Config is the benchmark configuration. It can be loaded from a TOML file
// and then overridden by explicitly set command-line flags.
type Config struct {
	Capacity int      `toml:"capacity"`
	Shards   int      `toml:"shards"`
	TTL      Duration `toml:"ttl"`
	Hash     string   `toml:"hash"`

	Workers  int      `toml:"workers"`
	Duration Duration `toml:"duration"`
	ReadPct  int      `toml:"reads"`
	BatchPct int      `toml:"batch_pct"`
	Batch    int      `toml:"batch_size"`

	Keys    int     `toml:"keys"`
	ZipfS   float64 `toml:"zipf_s"`
	ZipfV   float64 `toml:"zipf_v"`
	Seed    int64   `toml:"seed"`
	Preload int     `toml:"preload"`

	PprofAddr   string `toml:"pprof_addr"`
	MetricsAddr string `toml:"metrics_addr"`
	LogLevel    int    `toml:"log_level"`
}

// Duration decodes TOML strings such as "10s" into a time.Duration.
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func newConfig() Config {
	return Config{
		Capacity:    100_000,
		Shards:      0,
		Hash:        "fnv",
		Workers:     2 * runtime.GOMAXPROCS(0),
		Duration:    Duration{10 * time.Second},
		ReadPct:     80,
		BatchPct:    0,
		Batch:       16,
		Keys:        1_000_000,
		ZipfS:       1.1,
		ZipfV:       1.0,
		Seed:        time.Now().UnixNano(),
		MetricsAddr: ":8080",
		LogLevel:    -1,
	}
}

// bindFlags registers flags whose defaults are the current config values.
func (c *Config) bindFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Capacity, "cap", c.Capacity, "cache capacity (entries)")
	fs.IntVar(&c.Shards, "shards", c.Shards, "number of shards (0=auto)")
	fs.DurationVar(&c.TTL.Duration, "ttl", c.TTL.Duration, "entry TTL (0=disabled)")
	fs.StringVar(&c.Hash, "hash", c.Hash, "routing hash: fnv | xx")

	fs.IntVar(&c.Workers, "workers", c.Workers, "number of worker goroutines")
	fs.DurationVar(&c.Duration.Duration, "duration", c.Duration.Duration, "benchmark duration")
	fs.IntVar(&c.ReadPct, "reads", c.ReadPct, "read percentage [0..100]")
	fs.IntVar(&c.BatchPct, "batch_pct", c.BatchPct, "share of operations issued as MGet/MSet [0..100]")
	fs.IntVar(&c.Batch, "batch_size", c.Batch, "keys per MGet/MSet")

	fs.IntVar(&c.Keys, "keys", c.Keys, "keyspace size")
	fs.Float64Var(&c.ZipfS, "zipf_s", c.ZipfS, "Zipf s > 1 (skew)")
	fs.Float64Var(&c.ZipfV, "zipf_v", c.ZipfV, "Zipf v")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed")
	fs.IntVar(&c.Preload, "preload", c.Preload, "preload entries (0 = cap/2)")

	fs.StringVar(&c.PprofAddr, "pprof", c.PprofAddr, "serve pprof at addr (e.g. :6060); empty = disabled")
	fs.StringVar(&c.MetricsAddr, "http", c.MetricsAddr, "serve Prometheus metrics at addr; empty = disabled")
}

// loadConfig builds the configuration: defaults, then the TOML file named by
// -config (if any), then flags that were set explicitly on the command line.
func loadConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := newConfig()
	configFile := fs.String("config", "", "path to a TOML configuration file")
	cfg.bindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if *configFile == "" {
		return cfg, cfg.validate()
	}

	// Remember explicit flags, reload from file, then re-apply them.
	explicit := map[string]string{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = f.Value.String() })

	fileCfg := newConfig()
	fileCfg.Seed = cfg.Seed
	md, err := toml.DecodeFile(*configFile, &fileCfg)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", *configFile, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown keys %v", *configFile, undecoded)
	}

	cfg = fileCfg
	replay := flag.NewFlagSet(fs.Name(), flag.ContinueOnError)
	cfg.bindFlags(replay)
	for name, val := range explicit {
		if replay.Lookup(name) == nil {
			continue // -config itself, or flags owned by other packages
		}
		if err := replay.Set(name, val); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch {
	case c.ReadPct < 0 || c.ReadPct > 100:
		return fmt.Errorf("reads must be in [0..100], got %d", c.ReadPct)
	case c.BatchPct < 0 || c.BatchPct > 100:
		return fmt.Errorf("batch_pct must be in [0..100], got %d", c.BatchPct)
	case c.Batch < 1:
		return fmt.Errorf("batch_size must be >= 1, got %d", c.Batch)
	case c.Keys < 1:
		return fmt.Errorf("keys must be >= 1, got %d", c.Keys)
	case c.ZipfS <= 1:
		return fmt.Errorf("zipf_s must be > 1, got %v", c.ZipfS)
	case c.ZipfV < 1:
		return fmt.Errorf("zipf_v must be >= 1, got %v", c.ZipfV)
	case c.Hash != "fnv" && c.Hash != "xx":
		return fmt.Errorf("unknown hash %q (use fnv or xx)", c.Hash)
	}
	return c.cacheOptions().Validate()
}

// cacheOptions maps the config onto cache options; Shards 0 means auto.
func (c *Config) cacheOptions() cache.Options[string, string] {
	opt := cache.Options[string, string]{
		Capacity: c.Capacity,
		Shards:   c.Shards,
		TTL:      c.TTL.Duration,
	}
	if opt.Shards == 0 {
		opt.Shards = cache.DefaultShards()
	}
	if c.Hash == "xx" {
		opt.Hash = cache.HashXX[string]
	}
	return opt
}
