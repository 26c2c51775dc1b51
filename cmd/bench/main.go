// Command bench runs a synthetic workload against the cache and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/jedisct1/dlog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/shardlru/cache"
	pmet "github.com/IvanBrykalov/shardlru/metrics/prom"
)

// counters aggregates worker activity; updated atomically.
type counters struct {
	total, reads, writes, hits, misses, batches atomic.Uint64
}

func main() {
	dlog.Init("shardlru-bench", dlog.SeverityNotice, "")

	cfg, err := loadConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		dlog.Fatal(err)
	}
	loglevelSet := false
	flag.Visit(func(f *flag.Flag) { loglevelSet = loglevelSet || f.Name == "loglevel" })
	if !loglevelSet && cfg.LogLevel >= 0 && cfg.LogLevel < int(dlog.SeverityLast) {
		dlog.SetLogLevel(dlog.Severity(cfg.LogLevel))
	}

	// ---- pprof server (on DefaultServeMux) ----
	if cfg.PprofAddr != "" {
		go func() {
			dlog.Noticef("pprof: serving at %s", cfg.PprofAddr)
			dlog.Warn(http.ListenAndServe(cfg.PprofAddr, nil))
		}()
	}

	// ---- Build cache (+ Prometheus metrics on DefaultServeMux) ----
	opt := cfg.cacheOptions()
	var metrics *pmet.Adapter
	if cfg.MetricsAddr != "" {
		metrics = pmet.New(nil, "lru", "bench", nil)
		opt.Metrics = metrics
	}
	c := cache.New[string, string](opt)
	if metrics != nil {
		metrics.WatchSize(c)
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			dlog.Noticef("metrics: serving at %s", cfg.MetricsAddr)
			dlog.Warn(http.ListenAndServe(cfg.MetricsAddr, nil))
		}()
	}

	run(cfg, opt, c)
}

func run(cfg Config, opt cache.Options[string, string], c cache.Cache[string, string]) {
	defer func() { _ = c.Close() }()

	dlog.Noticef("cap=%d shards=%d ttl=%v hash=%s workers=%d duration=%v",
		opt.Capacity, opt.Shards, opt.TTL, cfg.Hash, cfg.Workers, cfg.Duration.Duration)

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := cfg.Preload
	if pl == 0 {
		pl = cfg.Capacity / 2
	}
	for i := 0; i < pl; i++ {
		c.Set("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i))
	}
	dlog.Infof("preloaded %d entries", pl)

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	var cnt counters
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration.Duration)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			work(ctx, cfg, c, int64(w), &cnt)
			return nil
		})
	}
	_ = g.Wait()
	report(cfg, opt, c, &cnt, workers, time.Since(start))
}

// work issues operations until ctx is done.
func work(ctx context.Context, cfg Config, c cache.Cache[string, string], id int64, cnt *counters) {
	// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
	r := rand.New(rand.NewSource(cfg.Seed + id*9973))
	zipf := rand.NewZipf(r, cfg.ZipfS, cfg.ZipfV, uint64(cfg.Keys-1))
	key := func() string { return "k:" + strconv.FormatUint(zipf.Uint64(), 10) }

	keys := make([]string, cfg.Batch)
	entries := make([]cache.Entry[string, string], cfg.Batch)

	for ctx.Err() == nil {
		cnt.total.Add(1)
		read := int(r.Int31n(100)) < cfg.ReadPct
		batch := cfg.BatchPct > 0 && int(r.Int31n(100)) < cfg.BatchPct

		switch {
		case read && batch:
			for i := range keys {
				keys[i] = key()
			}
			got := c.MGet(keys)
			cnt.batches.Add(1)
			cnt.reads.Add(uint64(len(keys)))
			cnt.hits.Add(uint64(len(got)))
			cnt.misses.Add(uint64(len(keys) - len(got)))
		case read:
			cnt.reads.Add(1)
			if _, ok := c.Get(key()); ok {
				cnt.hits.Add(1)
			} else {
				cnt.misses.Add(1)
			}
		case batch:
			for i := range entries {
				entries[i] = cache.Entry[string, string]{Key: key(), Value: "v" + strconv.Itoa(r.Int())}
			}
			c.MSet(entries)
			cnt.batches.Add(1)
			cnt.writes.Add(uint64(len(entries)))
		default:
			cnt.writes.Add(1)
			c.Set(key(), "v"+strconv.Itoa(r.Int()))
		}
	}
}

func report(cfg Config, opt cache.Options[string, string], c cache.Cache[string, string], cnt *counters, workers int, elapsed time.Duration) {
	ops := cnt.total.Load()
	reads := cnt.reads.Load()
	hits := cnt.hits.Load()

	hitRate := 0.0
	if reads > 0 {
		hitRate = float64(hits) / float64(reads) * 100
	}
	st := c.Stats()

	fmt.Printf("cap=%d shards=%d ttl=%v hash=%s workers=%d keys=%d dur=%v seed=%d\n",
		opt.Capacity, opt.Shards, opt.TTL, cfg.Hash, workers, cfg.Keys, elapsed, cfg.Seed)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d  batches=%d\n",
		ops, float64(ops)/elapsed.Seconds(), reads, cnt.writes.Load(), cnt.batches.Load())
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hits, cnt.misses.Load(), hitRate)
	fmt.Printf("evictions=%d  expirations=%d  Len()=%d\n", st.Evictions, st.Expirations, st.Entries)
}
