// Package config parses the simulator's CLI flags and environment-variable
// overrides into a single Config value.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nanohft/hftsim/internal/mdfeed"
)

// Config holds everything needed to run the engine, plus its optional
// observability surface (WebSocket monitor, REST API, run-history store,
// archival).
type Config struct {
	// Core run parameters
	DurationS        int
	Rate             int
	Symbols          int
	Bursts           burstList
	Mode             string // naive|optimized
	Seed             int64
	Affinity         int // -1 means unset
	Report           string
	DeterminismCheck bool
	CodeHash         string

	// Monitor (WebSocket telemetry fan-out)
	WSPort         int
	Host           string
	SendBufferSize int

	// Run-history store (opt-in: only active when MongoURI is non-empty)
	MongoURI           string
	TradeRetentionDays int

	// Archive (opt-in, requires MongoURI and a non-empty ArchiveDir)
	ArchiveDir           string
	ArchiveMaxGB         int
	ArchiveIntervalHours int
	ArchiveAfterHours    int
}

// burstList implements flag.Value so --burst can be repeated on the
// command line, each occurrence appending one mdfeed.Burst.
type burstList []mdfeed.Burst

func (b *burstList) String() string {
	if b == nil {
		return ""
	}
	parts := make([]string, len(*b))
	for i, burst := range *b {
		parts[i] = fmt.Sprintf("t=%g,dur=%g,x=%g", burst.TS, burst.Dur, burst.X)
	}
	return strings.Join(parts, ";")
}

// Set parses one "t=<s>,dur=<s>,x=<multiplier>" burst spec and appends it.
func (b *burstList) Set(s string) error {
	var t, dur, x float64
	n, err := fmt.Sscanf(s, "t=%f,dur=%f,x=%f", &t, &dur, &x)
	if err != nil || n != 3 {
		return fmt.Errorf("invalid burst spec %q, want t=<s>,dur=<s>,x=<multiplier>", s)
	}
	*b = append(*b, mdfeed.Burst{TS: t, Dur: dur, X: x})
	return nil
}

// Load parses flags (and, where noted, environment fallbacks) into a
// Config. Call once, at process startup.
func Load() *Config {
	c := &Config{}

	flag.IntVar(&c.DurationS, "duration-s", 20, "run duration in seconds")
	flag.IntVar(&c.Rate, "rate", 100000, "base market-data event rate, events/s")
	flag.IntVar(&c.Symbols, "symbols", 4, "number of symbols")
	flag.Var(&c.Bursts, "burst", "burst spec t=<s>,dur=<s>,x=<multiplier>; may be repeated")
	flag.StringVar(&c.Mode, "mode", "optimized", "transport mode: naive|optimized")
	flag.Int64Var(&c.Seed, "seed", 7, "PRNG seed")
	flag.IntVar(&c.Affinity, "affinity", -1, "CPU to pin the hot-path threads to (-1 = no pinning)")
	flag.StringVar(&c.Report, "report", "./out/run", "report output directory")
	flag.BoolVar(&c.DeterminismCheck, "determinism-check", false, "run the engine 3x under simulated time and verify byte-identical metrics")
	flag.StringVar(&c.CodeHash, "code-hash", envStr("HFTSIM_CODE_HASH", "unknown"), "build identifier stamped into each run's fingerprint")

	flag.IntVar(&c.WSPort, "ws-port", envInt("HFTSIM_WS_PORT", 8100), "monitor WebSocket server port")
	flag.StringVar(&c.Host, "host", envStr("HFTSIM_HOST", "0.0.0.0"), "monitor listen host")
	flag.IntVar(&c.SendBufferSize, "send-buffer", envInt("HFTSIM_SEND_BUFFER", 4096), "per-client monitor send buffer size")

	flag.StringVar(&c.MongoURI, "mongo-uri", envStr("HFTSIM_MONGO_URI", ""), "MongoDB connection URI for run-history storage (empty = disabled)")
	flag.IntVar(&c.TradeRetentionDays, "run-retention", envInt("HFTSIM_RUN_RETENTION_DAYS", 30), "run-history retention in days (0 = keep forever)")

	flag.StringVar(&c.ArchiveDir, "archive-dir", envStr("HFTSIM_ARCHIVE_DIR", ""), "directory for gzipped run-history archives (empty = disabled)")
	flag.IntVar(&c.ArchiveMaxGB, "archive-max-gb", envInt("HFTSIM_ARCHIVE_MAX_GB", 10), "maximum total size of archive files, in GB")
	flag.IntVar(&c.ArchiveIntervalHours, "archive-interval", envInt("HFTSIM_ARCHIVE_INTERVAL_HOURS", 6), "hours between archive sweeps")
	flag.IntVar(&c.ArchiveAfterHours, "archive-after", envInt("HFTSIM_ARCHIVE_AFTER_HOURS", 24), "archive runs older than this many hours")

	flag.Parse()

	return c
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
