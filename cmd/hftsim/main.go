// Command hftsim runs one (or three, under --determinism-check) pass of the
// MdFeed -> Transport -> Strategy -> Risk -> Router -> LatencyRecorder
// pipeline, writing its report artifacts to --report, while optionally
// streaming live telemetry over WebSocket and persisting run history to
// MongoDB.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nanohft/hftsim/internal/affinity"
	"github.com/nanohft/hftsim/internal/api"
	"github.com/nanohft/hftsim/internal/archive"
	"github.com/nanohft/hftsim/internal/config"
	"github.com/nanohft/hftsim/internal/determinism"
	"github.com/nanohft/hftsim/internal/enginerun"
	"github.com/nanohft/hftsim/internal/metrics"
	"github.com/nanohft/hftsim/internal/monitor"
	"github.com/nanohft/hftsim/internal/runstore"
	"github.com/nanohft/hftsim/internal/wire"
)

func main() {
	cfg := config.Load()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("hftsim starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	if cfg.Affinity >= 0 {
		if affinity.Pin(cfg.Affinity) {
			log.Printf("pinned hot-path threads to cpu %d", cfg.Affinity)
		}
	}

	if err := os.MkdirAll(cfg.Report, 0o755); err != nil {
		log.Fatalf("create report dir: %v", err)
	}

	mgr := monitor.NewManager(cfg.Symbols, cfg.SendBufferSize)

	var store *runstore.Store
	var recorder *runstore.Recorder
	var reader runstore.RunReader

	if cfg.MongoURI != "" {
		var err error
		store, err = runstore.NewStore(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer store.Close(context.Background())

		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("migration failed: %v", err)
		}

		recorder = runstore.NewRecorder(store)
		reader = runstore.NewMongoRunReader(store.DB())

		go runstore.RunRetention(ctx, store, cfg.TradeRetentionDays)

		if cfg.ArchiveDir != "" {
			archiver := archive.New(store.DB(), cfg.ArchiveDir, cfg.ArchiveMaxGB, cfg.ArchiveIntervalHours, cfg.ArchiveAfterHours)
			go archiver.Run(ctx)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/feed", monitor.Handler(mgr))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","clients":%d,"symbols":%d}`, mgr.ClientCount(), cfg.Symbols)
	})

	apiServer := api.NewServer(reader, mgr, cfg.Symbols)
	apiServer.Register(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.WSPort)
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	go func() {
		log.Printf("monitor listening on ws://%s/feed", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("server error: %v", err)
		}
	}()

	runID := fmt.Sprintf("seed%d-%d", cfg.Seed, time.Now().UnixNano())
	if recorder != nil {
		if n, err := recorder.IncrementRunCounter(ctx); err == nil {
			runID = fmt.Sprintf("run-%06d", n)
		} else {
			log.Printf("run counter: %v", err)
		}
	}

	exitCode := 0
	if cfg.DeterminismCheck {
		if !runDeterminismCheck(cfg) {
			exitCode = 1
		}
	} else {
		runOnce(cfg, mgr, recorder, runID)
	}

	cancel()
	time.Sleep(200 * time.Millisecond) // let clients drain the final telemetry frames
	log.Println("hftsim stopped")

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// runOnce drives one real-time engine pass, streaming trades and
// system-lifecycle events to connected monitor clients as they occur, then
// writes the report artifacts and (if enabled) the run-history record.
func runOnce(cfg *config.Config, mgr *monitor.Manager, recorder *runstore.Recorder, runID string) {
	tradesPath := filepath.Join(cfg.Report, "trades.csv")
	f, err := os.Create(tradesPath)
	if err != nil {
		log.Fatalf("create trades.csv: %v", err)
	}
	defer f.Close()

	mgr.Broadcast(systemEvent(wire.EventStartOfMessages))
	mgr.Broadcast(systemEvent(wire.EventStartOfMarket))

	p := enginerun.Params{
		DurationS:       cfg.DurationS,
		Rate:            cfg.Rate,
		Symbols:         cfg.Symbols,
		Bursts:          cfg.Bursts,
		Mode:            cfg.Mode,
		Seed:            cfg.Seed,
		Simulated:       false,
		CodeHash:        cfg.CodeHash,
		TradesCSVWriter: f,
		OnTrade: func(tsNs uint64, sym, side int, qty, px float64) {
			mgr.Broadcast(&wire.Message{
				Type:        wire.MsgTrade,
				Timestamp:   int64(tsNs),
				StockLocate: uint16(sym),
				Symbol:      sym,
				Side:        int8(side),
				Qty:         qty,
				Price:       px,
			})
		},
	}

	log.Printf("run %s starting: mode=%s symbols=%d rate=%d duration=%ds seed=%d",
		runID, p.Mode, p.Symbols, p.Rate, p.DurationS, p.Seed)

	res := enginerun.Run(p)

	mgr.Broadcast(systemEvent(wire.EventEndOfMarket))
	mgr.Broadcast(systemEvent(wire.EventEndOfMessages))

	writeReport(cfg.Report, res.Metrics)

	pct := res.Metrics.Latency.Percentiles()
	log.Printf("run %s complete: eps=%.1f p99=%.3fms drops=%d idempotency_violations=%d",
		runID, res.Metrics.EPS, pct.P99, res.Metrics.Reliability.Drops, res.Metrics.Reliability.IdempotencyViolations)

	if recorder != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.SaveRun(saveCtx, runID, res.Metrics); err != nil {
			log.Printf("save run history: %v", err)
		}
	}
}

// runDeterminismCheck runs the engine three times under simulated time and
// writes determinism_result.json alongside each run's own report directory.
// It returns whether the check passed; the caller maps that to the process
// exit code.
func runDeterminismCheck(cfg *config.Config) bool {
	base := enginerun.Params{
		DurationS: cfg.DurationS,
		Rate:      cfg.Rate,
		Symbols:   cfg.Symbols,
		Bursts:    cfg.Bursts,
		Mode:      cfg.Mode,
		Seed:      cfg.Seed,
		CodeHash:  cfg.CodeHash,
	}

	res, err := determinism.Check(base, cfg.Report)
	if err != nil {
		log.Fatalf("determinism check failed: %v", err)
	}

	resultPath := filepath.Join(cfg.Report, "determinism_result.json")
	if err := os.WriteFile(resultPath, []byte(res.ResultJSON()), 0o644); err != nil {
		log.Printf("write determinism_result.json: %v", err)
	}

	if res.Pass {
		log.Printf("determinism check PASSED: checksums=%v", res.Runs)
	} else {
		log.Printf("determinism check FAILED: checksums=%v", res.Runs)
	}
	return res.Pass
}

func writeReport(dir string, m *metrics.Metrics) {
	writeFile(filepath.Join(dir, "metrics.json"), m.ToJSON()+"\n")
	writeFile(filepath.Join(dir, "latency.csv"), m.LatencyCSV())
	writeFile(filepath.Join(dir, "run_fingerprint.txt"), m.RunFingerprintTxt())
	writeFile(filepath.Join(dir, "report.md"), m.ReportMd())
}

func writeFile(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		log.Printf("write %s: %v", path, err)
	}
}

// systemEvent builds a run-lifecycle message broadcast to every monitor
// client regardless of subscription (Symbol -1).
func systemEvent(code byte) *wire.Message {
	return &wire.Message{
		Type:      wire.MsgSystemEvent,
		Timestamp: wire.NanosFromMidnight(),
		Symbol:    -1,
		EventCode: code,
	}
}
