// Package archive periodically moves old run-history documents from
// MongoDB to local gzipped NDJSON files, so the "runs" collection stays
// small while a full history remains available on disk.
package archive

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Archiver periodically moves old runs from MongoDB to local gzipped NDJSON
// files, deleting the oldest archives when total size exceeds maxBytes.
type Archiver struct {
	db       *mongo.Database
	dir      string
	maxBytes int64
	interval time.Duration
	maxAge   time.Duration
}

// New creates a new Archiver.
func New(db *mongo.Database, dir string, maxGB, intervalHours, afterHours int) *Archiver {
	return &Archiver{
		db:       db,
		dir:      dir,
		maxBytes: int64(maxGB) * 1 << 30,
		interval: time.Duration(intervalHours) * time.Hour,
		maxAge:   time.Duration(afterHours) * time.Hour,
	}
}

// Run starts the periodic archive loop. Blocks until ctx is cancelled.
func (a *Archiver) Run(ctx context.Context) {
	log.Printf("run archiver: dir=%s max=%dGB interval=%v age=%v",
		a.dir, a.maxBytes>>30, a.interval, a.maxAge)

	a.cycle(ctx)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.cycle(ctx)
		}
	}
}

func (a *Archiver) cycle(ctx context.Context) {
	cursor, err := a.loadCursor(ctx)
	if err != nil {
		log.Printf("run archiver: load cursor: %v", err)
		return
	}

	cutoff := time.Now().Add(-a.maxAge)
	if !cursor.Before(cutoff) {
		return
	}

	runs, err := a.queryRuns(ctx, cursor, cutoff)
	if err != nil {
		log.Printf("run archiver: query: %v", err)
		return
	}
	if len(runs) == 0 {
		a.saveCursor(ctx, cutoff)
		return
	}

	batches := groupByDay(runs)

	for day, batch := range batches {
		if err := a.writeBatch(day, batch); err != nil {
			log.Printf("run archiver: write %s: %v", day, err)
			return
		}

		if err := a.deleteBatch(ctx, batch); err != nil {
			log.Printf("run archiver: delete %s: %v", day, err)
			return
		}

		log.Printf("run archiver: archived %d runs for %s", len(batch), day)
	}

	a.saveCursor(ctx, cutoff)
	a.rotate()
}

// runDoc mirrors the MongoDB run document.
type runDoc struct {
	RunID       string    `bson:"run_id"       json:"run_id"`
	Seed        int64     `bson:"seed"         json:"seed"`
	CodeHash    string    `bson:"code_hash"    json:"code_hash"`
	Symbols     int       `bson:"symbols"      json:"symbols"`
	Rate        int       `bson:"rate"         json:"rate"`
	Mode        string    `bson:"mode"         json:"mode"`
	EPS         float64   `bson:"eps"          json:"eps"`
	P99Ms       float64   `bson:"p99_ms"       json:"p99_ms"`
	MetricsJSON string    `bson:"metrics_json" json:"metrics_json"`
	CompletedAt time.Time `bson:"completed_at" json:"completed_at"`
}

func (a *Archiver) loadCursor(ctx context.Context) (time.Time, error) {
	var doc struct {
		ValueTime time.Time `bson:"value_time"`
	}
	err := a.db.Collection("sim_state").FindOne(ctx, bson.M{"key": "archive_cursor"}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return doc.ValueTime, nil
}

func (a *Archiver) saveCursor(ctx context.Context, t time.Time) {
	_, err := a.db.Collection("sim_state").UpdateOne(ctx,
		bson.M{"key": "archive_cursor"},
		bson.M{"$set": bson.M{
			"key":        "archive_cursor",
			"value_time": t,
			"updated_at": time.Now(),
		}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		log.Printf("run archiver: save cursor: %v", err)
	}
}

func (a *Archiver) queryRuns(ctx context.Context, from, to time.Time) ([]runDoc, error) {
	filter := bson.M{
		"completed_at": bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: 1}})

	cur, err := a.db.Collection("runs").Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find runs: %w", err)
	}
	defer cur.Close(ctx)

	var runs []runDoc
	if err := cur.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	return runs, nil
}

func groupByDay(runs []runDoc) map[string][]runDoc {
	batches := make(map[string][]runDoc)
	for _, r := range runs {
		day := r.CompletedAt.UTC().Format("2006/01/02")
		batches[day] = append(batches[day], r)
	}
	return batches
}

// writeBatch writes runs as gzipped NDJSON to dir/runs/YYYY/MM/DD.jsonl.gz.
func (a *Archiver) writeBatch(day string, runs []runDoc) error {
	path := filepath.Join(a.dir, "runs", day+".jsonl.gz")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := json.NewEncoder(gz)
	for _, r := range runs {
		if err := enc.Encode(r); err != nil {
			gz.Close()
			return fmt.Errorf("encode: %w", err)
		}
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("gzip close: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (a *Archiver) deleteBatch(ctx context.Context, runs []runDoc) error {
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.RunID
	}

	_, err := a.db.Collection("runs").DeleteMany(ctx, bson.M{
		"run_id": bson.M{"$in": ids},
	})
	if err != nil {
		return fmt.Errorf("delete archived runs: %w", err)
	}
	return nil
}

// rotate deletes the oldest archive files until total size is under maxBytes.
func (a *Archiver) rotate() {
	root := filepath.Join(a.dir, "runs")

	type entry struct {
		path string
		size int64
	}

	var files []entry
	var total int64

	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		files = append(files, entry{path: path, size: info.Size()})
		total += info.Size()
		return nil
	})

	if total <= a.maxBytes {
		return
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].path < files[j].path
	})

	for _, f := range files {
		if total <= a.maxBytes {
			break
		}
		if err := os.Remove(f.path); err != nil {
			log.Printf("run archiver: remove %s: %v", f.path, err)
			continue
		}
		total -= f.size
		log.Printf("run archiver: rotated out %s (%d bytes)", f.path, f.size)
	}
}
