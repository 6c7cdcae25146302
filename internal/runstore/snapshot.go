package runstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nanohft/hftsim/internal/metrics"
)

// Recorder persists completed-run fingerprints and metrics to MongoDB.
type Recorder struct {
	store *Store
}

// NewRecorder creates a new Recorder.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// SaveRun upserts a completed run's fingerprint and metrics under runID.
// Safe to call more than once for the same runID (e.g. on retry): the
// write is an upsert, not an insert, so it never raises a duplicate-key
// error.
func (r *Recorder) SaveRun(ctx context.Context, runID string, m *metrics.Metrics) error {
	p := m.Latency.Percentiles()
	f := m.Fingerprint

	doc := bson.M{
		"run_id":                  runID,
		"seed":                    f.Seed,
		"code_hash":               f.CodeHash,
		"symbols":                 f.Symbols,
		"rate":                    f.Rate,
		"mode":                    f.Mode,
		"p50_ms":                  p.P50,
		"p95_ms":                  p.P95,
		"p99_ms":                  p.P99,
		"max_ms":                  p.Max,
		"jitter_ratio":            p.JitterRatio,
		"eps":                     m.EPS,
		"drops":                   m.Reliability.Drops,
		"queue_depth_max":         m.Reliability.QueueDepthMax,
		"idempotency_violations":  m.Reliability.IdempotencyViolations,
		"exposure_blocks":         m.Reliability.ExposureBlocks,
		"rss_mb":                  m.RSSMb,
		"metrics_json":            m.ToJSON(),
		"completed_at":            time.Now(),
	}

	_, err := r.store.db.Collection("runs").UpdateOne(ctx,
		bson.M{"run_id": runID},
		bson.M{"$set": doc},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", runID, err)
	}
	return nil
}

// IncrementRunCounter bumps a persisted run-sequence counter and returns
// its new value, used to derive stable runIDs across restarts.
func (r *Recorder) IncrementRunCounter(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc struct {
		ValueInt int64 `bson:"value_int"`
	}
	err := r.store.db.Collection("sim_state").FindOneAndUpdate(ctx,
		bson.M{"key": "run_counter"},
		bson.M{"$inc": bson.M{"value_int": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 1, nil
		}
		return 0, fmt.Errorf("increment run counter: %w", err)
	}
	return doc.ValueInt, nil
}
