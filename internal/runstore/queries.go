package runstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// RunRecord is a persisted summary of one completed engine run.
type RunRecord struct {
	RunID                 string  `json:"runId"                bson:"run_id"`
	Seed                  int64   `json:"seed"                 bson:"seed"`
	CodeHash              string  `json:"codeHash"             bson:"code_hash"`
	Symbols               int     `json:"symbols"              bson:"symbols"`
	Rate                  int     `json:"rate"                 bson:"rate"`
	Mode                  string  `json:"mode"                 bson:"mode"`
	P50Ms                 float64 `json:"p50Ms"                bson:"p50_ms"`
	P95Ms                 float64 `json:"p95Ms"                bson:"p95_ms"`
	P99Ms                 float64 `json:"p99Ms"                bson:"p99_ms"`
	MaxMs                 float64 `json:"maxMs"                bson:"max_ms"`
	JitterRatio           float64 `json:"jitterRatio"          bson:"jitter_ratio"`
	EPS                    float64 `json:"eps"                  bson:"eps"`
	Drops                 uint64  `json:"drops"                bson:"drops"`
	QueueDepthMax          uint64  `json:"queueDepthMax"        bson:"queue_depth_max"`
	IdempotencyViolations  uint64  `json:"idempotencyViolations" bson:"idempotency_violations"`
	ExposureBlocks         uint64  `json:"exposureBlocks"       bson:"exposure_blocks"`
	RSSMb                  float64 `json:"rssMb"                bson:"rss_mb"`
	MetricsJSON            string  `json:"metricsJson"          bson:"metrics_json"`
	CompletedAt            time.Time `json:"completedAt"        bson:"completed_at"`
}

// RunFilter controls which runs to return.
type RunFilter struct {
	CodeHash string
	Mode     string
	Limit    int
	Offset   int
	From     *time.Time
	To       *time.Time
}

// RunStats holds aggregate statistics across stored runs.
type RunStats struct {
	TotalRuns  int64   `json:"totalRuns"`
	AvgEPS     float64 `json:"avgEps"`
	AvgP99Ms   float64 `json:"avgP99Ms"`
}

// RunReader abstracts read-only run-history queries.
type RunReader interface {
	QueryRuns(ctx context.Context, f RunFilter) ([]RunRecord, error)
	QueryRunStats(ctx context.Context) (RunStats, error)
}

// MongoRunReader implements RunReader using a mongo.Database.
type MongoRunReader struct {
	db *mongo.Database
}

// NewMongoRunReader creates a new MongoRunReader.
func NewMongoRunReader(db *mongo.Database) *MongoRunReader {
	return &MongoRunReader{db: db}
}

// QueryRuns returns stored runs with optional filtering and pagination,
// most recent first.
func (r *MongoRunReader) QueryRuns(ctx context.Context, f RunFilter) ([]RunRecord, error) {
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = 100
	}

	filter := bson.M{}
	if f.CodeHash != "" {
		filter["code_hash"] = f.CodeHash
	}
	if f.Mode != "" {
		filter["mode"] = f.Mode
	}
	if f.From != nil || f.To != nil {
		timeFilter := bson.M{}
		if f.From != nil {
			timeFilter["$gte"] = *f.From
		}
		if f.To != nil {
			timeFilter["$lte"] = *f.To
		}
		filter["completed_at"] = timeFilter
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "completed_at", Value: -1}}).
		SetLimit(int64(f.Limit)).
		SetSkip(int64(f.Offset))

	cursor, err := r.db.Collection("runs").Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer cursor.Close(ctx)

	runs := []RunRecord{}
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	return runs, nil
}

// QueryRunStats returns aggregate statistics across every stored run.
func (r *MongoRunReader) QueryRunStats(ctx context.Context) (RunStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_runs", Value: bson.M{"$sum": 1}},
			{Key: "avg_eps", Value: bson.M{"$avg": "$eps"}},
			{Key: "avg_p99_ms", Value: bson.M{"$avg": "$p99_ms"}},
		}}},
	}

	cursor, err := r.db.Collection("runs").Aggregate(ctx, pipeline)
	if err != nil {
		return RunStats{}, fmt.Errorf("query run stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalRuns int64   `bson:"total_runs"`
		AvgEPS    float64 `bson:"avg_eps"`
		AvgP99Ms  float64 `bson:"avg_p99_ms"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return RunStats{}, fmt.Errorf("decode run stats: %w", err)
	}

	if len(results) == 0 {
		return RunStats{}, nil
	}
	return RunStats{
		TotalRuns: results[0].TotalRuns,
		AvgEPS:    results[0].AvgEPS,
		AvgP99Ms:  results[0].AvgP99Ms,
	}, nil
}
