package runstore

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// RunRetention periodically deletes run records older than the retention
// period. Blocks until ctx is cancelled. Pass retentionDays <= 0 to disable.
func RunRetention(ctx context.Context, store *Store, retentionDays int) {
	if retentionDays <= 0 {
		log.Println("run retention disabled (keep forever)")
		return
	}

	interval := 1 * time.Hour
	log.Printf("run retention: pruning runs older than %d days every %v", retentionDays, interval)

	prune(ctx, store, retentionDays)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune(ctx, store, retentionDays)
		}
	}
}

func prune(ctx context.Context, store *Store, retentionDays int) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	result, err := store.db.Collection("runs").DeleteMany(ctx, bson.M{
		"completed_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		log.Printf("run retention prune error: %v", err)
		return
	}

	if result.DeletedCount > 0 {
		log.Printf("run retention: pruned %d runs older than %s", result.DeletedCount, cutoff.Format(time.DateOnly))
	}
}
