package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sefazor/photoview-backend/internal/config"
)

// readPreferences maps config values to driver read preferences.
var readPreferences = map[string]*readpref.ReadPref{
	"PRIMARY":             readpref.Primary(),
	"SECONDARY":           readpref.Secondary(),
	"PRIMARY_PREFERRED":   readpref.PrimaryPreferred(),
	"SECONDARY_PREFERRED": readpref.SecondaryPreferred(),
}

// NewMongoDatabase connects to the document store using the configured
// replica-read policy and verifies connectivity with a ping.
func NewMongoDatabase(ctx context.Context, cfg *config.Config) (*mongo.Database, error) {
	rp, ok := readPreferences[cfg.MongoReadPreference]
	if !ok {
		return nil, fmt.Errorf("unknown read preference %q", cfg.MongoReadPreference)
	}

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetReadPreference(rp)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, rp); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client.Database(cfg.MongoDB), nil
}
