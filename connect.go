package tagger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

var (
	dbMu     sync.RWMutex
	globalDB *mongo.Database
)

// Connect establishes a connection to MongoDB and returns the database handle.
// It also stores the database reference globally so repositories built without
// an explicit handle can fall back to it.
func Connect(ctx context.Context, uri string, dbName string) (*mongo.Database, error) {
	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("tagger: failed to connect: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("tagger: failed to ping: %w", err)
	}

	db := client.Database(dbName)

	dbMu.Lock()
	globalDB = db
	dbMu.Unlock()

	return db, nil
}

// RetryOptions bounds the exponential backoff used by ConnectWithRetry.
type RetryOptions struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration // 0 retries forever
	Logger          *zap.Logger
}

// ConnectWithRetry calls Connect until it succeeds or the backoff gives up.
// Only startup uses this; request-path store calls are never retried.
func ConnectWithRetry(ctx context.Context, uri string, dbName string, opt RetryOptions) (*mongo.Database, error) {
	logger := opt.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bo := backoff.NewExponentialBackOff()
	if opt.InitialInterval > 0 {
		bo.InitialInterval = opt.InitialInterval
	}
	if opt.MaxInterval > 0 {
		bo.MaxInterval = opt.MaxInterval
	}
	bo.MaxElapsedTime = opt.MaxElapsedTime

	var db *mongo.Database
	err := backoff.RetryNotify(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		d, err := Connect(pingCtx, uri, dbName)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		db = d
		return nil
	}, backoff.WithContext(bo, ctx), func(err error, next time.Duration) {
		logger.Warn("retrying MongoDB connection",
			zap.String("database", dbName),
			zap.Duration("next_attempt", next),
			zap.Error(err),
		)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("connected to MongoDB", zap.String("database", dbName))
	return db, nil
}

// DB returns the globally stored database reference.
// Returns nil if Connect has not been called.
func DB() *mongo.Database {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return globalDB
}

// Disconnect closes the client behind the global database handle, if any.
func Disconnect(ctx context.Context) error {
	dbMu.Lock()
	db := globalDB
	globalDB = nil
	dbMu.Unlock()

	if db == nil {
		return nil
	}
	return db.Client().Disconnect(ctx)
}

// getDB returns the provided database or falls back to the global DB().
func getDB(optDB *mongo.Database) (*mongo.Database, error) {
	if optDB != nil {
		return optDB, nil
	}
	db := DB()
	if db == nil {
		return nil, ErrNoDatabase
	}
	return db, nil
}
