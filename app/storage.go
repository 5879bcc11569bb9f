package app

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/junaidrashid-git/shopeasy-api/config"
	"github.com/junaidrashid-git/shopeasy-api/storage"
	"github.com/junaidrashid-git/shopeasy-api/storage/kv"
	"github.com/junaidrashid-git/shopeasy-api/storage/mongostore"
	"github.com/junaidrashid-git/shopeasy-api/storage/pgstore"
)

// OpenStorage builds the adapter STORAGE_BACKEND names. Nothing else in the
// program looks at the backend.
func OpenStorage(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (storage.Adapter, error) {
	switch cfg.StorageBackend {
	case config.BackendLocal:
		store, err := openSubstrate(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.WithField("substrate", cfg.LocalSubstrate).Info("✅ Local storage ready")
		return kv.New(store), nil

	case config.BackendMongo:
		store, err := mongostore.Open(ctx, mongostore.Options{
			URI:                    cfg.MongoURI,
			Database:               cfg.MongoDatabase,
			MaxPoolSize:            cfg.MongoMaxPoolSize,
			ServerSelectionTimeout: cfg.MongoServerSelectionTimeout,
		})
		if err != nil {
			return nil, err
		}
		log.WithField("database", cfg.MongoDatabase).Info("✅ Connected to MongoDB")
		return store, nil

	case config.BackendPostgres:
		db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
			TranslateError:         true,
			SkipDefaultTransaction: true,
			Logger:                 logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			return nil, errors.Wrap(err, "connect postgres")
		}
		store := pgstore.New(db)
		if err := store.Migrate(); err != nil {
			_ = store.Close(ctx)
			return nil, errors.Wrap(err, "migrate documents table")
		}
		log.Info("✅ Connected to Postgres")
		return store, nil
	}
	return nil, errors.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
}

func openSubstrate(ctx context.Context, cfg config.Config) (kv.Store, error) {
	switch cfg.LocalSubstrate {
	case config.SubstrateDir:
		return kv.NewDirStore(cfg.DataDir)
	case config.SubstrateRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, errors.Wrap(err, "ping redis")
		}
		return kv.NewRedisStore(client, cfg.RedisNamespace), nil
	case config.SubstrateMemory:
		return kv.NewMemoryStore(), nil
	}
	return nil, errors.Errorf("unknown LOCAL_SUBSTRATE %q", cfg.LocalSubstrate)
}
