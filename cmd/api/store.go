package main

import (
	"context"
	"database/sql"
	"fmt"

	"health-records/internal/adapters/storage/file"
	"health-records/internal/adapters/storage/memory"
	"health-records/internal/adapters/storage/mysql"
	"health-records/internal/adapters/storage/objectstore"
	"health-records/internal/adapters/storage/postgres"
	"health-records/internal/adapters/storage/redis"
	"health-records/internal/config"
	"health-records/internal/domain/records"
	"health-records/internal/platform/logger"
)

// openStore arma el Record Store según RECORD_STORE. El func devuelto libera conexiones.
func openStore(ctx context.Context, cfg config.Config, policy records.ReadPolicy, log logger.Logger) (records.Store, func(), error) {
	noop := func() {}

	switch cfg.Store {
	case config.StoreFile, "":
		return file.NewStore(cfg.DataFile, file.Options{Policy: policy, Logger: log}), noop, nil

	case config.StoreMemory:
		return memory.NewRecordRepo(), noop, nil

	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return postgres.NewRecordsRepo(db), closeDB(db), nil

	case config.StoreMySQL:
		db, err := mysql.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, noop, err
		}
		if err := mysql.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return mysql.NewRecordsRepo(db), closeDB(db), nil

	case config.StoreRedis:
		client, err := redis.NewClient(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, noop, err
		}
		return redis.NewRecordsRepo(client, cfg.Redis.Key, log), func() { _ = client.Close() }, nil

	case config.StoreS3:
		client, err := objectstore.NewClient(ctx, objectstore.Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Object:    cfg.S3.Object,
			Secure:    cfg.S3.Secure,
		})
		if err != nil {
			return nil, noop, err
		}
		return objectstore.NewStore(client, cfg.S3.Bucket, cfg.S3.Object, policy, log), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown RECORD_STORE %q", cfg.Store)
	}
}

func closeDB(db *sql.DB) func() {
	return func() { _ = db.Close() }
}
