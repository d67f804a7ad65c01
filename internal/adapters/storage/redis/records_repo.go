// Package redis guarda la Record Collection en una lista de Redis (un elemento JSON por registro).
// RPUSH es atómico, así que appends concurrentes no se pisan.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"health-records/internal/domain/records"
	"health-records/internal/platform/logger"
)

var _ records.Store = (*RecordsRepo)(nil)

const DefaultKey = "health:records"

type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient crea el cliente y hace ping con timeout corto.
func NewClient(ctx context.Context, cfg Config) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

type RecordsRepo struct {
	rdb goredis.Cmdable
	key string
	log logger.Logger
}

func NewRecordsRepo(rdb goredis.Cmdable, key string, log logger.Logger) *RecordsRepo {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RecordsRepo{
		rdb: rdb,
		key: key,
		log: log.With(logger.Fields{"component": "redis-store", "key": key}),
	}
}

func (r *RecordsRepo) Append(ctx context.Context, rec records.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return r.rdb.RPush(ctx, r.key, b).Err()
}

// LoadAll lee la lista completa con la misma coerción que el documento.
// Un elemento ilegible se salta (y se loguea) sin abortar el resto.
func (r *RecordsRepo) LoadAll(ctx context.Context) ([]records.Record, error) {
	vals, err := r.rdb.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]records.Record, 0, len(vals))
	var issues []records.DecodeIssue
	for i, v := range vals {
		rec, dropped, err := records.DecodeRecord(json.RawMessage(v))
		if err != nil {
			issues = append(issues, records.DecodeIssue{Index: i, Err: err})
			continue
		}
		if len(dropped) > 0 {
			issues = append(issues, records.DecodeIssue{Index: i, Dropped: dropped})
		}
		out = append(out, rec)
	}
	records.LogDecodeIssues(r.log, issues)
	return out, nil
}

func (r *RecordsRepo) Filter(ctx context.Context, q records.Query) ([]records.Record, error) {
	items, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return records.FilterRecords(items, q), nil
}
