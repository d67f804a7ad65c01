package memory

import (
	"context"
	"sync"

	"health-records/internal/domain/records"
)

// recordRepo mantiene la colección solo en memoria (dev / tests). Se pierde al reiniciar.
type recordRepo struct {
	mu    sync.RWMutex
	items []records.Record
}

func NewRecordRepo() records.Store {
	return &recordRepo{
		items: make([]records.Record, 0),
	}
}

func (r *recordRepo) Append(ctx context.Context, rec records.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, rec)
	return nil
}

func (r *recordRepo) LoadAll(ctx context.Context) ([]records.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// copia para que el caller no vea appends posteriores
	out := make([]records.Record, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *recordRepo) Filter(ctx context.Context, q records.Query) ([]records.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return records.FilterRecords(r.items, q), nil
}
