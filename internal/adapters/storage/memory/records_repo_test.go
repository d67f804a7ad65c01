package memory

import (
	"context"
	"sync"
	"testing"

	"health-records/internal/domain/records"
)

func TestRecordRepo_ConcurrentAppendsAreNotLost(t *testing.T) {
	repo := NewRecordRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Append(ctx, records.Record{Name: "n", Email: "e"})
		}()
	}
	wg.Wait()

	items, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if len(items) != 50 {
		t.Fatalf("expected 50 records, got %d", len(items))
	}
}

func TestRecordRepo_FilterKeepsOrder(t *testing.T) {
	repo := NewRecordRepo()
	ctx := context.Background()
	for _, n := range []string{"Ana", "Bob", "anabelle"} {
		_ = repo.Append(ctx, records.Record{Name: n, Email: n})
	}

	needle := "ana"
	items, err := repo.Filter(ctx, records.Query{Name: &needle})
	if err != nil {
		t.Fatalf("Filter returned error: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Ana" || items[1].Name != "anabelle" {
		t.Fatalf("unexpected filter result: %#v", items)
	}
}
