package objectstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-records/internal/domain/records"
)

type memBlob struct {
	data   []byte
	exists bool
	getErr error
	puts   int
}

func (b *memBlob) Get(ctx context.Context) ([]byte, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	if !b.exists {
		return nil, errBlobNotFound
	}
	return append([]byte(nil), b.data...), nil
}

func (b *memBlob) Put(ctx context.Context, data []byte) error {
	b.data = append([]byte(nil), data...)
	b.exists = true
	b.puts++
	return nil
}

func TestStore_MissingObjectIsEmpty(t *testing.T) {
	s := newStore(&memBlob{}, records.ReadPolicyStrict, nil)

	items, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_AppendRewritesWholeDocument(t *testing.T) {
	b := &memBlob{}
	s := newStore(b, records.ReadPolicyRecover, nil)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, records.Record{Name: "Ana", Email: "a@x.com"}))
	require.NoError(t, s.Append(ctx, records.Record{Name: "Bob", Email: "b@x.com"}))

	assert.Equal(t, 2, b.puts)
	items, _, err := records.DecodeDocument(b.data)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Bob", items[1].Name)
}

func TestStore_UnreadableObject(t *testing.T) {
	ctx := context.Background()

	lenient := newStore(&memBlob{getErr: errors.New("timeout")}, records.ReadPolicyRecover, nil)
	items, err := lenient.Filter(ctx, records.Query{})
	require.NoError(t, err)
	assert.Empty(t, items)

	strict := newStore(&memBlob{data: []byte("garbage"), exists: true}, records.ReadPolicyStrict, nil)
	_, err = strict.LoadAll(ctx)
	assert.ErrorIs(t, err, records.ErrStorageUnavailable)
	err = strict.Append(ctx, records.Record{Name: "Ana", Email: "a@x.com"})
	assert.ErrorIs(t, err, records.ErrStorageUnavailable)
}

func TestStore_MixedTypeObjectKeepsRecords(t *testing.T) {
	b := &memBlob{data: []byte(`[{"name":"Ana","age":30},{"name":"Bob","age":"31"},{"name":"Cleo","age":30.0}]`), exists: true}
	s := newStore(b, records.ReadPolicyRecover, nil)
	ctx := context.Background()

	items, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, 30, *items[2].Age)

	require.NoError(t, s.Append(ctx, records.Record{Name: "Dan", Email: "d@x.com"}))
	items, err = s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, "Dan", items[3].Name)
}
