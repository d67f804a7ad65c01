// Package objectstore guarda la Record Collection como un único objeto JSON en S3/minio,
// con el mismo formato que el backend de archivo.
package objectstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/minio/minio-go/v7"

	"health-records/internal/domain/records"
	"health-records/internal/platform/logger"
)

var _ records.Store = (*Store)(nil)

var errBlobNotFound = errors.New("object not found")

// blob abstrae el objeto remoto; Get devuelve errBlobNotFound si no existe.
type blob interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, data []byte) error
}

type Store struct {
	blob   blob
	policy records.ReadPolicy
	log    logger.Logger
	mu     sync.Mutex
}

func NewStore(client *minio.Client, bucket, object string, policy records.ReadPolicy, log logger.Logger) *Store {
	if object == "" {
		object = "data.json"
	}
	return newStore(&minioBlob{client: client, bucket: bucket, object: object}, policy, log)
}

func newStore(b blob, policy records.ReadPolicy, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	if policy == "" {
		policy = records.ReadPolicyRecover
	}
	fields := logger.Fields{"component": "object-store"}
	if s, ok := b.(fmt.Stringer); ok {
		fields["object"] = s.String()
	}
	return &Store{
		blob:   b,
		policy: policy,
		log:    log.With(fields),
	}
}

// Append es read-modify-write del objeto completo; el mutex solo cubre este proceso.
// Los elementos previos se reescriben tal cual.
func (s *Store) Append(ctx context.Context, r records.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	elems, err := s.loadElements(ctx)
	if err != nil {
		return err
	}

	rec, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	doc, err := records.EncodeElements(append(elems, rec))
	if err != nil {
		return err
	}
	if err := s.blob.Put(ctx, doc); err != nil {
		return fmt.Errorf("put records object: %w", err)
	}
	return nil
}

func (s *Store) LoadAll(ctx context.Context) ([]records.Record, error) {
	data, err := s.get(ctx)
	if err != nil {
		return s.unreadable(err)
	}

	items, issues, err := records.DecodeDocument(data)
	if err != nil {
		return s.unreadable(err)
	}
	records.LogDecodeIssues(s.log, issues)
	return items, nil
}

func (s *Store) Filter(ctx context.Context, q records.Query) ([]records.Record, error) {
	items, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return records.FilterRecords(items, q), nil
}

// get devuelve el objeto; inexistente = documento vacío.
func (s *Store) get(ctx context.Context) ([]byte, error) {
	data, err := s.blob.Get(ctx)
	if errors.Is(err, errBlobNotFound) {
		return nil, nil
	}
	return data, err
}

func (s *Store) loadElements(ctx context.Context) ([]json.RawMessage, error) {
	data, err := s.get(ctx)
	if err == nil {
		var elems []json.RawMessage
		if elems, err = records.SplitDocument(data); err == nil {
			return elems, nil
		}
	}

	if s.policy == records.ReadPolicyStrict {
		return nil, fmt.Errorf("%w: %v", records.ErrStorageUnavailable, err)
	}
	s.log.Warn("overwriting unreadable records object", logger.Fields{"err": err})
	return []json.RawMessage{}, nil
}

func (s *Store) unreadable(cause error) ([]records.Record, error) {
	if s.policy == records.ReadPolicyStrict {
		return nil, fmt.Errorf("%w: %v", records.ErrStorageUnavailable, cause)
	}
	s.log.Warn("records object unreadable, treating as empty", logger.Fields{"err": cause})
	return []records.Record{}, nil
}
