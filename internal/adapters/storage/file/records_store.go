// Package file guarda la Record Collection como un único documento JSON indentado.
// Cada Append relee el documento completo y lo reescribe entero.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"

	"health-records/internal/domain/records"
	"health-records/internal/platform/logger"
)

var _ records.Store = (*Store)(nil)

const defaultPerm os.FileMode = 0o644

type Options struct {
	Policy records.ReadPolicy
	Logger logger.Logger
	Perm   os.FileMode
}

type Store struct {
	path   string
	policy records.ReadPolicy
	perm   os.FileMode
	log    logger.Logger

	// serializa Append dentro del proceso; entre procesos no hay garantía
	mu sync.Mutex
}

func NewStore(path string, opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	perm := opts.Perm
	if perm == 0 {
		perm = defaultPerm
	}
	policy := opts.Policy
	if policy == "" {
		policy = records.ReadPolicyRecover
	}

	return &Store{
		path:   path,
		policy: policy,
		perm:   perm,
		log:    log.With(logger.Fields{"component": "file-store", "path": path}),
	}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Append(ctx context.Context, r records.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// los elementos previos se reescriben tal cual, aunque alguno no se pueda decodificar
	elems, recovered, err := s.loadElements()
	if err != nil {
		return err
	}
	if recovered {
		s.log.Warn("overwriting unreadable records file", nil)
	}

	rec, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	doc, err := records.EncodeElements(append(elems, rec))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	// rename atómico: un crash a mitad de escritura deja el documento anterior intacto
	if err := renameio.WriteFile(s.path, doc, s.perm); err != nil {
		return fmt.Errorf("write records file: %w", err)
	}
	return nil
}

func (s *Store) LoadAll(ctx context.Context) ([]records.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := s.read()
	if err != nil {
		return s.unreadableRecords(err)
	}

	items, issues, err := records.DecodeDocument(b)
	if err != nil {
		return s.unreadableRecords(err)
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

// read devuelve el contenido del archivo; inexistente = documento vacío.
func (s *Store) read() ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return b, err
}

// loadElements lee el documento sin decodificar sus elementos.
// recovered=true si estaba ilegible y la política lo convirtió en vacío.
func (s *Store) loadElements() (elems []json.RawMessage, recovered bool, err error) {
	b, err := s.read()
	if err == nil {
		elems, err = records.SplitDocument(b)
	}
	if err == nil {
		return elems, false, nil
	}

	if s.policy == records.ReadPolicyStrict {
		return nil, false, fmt.Errorf("%w: %v", records.ErrStorageUnavailable, err)
	}
	s.log.Warn("records file unreadable, treating as empty", logger.Fields{"err": err})
	return []json.RawMessage{}, true, nil
}

func (s *Store) unreadableRecords(cause error) ([]records.Record, error) {
	if s.policy == records.ReadPolicyStrict {
		return nil, fmt.Errorf("%w: %v", records.ErrStorageUnavailable, cause)
	}
	s.log.Warn("records file unreadable, treating as empty", logger.Fields{"err": cause})
	return []records.Record{}, nil
}
