package records

import (
	"context"
	"strings"
)

// Store es el único dueño del estado persistido (la Record Collection).
// Cualquier endurecimiento (locks, rename atómico, logs append-only) vive detrás de esta interfaz.
type Store interface {
	// Append agrega al final; la colección crece exactamente en uno.
	Append(ctx context.Context, r Record) error
	// LoadAll devuelve la colección completa en orden de inserción.
	LoadAll(ctx context.Context) ([]Record, error)
	// Filter devuelve la subsecuencia que matchea q, en orden de almacenamiento.
	Filter(ctx context.Context, q Query) ([]Record, error)
}

// Notifier recibe los registros recién guardados (p.ej. para publicar un evento).
type Notifier interface {
	RecordSubmitted(ctx context.Context, r Record) error
}

// ReadPolicy decide qué pasa cuando el backend no se puede leer.
type ReadPolicy string

const (
	// ReadPolicyRecover: cualquier falla de lectura = colección vacía.
	// Append sobre un store ilegible lo sobrescribe.
	ReadPolicyRecover ReadPolicy = "recover"
	// ReadPolicyStrict: store ausente = vacío; store corrupto o I/O error = ErrStorageUnavailable.
	ReadPolicyStrict ReadPolicy = "strict"
)

func ParseReadPolicy(s string) ReadPolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return ReadPolicyStrict
	default:
		return ReadPolicyRecover
	}
}
