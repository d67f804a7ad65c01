package records

import "strings"

// Record es una entrada de salud enviada por un usuario.
// Los opcionales son punteros: nil = "no enviado", nunca 0 ni "".
// Los tags json definen el formato del documento persistido: cada objeto
// lleva solo las claves presentes (datos viejos pueden no tener email).
type Record struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`

	Age    *int     `json:"age,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
	Height *float64 `json:"height,omitempty"`

	BloodPressure *string `json:"blood_pressure,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// Query filtra por substring de nombre (case-insensitive) y/o edad exacta.
// Sin criterios, matchea todo.
type Query struct {
	Name *string
	Age  *int
}

// IsEmpty reporta si la query no tiene criterios activos.
func (q Query) IsEmpty() bool {
	return q.nameNeedle() == "" && q.Age == nil
}

// Matches aplica los predicados activos en AND.
// Un registro sin name nunca matchea un filtro de nombre, y uno sin age
// nunca matchea un filtro de edad.
func (q Query) Matches(r Record) bool {
	if needle := q.nameNeedle(); needle != "" {
		if r.Name == "" || !strings.Contains(strings.ToLower(r.Name), needle) {
			return false
		}
	}
	if q.Age != nil {
		if r.Age == nil || *r.Age != *q.Age {
			return false
		}
	}
	return true
}

// nameNeedle: "" se trata igual que ausente.
func (q Query) nameNeedle() string {
	if q.Name == nil {
		return ""
	}
	return strings.ToLower(*q.Name)
}

// FilterRecords hace el scan lineal y conserva el orden de almacenamiento.
// Siempre devuelve un slice no-nil.
func FilterRecords(items []Record, q Query) []Record {
	out := make([]Record, 0, len(items))
	for _, r := range items {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
