package mysql

import (
	"context"
	"database/sql"

	"health-records/internal/domain/records"
)

var _ records.Store = (*RecordsRepo)(nil)

type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

func (r *RecordsRepo) Append(ctx context.Context, rec records.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_records (name, email, age, weight, height, blood_pressure, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		rec.Name,
		rec.Email,
		nullable(rec.Age),
		nullable(rec.Weight),
		nullable(rec.Height),
		nullable(rec.BloodPressure),
		nullable(rec.Notes),
	)
	return err
}

func (r *RecordsRepo) LoadAll(ctx context.Context) ([]records.Record, error) {
	return r.Filter(ctx, records.Query{})
}

// Filter: LOCATE en vez de LIKE para que % y _ no sean comodines.
func (r *RecordsRepo) Filter(ctx context.Context, q records.Query) ([]records.Record, error) {
	var name any
	if q.Name != nil && *q.Name != "" {
		name = *q.Name
	}
	age := nullable(q.Age)

	rows, err := r.db.QueryContext(ctx, `
		SELECT name, email, age, weight, height, blood_pressure, notes
		FROM health_records
		WHERE (? IS NULL OR LOCATE(LOWER(?), LOWER(name)) > 0)
		  AND (? IS NULL OR age = ?)
		ORDER BY seq ASC
	`, name, name, age, age)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]records.Record, 0)
	for rows.Next() {
		var (
			rec    records.Record
			ageCol sql.NullInt64
			weight sql.NullFloat64
			height sql.NullFloat64
			bp     sql.NullString
			notes  sql.NullString
		)
		if err := rows.Scan(&rec.Name, &rec.Email, &ageCol, &weight, &height, &bp, &notes); err != nil {
			return nil, err
		}
		if ageCol.Valid {
			n := int(ageCol.Int64)
			rec.Age = &n
		}
		if weight.Valid {
			rec.Weight = &weight.Float64
		}
		if height.Valid {
			rec.Height = &height.Float64
		}
		if bp.Valid {
			rec.BloodPressure = &bp.String
		}
		if notes.Valid {
			rec.Notes = &notes.String
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// nullable convierte punteros nil en NULL para el driver.
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
