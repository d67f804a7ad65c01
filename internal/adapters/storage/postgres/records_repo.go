package postgres

import (
	"context"
	"database/sql"

	"health-records/internal/domain/records"
)

var _ records.Store = (*RecordsRepo)(nil)

// RecordsRepo guarda cada registro como una fila; seq conserva el orden de inserción.
type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

func (r *RecordsRepo) Append(ctx context.Context, rec records.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_records (
			name, email,
			age, weight, height,
			blood_pressure, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		rec.Name,
		rec.Email,
		toNullInt(rec.Age),
		toNullFloat(rec.Weight),
		toNullFloat(rec.Height),
		toNullString(rec.BloodPressure),
		toNullString(rec.Notes),
	)
	return err
}

func (r *RecordsRepo) LoadAll(ctx context.Context) ([]records.Record, error) {
	return r.Filter(ctx, records.Query{})
}

// Filter empuja los predicados a SQL. strpos evita que % y _ del nombre actúen como comodines.
func (r *RecordsRepo) Filter(ctx context.Context, q records.Query) ([]records.Record, error) {
	var name sql.NullString
	if q.Name != nil && *q.Name != "" {
		name = sql.NullString{String: *q.Name, Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			name, email,
			age, weight, height,
			blood_pressure, notes
		FROM health_records
		WHERE ($1::text IS NULL OR strpos(lower(name), lower($1::text)) > 0)
		  AND ($2::integer IS NULL OR age = $2::integer)
		ORDER BY seq ASC
	`, name, toNullInt(q.Age))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]records.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}

func scanRecord(rows *sql.Rows) (records.Record, error) {
	var (
		rec    records.Record
		age    sql.NullInt64
		weight sql.NullFloat64
		height sql.NullFloat64
		bp     sql.NullString
		notes  sql.NullString
	)
	if err := rows.Scan(
		&rec.Name,
		&rec.Email,
		&age,
		&weight,
		&height,
		&bp,
		&notes,
	); err != nil {
		return records.Record{}, err
	}

	if age.Valid {
		n := int(age.Int64)
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
	return rec, nil
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func toNullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
