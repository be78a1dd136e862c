package referral

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

// NewRepo returns the PostgreSQL-backed repository.
func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const refCols = `id, patient_name, insurance, status, raw_text, parsed_data, created_at`

func (r *repoPG) Create(ctx context.Context, ref *Referral) error {
	parsed, err := json.Marshal(ref.ParsedData)
	if err != nil {
		return fmt.Errorf("marshal parsed_data: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO referral (patient_name, insurance, status, raw_text, parsed_data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		ref.PatientName, ref.Insurance, ref.Status, ref.RawText, parsed,
	).Scan(&ref.ID, &ref.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert referral: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Referral, error) {
	ref, err := scanReferral(r.pool.QueryRow(ctx,
		`SELECT `+refCols+` FROM referral WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return ref, err
}

func (r *repoPG) List(ctx context.Context, f ListFilter) ([]*Referral, error) {
	q := `SELECT ` + refCols + ` FROM referral`
	var conds []string
	var args []interface{}

	if f.Status != "" && f.Status != "all" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(patient_name ILIKE $%d OR insurance ILIKE $%d)", n, n))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	// Newest first; id breaks ties for rows created in the same instant.
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := []*Referral{}
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *repoPG) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE referral SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanReferral(row pgx.Row) (*Referral, error) {
	var ref Referral
	var parsed []byte
	err := row.Scan(&ref.ID, &ref.PatientName, &ref.Insurance, &ref.Status,
		&ref.RawText, &parsed, &ref.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(parsed) > 0 {
		if err := json.Unmarshal(parsed, &ref.ParsedData); err != nil {
			return nil, fmt.Errorf("unmarshal parsed_data: %w", err)
		}
	}
	return &ref, nil
}
