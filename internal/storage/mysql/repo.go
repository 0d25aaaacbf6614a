package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"frontdesk_kiosk/internal/domain"
)

func valDate(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Repo is the MySQL-backed guest registry.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Upsert(ctx context.Context, p domain.GuestProfile) error {
	_, err := r.db.ExecContext(ctx, upsertGuestSQL,
		p.GuestID,
		strings.ToUpper(strings.TrimSpace(p.IDType)),
		strings.TrimSpace(p.IDNumber),
		p.FullName,
		p.Rating,
		valDate(p.ActiveSince),
		valDate(p.LatestActivity),
	)
	return err
}

func (r *Repo) FindByIdentity(ctx context.Context, idType, idNumber string) (domain.GuestProfile, error) {
	row := r.db.QueryRowContext(ctx, findGuestSQL,
		strings.ToUpper(strings.TrimSpace(idType)),
		strings.TrimSpace(idNumber),
	)

	var p domain.GuestProfile
	var since, latest sql.NullString
	if err := row.Scan(&p.GuestID, &p.IDType, &p.IDNumber, &p.FullName, &p.Rating, &since, &latest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.GuestProfile{}, domain.ErrNotFound
		}
		return domain.GuestProfile{}, err
	}
	p.ActiveSince = since.String
	p.LatestActivity = latest.String
	return p, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countGuestsSQL).Scan(&n)
	return n, err
}
