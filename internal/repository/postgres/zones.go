package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kordei/zoneboard/internal/domain"
	"github.com/kordei/zoneboard/internal/repository"
)

type ZoneRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ZoneRepo) With(db DB) *ZoneRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ZoneRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// List returns zones ordered by id, optionally filtered by branch.
// An empty branch means all branches.
func (r *ZoneRepo) List(ctx context.Context, branch string) ([]domain.Zone, error) {
	const op = "postgresrepo.ZoneRepo.List"

	db := r.handle()

	query := `SELECT id, name, capacity, is_vip, branch, needs_cleaning, created_at
	 	  FROM zones
	 	  ORDER BY id`
	args := []any{}

	if branch != "" {
		query = `SELECT id, name, capacity, is_vip, branch, needs_cleaning, created_at
		 	 FROM zones
		 	 WHERE branch = $1
		 	 ORDER BY id`
		args = append(args, branch)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Zone
	for rows.Next() {
		var z domain.Zone
		if err := rows.Scan(
			&z.ID,
			&z.Name,
			&z.Capacity,
			&z.IsVip,
			&z.Branch,
			&z.NeedsCleaning,
			&z.CreatedAt,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// SetNeedsCleaning flips the cleaning flag on a single zone.
func (r *ZoneRepo) SetNeedsCleaning(ctx context.Context, zoneID int64, needsCleaning bool) error {
	const op = "postgresrepo.ZoneRepo.SetNeedsCleaning"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE zones SET needs_cleaning = $1 WHERE id = $2`,
		needsCleaning, zoneID,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

// ResetNeedsCleaning clears the cleaning flag for every zone in a branch.
func (r *ZoneRepo) ResetNeedsCleaning(ctx context.Context, branch string) error {
	const op = "postgresrepo.ZoneRepo.ResetNeedsCleaning"

	if _, err := r.handle().Exec(ctx,
		`UPDATE zones SET needs_cleaning = FALSE WHERE branch = $1`,
		branch,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

var _ repository.ZoneRepository = (*ZoneRepo)(nil)
