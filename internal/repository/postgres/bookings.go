package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kordei/zoneboard/internal/domain"
	"github.com/kordei/zoneboard/internal/repository"
)

const bookingColumns = `id, zone_id, zone_name, branch, time, name, guests, phone,
	status, happy_hours, comment, vr, hookah, created_at, updated_at`

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(
		&b.ID,
		&b.ZoneID,
		&b.ZoneName,
		&b.Branch,
		&b.Time,
		&b.Name,
		&b.Guests,
		&b.Phone,
		&b.Status,
		&b.HappyHours,
		&b.Comment,
		&b.VR,
		&b.Hookah,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
}

// ListByZones returns all bookings belonging to the given zones, ordered by
// zone id then booking id so board cards render deterministically.
func (r *BookingRepo) ListByZones(ctx context.Context, zoneIDs []int64) ([]domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.ListByZones"

	if len(zoneIDs) == 0 {
		return nil, nil
	}

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings
		 WHERE zone_id = ANY($1)
		 ORDER BY zone_id, id`,
		zoneIDs,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *BookingRepo) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.Get"

	db := r.handle()

	var b domain.Booking
	row := db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`,
		id,
	)
	if err := scanBooking(row, &b); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &b, nil
}

// Create inserts the booking and fills in the generated id and timestamps.
func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	const op = "postgresrepo.BookingRepo.Create"

	db := r.handle()

	row := db.QueryRow(ctx,
		`INSERT INTO bookings (
			zone_id, zone_name, branch, time, name, guests,
			phone, status, happy_hours, comment, vr, hookah
		 )
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		b.ZoneID, b.ZoneName, b.Branch, b.Time, b.Name, b.Guests,
		b.Phone, b.Status, b.HappyHours, b.Comment, b.VR, b.Hookah,
	)
	if err := row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Update writes every mutable column back (full overwrite; the caller merges
// partial input beforehand) and refreshes updated_at.
func (r *BookingRepo) Update(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.Update"

	db := r.handle()

	var out domain.Booking
	row := db.QueryRow(ctx,
		`UPDATE bookings
		 SET zone_id = $1, zone_name = $2, time = $3, name = $4, guests = $5,
		     phone = $6, status = $7, happy_hours = $8, comment = $9,
		     vr = $10, hookah = $11, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $12
		 RETURNING `+bookingColumns,
		b.ZoneID, b.ZoneName, b.Time, b.Name, b.Guests,
		b.Phone, b.Status, b.HappyHours, b.Comment,
		b.VR, b.Hookah, b.ID,
	)
	if err := scanBooking(row, &out); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

// UpdateStatus touches only the status column and updated_at.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.UpdateStatus"

	db := r.handle()

	var out domain.Booking
	row := db.QueryRow(ctx,
		`UPDATE bookings
		 SET status = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2
		 RETURNING `+bookingColumns,
		status, id,
	)
	if err := scanBooking(row, &out); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}

func (r *BookingRepo) Delete(ctx context.Context, id int64) error {
	const op = "postgresrepo.BookingRepo.Delete"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

// DeleteByBranch removes every booking in a branch and returns the count.
func (r *BookingRepo) DeleteByBranch(ctx context.Context, branch string) (int64, error) {
	const op = "postgresrepo.BookingRepo.DeleteByBranch"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM bookings WHERE branch = $1`, branch)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}

var _ repository.BookingRepository = (*BookingRepo)(nil)
