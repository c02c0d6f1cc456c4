package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kordei/zoneboard/internal/domain"
)

type SchemaRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *SchemaRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

type seedZone struct {
	name     string
	capacity int
	isVip    bool
	branch   string
}

// SeedRoster is the fixed zone roster provisioned on first start. It is
// inserted only while the zones table is empty; once any zone exists the
// roster definition is never re-applied, even if it changes between
// releases.
var SeedRoster = []seedZone{
	{"Зона 1", 6, false, domain.BranchMoskovskoe},
	{"Зона 2", 6, false, domain.BranchMoskovskoe},
	{"Зона 3", 6, false, domain.BranchMoskovskoe},
	{"Зона 4", 8, false, domain.BranchMoskovskoe},
	{"Зона 5", 8, false, domain.BranchMoskovskoe},
	{"Зона 6", 6, false, domain.BranchMoskovskoe},
	{"Зона 7", 6, false, domain.BranchMoskovskoe},
	{"Зона 8", 8, false, domain.BranchMoskovskoe},
	{"Зона 9", 6, false, domain.BranchMoskovskoe},
	{"Зона 10", 6, false, domain.BranchMoskovskoe},
	{"Зона 11", 6, false, domain.BranchMoskovskoe},
	{"VIP-17", 10, true, domain.BranchMoskovskoe},
	{"VIP-18", 12, true, domain.BranchMoskovskoe},
	{"Зона 1", 6, false, domain.BranchPolevaya},
	{"Зона 2", 6, false, domain.BranchPolevaya},
	{"Зона 3", 6, false, domain.BranchPolevaya},
	{"Зона 4", 8, false, domain.BranchPolevaya},
	{"Зона 5", 8, false, domain.BranchPolevaya},
	{"Зона 6", 6, false, domain.BranchPolevaya},
	{"Зона 7", 6, false, domain.BranchPolevaya},
	{"Зона 8", 8, false, domain.BranchPolevaya},
	{"Зона 9", 6, false, domain.BranchPolevaya},
}

// Initialize sets up the schema and seed data. Safe to run on every process
// start: tables are create-if-absent, the needs_cleaning column is added to
// schemas that predate it, and the roster is seeded only when the zones
// table is empty.
func (r *SchemaRepo) Initialize(ctx context.Context) error {
	const op = "postgresrepo.SchemaRepo.Initialize"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS zones (
			id SERIAL PRIMARY KEY,
			name VARCHAR(50) NOT NULL,
			capacity INTEGER NOT NULL,
			is_vip BOOLEAN DEFAULT FALSE,
			branch VARCHAR(100) NOT NULL,
			needs_cleaning BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	); err != nil {
		return wrapDBErr(op, err)
	}

	if _, err := db.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS bookings (
			id SERIAL PRIMARY KEY,
			zone_id INTEGER REFERENCES zones(id) ON DELETE CASCADE,
			zone_name VARCHAR(50) NOT NULL,
			branch VARCHAR(100) NOT NULL,
			time VARCHAR(10) NOT NULL,
			name VARCHAR(255) NOT NULL,
			guests INTEGER NOT NULL,
			phone VARCHAR(20),
			status VARCHAR(20) DEFAULT 'pending',
			happy_hours BOOLEAN DEFAULT FALSE,
			comment TEXT,
			vr BOOLEAN DEFAULT FALSE,
			hookah BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	); err != nil {
		return wrapDBErr(op, err)
	}

	// zones tables created by earlier releases lack the cleaning flag
	if _, err := db.Exec(ctx,
		`ALTER TABLE zones ADD COLUMN IF NOT EXISTS needs_cleaning BOOLEAN DEFAULT FALSE`,
	); err != nil {
		return wrapDBErr(op, err)
	}

	var count int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM zones`).Scan(&count); err != nil {
		return wrapDBErr(op, err)
	}
	if count > 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, z := range SeedRoster {
		batch.Queue(
			`INSERT INTO zones (name, capacity, is_vip, branch)
			 VALUES ($1, $2, $3, $4)`,
			z.name, z.capacity, z.isVip, z.branch,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}
