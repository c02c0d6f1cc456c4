package repository

import (
	"context"

	"github.com/kordei/zoneboard/internal/domain"
)

// ZoneRepository is the persistence seam for zones. Zones are seeded once
// and only their cleaning flag mutates afterwards.
type ZoneRepository interface {
	List(ctx context.Context, branch string) ([]domain.Zone, error)
	SetNeedsCleaning(ctx context.Context, zoneID int64, needsCleaning bool) error
	ResetNeedsCleaning(ctx context.Context, branch string) error
}

// BookingRepository is the persistence seam for bookings.
type BookingRepository interface {
	ListByZones(ctx context.Context, zoneIDs []int64) ([]domain.Booking, error)
	Get(ctx context.Context, id int64) (*domain.Booking, error)
	Create(ctx context.Context, b *domain.Booking) error
	Update(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
	DeleteByBranch(ctx context.Context, branch string) (int64, error)
}
