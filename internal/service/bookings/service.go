package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/kordei/zoneboard/internal/domain"
	"github.com/kordei/zoneboard/internal/repository"
)

// UseCase is the transport-facing surface of the booking service.
type UseCase interface {
	ListZones(ctx context.Context, branch string) ([]domain.ZoneWithBookings, error)
	Create(ctx context.Context, zoneID int64, zoneName, branch string, data domain.BookingPatch) (*domain.Booking, error)
	Update(ctx context.Context, id int64, data domain.BookingPatch) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	Delete(ctx context.Context, id int64, skipCleaningFlag bool) error
	Complete(ctx context.Context, id int64, completion domain.CompletionType) error
	ClearAll(ctx context.Context, branch string) (int64, error)
	MarkCleaned(ctx context.Context, zoneID int64) error
}

// BoardCache caches per-branch board snapshots. Optional; a nil cache
// means every list goes straight to the store.
type BoardCache interface {
	GetOrLoad(ctx context.Context, branch string, loader func(ctx context.Context) ([]domain.ZoneWithBookings, error)) ([]domain.ZoneWithBookings, error)
	Invalidate(ctx context.Context, branches ...string) error
}

// Publisher announces board changes to interested subscribers. Optional.
type Publisher interface {
	PublishBoardChanged(ctx context.Context, branch string) error
}

// SchemaInitializer prepares the schema and seed data at startup.
type SchemaInitializer interface {
	Initialize(ctx context.Context) error
}

type Service struct {
	zones    repository.ZoneRepository
	bookings repository.BookingRepository
	schema   SchemaInitializer
	cache    BoardCache
	pubsub   Publisher
}

func New(
	zones repository.ZoneRepository,
	bookings repository.BookingRepository,
	schema SchemaInitializer,
	cache BoardCache,
	pubsub Publisher,
) *Service {
	return &Service{
		zones:    zones,
		bookings: bookings,
		schema:   schema,
		cache:    cache,
		pubsub:   pubsub,
	}
}

// Initialize runs the idempotent schema setup and first-start zone seeding.
func (s *Service) Initialize(ctx context.Context) error {
	const op = "service.bookings.Initialize"

	if s.schema == nil {
		return nil
	}
	if err := s.schema.Initialize(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ListZones returns every zone (optionally filtered by branch) annotated
// with its bookings and cleaning flag, ordered by zone id. No zones is an
// empty result, not an error.
func (s *Service) ListZones(ctx context.Context, branch string) ([]domain.ZoneWithBookings, error) {
	const op = "service.bookings.ListZones"

	if s.cache == nil {
		out, err := s.loadZones(ctx, branch)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return out, nil
	}

	out, err := s.cache.GetOrLoad(ctx, branch, func(ctx context.Context) ([]domain.ZoneWithBookings, error) {
		return s.loadZones(ctx, branch)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) loadZones(ctx context.Context, branch string) ([]domain.ZoneWithBookings, error) {
	zones, err := s.zones.List(ctx, branch)
	if err != nil {
		return nil, err
	}

	zoneIDs := make([]int64, 0, len(zones))
	for _, z := range zones {
		zoneIDs = append(zoneIDs, z.ID)
	}

	all, err := s.bookings.ListByZones(ctx, zoneIDs)
	if err != nil {
		return nil, err
	}

	byZone := make(map[int64][]domain.Booking, len(zones))
	for _, b := range all {
		byZone[b.ZoneID] = append(byZone[b.ZoneID], b)
	}

	out := make([]domain.ZoneWithBookings, 0, len(zones))
	for _, z := range zones {
		bs := byZone[z.ID]
		if bs == nil {
			bs = []domain.Booking{}
		}
		out = append(out, domain.ZoneWithBookings{Zone: z, Bookings: bs})
	}

	return out, nil
}

// Create inserts a booking for a zone. Optional fields not present in data
// take their defaults: empty phone and comment, pending status, all flags
// off. Zone name and branch are captured as passed and never re-joined.
func (s *Service) Create(ctx context.Context, zoneID int64, zoneName, branch string, data domain.BookingPatch) (*domain.Booking, error) {
	const op = "service.bookings.Create"

	b := data.Apply(domain.Booking{
		ZoneID:   zoneID,
		ZoneName: zoneName,
		Branch:   branch,
		Status:   domain.BookingPending,
	})
	if b.Status == "" {
		b.Status = domain.BookingPending
	}

	if err := s.bookings.Create(ctx, &b); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.boardChanged(ctx, branch)

	return &b, nil
}

// Update merges data over the current row and writes all columns back.
func (s *Service) Update(ctx context.Context, id int64, data domain.BookingPatch) (*domain.Booking, error) {
	const op = "service.bookings.Update"

	current, err := s.bookings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	merged := data.Apply(*current)

	updated, err := s.bookings.Update(ctx, &merged)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.boardChanged(ctx, updated.Branch)

	return updated, nil
}

// UpdateStatus touches only the status column.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	const op = "service.bookings.UpdateStatus"

	updated, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.boardChanged(ctx, updated.Branch)

	return updated, nil
}

// Delete removes a booking and, unless suppressed, flags its zone for
// cleaning. The two statements are independent; a failure after the delete
// leaves the zone unflagged.
func (s *Service) Delete(ctx context.Context, id int64, skipCleaningFlag bool) error {
	const op = "service.bookings.Delete"

	current, err := s.bookings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if !skipCleaningFlag {
		if err := s.zones.SetNeedsCleaning(ctx, current.ZoneID, true); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	s.boardChanged(ctx, current.Branch)

	return nil
}

// Complete ends a booking as either completed or no_show. The distinction
// is a caller-facing label only; both variants remove the booking and flag
// the zone for cleaning.
func (s *Service) Complete(ctx context.Context, id int64, completion domain.CompletionType) error {
	const op = "service.bookings.Complete"

	if completion != domain.CompletionCompleted && completion != domain.CompletionNoShow {
		return fmt.Errorf("%s: %w: %q", op, ErrInvalidCompletion, completion)
	}

	if err := s.Delete(ctx, id, false); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ClearAll deletes every booking in a branch and resets the cleaning flag
// on every zone in that branch. Returns the number of bookings removed.
func (s *Service) ClearAll(ctx context.Context, branch string) (int64, error) {
	const op = "service.bookings.ClearAll"

	deleted, err := s.bookings.DeleteByBranch(ctx, branch)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.zones.ResetNeedsCleaning(ctx, branch); err != nil {
		return deleted, fmt.Errorf("%s: %w", op, err)
	}

	s.boardChanged(ctx, branch)

	return deleted, nil
}

// MarkCleaned acknowledges cleaning for one zone.
func (s *Service) MarkCleaned(ctx context.Context, zoneID int64) error {
	const op = "service.bookings.MarkCleaned"

	if err := s.zones.SetNeedsCleaning(ctx, zoneID, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrZoneNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	// the zone's branch is unknown here, so every branch snapshot is dropped
	s.boardChanged(ctx, domain.Branches...)

	return nil
}

// boardChanged invalidates cached snapshots and notifies subscribers.
// Best effort: a cold cache or a missed notification only delays the board
// until the next poll.
func (s *Service) boardChanged(ctx context.Context, branches ...string) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, branches...)
	}
	if s.pubsub != nil {
		for _, branch := range branches {
			_ = s.pubsub.PublishBoardChanged(ctx, branch)
		}
	}
}

var _ UseCase = (*Service)(nil)
