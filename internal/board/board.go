// Package board is the client-side state controller for the booking board.
// It keeps an in-memory list of zones with bookings, refreshes it on a
// poll timer, and applies optimistic local patches for every staff action
// before the server confirms. A delayed authoritative reload reconciles
// successful mutations; a failed mutation forces an immediate reload and
// surfaces an error toast.
package board

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kordei/zoneboard/internal/domain"
)

// API is the data layer the board talks to. *client.Client satisfies it.
type API interface {
	FetchZones(ctx context.Context, branch string) ([]domain.ZoneWithBookings, error)
	CreateBooking(ctx context.Context, zoneID int64, zoneName, branch string, data domain.BookingPatch) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, bookingID int64, data domain.BookingPatch) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, bookingID int64, skipCleaningFlag bool) error
	CompleteBooking(ctx context.Context, bookingID int64, completion domain.CompletionType) error
	ClearAllBookings(ctx context.Context, branch string) (int64, error)
	MarkZoneCleaned(ctx context.Context, zoneID int64) error
}

type StatusFilter string

const (
	FilterAll     StatusFilter = "all"
	FilterActive  StatusFilter = "active"
	FilterPending StatusFilter = "pending"
)

type ToastKind string

const (
	ToastInfo    ToastKind = "info"
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

type Toast struct {
	ID      string
	Message string
	Kind    ToastKind
	At      time.Time
}

type Summary struct {
	Active  int
	Pending int
	Free    int
}

type Config struct {
	Branch         string
	PollInterval   time.Duration  // authoritative reload period, default 30s
	ReconcileDelay time.Duration  // delay before post-mutation reload, default 750ms
	ToastTTL       time.Duration  // default 3s
	Location       *time.Location // venue clock for the happy-hours warning
	Clock          func() time.Time
}

type Board struct {
	api    API
	logger *slog.Logger
	cfg    Config

	mu         sync.Mutex
	zones      []domain.ZoneWithBookings
	filter     StatusFilter
	branch     string
	lastUpdate time.Time
	loading    bool
	toasts     []Toast
}

func New(api API, cfg Config, logger *slog.Logger) *Board {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	if cfg.ReconcileDelay < 0 {
		cfg.ReconcileDelay = 0
	} else if cfg.ReconcileDelay == 0 {
		cfg.ReconcileDelay = 750 * time.Millisecond
	}
	if cfg.ToastTTL <= 0 {
		cfg.ToastTTL = 3 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Branch == "" {
		cfg.Branch = domain.BranchMoskovskoe
	}

	return &Board{
		api:    api,
		logger: logger,
		cfg:    cfg,
		filter: FilterAll,
		branch: cfg.Branch,
	}
}

// Run loads the board and keeps it fresh until ctx is done.
func (b *Board) Run(ctx context.Context) error {
	_ = b.Refresh(ctx)

	ticker := time.NewTicker(b.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_ = b.Refresh(ctx)
		}
	}
}

// Refresh replaces local state with the server's view of the current
// branch. Errors are surfaced as a toast and keep the previous state.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.Lock()
	b.loading = true
	branch := b.branch
	b.mu.Unlock()

	zones, err := b.api.FetchZones(ctx, branch)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.loading = false
	if err != nil {
		b.addToastLocked(ToastError, "Ошибка связи с сервером")
		if b.logger != nil {
			b.logger.Error("board refresh failed", "branch", branch, "error", err)
		}
		return err
	}

	b.zones = zones
	b.lastUpdate = b.cfg.Clock()
	return nil
}

// ManualRefresh is the user-initiated reload: same as Refresh but
// confirms success with a toast.
func (b *Board) ManualRefresh(ctx context.Context) error {
	if err := b.Refresh(ctx); err != nil {
		return err
	}
	b.addToast(ToastSuccess, "Данные обновлены")
	return nil
}

// SetBranch switches the selected branch and reloads.
func (b *Board) SetBranch(ctx context.Context, branch string) error {
	b.mu.Lock()
	b.branch = branch
	b.mu.Unlock()
	return b.Refresh(ctx)
}

func (b *Board) SetFilter(f StatusFilter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter = f
}

func (b *Board) Branch() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.branch
}

func (b *Board) LastUpdate() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUpdate
}

func (b *Board) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// Zones returns the zone list under the current status filter. Filtering
// is a local predicate; it never re-fetches. A zone passes when any of its
// bookings matches the filtered status.
func (b *Board) Zones() []domain.ZoneWithBookings {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.ZoneWithBookings, 0, len(b.zones))
	for _, z := range b.zones {
		if b.filter == FilterAll || zoneHasStatus(z, domain.BookingStatus(b.filter)) {
			out = append(out, z)
		}
	}
	return out
}

func zoneHasStatus(z domain.ZoneWithBookings, status domain.BookingStatus) bool {
	for _, bk := range z.Bookings {
		if bk.Status == status {
			return true
		}
	}
	return false
}

// Summary mirrors the board footer counters.
func (b *Board) Summary() Summary {
	b.mu.Lock()
	defer b.mu.Unlock()

	var s Summary
	for _, z := range b.zones {
		switch {
		case zoneHasStatus(z, domain.BookingActive):
			s.Active++
		case zoneHasStatus(z, domain.BookingPending):
			s.Pending++
		}
		if len(z.Bookings) == 0 {
			s.Free++
		}
	}
	return s
}

// EndingSoonZones reports which zones should blink the "happy hours ending
// soon" warning: the venue clock is in the last ten minutes of the window
// and the zone has an active booking with the flag set. Transient, derived
// state; callers re-evaluate it on a timer.
func (b *Board) EndingSoonZones() []int64 {
	now := b.cfg.Clock().In(b.cfg.Location)
	if !domain.HappyHoursEndingSoon(now) {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var ids []int64
	for _, z := range b.zones {
		for _, bk := range z.Bookings {
			if bk.Status == domain.BookingActive && bk.HappyHours {
				ids = append(ids, z.ID)
				break
			}
		}
	}
	return ids
}

// Toasts returns pending notifications, dropping expired ones.
func (b *Board) Toasts() []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.cfg.Clock()
	kept := b.toasts[:0]
	for _, t := range b.toasts {
		if now.Sub(t.At) < b.cfg.ToastTTL {
			kept = append(kept, t)
		}
	}
	b.toasts = kept

	out := make([]Toast, len(b.toasts))
	copy(out, b.toasts)
	return out
}

func (b *Board) addToastLocked(kind ToastKind, message string) {
	b.toasts = append(b.toasts, Toast{
		ID:      uuid.NewString(),
		Message: message,
		Kind:    kind,
		At:      b.cfg.Clock(),
	})
}

func (b *Board) addToast(kind ToastKind, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.addToastLocked(kind, message)
}
