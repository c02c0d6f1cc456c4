package board

import (
	"context"
	"errors"
	"time"

	"github.com/kordei/zoneboard/internal/domain"
)

// ErrOutsideHappyHours is returned when toggling the happy-hours flag on
// a booking whose time falls outside the promotional window.
var ErrOutsideHappyHours = errors.New("booking time is outside happy hours")

// Every mutation below follows the same shape: patch local state
// immediately, call the API, then either schedule a delayed authoritative
// reload (success) or reload at once and surface an error toast (failure).

// ChangeStatus toggles a booking between pending and active.
func (b *Board) ChangeStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error {
	b.patchBooking(bookingID, domain.BookingPatch{Status: &status})

	_, err := b.api.UpdateBookingStatus(ctx, bookingID, status)
	return b.settle(ctx, err, "Статус обновлён", "Не удалось изменить статус")
}

// CreateBooking adds a booking to a zone. The optimistic row carries a
// zero id until the reconcile reload replaces it with the server's row.
func (b *Board) CreateBooking(ctx context.Context, zoneID int64, data domain.BookingPatch) error {
	b.mu.Lock()
	branch := b.branch
	var zoneName string
	for i := range b.zones {
		if b.zones[i].ID == zoneID {
			zoneName = b.zones[i].Name
			placeholder := data.Apply(domain.Booking{
				ZoneID:   zoneID,
				ZoneName: zoneName,
				Branch:   branch,
				Status:   domain.BookingPending,
			})
			b.zones[i].Bookings = append(b.zones[i].Bookings, placeholder)
			break
		}
	}
	b.mu.Unlock()

	_, err := b.api.CreateBooking(ctx, zoneID, zoneName, branch, data)
	return b.settle(ctx, err, "Бронь создана", "Не удалось сохранить бронь")
}

// UpdateBooking applies a partial edit.
func (b *Board) UpdateBooking(ctx context.Context, bookingID int64, data domain.BookingPatch) error {
	b.patchBooking(bookingID, data)

	_, err := b.api.UpdateBooking(ctx, bookingID, data)
	return b.settle(ctx, err, "Бронь обновлена", "Не удалось сохранить бронь")
}

// ToggleHappyHours flips the persisted happy-hours flag. Enabling is only
// allowed while the booking's time is inside the promotional window.
func (b *Board) ToggleHappyHours(ctx context.Context, bookingID int64, enabled bool) error {
	if enabled {
		if bk, _ := b.findBooking(bookingID); bk != nil && !domain.InHappyHours(bk.Time) {
			b.addToast(ToastError, "Время брони вне счастливых часов")
			return ErrOutsideHappyHours
		}
	}

	b.patchBooking(bookingID, domain.BookingPatch{HappyHours: &enabled})

	_, err := b.api.UpdateBooking(ctx, bookingID, domain.BookingPatch{HappyHours: &enabled})
	msg := "Счастливые часы отключены"
	if enabled {
		msg = "Счастливые часы активированы"
	}
	return b.settle(ctx, err, msg, "Не удалось обновить статус")
}

// DeleteBooking removes a booking; unless skipCleaningFlag is set the
// owning zone is shown as needing cleaning.
func (b *Board) DeleteBooking(ctx context.Context, bookingID int64, skipCleaningFlag bool) error {
	b.removeBooking(bookingID, !skipCleaningFlag)

	err := b.api.DeleteBooking(ctx, bookingID, skipCleaningFlag)
	return b.settle(ctx, err, "Бронь удалена", "Не удалось удалить бронь")
}

// CompleteBooking ends a booking as completed or no_show; either way the
// booking disappears and the zone needs cleaning.
func (b *Board) CompleteBooking(ctx context.Context, bookingID int64, completion domain.CompletionType) error {
	b.removeBooking(bookingID, true)

	err := b.api.CompleteBooking(ctx, bookingID, completion)
	msg := "Гость обслужен"
	if completion == domain.CompletionNoShow {
		msg = "Гость не пришёл"
	}
	return b.settle(ctx, err, msg, "Не удалось завершить бронь")
}

// MoveBooking transfers a booking to another zone: an optimistic local
// remove+insert backed by a single update carrying the new zone, so a
// failed move can never lose the booking server-side.
func (b *Board) MoveBooking(ctx context.Context, bookingID int64, toZoneID int64) error {
	bk, _ := b.findBooking(bookingID)
	if bk == nil {
		return errors.New("booking not on board")
	}
	moved := *bk

	var toZoneName string
	b.mu.Lock()
	for i := range b.zones {
		if b.zones[i].ID == toZoneID {
			toZoneName = b.zones[i].Name
			moved.ZoneID = toZoneID
			moved.ZoneName = toZoneName
			b.zones[i].Bookings = append(b.zones[i].Bookings, moved)
		}
	}
	b.mu.Unlock()
	b.removeBookingFromZone(bookingID, bk.ZoneID)

	_, err := b.api.UpdateBooking(ctx, bookingID, domain.BookingPatch{
		ZoneID:   &toZoneID,
		ZoneName: &toZoneName,
	})
	return b.settle(ctx, err, "Бронь перенесена", "Не удалось перенести бронь")
}

// ClearAll wipes every booking in the current branch and resets cleaning
// flags.
func (b *Board) ClearAll(ctx context.Context) error {
	b.mu.Lock()
	branch := b.branch
	for i := range b.zones {
		b.zones[i].Bookings = []domain.Booking{}
		b.zones[i].NeedsCleaning = false
	}
	b.mu.Unlock()

	_, err := b.api.ClearAllBookings(ctx, branch)
	return b.settle(ctx, err, "Все брони очищены", "Не удалось очистить брони")
}

// MarkCleaned acknowledges cleaning for a zone.
func (b *Board) MarkCleaned(ctx context.Context, zoneID int64) error {
	b.mu.Lock()
	for i := range b.zones {
		if b.zones[i].ID == zoneID {
			b.zones[i].NeedsCleaning = false
		}
	}
	b.mu.Unlock()

	err := b.api.MarkZoneCleaned(ctx, zoneID)
	return b.settle(ctx, err, "Зона убрана", "Не удалось отметить уборку")
}

// settle finishes a mutation: on success, toast and schedule the delayed
// authoritative reload; on failure, toast and reload immediately so the
// optimistic patch is discarded.
func (b *Board) settle(ctx context.Context, err error, okMsg, failMsg string) error {
	if err != nil {
		b.addToast(ToastError, failMsg)
		if b.logger != nil {
			b.logger.Error("board mutation failed", "error", err)
		}
		_ = b.Refresh(ctx)
		return err
	}

	b.addToast(ToastSuccess, okMsg)
	b.scheduleReconcile(ctx)
	return nil
}

func (b *Board) scheduleReconcile(ctx context.Context) {
	if b.cfg.ReconcileDelay <= 0 {
		_ = b.Refresh(ctx)
		return
	}
	time.AfterFunc(b.cfg.ReconcileDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = b.Refresh(ctx)
	})
}

func (b *Board) patchBooking(bookingID int64, data domain.BookingPatch) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.zones {
		for j := range b.zones[i].Bookings {
			if b.zones[i].Bookings[j].ID == bookingID {
				b.zones[i].Bookings[j] = data.Apply(b.zones[i].Bookings[j])
				return
			}
		}
	}
}

func (b *Board) removeBooking(bookingID int64, flagCleaning bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.zones {
		for j := range b.zones[i].Bookings {
			if b.zones[i].Bookings[j].ID == bookingID {
				b.zones[i].Bookings = append(
					b.zones[i].Bookings[:j],
					b.zones[i].Bookings[j+1:]...,
				)
				if flagCleaning {
					b.zones[i].NeedsCleaning = true
				}
				return
			}
		}
	}
}

func (b *Board) removeBookingFromZone(bookingID, zoneID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.zones {
		if b.zones[i].ID != zoneID {
			continue
		}
		for j := range b.zones[i].Bookings {
			if b.zones[i].Bookings[j].ID == bookingID {
				b.zones[i].Bookings = append(
					b.zones[i].Bookings[:j],
					b.zones[i].Bookings[j+1:]...,
				)
				return
			}
		}
	}
}

func (b *Board) findBooking(bookingID int64) (*domain.Booking, int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.zones {
		for j := range b.zones[i].Bookings {
			if b.zones[i].Bookings[j].ID == bookingID {
				bk := b.zones[i].Bookings[j]
				return &bk, b.zones[i].ID
			}
		}
	}
	return nil, 0
}
