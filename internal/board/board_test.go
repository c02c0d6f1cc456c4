package board

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/kordei/zoneboard/internal/domain"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

// fakeAPI is a function-field stub. Each FetchZones call returns a fresh
// deep copy so the board's in-place optimistic patches never leak back
// into the fixture.
type fakeAPI struct {
	mu sync.Mutex

	fetchErr   error
	serverView []domain.ZoneWithBookings
	fetchCalls int

	createErr error
	updateErr error
	statusErr error
	deleteErr error

	deletes []struct {
		id   int64
		skip bool
	}
	creates []int64 // zone ids
	updates []domain.BookingPatch
	clears  []string
	cleaned []int64
}

func (f *fakeAPI) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

func (f *fakeAPI) FetchZones(ctx context.Context, branch string) ([]domain.ZoneWithBookings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	out := make([]domain.ZoneWithBookings, len(f.serverView))
	for i, z := range f.serverView {
		out[i] = z
		out[i].Bookings = append([]domain.Booking{}, z.Bookings...)
	}
	return out, nil
}

func (f *fakeAPI) CreateBooking(ctx context.Context, zoneID int64, zoneName, branch string, data domain.BookingPatch) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, zoneID)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Booking{ID: 100, ZoneID: zoneID, ZoneName: zoneName, Branch: branch}, nil
}

func (f *fakeAPI) UpdateBooking(ctx context.Context, bookingID int64, data domain.BookingPatch) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, data)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &domain.Booking{ID: bookingID}, nil
}

func (f *fakeAPI) UpdateBookingStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &domain.Booking{ID: bookingID, Status: status}, nil
}

func (f *fakeAPI) DeleteBooking(ctx context.Context, bookingID int64, skipCleaningFlag bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, struct {
		id   int64
		skip bool
	}{bookingID, skipCleaningFlag})
	return f.deleteErr
}

func (f *fakeAPI) CompleteBooking(ctx context.Context, bookingID int64, completion domain.CompletionType) error {
	return nil
}

func (f *fakeAPI) ClearAllBookings(ctx context.Context, branch string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears = append(f.clears, branch)
	return 2, nil
}

func (f *fakeAPI) MarkZoneCleaned(ctx context.Context, zoneID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleaned = append(f.cleaned, zoneID)
	return nil
}

func fixtureZones() []domain.ZoneWithBookings {
	return []domain.ZoneWithBookings{
		{
			Zone: domain.Zone{ID: 1, Name: "Зона 1", Capacity: 6, Branch: domain.BranchMoskovskoe},
			Bookings: []domain.Booking{
				{ID: 10, ZoneID: 1, ZoneName: "Зона 1", Time: "15:00", Name: "Иван", Status: domain.BookingActive, HappyHours: true},
			},
		},
		{
			Zone: domain.Zone{ID: 2, Name: "Зона 2", Capacity: 4, Branch: domain.BranchMoskovskoe},
			Bookings: []domain.Booking{
				{ID: 11, ZoneID: 2, ZoneName: "Зона 2", Time: "20:00", Name: "Пётр", Status: domain.BookingPending},
			},
		},
		{
			Zone:     domain.Zone{ID: 3, Name: "VIP 1", Capacity: 10, IsVip: true, Branch: domain.BranchMoskovskoe},
			Bookings: []domain.Booking{},
		},
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestBoard builds a board with a huge reconcile delay so the delayed
// authoritative reload never fires inside a test; pass delay -1 for a
// synchronous reconcile instead.
func newTestBoard(api API, clock *fakeClock, delay time.Duration) *Board {
	return New(api, Config{
		ReconcileDelay: delay,
		Location:       time.UTC,
		Clock:          clock.Now,
	}, testLogger())
}

func TestBoard_Refresh(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	b := newTestBoard(api, clock, time.Hour)

	assert.NoError(t, b.Refresh(context.Background()))

	zones := b.Zones()
	assert.Len(t, zones, 3)
	assert.Equal(t, "Иван", zones[0].Bookings[0].Name)
	assert.Equal(t, clock.Now(), b.LastUpdate())
	assert.False(t, b.Loading())
}

func TestBoard_Refresh_ErrorKeepsPreviousState(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)

	assert.NoError(t, b.Refresh(context.Background()))

	api.fetchErr = errors.New("connection refused")
	assert.Error(t, b.Refresh(context.Background()))

	assert.Len(t, b.Zones(), 3, "stale board beats an empty one")

	toasts := b.Toasts()
	assert.Len(t, toasts, 1)
	assert.Equal(t, ToastError, toasts[0].Kind)
	assert.Equal(t, "Ошибка связи с сервером", toasts[0].Message)
}

func TestBoard_StatusFilter(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	b.SetFilter(FilterActive)
	zones := b.Zones()
	assert.Len(t, zones, 1)
	assert.Equal(t, int64(1), zones[0].ID)

	b.SetFilter(FilterPending)
	zones = b.Zones()
	assert.Len(t, zones, 1)
	assert.Equal(t, int64(2), zones[0].ID)

	b.SetFilter(FilterAll)
	assert.Len(t, b.Zones(), 3)
}

func TestBoard_ChangeStatus_OptimisticPatch(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	assert.NoError(t, b.ChangeStatus(context.Background(), 11, domain.BookingActive))

	// the patch lands before the reconcile reload does
	zones := b.Zones()
	assert.Equal(t, domain.BookingActive, zones[1].Bookings[0].Status)
	assert.Equal(t, 1, api.fetchCalls, "no reload before the reconcile delay elapses")

	toasts := b.Toasts()
	assert.Len(t, toasts, 1)
	assert.Equal(t, ToastSuccess, toasts[0].Kind)
}

func TestBoard_FailedMutationReloadsImmediately(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones(), statusErr: errors.New("boom")}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	err := b.ChangeStatus(context.Background(), 11, domain.BookingActive)
	assert.Error(t, err)

	// the immediate reload discards the optimistic patch
	zones := b.Zones()
	assert.Equal(t, domain.BookingPending, zones[1].Bookings[0].Status)
	assert.Equal(t, 2, api.fetchCalls)

	toasts := b.Toasts()
	assert.Len(t, toasts, 1)
	assert.Equal(t, ToastError, toasts[0].Kind)
}

func TestBoard_CreateBooking_Placeholder(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	err := b.CreateBooking(context.Background(), 3, domain.BookingPatch{
		Time: ptr("16:00"), Name: ptr("Анна"), Guests: ptr(4),
	})
	assert.NoError(t, err)

	zones := b.Zones()
	assert.Len(t, zones[2].Bookings, 1)
	placeholder := zones[2].Bookings[0]
	assert.Zero(t, placeholder.ID, "placeholder has no server id yet")
	assert.Equal(t, "Анна", placeholder.Name)
	assert.Equal(t, "VIP 1", placeholder.ZoneName)
	assert.Equal(t, domain.BranchMoskovskoe, placeholder.Branch)
	assert.Equal(t, domain.BookingPending, placeholder.Status)
	assert.Equal(t, []int64{3}, api.creates)
}

func TestBoard_DeleteBooking_FlagsCleaning(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	assert.NoError(t, b.DeleteBooking(context.Background(), 10, false))

	zones := b.Zones()
	assert.Empty(t, zones[0].Bookings)
	assert.True(t, zones[0].NeedsCleaning)
	assert.Equal(t, int64(10), api.deletes[0].id)
	assert.False(t, api.deletes[0].skip)
}

func TestBoard_DeleteBooking_SkipCleaning(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	assert.NoError(t, b.DeleteBooking(context.Background(), 10, true))

	zones := b.Zones()
	assert.Empty(t, zones[0].Bookings)
	assert.False(t, zones[0].NeedsCleaning)
	assert.True(t, api.deletes[0].skip)
}

func TestBoard_CompleteBooking(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	assert.NoError(t, b.CompleteBooking(context.Background(), 10, domain.CompletionNoShow))

	zones := b.Zones()
	assert.Empty(t, zones[0].Bookings)
	assert.True(t, zones[0].NeedsCleaning)

	toasts := b.Toasts()
	assert.Equal(t, "Гость не пришёл", toasts[0].Message)
}

func TestBoard_MoveBooking(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	assert.NoError(t, b.MoveBooking(context.Background(), 10, 3))

	zones := b.Zones()
	assert.Empty(t, zones[0].Bookings)
	assert.False(t, zones[0].NeedsCleaning, "a move is not a visit; no cleaning")
	assert.Len(t, zones[2].Bookings, 1)
	assert.Equal(t, "Иван", zones[2].Bookings[0].Name)
	assert.Equal(t, int64(3), zones[2].Bookings[0].ZoneID)

	// server side: one update carrying the new zone, never a delete
	if assert.Len(t, api.updates, 1) {
		assert.Equal(t, int64(3), *api.updates[0].ZoneID)
		assert.Equal(t, "VIP 1", *api.updates[0].ZoneName)
	}
	assert.Empty(t, api.deletes)
	assert.Empty(t, api.creates)
}

func TestBoard_MoveBooking_FailureKeepsBooking(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones(), updateErr: errors.New("boom")}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	assert.Error(t, b.MoveBooking(context.Background(), 10, 3))

	// the forced reload restores the booking in its original zone
	zones := b.Zones()
	assert.Len(t, zones[0].Bookings, 1)
	assert.Equal(t, int64(10), zones[0].Bookings[0].ID)
	assert.Empty(t, zones[2].Bookings)
	assert.Empty(t, api.deletes, "a failed move must not remove anything server-side")
}

func TestBoard_ToggleHappyHours_OutsideWindow(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	// booking 11 is at 20:00, outside 14:00-19:00
	err := b.ToggleHappyHours(context.Background(), 11, true)

	assert.ErrorIs(t, err, ErrOutsideHappyHours)
	zones := b.Zones()
	assert.False(t, zones[1].Bookings[0].HappyHours)

	toasts := b.Toasts()
	assert.Equal(t, ToastError, toasts[0].Kind)
}

func TestBoard_ToggleHappyHours_DisableAlwaysAllowed(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	assert.NoError(t, b.ToggleHappyHours(context.Background(), 10, false))

	zones := b.Zones()
	assert.False(t, zones[0].Bookings[0].HappyHours)
}

func TestBoard_ClearAll(t *testing.T) {
	zones := fixtureZones()
	zones[0].NeedsCleaning = true
	api := &fakeAPI{serverView: zones}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	assert.NoError(t, b.ClearAll(context.Background()))

	for _, z := range b.Zones() {
		assert.Empty(t, z.Bookings)
		assert.False(t, z.NeedsCleaning)
	}
	assert.Equal(t, []string{domain.BranchMoskovskoe}, api.clears)
}

func TestBoard_MarkCleaned(t *testing.T) {
	zones := fixtureZones()
	zones[0].NeedsCleaning = true
	api := &fakeAPI{serverView: zones}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	assert.NoError(t, b.MarkCleaned(context.Background(), 1))

	assert.False(t, b.Zones()[0].NeedsCleaning)
	assert.Equal(t, []int64{1}, api.cleaned)
}

func TestBoard_Summary(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	s := b.Summary()
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.Free)
}

func TestBoard_EndingSoonZones(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Date(2025, time.March, 10, 18, 55, 0, 0, time.UTC)}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	// zone 1 has an active happy-hours booking; zone 2 is pending only
	assert.Equal(t, []int64{1}, b.EndingSoonZones())

	clock.Advance(10 * time.Minute) // 19:05, window closed
	assert.Empty(t, b.EndingSoonZones())
}

func TestBoard_ToastsExpire(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	assert.NoError(t, b.ChangeStatus(context.Background(), 10, domain.BookingPending))
	assert.Len(t, b.Toasts(), 1)

	clock.Advance(4 * time.Second) // past the 3s TTL
	assert.Empty(t, b.Toasts())
}

func TestBoard_ManualRefreshToast(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)

	assert.NoError(t, b.ManualRefresh(context.Background()))

	toasts := b.Toasts()
	assert.Len(t, toasts, 1)
	assert.Equal(t, ToastSuccess, toasts[0].Kind)
	assert.Equal(t, "Данные обновлены", toasts[0].Message)
}

func TestBoard_SetBranchReloads(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, time.Hour)
	assert.NoError(t, b.Refresh(context.Background()))

	assert.NoError(t, b.SetBranch(context.Background(), domain.BranchPolevaya))
	assert.Equal(t, domain.BranchPolevaya, b.Branch())
	assert.Equal(t, 2, api.fetchCalls)
}

func TestBoard_RunPollsUntilCancelled(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := New(api, Config{
		PollInterval:   10 * time.Millisecond,
		ReconcileDelay: time.Hour,
		Location:       time.UTC,
		Clock:          clock.Now,
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for api.fetches() < 3 {
		select {
		case <-deadline:
			t.Fatal("poll ticker never reloaded the board")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return on context cancellation")
	}

	settled := api.fetches()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, api.fetches(), "no reloads after Run returned")
	assert.Len(t, b.Zones(), 3)
}

func TestBoard_SynchronousReconcile(t *testing.T) {
	api := &fakeAPI{serverView: fixtureZones()}
	clock := &fakeClock{now: time.Now()}
	b := newTestBoard(api, clock, -1)
	assert.NoError(t, b.Refresh(context.Background()))

	assert.NoError(t, b.ChangeStatus(context.Background(), 11, domain.BookingActive))

	// the reload ran inline and restored the server's view
	assert.Equal(t, 2, api.fetchCalls)
	assert.Equal(t, domain.BookingPending, b.Zones()[1].Bookings[0].Status)
}
