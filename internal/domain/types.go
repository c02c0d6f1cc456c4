package domain

import "time"

type BookingStatus string

const (
	BookingPending BookingStatus = "pending"
	BookingActive  BookingStatus = "active"
)

// CompletionType labels how a booking ended. Both variants remove the
// booking and flag the zone for cleaning; the label itself is not persisted.
type CompletionType string

const (
	CompletionCompleted CompletionType = "completed"
	CompletionNoShow    CompletionType = "no_show"
)

const (
	BranchMoskovskoe = "Московское ш."
	BranchPolevaya   = "Полевая"
)

// Branches is the fixed set of venue locations.
var Branches = []string{BranchMoskovskoe, BranchPolevaya}

type Zone struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Capacity      int       `json:"capacity"`
	IsVip         bool      `json:"isVip"`
	Branch        string    `json:"branch"`
	NeedsCleaning bool      `json:"needsCleaning"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Booking struct {
	ID         int64         `json:"id"`
	ZoneID     int64         `json:"zoneId"`
	ZoneName   string        `json:"zone"`
	Branch     string        `json:"branch"`
	Time       string        `json:"time"` // "HH:MM"
	Name       string        `json:"name"`
	Guests     int           `json:"guests"`
	Phone      string        `json:"phone"`
	Status     BookingStatus `json:"status"`
	HappyHours bool          `json:"happyHours"`
	Comment    string        `json:"comment"`
	VR         bool          `json:"vr"`
	Hookah     bool          `json:"hookah"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// ZoneWithBookings is a board card: a zone annotated with its current
// bookings, ordered by zone id in listings. Bookings is never nil on the
// wire; a free zone carries an empty list.
type ZoneWithBookings struct {
	Zone
	Bookings []Booking `json:"bookings"`
}
